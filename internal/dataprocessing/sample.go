package dataprocessing

// sampleCSV is the embedded sample dataset: one full calendar year of monthly
// sales. It is used whenever no file is supplied or the user opts into it.
const sampleCSV = `month,revenue,prior_year,growth_pct
2024-01,12000000,10500000,14.3
2024-02,13500000,11200000,20.5
2024-03,11000000,12800000,-14.1
2024-04,18000000,15200000,18.4
2024-05,21000000,18500000,13.5
2024-06,19500000,17000000,14.7
2024-07,17500000,16000000,9.4
2024-08,16000000,15000000,6.7
2024-09,15500000,14500000,6.9
2024-10,22000000,20000000,10.0
2024-11,23000000,21000000,9.5
2024-12,24000000,21500000,11.6
`

// SampleCSV returns the embedded sample dataset as raw bytes.
func SampleCSV() []byte {
	return []byte(sampleCSV)
}
