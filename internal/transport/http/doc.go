// Package http contains the HTTP transport layer: chi handlers translating
// dashboard requests into report pipeline calls and pipeline results into
// JSON responses or file downloads.
package http
