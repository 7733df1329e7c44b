// Package http implements the HTTP presentation adapter over the dashboard
// pipeline. Handlers stay thin: parse and validate the filter selection,
// call the service layer, render JSON (or a file download) via chi/render,
// and convert request-level failures to RFC 7807 problem documents.
//
// The pipeline itself cannot fail (an unreachable sheet renders as an empty
// dashboard), so the only error responses here are validation problems and
// panics caught by middleware.
package http
