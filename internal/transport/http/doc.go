// Package http implements the dashboard's HTTP handlers. Handlers parse and
// validate query parameters, call the services and render JSON with
// go-chi/render. Failures are written as RFC 7807 problem details by the
// shared error handler.
//
// Routes mounted under /api:
//
//	GET  /pages                       page registry
//	GET  /pages/{page}/view           resolved selection, choices and figures
//	GET  /filters/types               product types
//	GET  /filters/companies?type=     companies of a type
//	GET  /filters/versions?company=   versions of a company
//	GET  /records?version=            records of a version
//	GET  /series/rolling              rolling mean of one field
//	GET  /series/comparison           one series per platform
//	GET  /dataset                     paginated preview
//	GET  /dataset/export              CSV or XLSX download
//	POST /dataset/reload              rebuild and publish the dataset
//
// Responses derived from the dataset carry its fingerprint as ETag.
package http
