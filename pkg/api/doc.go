// Package api serves the layout pipeline over HTTP.
//
// # Endpoints
//
//	POST /v1/layout   {"graph": {...}, "options": {...}}  -> layout JSON
//	POST /v1/render   {"graph" | "layout": {...}, "options": {...}} -> artifact
//	GET  /healthz     liveness and build version
//
// Options use the JSON form of [pipeline.Options]. Render responses carry
// the format's Content-Type; layout and render responses report cache hits
// in the X-Cache header.
//
// Errors are JSON objects of the form:
//
//	{"error": {"code": "NON_MONOTONIC_EDGE", "message": "..."}}
//
// with the status chosen by errors.HTTPStatus.
//
// Every response echoes an X-Request-ID header, taken from the request when
// present or generated otherwise. Requests may set X-Flowlayout-Namespace
// to isolate their cache entries from other tenants.
package api
