// Package httpapi exposes the recommendation service as a JSON REST API.
//
// Routes:
//
//	GET  /healthz
//	GET  /metrics
//	GET  /api/v1/languages
//	GET  /api/v1/timezones
//	GET  /api/v1/status
//	POST /api/v1/snapshot/reload
//	POST /api/v1/recommend/expertise
//	POST /api/v1/recommend/transfer
//	POST /api/v1/recommend/popularity
//	POST /api/v1/recommend/locality
//
// Every response uses the same envelope:
//
//	{"status": "success", "data": {...}, "metadata": {"timestamp": "...", "query_time_ms": 12}}
//	{"status": "error", "data": null, "metadata": {...}, "error": {"code": "MISSING_TOKEN", "message": "..."}}
package httpapi
