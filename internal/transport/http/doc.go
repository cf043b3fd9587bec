// Package http contains the chi HTTP handlers of the dashboard API.
//
// Handlers are thin: they decode the request, call one service method and
// render the result. All error responses go through the central error
// handler, which renders RFC 7807 problem documents.
//
// # Routes
//
//	POST /api/sessions                                    create a session
//	POST /api/sessions/{id}/files                         upload CSV files (multipart)
//	PUT  /api/sessions/{id}/thresholds                    set display thresholds
//	GET  /api/sessions/{id}/thresholds                    current thresholds
//	GET  /api/sessions/{id}/tables/{granularity}          one aggregate table
//	GET  /api/sessions/{id}/tables/{granularity}/export   table download (csv or xlsx)
//	GET  /api/sessions/{id}/spikes                        delivery spike alerts
//	GET  /api/sessions/{id}/summary                       headline metrics
//	GET  /api/health                                      liveness
//	GET  /metrics                                         Prometheus metrics
package http
