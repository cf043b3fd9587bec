// Package app wires configuration, logging, metrics, the dashboard service
// and the HTTP router together, and owns the server lifecycle from startup
// to graceful shutdown.
package app
