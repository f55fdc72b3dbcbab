// Package metrics declares the Prometheus collectors of the server.
//
// Collectors are registered on the default registry through promauto and are
// exposed by the HTTP transport on /metrics.
package metrics
