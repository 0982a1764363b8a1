// Package server wires the HTTP router, middleware, and handlers for the
// session multiplexer daemon: a health endpoint for client probes, the
// websocket terminal stream, a session inventory, and Prometheus metrics.
package server
