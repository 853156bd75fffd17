// Package http wires the chi router and HTTP handlers of the service
// surface: pipeline runs, run status, health, and Prometheus metrics.
package http
