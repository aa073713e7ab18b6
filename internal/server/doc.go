// Package server provides the HTTP surfaces of the serve mode: health
// endpoints reflecting the state of the most recent sync run, and a
// dedicated Prometheus metrics server.
package server
