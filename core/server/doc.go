// Package server holds configuration for the HTTP server surface.
//
// The actual Fiber application wiring lives in cmd/start.go; this package only
// carries the settings (port, API key) shared between the server and its
// middleware.
package server
