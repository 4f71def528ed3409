// Package server exposes book search over HTTP.
//
// Routes, relative to the configured API prefix:
//
//	GET    /health                 liveness and index readiness
//	GET    /search?q=&level=&base= one-shot ranked search
//	POST   /sessions               start a search session for a page
//	GET    /sessions/:id           current panel state of a session
//	POST   /sessions/:id/input     search input changed
//	POST   /sessions/:id/blur      search input lost focus
//	POST   /sessions/:id/close     close the panel
//	POST   /sessions/:id/page      reader moved to another page
//	DELETE /sessions/:id           end a session
//
// Prometheus metrics are served at /metrics, outside the prefix.
package server
