package server

import "github.com/poiesic/booksearch/view"

// HealthResponse is the response for GET /health
type HealthResponse struct {
	Status      string `json:"status"`
	Initialized bool   `json:"initialized"`
}

// PageRequest describes the page a session is bound to.
type PageRequest struct {
	URL      string `json:"url"`
	Level    string `json:"level"`
	BasePath string `json:"base"`
}

// InputRequest is the body of POST /sessions/:id/input
type InputRequest struct {
	Text string `json:"text"`
}

// SessionResponse describes a session and its panel.
type SessionResponse struct {
	ID       string        `json:"id"`
	State    string        `json:"state"`
	Query    string        `json:"query"`
	URL      string        `json:"url"`
	Level    string        `json:"level"`
	BasePath string        `json:"base"`
	View     view.Snapshot `json:"view"`
}
