package http

import (
	"github.com/go-call-verify/internal/application/call"
	"github.com/go-call-verify/internal/transport/http/handler"
	appmiddleware "github.com/go-call-verify/internal/transport/http/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// Deps holds everything the router wires into handlers.
type Deps struct {
	Calls       call.Service
	Outcomes    handler.OutcomeReader
	Transcripts handler.TranscriptReader // optional
	// Verifier enables bearer-token auth. Nil leaves every route open, for local development only.
	Verifier appmiddleware.TokenVerifier
	Gatherer prometheus.Gatherer // optional; serves /metrics when set
	Version  string
}
