package handlers

import (
	"database/sql"

	"go.uber.org/zap"

	"linkmark/internal/monitoring"
	"linkmark/internal/password"
	"linkmark/internal/token"
)

// Handler carries the dependencies shared by all request handlers.
// Everything is injected at startup; there is no package-level state.
type Handler struct {
	db            *sql.DB
	log           *zap.Logger
	tokens        *token.Service
	policy        password.Policy
	monitor       *monitoring.Service
	monitoringKey string
}

func New(
	db *sql.DB,
	log *zap.Logger,
	tokens *token.Service,
	policy password.Policy,
	monitor *monitoring.Service,
	monitoringKey string,
) *Handler {
	return &Handler{
		db:            db,
		log:           log,
		tokens:        tokens,
		policy:        policy,
		monitor:       monitor,
		monitoringKey: monitoringKey,
	}
}
