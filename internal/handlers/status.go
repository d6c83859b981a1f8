package handlers

import (
	"net/http"

	"github.com/dmitrymomot/contactmail/internal"
)

const serverRunning = "El servidor está funcionando correctamente"

// StatusHandler answers the plain-text root probe.
type StatusHandler struct{}

// NewStatusHandler creates a StatusHandler.
func NewStatusHandler() *StatusHandler {
	return &StatusHandler{}
}

// Routes implements internal.Handler.
func (h *StatusHandler) Routes(r internal.Router) {
	r.GET("/", h.index)
}

func (h *StatusHandler) index(c internal.Context) error {
	return c.String(http.StatusOK, serverRunning)
}
