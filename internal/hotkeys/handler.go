package hotkeys

import (
	"log/slog"

	"github.com/1broseidon/vowin/internal/vo"
)

// Handler runs the callback registered for the action bound to a key.
type Handler struct {
	table   *Table
	actions map[Action]func()
	logger  *slog.Logger
}

// NewHandler creates a handler over table.
func NewHandler(table *Table, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		table:   table,
		actions: make(map[Action]func()),
		logger:  logger,
	}
}

// RegisterFunc sets the callback for an action, replacing any earlier one.
func (h *Handler) RegisterFunc(action Action, callback func()) {
	h.actions[action] = callback
}

// Handle runs the action bound to key and reports whether one ran.
func (h *Handler) Handle(key vo.Key) bool {
	action, ok := h.table.Lookup(key)
	if !ok {
		return false
	}
	callback, ok := h.actions[action]
	if !ok {
		h.logger.Debug("no handler for bound action", "key", key.String(), "action", action)
		return false
	}
	h.logger.Debug("hotkey triggered", "key", key.String(), "action", action)
	callback()
	return true
}
