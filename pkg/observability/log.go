package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a logger at debug level, and failures at
// warn level. It implements all hook interfaces.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log through logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{logger: logger.WithPrefix("events")}
}

// Register installs h for every hook category.
func (h *LogHooks) Register() {
	SetBoardHooks(h)
	SetStoreHooks(h)
	SetHTTPHooks(h)
}

func (h *LogHooks) OnLoad(_ context.Context, tiles, pages int, repaired bool, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("load", "err", err, "took", d)
		return
	}
	h.logger.Debug("load", "tiles", tiles, "pages", pages, "repaired", repaired, "took", d)
}

func (h *LogHooks) OnMutation(_ context.Context, op, tileID string) {
	h.logger.Debug("mutation", "op", op, "tile", tileID)
}

func (h *LogHooks) OnPersist(_ context.Context, what string, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("persist failed", "what", what, "err", err)
		return
	}
	h.logger.Debug("persist", "what", what, "took", d)
}

func (h *LogHooks) OnStoreOp(_ context.Context, backend, op string, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("store", "backend", backend, "op", op, "err", err)
		return
	}
	h.logger.Debug("store", "backend", backend, "op", op, "took", d)
}

func (h *LogHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.logger.Debug("http", "method", method, "route", route, "status", status, "took", d)
}

var (
	_ BoardHooks = (*LogHooks)(nil)
	_ StoreHooks = (*LogHooks)(nil)
	_ HTTPHooks  = (*LogHooks)(nil)
)
