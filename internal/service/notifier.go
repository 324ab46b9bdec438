package service

import (
	"context"
	"log/slog"

	"go-inventory-ledger/internal/cache"
	"go-inventory-ledger/internal/ws"
)

// Notifier is told about every write that changes what the dashboard shows.
type Notifier interface {
	Changed(ctx context.Context, ev ws.Event)
}

type changeNotifier struct {
	cache *cache.Cache
	hub   *ws.Hub
	log   *slog.Logger
}

// NewNotifier bumps the dashboard cache and broadcasts ev to websocket
// clients. Both cache and hub may be nil.
func NewNotifier(c *cache.Cache, hub *ws.Hub, logger *slog.Logger) Notifier {
	return &changeNotifier{cache: c, hub: hub, log: logger}
}

func (n *changeNotifier) Changed(ctx context.Context, ev ws.Event) {
	if err := n.cache.Bump(ctx); err != nil {
		n.log.Warn("dashboard cache bump failed", "action", ev.Action, "error", err)
	}
	n.hub.Publish(ev)
}
