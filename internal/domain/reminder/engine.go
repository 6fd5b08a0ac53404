// internal/domain/reminder/engine.go
package reminder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/cart-service/internal/config"
	"github.com/your-org/cart-service/internal/domain/cart"
	"github.com/your-org/cart-service/internal/infrastructure/notification"
)

// CartStore is the subset of the cart store the engine needs.
type CartStore interface {
	ListReminderCandidates(ctx context.Context, updatedBefore time.Time) ([]*cart.AnonymousCart, error)
	MarkReminderSent(ctx context.Context, cartID string) error
	DeleteStale(ctx context.Context, updatedBefore time.Time) (int64, error)
}

// Engine periodically scans for abandoned opted-in carts and dispatches a
// one-shot reminder through the configured notification gateways. Gateways
// are injected at construction; there is no process-wide gateway handle.
type Engine struct {
	store  CartStore
	push   notification.Gateway
	email  notification.Gateway
	config *config.Config
	logger *logrus.Logger
}

// NewEngine creates a reminder engine. The email gateway may be nil when no
// SMTP provider is configured; carts reachable only by email are then
// skipped until the next pass.
func NewEngine(store CartStore, push, email notification.Gateway, cfg *config.Config, logger *logrus.Logger) *Engine {
	return &Engine{
		store:  store,
		push:   push,
		email:  email,
		config: cfg,
		logger: logger,
	}
}

// Run executes sweeps at the configured interval until ctx is cancelled.
func (e *Engine) Run(ctx context.Context) {
	ticker := time.NewTicker(e.config.Reminder.ScanInterval)
	defer ticker.Stop()

	e.logger.WithFields(logrus.Fields{
		"scan_interval": e.config.Reminder.ScanInterval,
		"threshold":     e.config.Reminder.Threshold,
		"cart_ttl":      e.config.Reminder.CartTTL,
	}).Info("Reminder engine started")

	for {
		select {
		case <-ctx.Done():
			e.logger.Info("Reminder engine stopped")
			return
		case <-ticker.C:
			if sent, err := e.Sweep(ctx); err != nil {
				e.logger.WithError(err).Error("Reminder sweep failed")
			} else if sent > 0 {
				e.logger.WithField("sent", sent).Info("Reminder sweep completed")
			}

			if purged, err := e.PurgeStale(ctx); err != nil {
				e.logger.WithError(err).Error("Stale cart purge failed")
			} else if purged > 0 {
				e.logger.WithField("purged", purged).Info("Stale carts purged")
			}
		}
	}
}

// Sweep sends a reminder for every eligible cart: opted in, reminder not
// yet sent, and last updated before now minus the abandonment threshold.
// An empty candidate set is a normal no-op. Per-cart delivery failures are
// logged and retried naively on the next pass.
func (e *Engine) Sweep(ctx context.Context) (int, error) {
	cutoff := time.Now().UTC().Add(-e.config.Reminder.Threshold)

	candidates, err := e.store.ListReminderCandidates(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to list reminder candidates: %w", err)
	}

	sent := 0
	for _, c := range candidates {
		if err := e.sendReminder(ctx, c); err != nil {
			e.logger.WithError(err).WithField("cart_id", c.CartID).
				Warn("Reminder delivery failed, will retry next pass")
			continue
		}
		sent++
	}

	return sent, nil
}

// PurgeStale deletes carts whose last update is older than the retention
// window. A zero TTL disables the purge.
func (e *Engine) PurgeStale(ctx context.Context) (int64, error) {
	if e.config.Reminder.CartTTL <= 0 {
		return 0, nil
	}
	cutoff := time.Now().UTC().Add(-e.config.Reminder.CartTTL)
	return e.store.DeleteStale(ctx, cutoff)
}

func (e *Engine) sendReminder(ctx context.Context, c *cart.AnonymousCart) error {
	channel, destination := c.ReminderDestination()
	if destination == "" {
		return fmt.Errorf("cart has no reachable contact channel")
	}

	var gateway notification.Gateway
	switch channel {
	case "push":
		gateway = e.push
	case "email":
		gateway = e.email
	}
	if gateway == nil {
		return fmt.Errorf("no gateway configured for channel %q", channel)
	}

	msg := &notification.Message{
		Destination: destination,
		Title:       "You left something behind!",
		Body:        reminderBody(c),
		Data: map[string]string{
			"type":    "cart_reminder",
			"cart_id": c.CartID,
		},
	}

	sendCtx, cancel := context.WithTimeout(ctx, e.config.Reminder.SendTimeout)
	defer cancel()

	if err := gateway.Send(sendCtx, msg); err != nil {
		return err
	}

	// Conditional update keyed on reminder_sent=false; a concurrent sweep
	// that already marked this cart shows up as ErrCartNotFound.
	if err := e.store.MarkReminderSent(ctx, c.CartID); err != nil {
		if errors.Is(err, cart.ErrCartNotFound) {
			e.logger.WithField("cart_id", c.CartID).
				Debug("Cart already marked or removed after send")
			return nil
		}
		return fmt.Errorf("failed to mark reminder sent: %w", err)
	}

	return nil
}

func reminderBody(c *cart.AnonymousCart) string {
	greeting := "Hi"
	if c.ContactInfo != nil && c.ContactInfo.Name != "" {
		greeting = "Hi " + c.ContactInfo.Name
	}

	if c.TotalItems == 1 {
		return fmt.Sprintf("%s, the item in your cart is still waiting for you. Complete your order now!", greeting)
	}
	return fmt.Sprintf("%s, the %d items in your cart are still waiting for you. Complete your order now!", greeting, c.TotalItems)
}
