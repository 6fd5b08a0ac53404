// internal/domain/cart/service.go
package cart

import (
	"context"
	"strings"
)

// Service reconciles client cart snapshots into authoritative stored state
// and handles the opt-in path.
type Service struct {
	store Store
}

// NewService creates a new cart service
func NewService(store Store) *Service {
	return &Service{store: store}
}

// SnapshotRequest represents a full client-side cart snapshot
type SnapshotRequest struct {
	CartID     string     `json:"cart_id"`
	UserID     string     `json:"user_id"`
	Items      []LineItem `json:"items"`
	TotalItems int        `json:"total_items"`
	TotalPrice float64    `json:"total_price"`
}

// OptInRequest represents an opt-in submission for an anonymous cart
type OptInRequest struct {
	CartID      string `json:"cart_id"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Name        string `json:"name"`
	DeviceOS    string `json:"device_os"`
	DeviceModel string `json:"device_model"`
	PushToken   string `json:"push_token"`
}

// ReconcileSnapshot validates a snapshot and replaces the stored cart state
// wholesale. The client always sends its full current item list; the server
// does not diff against the previous snapshot. Totals are recomputed from
// the items rather than trusted from the client.
func (s *Service) ReconcileSnapshot(ctx context.Context, req *SnapshotRequest) (*AnonymousCart, error) {
	if strings.TrimSpace(req.CartID) == "" {
		return nil, NewValidationError("cart_id", "cart ID is required")
	}

	items, err := normalizeItems(req.Items)
	if err != nil {
		return nil, err
	}

	totalItems, totalPrice := computeTotals(items)

	c := &AnonymousCart{
		CartID:     req.CartID,
		Items:      items,
		TotalItems: totalItems,
		TotalPrice: totalPrice,
	}
	if req.UserID != "" {
		c.UserID = &req.UserID
	}

	return s.store.Upsert(ctx, c)
}

// OptIn captures contact information against an existing cart. At least one
// of email or phone is required; the opt-in always resets reminder_sent so
// a fresh reminder cycle can begin.
func (s *Service) OptIn(ctx context.Context, req *OptInRequest) (*AnonymousCart, error) {
	if strings.TrimSpace(req.CartID) == "" {
		return nil, NewValidationError("cart_id", "cart ID is required")
	}

	email := strings.TrimSpace(req.Email)
	phone := strings.TrimSpace(req.Phone)
	if email == "" && phone == "" {
		return nil, NewValidationError("contact", "email or phone is required")
	}
	if email != "" && !strings.Contains(email, "@") {
		return nil, NewValidationError("email", "invalid email address")
	}

	info := ContactInfo{
		Email:       email,
		Phone:       phone,
		Name:        strings.TrimSpace(req.Name),
		DeviceOS:    req.DeviceOS,
		DeviceModel: req.DeviceModel,
		PushToken:   req.PushToken,
	}

	return s.store.SetContactInfo(ctx, req.CartID, info)
}

// GetCart retrieves a single cart by its client-generated ID
func (s *Service) GetCart(ctx context.Context, cartID string) (*AnonymousCart, error) {
	if strings.TrimSpace(cartID) == "" {
		return nil, NewValidationError("cart_id", "cart ID is required")
	}
	return s.store.Get(ctx, cartID)
}

// ListCarts returns carts for administrative views, newest activity first
func (s *Service) ListCarts(ctx context.Context, req *ListRequest) (*ListResponse, error) {
	return s.store.List(ctx, req)
}

// DeleteCart removes a cart, e.g. after checkout or on user request
func (s *Service) DeleteCart(ctx context.Context, cartID string) error {
	if strings.TrimSpace(cartID) == "" {
		return NewValidationError("cart_id", "cart ID is required")
	}
	return s.store.Delete(ctx, cartID)
}

// normalizeItems validates line items and applies the default action.
func normalizeItems(items []LineItem) ([]LineItem, error) {
	normalized := make([]LineItem, len(items))
	for i, item := range items {
		if strings.TrimSpace(item.ProductID) == "" {
			return nil, NewValidationError("items", "product ID is required for all items")
		}

		switch item.Action {
		case "":
			item.Action = ActionAdd
		case ActionAdd, ActionRemove:
		default:
			return nil, NewValidationError("items", "action must be 'add' or 'remove'")
		}

		if item.Action == ActionAdd && item.Quantity < 1 {
			return nil, NewValidationError("items", "quantity must be at least 1")
		}

		normalized[i] = item
	}
	return normalized, nil
}

// computeTotals derives server-trusted aggregates from the item list.
// Removed lines are advisory and excluded from the sums.
func computeTotals(items []LineItem) (totalItems int, totalPrice float64) {
	for _, item := range items {
		if item.Action != ActionAdd {
			continue
		}
		totalItems += item.Quantity
		totalPrice += item.UnitPrice() * float64(item.Quantity)
	}
	return totalItems, totalPrice
}
