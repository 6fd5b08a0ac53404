// internal/domain/cart/service_test.go
package cart

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory Store used to exercise the service without a
// database. Semantics mirror the Postgres implementation: wholesale replace
// on upsert, opt-in fields untouched by upsert, conditional reminder mark.
type memStore struct {
	carts map[string]*AnonymousCart
}

func newMemStore() *memStore {
	return &memStore{carts: make(map[string]*AnonymousCart)}
}

func (m *memStore) Upsert(_ context.Context, c *AnonymousCart) (*AnonymousCart, error) {
	now := time.Now().UTC()
	existing, ok := m.carts[c.CartID]
	if !ok {
		stored := *c
		stored.CreatedAt = now
		stored.UpdatedAt = now
		m.carts[c.CartID] = &stored
	} else {
		existing.UserID = c.UserID
		existing.Items = c.Items
		existing.TotalItems = c.TotalItems
		existing.TotalPrice = c.TotalPrice
		existing.UpdatedAt = now
	}
	return m.Get(context.Background(), c.CartID)
}

func (m *memStore) Get(_ context.Context, cartID string) (*AnonymousCart, error) {
	c, ok := m.carts[cartID]
	if !ok {
		return nil, ErrCartNotFound
	}
	copied := *c
	return &copied, nil
}

func (m *memStore) List(_ context.Context, req *ListRequest) (*ListResponse, error) {
	carts := make([]AnonymousCart, 0, len(m.carts))
	for _, c := range m.carts {
		if req.OptedIn != nil && c.HasOptedIn != *req.OptedIn {
			continue
		}
		carts = append(carts, *c)
	}
	return &ListResponse{
		Carts: carts,
		Total: int64(len(carts)),
		Page:  req.Page,
		Limit: req.Limit,
	}, nil
}

func (m *memStore) Delete(_ context.Context, cartID string) error {
	if _, ok := m.carts[cartID]; !ok {
		return ErrCartNotFound
	}
	delete(m.carts, cartID)
	return nil
}

func (m *memStore) SetContactInfo(_ context.Context, cartID string, info ContactInfo) (*AnonymousCart, error) {
	c, ok := m.carts[cartID]
	if !ok {
		return nil, ErrCartNotFound
	}
	now := time.Now().UTC()
	c.ContactInfo = &info
	c.HasOptedIn = true
	c.OptInDate = &now
	c.ReminderSent = false
	copied := *c
	return &copied, nil
}

func (m *memStore) ListReminderCandidates(_ context.Context, updatedBefore time.Time) ([]*AnonymousCart, error) {
	var candidates []*AnonymousCart
	for _, c := range m.carts {
		if c.HasOptedIn && !c.ReminderSent && c.UpdatedAt.Before(updatedBefore) {
			copied := *c
			candidates = append(candidates, &copied)
		}
	}
	return candidates, nil
}

func (m *memStore) MarkReminderSent(_ context.Context, cartID string) error {
	c, ok := m.carts[cartID]
	if !ok || !c.HasOptedIn || c.ReminderSent {
		return ErrCartNotFound
	}
	c.ReminderSent = true
	return nil
}

func (m *memStore) DeleteStale(_ context.Context, updatedBefore time.Time) (int64, error) {
	var removed int64
	for id, c := range m.carts {
		if c.UpdatedAt.Before(updatedBefore) {
			delete(m.carts, id)
			removed++
		}
	}
	return removed, nil
}

func TestReconcileSnapshot_CreatesCart(t *testing.T) {
	service := NewService(newMemStore())

	stored, err := service.ReconcileSnapshot(context.Background(), &SnapshotRequest{
		CartID: "c1",
		Items: []LineItem{
			{ProductID: "p1", Name: "Shirt", Price: 20, Quantity: 2},
		},
		TotalItems: 2,
		TotalPrice: 40,
	})

	require.NoError(t, err)
	assert.Equal(t, "c1", stored.CartID)
	assert.Equal(t, 2, stored.TotalItems)
	assert.Equal(t, 40.0, stored.TotalPrice)
	assert.False(t, stored.HasOptedIn)
	assert.False(t, stored.ReminderSent)
}

func TestReconcileSnapshot_ReplacesWholesale(t *testing.T) {
	service := NewService(newMemStore())
	ctx := context.Background()

	_, err := service.ReconcileSnapshot(ctx, &SnapshotRequest{
		CartID: "c1",
		Items: []LineItem{
			{ProductID: "p1", Name: "Shirt", Price: 20, Quantity: 2},
		},
	})
	require.NoError(t, err)

	stored, err := service.ReconcileSnapshot(ctx, &SnapshotRequest{
		CartID: "c1",
		Items: []LineItem{
			{ProductID: "p2", Name: "Socks", Price: 15, Quantity: 1},
		},
	})
	require.NoError(t, err)

	// Full replace, not merge
	require.Len(t, stored.Items, 1)
	assert.Equal(t, "p2", stored.Items[0].ProductID)
	assert.Equal(t, 1, stored.TotalItems)
	assert.Equal(t, 15.0, stored.TotalPrice)
}

func TestReconcileSnapshot_RecomputesTotals(t *testing.T) {
	service := NewService(newMemStore())

	// Client-sent aggregates are ignored in favor of server-side sums.
	stored, err := service.ReconcileSnapshot(context.Background(), &SnapshotRequest{
		CartID: "c1",
		Items: []LineItem{
			{ProductID: "p1", Price: 20, Quantity: 2},
			{ProductID: "p2", Price: 10, FinalPrice: 8, Quantity: 3},
		},
		TotalItems: 99,
		TotalPrice: 9999,
	})

	require.NoError(t, err)
	assert.Equal(t, 5, stored.TotalItems)
	assert.Equal(t, 64.0, stored.TotalPrice)
}

func TestReconcileSnapshot_RemovedItemsExcludedFromTotals(t *testing.T) {
	service := NewService(newMemStore())

	stored, err := service.ReconcileSnapshot(context.Background(), &SnapshotRequest{
		CartID: "c1",
		Items: []LineItem{
			{ProductID: "p1", Price: 20, Quantity: 2},
			{ProductID: "p2", Price: 10, Quantity: 1, Action: ActionRemove},
		},
	})

	require.NoError(t, err)
	require.Len(t, stored.Items, 2)
	assert.Equal(t, 2, stored.TotalItems)
	assert.Equal(t, 40.0, stored.TotalPrice)
	// The removed line is preserved as advisory metadata.
	assert.Equal(t, ActionRemove, stored.Items[1].Action)
}

func TestReconcileSnapshot_EmptyCartID(t *testing.T) {
	store := newMemStore()
	service := NewService(store)

	_, err := service.ReconcileSnapshot(context.Background(), &SnapshotRequest{
		CartID: "  ",
		Items:  []LineItem{{ProductID: "p1", Quantity: 1}},
	})

	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	assert.Empty(t, store.carts, "no record may be created on validation failure")
}

func TestReconcileSnapshot_MissingProductID(t *testing.T) {
	service := NewService(newMemStore())

	_, err := service.ReconcileSnapshot(context.Background(), &SnapshotRequest{
		CartID: "c1",
		Items:  []LineItem{{Quantity: 1}},
	})

	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}

func TestReconcileSnapshot_InvalidQuantity(t *testing.T) {
	service := NewService(newMemStore())

	_, err := service.ReconcileSnapshot(context.Background(), &SnapshotRequest{
		CartID: "c1",
		Items:  []LineItem{{ProductID: "p1", Quantity: 0}},
	})

	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}

func TestReconcileSnapshot_DefaultsActionToAdd(t *testing.T) {
	service := NewService(newMemStore())

	stored, err := service.ReconcileSnapshot(context.Background(), &SnapshotRequest{
		CartID: "c1",
		Items:  []LineItem{{ProductID: "p1", Price: 5, Quantity: 1}},
	})

	require.NoError(t, err)
	assert.Equal(t, ActionAdd, stored.Items[0].Action)
}

func TestReconcileSnapshot_RejectsUnknownAction(t *testing.T) {
	service := NewService(newMemStore())

	_, err := service.ReconcileSnapshot(context.Background(), &SnapshotRequest{
		CartID: "c1",
		Items:  []LineItem{{ProductID: "p1", Quantity: 1, Action: "increment"}},
	})

	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}

func TestReconcileSnapshot_DoesNotTouchOptInState(t *testing.T) {
	service := NewService(newMemStore())
	ctx := context.Background()

	_, err := service.ReconcileSnapshot(ctx, &SnapshotRequest{
		CartID: "c1",
		Items:  []LineItem{{ProductID: "p1", Price: 5, Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = service.OptIn(ctx, &OptInRequest{CartID: "c1", Email: "a@b.com"})
	require.NoError(t, err)

	// A plain cart update must not reset reminder bookkeeping.
	stored, err := service.ReconcileSnapshot(ctx, &SnapshotRequest{
		CartID: "c1",
		Items:  []LineItem{{ProductID: "p2", Price: 7, Quantity: 2}},
	})
	require.NoError(t, err)
	assert.True(t, stored.HasOptedIn)
	require.NotNil(t, stored.ContactInfo)
	assert.Equal(t, "a@b.com", stored.ContactInfo.Email)
}

func TestOptIn_Success(t *testing.T) {
	service := NewService(newMemStore())
	ctx := context.Background()

	_, err := service.ReconcileSnapshot(ctx, &SnapshotRequest{
		CartID: "c1",
		Items:  []LineItem{{ProductID: "p1", Price: 5, Quantity: 1}},
	})
	require.NoError(t, err)

	stored, err := service.OptIn(ctx, &OptInRequest{
		CartID: "c1",
		Email:  "a@b.com",
		Name:   "Alex",
	})

	require.NoError(t, err)
	assert.True(t, stored.HasOptedIn)
	assert.False(t, stored.ReminderSent)
	assert.NotNil(t, stored.OptInDate)
	require.NotNil(t, stored.ContactInfo)
	assert.Equal(t, "a@b.com", stored.ContactInfo.Email)
	assert.Equal(t, "Alex", stored.ContactInfo.Name)
}

func TestOptIn_ResetsReminderSent(t *testing.T) {
	store := newMemStore()
	service := NewService(store)
	ctx := context.Background()

	_, err := service.ReconcileSnapshot(ctx, &SnapshotRequest{
		CartID: "c1",
		Items:  []LineItem{{ProductID: "p1", Price: 5, Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = service.OptIn(ctx, &OptInRequest{CartID: "c1", Email: "a@b.com"})
	require.NoError(t, err)
	require.NoError(t, store.MarkReminderSent(ctx, "c1"))

	stored, err := service.OptIn(ctx, &OptInRequest{CartID: "c1", Phone: "5551234"})
	require.NoError(t, err)
	assert.False(t, stored.ReminderSent, "a fresh opt-in starts a new reminder cycle")
}

func TestOptIn_RequiresContact(t *testing.T) {
	service := NewService(newMemStore())

	_, err := service.OptIn(context.Background(), &OptInRequest{CartID: "c1"})

	require.Error(t, err)
	assert.True(t, IsValidationError(err), "missing contact must fail before any storage lookup")
}

func TestOptIn_InvalidEmail(t *testing.T) {
	service := NewService(newMemStore())

	_, err := service.OptIn(context.Background(), &OptInRequest{CartID: "c1", Email: "not-an-email"})

	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}

func TestOptIn_CartNotFound(t *testing.T) {
	store := newMemStore()
	service := NewService(store)

	_, err := service.OptIn(context.Background(), &OptInRequest{CartID: "missing", Email: "a@b.com"})

	require.ErrorIs(t, err, ErrCartNotFound)
	assert.Empty(t, store.carts, "opt-in must never create a cart")
}

func TestGetCart_NotFound(t *testing.T) {
	service := NewService(newMemStore())

	_, err := service.GetCart(context.Background(), "unknown-id")

	require.ErrorIs(t, err, ErrCartNotFound)
}

func TestDeleteCart_ThenGetNotFound(t *testing.T) {
	service := NewService(newMemStore())
	ctx := context.Background()

	_, err := service.ReconcileSnapshot(ctx, &SnapshotRequest{
		CartID: "c1",
		Items:  []LineItem{{ProductID: "p1", Price: 5, Quantity: 1}},
	})
	require.NoError(t, err)

	require.NoError(t, service.DeleteCart(ctx, "c1"))

	_, err = service.GetCart(ctx, "c1")
	require.ErrorIs(t, err, ErrCartNotFound)
}

func TestDeleteCart_NotFound(t *testing.T) {
	service := NewService(newMemStore())

	err := service.DeleteCart(context.Background(), "missing")

	require.ErrorIs(t, err, ErrCartNotFound)
}
