// internal/domain/cart/store.go
package cart

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ListRequest represents cart list query parameters
type ListRequest struct {
	Page    int   `form:"page"`
	Limit   int   `form:"limit"`
	OptedIn *bool `form:"opted_in"`
}

// ListResponse represents a paginated cart list
type ListResponse struct {
	Carts      []AnonymousCart `json:"carts"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
}

// Store is the persistence boundary for anonymous carts. Every call round
// trips to storage; there is no caching layer in front of it.
type Store interface {
	// Upsert creates the cart if absent, otherwise replaces items and
	// totals wholesale. Opt-in fields are never touched on this path.
	Upsert(ctx context.Context, c *AnonymousCart) (*AnonymousCart, error)

	// Get returns the cart for cartID or ErrCartNotFound.
	Get(ctx context.Context, cartID string) (*AnonymousCart, error)

	// List returns carts sorted by updated_at descending.
	List(ctx context.Context, req *ListRequest) (*ListResponse, error)

	// Delete removes the cart or returns ErrCartNotFound.
	Delete(ctx context.Context, cartID string) error

	// SetContactInfo stores contact details and flips the cart into the
	// opted-in state: has_opted_in=true, opt_in_date=now,
	// reminder_sent=false regardless of its prior value.
	SetContactInfo(ctx context.Context, cartID string, info ContactInfo) (*AnonymousCart, error)

	// ListReminderCandidates returns opted-in carts whose reminder has not
	// been sent and that were last updated before the given time.
	ListReminderCandidates(ctx context.Context, updatedBefore time.Time) ([]*AnonymousCart, error)

	// MarkReminderSent sets reminder_sent=true. The update is conditional
	// on reminder_sent still being false; ErrCartNotFound is returned when
	// no eligible row matched, so concurrent sweeps send at most once.
	MarkReminderSent(ctx context.Context, cartID string) error

	// DeleteStale purges carts not updated since the given time and
	// returns the number of rows removed.
	DeleteStale(ctx context.Context, updatedBefore time.Time) (int64, error)
}

type gormStore struct {
	db *gorm.DB
}

// NewStore creates a Postgres-backed cart store
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Upsert(ctx context.Context, c *AnonymousCart) (*AnonymousCart, error) {
	// Atomic single-row upsert keyed on cart_id. Concurrent snapshots for
	// the same cart serialize at the database; last write wins.
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "cart_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"user_id", "items", "total_items", "total_price", "updated_at"}),
	}).Create(c).Error
	if err != nil {
		return nil, storageErr("upsert", err)
	}

	return s.Get(ctx, c.CartID)
}

func (s *gormStore) Get(ctx context.Context, cartID string) (*AnonymousCart, error) {
	var c AnonymousCart
	err := s.db.WithContext(ctx).Where("cart_id = ?", cartID).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCartNotFound
	}
	if err != nil {
		return nil, storageErr("get", err)
	}
	return &c, nil
}

func (s *gormStore) List(ctx context.Context, req *ListRequest) (*ListResponse, error) {
	query := s.db.WithContext(ctx).Model(&AnonymousCart{})
	if req.OptedIn != nil {
		query = query.Where("has_opted_in = ?", *req.OptedIn)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, storageErr("list", err)
	}

	var carts []AnonymousCart
	offset := (req.Page - 1) * req.Limit
	err := query.Order("updated_at DESC").Offset(offset).Limit(req.Limit).Find(&carts).Error
	if err != nil {
		return nil, storageErr("list", err)
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))

	return &ListResponse{
		Carts:      carts,
		Total:      total,
		Page:       req.Page,
		Limit:      req.Limit,
		TotalPages: totalPages,
	}, nil
}

func (s *gormStore) Delete(ctx context.Context, cartID string) error {
	result := s.db.WithContext(ctx).Where("cart_id = ?", cartID).Delete(&AnonymousCart{})
	if result.Error != nil {
		return storageErr("delete", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCartNotFound
	}
	return nil
}

func (s *gormStore) SetContactInfo(ctx context.Context, cartID string, info ContactInfo) (*AnonymousCart, error) {
	now := time.Now().UTC()
	result := s.db.WithContext(ctx).Model(&AnonymousCart{}).
		Where("cart_id = ?", cartID).
		Select("contact_info", "has_opted_in", "opt_in_date", "reminder_sent").
		Updates(&AnonymousCart{
			ContactInfo:  &info,
			HasOptedIn:   true,
			OptInDate:    &now,
			ReminderSent: false,
		})
	if result.Error != nil {
		return nil, storageErr("set contact info", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrCartNotFound
	}

	return s.Get(ctx, cartID)
}

func (s *gormStore) ListReminderCandidates(ctx context.Context, updatedBefore time.Time) ([]*AnonymousCart, error) {
	var carts []*AnonymousCart
	err := s.db.WithContext(ctx).
		Where("has_opted_in = ? AND reminder_sent = ? AND updated_at < ?", true, false, updatedBefore).
		Order("updated_at ASC").
		Find(&carts).Error
	if err != nil {
		return nil, storageErr("list reminder candidates", err)
	}
	return carts, nil
}

func (s *gormStore) MarkReminderSent(ctx context.Context, cartID string) error {
	result := s.db.WithContext(ctx).Model(&AnonymousCart{}).
		Where("cart_id = ? AND has_opted_in = ? AND reminder_sent = ?", cartID, true, false).
		Update("reminder_sent", true)
	if result.Error != nil {
		return storageErr("mark reminder sent", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCartNotFound
	}
	return nil
}

func (s *gormStore) DeleteStale(ctx context.Context, updatedBefore time.Time) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("updated_at < ?", updatedBefore).
		Delete(&AnonymousCart{})
	if result.Error != nil {
		return 0, storageErr("delete stale", result.Error)
	}
	return result.RowsAffected, nil
}
