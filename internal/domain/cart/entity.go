// internal/domain/cart/entity.go
package cart

import (
	"time"
)

// Item action values. "remove" lines are advisory metadata from the
// storefront client and are excluded from server-side totals.
const (
	ActionAdd    = "add"
	ActionRemove = "remove"
)

// ContactInfo holds the contact details captured at opt-in.
// Stored as a JSONB document on the cart row.
type ContactInfo struct {
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Name        string `json:"name,omitempty"`
	DeviceOS    string `json:"device_os,omitempty"`
	DeviceModel string `json:"device_model,omitempty"`
	PushToken   string `json:"push_token,omitempty"`
}

// LineItem is a single line of a client-submitted cart snapshot.
type LineItem struct {
	ProductID     string  `json:"product_id"`
	Name          string  `json:"name,omitempty"`
	Price         float64 `json:"price,omitempty"`
	OriginalPrice float64 `json:"original_price,omitempty"`
	FinalPrice    float64 `json:"final_price,omitempty"`
	Discount      float64 `json:"discount,omitempty"`
	Quantity      int     `json:"quantity"`
	Image         string  `json:"image,omitempty"`
	InStock       *bool   `json:"in_stock,omitempty"`
	Color         string  `json:"color,omitempty"`
	Size          string  `json:"size,omitempty"`
	VariantID     string  `json:"variant_id,omitempty"`
	Action        string  `json:"action,omitempty"`
}

// UnitPrice returns the price used for total calculation. Clients that
// apply discounts send the discounted amount as final_price.
func (i LineItem) UnitPrice() float64 {
	if i.FinalPrice > 0 {
		return i.FinalPrice
	}
	return i.Price
}

// AnonymousCart represents a pre-login shopping cart keyed by a
// client-generated cart ID
type AnonymousCart struct {
	ID           uint         `gorm:"primaryKey" json:"-"`
	CartID       string       `gorm:"uniqueIndex;not null;size:128" json:"cart_id"`
	UserID       *string      `gorm:"index;size:64" json:"user_id,omitempty"`
	ContactInfo  *ContactInfo `gorm:"type:jsonb;serializer:json" json:"contact_info,omitempty"`
	Items        []LineItem   `gorm:"type:jsonb;serializer:json" json:"items"`
	TotalItems   int          `gorm:"not null;default:0" json:"total_items"`
	TotalPrice   float64      `gorm:"not null;default:0" json:"total_price"`
	HasOptedIn   bool         `gorm:"not null;default:false;index:idx_anonymous_carts_reminder,priority:1" json:"has_opted_in"`
	OptInDate    *time.Time   `json:"opt_in_date,omitempty"`
	ReminderSent bool         `gorm:"not null;default:false;index:idx_anonymous_carts_reminder,priority:2" json:"reminder_sent"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `gorm:"index" json:"updated_at"`
}

// TableName overrides the table name
func (AnonymousCart) TableName() string {
	return "anonymous_carts"
}

// ReminderDestination returns the preferred delivery channel for an
// abandoned-cart reminder: push token first, email as fallback.
func (c *AnonymousCart) ReminderDestination() (channel, destination string) {
	if c.ContactInfo == nil {
		return "", ""
	}
	if c.ContactInfo.PushToken != "" {
		return "push", c.ContactInfo.PushToken
	}
	if c.ContactInfo.Email != "" {
		return "email", c.ContactInfo.Email
	}
	return "", ""
}
