package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	PaymentStatusUnpaid = "unpaid"
	PaymentStatusPaid   = "paid"

	RiderStatusPending = "pending"
	RiderStatusActive  = "active"

	DefaultUserRole = "user"
)

func init() {
	// amounts are JSON numbers on the wire
	decimal.MarshalJSONWithoutQuotes = true
}

type Parcel struct {
	ID              string         `gorm:"primaryKey;size:36;not null"`
	SenderEmail     string         `gorm:"size:255;index"` // copy of sender.user_email for filtering
	Sender          map[string]any `gorm:"serializer:json"`
	Details         map[string]any `gorm:"serializer:json"` // free-form shipment fields
	PaymentStatus   string         `gorm:"size:16;index;not null;default:unpaid"` // unpaid, paid
	DeliveryStatus  string         `gorm:"size:32"`
	PaidAt          *time.Time
	PaymentIntentID *string `gorm:"size:255;index"`
	Version         int     `gorm:"not null;default:0"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type Payment struct {
	ID              string          `gorm:"primaryKey;size:36;not null" json:"_id"`
	PaymentIntentID string          `gorm:"size:255;uniqueIndex;not null" json:"paymentIntentId"` // gateway intent id
	ParcelID        string          `gorm:"size:36;index;not null" json:"parcelId"`
	Amount          decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Currency        string          `gorm:"size:8;not null" json:"currency"`
	Email           string          `gorm:"size:255;index;not null" json:"email"` // payer
	PaymentMethod   string          `gorm:"size:32" json:"paymentMethod"`
	Status          string          `gorm:"size:32" json:"status"`
	CreatedAt       time.Time       `json:"createdAt"`
}

type Rider struct {
	ID        string         `gorm:"primaryKey;size:36;not null"`
	Name      string         `gorm:"size:255"`
	Email     string         `gorm:"size:255;index"`
	Phone     string         `gorm:"size:32"`
	Region    string         `gorm:"size:64"`
	District  string         `gorm:"size:64"`
	Details   map[string]any `gorm:"serializer:json"`
	Status    string         `gorm:"size:32;index;not null"` // pending, active, ...
	CreatedAt time.Time
	UpdatedAt time.Time
}

type User struct {
	ID           string     `gorm:"primaryKey;size:36;not null" json:"_id"`
	Email        string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Name         string     `gorm:"size:255" json:"name"`
	Role         string     `gorm:"size:32;not null;default:user" json:"role"`
	CreatedAt    time.Time  `json:"createdAt"`
	LastLoggedIn *time.Time `json:"lastLoggedIn,omitempty"`
}

// ID assignment happens in the store so callers never choose identifiers.
// Ids are UUIDv7, monotonic within the process, so ordering by id is
// insertion order even when timestamps tie.

func newID(id *string) error {
	if *id != "" {
		return nil
	}
	v7, err := uuid.NewV7()
	if err != nil {
		return err
	}
	*id = v7.String()
	return nil
}

func (p *Parcel) BeforeCreate(tx *gorm.DB) error {
	return newID(&p.ID)
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	return newID(&p.ID)
}

func (r *Rider) BeforeCreate(tx *gorm.DB) error {
	return newID(&r.ID)
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	return newID(&u.ID)
}

// AllModels lists every table for AutoMigrate.
func AllModels() []any {
	return []any{
		&Parcel{},
		&Payment{},
		&Rider{},
		&User{},
	}
}

// ValidID reports whether id is a canonical store identifier.
func ValidID(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}
