package dto

import "github.com/shopspring/decimal"

type InsertedResponse struct {
	InsertedID string `json:"insertedId"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type CreateIntentRequest struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency" validate:"omitempty,alpha,len=3"` // defaults to usd
	ParcelID string          `json:"parcelId"` // optional, forwarded as gateway metadata
}

type CreateIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
	IntentID     string `json:"paymentIntentId"`
}

type RecordPaymentRequest struct {
	ParcelID        string          `json:"parcelId" validate:"required"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency" validate:"omitempty,alpha,len=3"` // defaults to usd
	Email           string          `json:"email" validate:"required,email"`
	PaymentIntentID string          `json:"paymentIntentId" validate:"required"`
	PaymentMethod   string          `json:"paymentMethod"` // defaults to card
	Status          string          `json:"status"`        // defaults to succeeded
}

type UpdatedParcel struct {
	ModifiedCount int `json:"modifiedCount"`
}

type RecordPaymentResponse struct {
	PaymentID     string        `json:"paymentId"`
	UpdatedParcel UpdatedParcel `json:"updatedParcel"`
}

type UpdateRiderRequest struct {
	Status string `json:"status"` // defaults to active
}

type ModifiedResponse struct {
	ModifiedCount int64 `json:"modifiedCount"`
}

type RegisterUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role"` // defaults to user
}
