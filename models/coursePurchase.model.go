package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	PurchaseStatusPending   = "PENDING"
	PurchaseStatusCompleted = "COMPLETED"
	PurchaseStatusFailed    = "FAILED"
)

// CoursePurchase tracks a checkout attempt for a course. Created PENDING when
// the checkout session is initiated and flipped to COMPLETED by the verified
// gateway webhook. PaymentID holds the gateway's session id and is the join
// key between the checkout request and the asynchronous webhook.
type CoursePurchase struct {
	gorm.Model
	UserID        uint    `json:"user_id" gorm:"index;not null"`
	CourseID      uint    `json:"course_id" gorm:"index;not null"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency" gorm:"default:'inr'"`
	Status        string  `json:"status" gorm:"default:'PENDING';index"` // PENDING, COMPLETED, FAILED
	PaymentMethod string  `json:"payment_method" gorm:"default:'card'"`
	PaymentID     string  `json:"payment_id" gorm:"index"` // gateway checkout session id
	OrderRef      string  `json:"order_ref" gorm:"unique"` // locally generated reference sent to the gateway
	IsDeleted     bool    `gorm:"default:false"`
}

// PaymentWebhookEvent stores verified gateway webhook payloads with
// deduplication metadata. Events whose purchase row has not been written yet
// (webhook racing the checkout request) stay unprocessed here and are replayed
// by the purchase scheduler.
type PaymentWebhookEvent struct {
	gorm.Model
	ProviderEventID string         `json:"provider_event_id" gorm:"unique;not null"`
	EventType       string         `json:"event_type" gorm:"index"`
	Payload         datatypes.JSON `json:"payload"`
	ProcessedAt     *time.Time     `json:"processed_at" gorm:"index"`
	ProcessingError string         `json:"processing_error"`
}
