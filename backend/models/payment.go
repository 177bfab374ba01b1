package models

import "gorm.io/gorm"

// Payment records a Stripe payment intent created for a course purchase.
type Payment struct {
	gorm.Model
	UserID         uint   `gorm:"index" json:"user_id"`
	CourseID       uint   `gorm:"index" json:"course_id"`
	StripeIntentID string `gorm:"type:varchar(100);uniqueIndex" json:"stripe_intent_id"`
	Amount         int64  `json:"amount"` // minor currency units
	Currency       string `gorm:"type:varchar(10);default:'usd'" json:"currency"`
	Status         string `gorm:"type:varchar(20);default:'pending'" json:"status"` // pending, completed, failed
}
