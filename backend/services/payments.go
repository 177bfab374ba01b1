package services

import (
	"errors"
	"fmt"
	"math"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"

	"learnhub/backend/config"
	"learnhub/backend/models"
)

var ErrPaymentsNotConfigured = errors.New("payments: STRIPE_SECRET_KEY is not set")

type PaymentService struct {
	cfg *config.Config
}

func NewPaymentService(cfg *config.Config) *PaymentService {
	stripe.Key = cfg.StripeSecretKey
	return &PaymentService{cfg: cfg}
}

// CreateIntent creates a Stripe payment intent sized from the course price
// converted to minor currency units.
func (s *PaymentService) CreateIntent(user *models.User, course *models.Course) (*stripe.PaymentIntent, error) {
	if s.cfg.StripeSecretKey == "" {
		return nil, ErrPaymentsNotConfigured
	}

	amount := int64(math.Round(course.Price * 100))
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(string(stripe.CurrencyUSD)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.AddMetadata("course_id", fmt.Sprintf("%d", course.ID))
	params.AddMetadata("course_title", course.Title)
	params.AddMetadata("user_id", fmt.Sprintf("%d", user.ID))

	return paymentintent.New(params)
}
