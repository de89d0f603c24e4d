package payments

import (
	"context"
	"math"
	"os"

	stripe "github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"
)

// StripeClient wraps stripe-go for the fare flow: hold the approved bid
// amount when a driver is assigned, capture on completion, release on
// cancellation. Enabled only when STRIPE_API_KEY is set; the ride flow
// never blocks on payment failures.
type StripeClient struct{}

// NewStripeClient initializes the stripe client with the STRIPE_API_KEY env var.
func NewStripeClient() *StripeClient {
	stripe.Key = os.Getenv("STRIPE_API_KEY")
	return &StripeClient{}
}

func Enabled() bool { return os.Getenv("STRIPE_API_KEY") != "" }

// HoldFare creates a PaymentIntent with capture_method=manual for the
// approved bid amount (in BDT, converted to the smallest unit).
// It returns the PaymentIntent ID on success.
func (s *StripeClient) HoldFare(ctx context.Context, amount float64, customerID string) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(int64(math.Round(amount * 100))),
		Currency: stripe.String("bdt"),
	}
	if customerID != "" {
		params.Customer = stripe.String(customerID)
	}
	params.CaptureMethod = stripe.String(string(stripe.PaymentIntentCaptureMethodManual))
	pi, err := paymentintent.New(params)
	if err != nil {
		return "", err
	}
	return pi.ID, nil
}

// CaptureFare finalizes a previously-held PaymentIntent once the ride completes.
func (s *StripeClient) CaptureFare(ctx context.Context, paymentIntentID string) error {
	_, err := paymentintent.Capture(paymentIntentID, nil)
	return err
}

// ReleaseFare cancels the hold when the booking is cancelled.
func (s *StripeClient) ReleaseFare(ctx context.Context, paymentIntentID string) error {
	_, err := paymentintent.Cancel(paymentIntentID, nil)
	return err
}
