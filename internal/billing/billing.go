// Package billing abstracts the payment provider used for paid plans.
package billing

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// Subscription is the provider's view of a recurring plan.
type Subscription struct {
	ID         string
	CustomerID string
	PriceID    string
	Status     string
}

// Provider creates customers and subscriptions with the payment backend.
type Provider interface {
	CreateCustomer(ctx context.Context, email, name string) (string, error)
	CreateSubscription(ctx context.Context, customerID, priceID string) (Subscription, error)
}

// Stub is an in-process Provider for environments without payment
// credentials. IDs follow the provider's naming so downstream code
// behaves the same either way.
type Stub struct{}

func NewStub() *Stub { return &Stub{} }

func (s *Stub) CreateCustomer(ctx context.Context, email, name string) (string, error) {
	return "cus_" + shortID(), nil
}

func (s *Stub) CreateSubscription(ctx context.Context, customerID, priceID string) (Subscription, error) {
	return Subscription{
		ID:         "sub_" + shortID(),
		CustomerID: customerID,
		PriceID:    priceID,
		Status:     "active",
	}, nil
}

func shortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:14]
}
