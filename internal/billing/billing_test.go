package billing

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStubCreateCustomer(t *testing.T) {
	id, err := NewStub().CreateCustomer(context.Background(), "a@example.com", "A")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(id, "cus_"))
}

func TestStubCreateSubscription(t *testing.T) {
	stub := NewStub()
	sub, err := stub.CreateSubscription(context.Background(), "cus_abc", "price_basic")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(sub.ID, "sub_"))
	assert.Equal(t, "cus_abc", sub.CustomerID)
	assert.Equal(t, "price_basic", sub.PriceID)
	assert.Equal(t, "active", sub.Status)
}
