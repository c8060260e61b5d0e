package order

import (
	"testing"
	"time"

	"github.com/icepoint/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustItem(t *testing.T, productID int64, qty int, price string) Item {
	t.Helper()
	d, err := decimal.NewFromString(price)
	require.NoError(t, err)
	item, err := NewItem(productID, qty, d)
	require.NoError(t, err)
	return *item
}

func TestNewItem(t *testing.T) {
	t.Run("freezes the unit price", func(t *testing.T) {
		item, err := NewItem(1, 2, decimal.NewFromFloat(5.00))
		require.NoError(t, err)
		assert.True(t, item.UnitPrice.Equal(decimal.NewFromFloat(5.00)))
		assert.True(t, item.Subtotal().Equal(decimal.NewFromFloat(10.00)))
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		_, err := NewItem(1, 0, decimal.NewFromInt(5))
		assert.Error(t, err)

		_, err = NewItem(1, -3, decimal.NewFromInt(5))
		assert.Error(t, err)
	})

	t.Run("rejects negative price", func(t *testing.T) {
		_, err := NewItem(1, 1, decimal.NewFromInt(-1))
		assert.Error(t, err)
	})
}

func TestOrder_ReplaceItems(t *testing.T) {
	t.Run("replaces the whole set and recomputes totals", func(t *testing.T) {
		o := NewPendingOrder("user-1")
		require.NoError(t, o.ReplaceItems([]Item{mustItem(t, 1, 2, "5.00")}))

		assert.Len(t, o.Items, 1)
		assert.True(t, o.Subtotal.Equal(decimal.NewFromFloat(10.00)))
		assert.True(t, o.Total.Equal(decimal.NewFromFloat(10.00)))

		require.NoError(t, o.ReplaceItems([]Item{mustItem(t, 2, 1, "3.50")}))
		assert.Len(t, o.Items, 1)
		assert.EqualValues(t, 2, o.Items[0].ProductID)
		assert.True(t, o.Subtotal.Equal(decimal.NewFromFloat(3.50)))
	})

	t.Run("merges duplicate products by summing quantities", func(t *testing.T) {
		o := NewPendingOrder("user-1")
		require.NoError(t, o.ReplaceItems([]Item{
			mustItem(t, 7, 2, "4.00"),
			mustItem(t, 7, 3, "4.00"),
			mustItem(t, 8, 1, "6.00"),
		}))

		assert.Len(t, o.Items, 2)
		assert.Equal(t, 5, o.Items[0].Quantity)
		assert.True(t, o.Subtotal.Equal(decimal.NewFromFloat(26.00)))
	})

	t.Run("empty set zeroes the subtotal", func(t *testing.T) {
		o := NewPendingOrder("user-1")
		require.NoError(t, o.ReplaceItems([]Item{mustItem(t, 1, 1, "9.99")}))
		require.NoError(t, o.ReplaceItems(nil))

		assert.Empty(t, o.Items)
		assert.True(t, o.Subtotal.IsZero())
		assert.True(t, o.Total.IsZero())
	})
}

func TestOrder_TotalsInvariant(t *testing.T) {
	o := NewPendingOrder("user-1")
	require.NoError(t, o.ReplaceItems([]Item{mustItem(t, 1, 4, "25.00")}))
	require.NoError(t, o.ApplyCharges(decimal.NewFromInt(20), decimal.NewFromInt(10)))

	// total = subtotal + fee - discount
	assert.True(t, o.Total.Equal(decimal.NewFromInt(110)))

	require.NoError(t, o.ReplaceItems([]Item{mustItem(t, 1, 1, "25.00")}))
	assert.True(t, o.Total.Equal(decimal.NewFromInt(35)))
}

func TestCheckoutStatus(t *testing.T) {
	assert.Equal(t, StatusAwaitingPayment, CheckoutStatus(PaymentOnline))
	assert.Equal(t, StatusConfirmed, CheckoutStatus(PaymentPix))
	assert.Equal(t, StatusConfirmed, CheckoutStatus(PaymentCash))
}

func TestOrder_Finalize(t *testing.T) {
	t.Run("pending order with online payment awaits payment", func(t *testing.T) {
		o := NewPendingOrder("user-1")
		require.NoError(t, o.SetPaymentMethod(PaymentOnline))
		require.NoError(t, o.Finalize())
		assert.Equal(t, StatusAwaitingPayment, o.Status)
		assert.Len(t, o.GetDomainEvents(), 1)
	})

	t.Run("non-pending order cannot be finalized twice", func(t *testing.T) {
		o := NewPendingOrder("user-1")
		require.NoError(t, o.SetPaymentMethod(PaymentPix))
		require.NoError(t, o.Finalize())

		err := o.Finalize()
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeConflict, domainErr.Code)
	})
}

func TestStatus_CanTransitionTo(t *testing.T) {
	cases := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusAwaitingPayment, true},
		{StatusPending, StatusDelivered, false},
		{StatusAwaitingPayment, StatusConfirmed, true},
		{StatusConfirmed, StatusInPreparation, true},
		{StatusInPreparation, StatusOutForDelivery, true},
		{StatusOutForDelivery, StatusDelivered, true},
		{StatusDelivered, StatusCompleted, true},
		{StatusDelivered, StatusCancelled, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusCancelled, false},
		{StatusOutForDelivery, StatusCancelled, true},
	}
	for _, tc := range cases {
		assert.Equalf(t, tc.allowed, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestOrder_Cancel(t *testing.T) {
	newConfirmed := func(t *testing.T) *Order {
		o := NewPendingOrder("user-1")
		require.NoError(t, o.SetPaymentMethod(PaymentCash))
		require.NoError(t, o.Finalize())
		o.ClearDomainEvents()
		return o
	}

	t.Run("cancels with a reason", func(t *testing.T) {
		o := newConfirmed(t)
		require.NoError(t, o.Cancel("customer asked"))
		assert.Equal(t, StatusCancelled, o.Status)
		assert.Equal(t, "customer asked", o.CancelReason)
		assert.Len(t, o.GetDomainEvents(), 1)
	})

	t.Run("requires a reason", func(t *testing.T) {
		o := newConfirmed(t)
		err := o.Cancel("  ")
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeValidation, domainErr.Code)
	})

	t.Run("delivered and completed orders reject cancellation", func(t *testing.T) {
		for _, status := range []Status{StatusDelivered, StatusCompleted} {
			o := newConfirmed(t)
			o.Status = status
			err := o.Cancel("too late")
			require.Error(t, err)
			var domainErr *shared.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, shared.CodeConflict, domainErr.Code)
		}
	})

	t.Run("double cancellation is a conflict", func(t *testing.T) {
		o := newConfirmed(t)
		require.NoError(t, o.Cancel("first"))
		err := o.Cancel("second")
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeConflict, domainErr.Code)
	})
}

func TestOrder_SetPaymentStatus(t *testing.T) {
	o := NewPendingOrder("user-1")
	require.NoError(t, o.SetPaymentStatus(PaymentStatusPaid))
	assert.Equal(t, PaymentStatusPaid, o.PaymentStatus)

	err := o.SetPaymentStatus("REFUNDED")
	assert.Error(t, err)
}

func TestOrder_IsOwnedBy(t *testing.T) {
	o := NewPendingOrder("user-1")
	o.SetCustomerSnapshot("Maria", "Maria@Example.com", "", "", nil)

	assert.True(t, o.IsOwnedBy("user-1", ""))
	assert.True(t, o.IsOwnedBy("someone-else", "maria@example.com"))
	assert.False(t, o.IsOwnedBy("someone-else", "other@example.com"))
	assert.False(t, o.IsOwnedBy("", ""))
}

func TestAddress_Merge(t *testing.T) {
	addr := Address{Street: "Rua A", Number: "10", City: "Uberaba", State: "MG", PostalCode: "38000-000"}
	addr.Merge(Address{Number: "22", Complement: "Fundos"})

	assert.Equal(t, "Rua A", addr.Street)
	assert.Equal(t, "22", addr.Number)
	assert.Equal(t, "Fundos", addr.Complement)
	assert.Equal(t, "Uberaba", addr.City)
}

func TestOrder_Schedule(t *testing.T) {
	o := NewPendingOrder("user-1")
	date := time.Date(2026, 3, 14, 15, 30, 0, 0, time.UTC)
	require.NoError(t, o.Schedule(date, "14:00"))

	require.NotNil(t, o.ScheduledDate)
	assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), *o.ScheduledDate)
	assert.Equal(t, "14:00", o.ScheduledTime)
}
