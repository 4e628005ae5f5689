package order_test

import (
	"testing"

	"grocery/internal/core/domain/model/kernel"
	"grocery/internal/core/domain/model/order"
	"grocery/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustMoney(t *testing.T, display float64) kernel.Money {
	t.Helper()
	m, err := kernel.MoneyFromDisplay(display)
	require.NoError(t, err)
	return m
}

func mustItem(t *testing.T, name string, qty int) order.Item {
	t.Helper()
	item, err := order.NewItem(name, qty, nil, nil)
	require.NoError(t, err)
	return item
}

func mustActor(t *testing.T, id kernel.UUID, role kernel.Role) kernel.Actor {
	t.Helper()
	actor, err := kernel.NewActor(id, role)
	require.NoError(t, err)
	return actor
}

func newTestOrder(t *testing.T, customerID kernel.UUID, policy order.ReceiptPolicy) *order.Order {
	t.Helper()
	o, err := order.NewOrder(
		kernel.NewUUID(),
		customerID,
		[]order.Item{mustItem(t, "Milk", 1)},
		mustMoney(t, 1500),
		policy,
		"12 Hill Road",
	)
	require.NoError(t, err)
	return o
}

func TestNewOrder(t *testing.T) {
	validID := kernel.NewUUID()
	customerID := kernel.NewUUID()
	estimate := func(t *testing.T) kernel.Money { return mustMoney(t, 1500) }

	t.Run("should create valid order with all valid parameters", func(t *testing.T) {
		items := []order.Item{mustItem(t, "Milk", 1)}

		o, err := order.NewOrder(validID, customerID, items, estimate(t), order.PolicyRequired, "12 Hill Road")

		require.NoError(t, err)
		assert.NotNil(t, o)
		require.NoError(t, o.Validate())
		assert.True(t, o.ID().IsEqual(validID))
		assert.True(t, o.CustomerID().IsEqual(customerID))
		assert.Equal(t, order.New, o.Status())
		assert.Equal(t, order.PolicyRequired, o.ReceiptPolicy())
		assert.Nil(t, o.Shopper())
		assert.Nil(t, o.ActualAmount())
		assert.Equal(t, int64(150000), o.EstimateAmount().Minor())
	})

	t.Run("should fail with invalid order ID", func(t *testing.T) {
		var invalidID kernel.UUID

		o, err := order.NewOrder(invalidID, customerID,
			[]order.Item{mustItem(t, "Milk", 1)}, estimate(t), order.PolicyRequired, "12 Hill Road")

		require.Error(t, err)
		assert.Nil(t, o)
		assert.Contains(t, err.Error(), "UUID must be created")
	})

	t.Run("should fail without items", func(t *testing.T) {
		o, err := order.NewOrder(validID, customerID, nil, estimate(t), order.PolicyRequired, "12 Hill Road")

		require.Error(t, err)
		assert.Nil(t, o)
		assert.Contains(t, err.Error(), "order items")
	})

	t.Run("should fail with empty delivery address", func(t *testing.T) {
		o, err := order.NewOrder(validID, customerID,
			[]order.Item{mustItem(t, "Milk", 1)}, estimate(t), order.PolicyRequired, "")

		require.Error(t, err)
		assert.Nil(t, o)
		assert.Contains(t, err.Error(), "delivery address")
	})

	t.Run("should fail with invalid policy", func(t *testing.T) {
		o, err := order.NewOrder(validID, customerID,
			[]order.Item{mustItem(t, "Milk", 1)}, estimate(t), order.PolicyUnknown, "12 Hill Road")

		require.Error(t, err)
		assert.Nil(t, o)
	})

	t.Run("should handle multiple validation errors", func(t *testing.T) {
		var invalidID kernel.UUID

		o, err := order.NewOrder(invalidID, customerID, nil, kernel.Money{}, order.PolicyUnknown, "")

		require.Error(t, err)
		assert.Nil(t, o)
		assert.Contains(t, err.Error(), "UUID must be created")
		assert.Contains(t, err.Error(), "order items")
		assert.Contains(t, err.Error(), "delivery address")
	})
}

func TestOrder_Validate(t *testing.T) {
	t.Run("should fail validation for nil order", func(t *testing.T) {
		var o *order.Order

		err := o.Validate()

		require.Error(t, err)
		assert.Equal(t, order.ErrOrderIsNotConstructed, err)
	})

	t.Run("should fail validation for zero value order", func(t *testing.T) {
		var o order.Order

		err := o.Validate()

		require.Error(t, err)
		assert.Equal(t, order.ErrOrderIsNotConstructed, err)
	})
}

func TestOrder_Claim(t *testing.T) {
	customerID := kernel.NewUUID()
	shopperID := kernel.NewUUID()

	t.Run("should bind shopper and move order to Accepted", func(t *testing.T) {
		o := newTestOrder(t, customerID, order.PolicyRequired)

		err := o.Claim(shopperID)

		require.NoError(t, err)
		assert.Equal(t, order.Accepted, o.Status())
		require.NotNil(t, o.Shopper())
		assert.True(t, o.Shopper().IsEqual(shopperID))
	})

	t.Run("should fail second claim with AlreadyAssigned and not mutate", func(t *testing.T) {
		o := newTestOrder(t, customerID, order.PolicyRequired)
		require.NoError(t, o.Claim(shopperID))

		err := o.Claim(kernel.NewUUID())

		require.ErrorIs(t, err, errs.ErrAlreadyAssigned)
		assert.True(t, o.Shopper().IsEqual(shopperID), "shopper binding must never be overwritten")
		assert.Equal(t, order.Accepted, o.Status())
	})

	t.Run("should fail with invalid shopper ID", func(t *testing.T) {
		o := newTestOrder(t, customerID, order.PolicyRequired)
		var invalidID kernel.UUID

		err := o.Claim(invalidID)

		require.Error(t, err)
		assert.Nil(t, o.Shopper())
		assert.Equal(t, order.New, o.Status())
	})
}

func TestOrder_StartShopping(t *testing.T) {
	customerID := kernel.NewUUID()
	shopperID := kernel.NewUUID()

	t.Run("should move Accepted order to Shopping for the bound shopper", func(t *testing.T) {
		o := newTestOrder(t, customerID, order.PolicyRequired)
		require.NoError(t, o.Claim(shopperID))

		err := o.StartShopping(mustActor(t, shopperID, kernel.RoleShopper))

		require.NoError(t, err)
		assert.Equal(t, order.Shopping, o.Status())
	})

	t.Run("should forbid a different shopper", func(t *testing.T) {
		o := newTestOrder(t, customerID, order.PolicyRequired)
		require.NoError(t, o.Claim(shopperID))

		err := o.StartShopping(mustActor(t, kernel.NewUUID(), kernel.RoleShopper))

		require.ErrorIs(t, err, errs.ErrForbidden)
		assert.Equal(t, order.Accepted, o.Status())
	})

	t.Run("should forbid non-shopper roles", func(t *testing.T) {
		o := newTestOrder(t, customerID, order.PolicyRequired)
		require.NoError(t, o.Claim(shopperID))

		err := o.StartShopping(mustActor(t, shopperID, kernel.RoleAdmin))

		require.ErrorIs(t, err, errs.ErrForbidden)
	})

	t.Run("should fail from New status", func(t *testing.T) {
		o := newTestOrder(t, customerID, order.PolicyRequired)
		// Not claimed: the role guard fires before the status guard,
		// since no shopper can be bound to a New order.
		err := o.StartShopping(mustActor(t, shopperID, kernel.RoleShopper))

		require.Error(t, err)
		assert.Equal(t, order.New, o.Status())
	})
}

func TestOrder_SubmitReceipt(t *testing.T) {
	customerID := kernel.NewUUID()
	shopperID := kernel.NewUUID()

	startShopping := func(t *testing.T, policy order.ReceiptPolicy) *order.Order {
		o := newTestOrder(t, customerID, policy)
		require.NoError(t, o.Claim(shopperID))
		require.NoError(t, o.StartShopping(mustActor(t, shopperID, kernel.RoleShopper)))
		return o
	}

	t.Run("should route to AwaitReceiptOK when review required", func(t *testing.T) {
		o := startShopping(t, order.PolicyRequired)

		err := o.SubmitReceipt(mustActor(t, shopperID, kernel.RoleShopper), mustMoney(t, 1480))

		require.NoError(t, err)
		assert.Equal(t, order.AwaitReceiptOK, o.Status())
		assert.Nil(t, o.ActualAmount(), "actual amount must wait for review")
	})

	t.Run("should auto-approve to Enroute and set actual when review optional", func(t *testing.T) {
		o := startShopping(t, order.PolicyOptional)

		err := o.SubmitReceipt(mustActor(t, shopperID, kernel.RoleShopper), mustMoney(t, 1480))

		require.NoError(t, err)
		assert.Equal(t, order.Enroute, o.Status())
		require.NotNil(t, o.ActualAmount())
		assert.Equal(t, int64(148000), o.ActualAmount().Minor())
	})

	t.Run("should fail outside Shopping status", func(t *testing.T) {
		o := startShopping(t, order.PolicyRequired)
		require.NoError(t, o.SubmitReceipt(mustActor(t, shopperID, kernel.RoleShopper), mustMoney(t, 1480)))

		err := o.SubmitReceipt(mustActor(t, shopperID, kernel.RoleShopper), mustMoney(t, 1480))

		require.ErrorIs(t, err, errs.ErrInvalidTransition)
		assert.Equal(t, order.AwaitReceiptOK, o.Status())
	})
}

func TestOrder_ReviewReceipt(t *testing.T) {
	customerID := kernel.NewUUID()
	shopperID := kernel.NewUUID()

	awaitReview := func(t *testing.T) *order.Order {
		o := newTestOrder(t, customerID, order.PolicyRequired)
		require.NoError(t, o.Claim(shopperID))
		require.NoError(t, o.StartShopping(mustActor(t, shopperID, kernel.RoleShopper)))
		require.NoError(t, o.SubmitReceipt(mustActor(t, shopperID, kernel.RoleShopper), mustMoney(t, 1480)))
		return o
	}

	t.Run("owning customer approve should move order Enroute with actual amount", func(t *testing.T) {
		o := awaitReview(t)

		err := o.ApproveReceipt(mustActor(t, customerID, kernel.RoleCustomer), mustMoney(t, 1450))

		require.NoError(t, err)
		assert.Equal(t, order.Enroute, o.Status())
		require.NotNil(t, o.ActualAmount())
		assert.Equal(t, int64(145000), o.ActualAmount().Minor())
	})

	t.Run("admin may approve any order", func(t *testing.T) {
		o := awaitReview(t)

		err := o.ApproveReceipt(mustActor(t, kernel.NewUUID(), kernel.RoleAdmin), mustMoney(t, 1450))

		require.NoError(t, err)
		assert.Equal(t, order.Enroute, o.Status())
	})

	t.Run("reject should loop order back to Shopping", func(t *testing.T) {
		o := awaitReview(t)

		err := o.RejectReceipt(mustActor(t, customerID, kernel.RoleCustomer))

		require.NoError(t, err)
		assert.Equal(t, order.Shopping, o.Status())
		assert.Nil(t, o.ActualAmount())
	})

	t.Run("a different customer may not review", func(t *testing.T) {
		o := awaitReview(t)

		err := o.ApproveReceipt(mustActor(t, kernel.NewUUID(), kernel.RoleCustomer), mustMoney(t, 1450))

		require.ErrorIs(t, err, errs.ErrForbidden)
		assert.Equal(t, order.AwaitReceiptOK, o.Status())
	})

	t.Run("the shopper may not review their own receipt", func(t *testing.T) {
		o := awaitReview(t)

		err := o.ApproveReceipt(mustActor(t, shopperID, kernel.RoleShopper), mustMoney(t, 1450))

		require.ErrorIs(t, err, errs.ErrForbidden)
	})
}

func TestOrder_CompleteDelivery(t *testing.T) {
	customerID := kernel.NewUUID()
	shopperID := kernel.NewUUID()

	t.Run("bound shopper should complete an Enroute order", func(t *testing.T) {
		o := newTestOrder(t, customerID, order.PolicyOptional)
		require.NoError(t, o.Claim(shopperID))
		require.NoError(t, o.StartShopping(mustActor(t, shopperID, kernel.RoleShopper)))
		require.NoError(t, o.SubmitReceipt(mustActor(t, shopperID, kernel.RoleShopper), mustMoney(t, 1480)))

		err := o.CompleteDelivery(mustActor(t, shopperID, kernel.RoleShopper))

		require.NoError(t, err)
		assert.Equal(t, order.Delivered, o.Status())
		assert.True(t, o.Status().IsTerminal())
	})

	t.Run("should fail before the order is Enroute", func(t *testing.T) {
		o := newTestOrder(t, customerID, order.PolicyRequired)
		require.NoError(t, o.Claim(shopperID))

		err := o.CompleteDelivery(mustActor(t, shopperID, kernel.RoleShopper))

		require.ErrorIs(t, err, errs.ErrInvalidTransition)
		assert.Equal(t, order.Accepted, o.Status())
	})
}

func TestOrder_Cancel(t *testing.T) {
	customerID := kernel.NewUUID()
	shopperID := kernel.NewUUID()

	t.Run("owning customer may cancel a New order", func(t *testing.T) {
		o := newTestOrder(t, customerID, order.PolicyRequired)

		err := o.Cancel(mustActor(t, customerID, kernel.RoleCustomer))

		require.NoError(t, err)
		assert.Equal(t, order.Cancelled, o.Status())
	})

	t.Run("owning customer may cancel an Accepted order before shopping starts", func(t *testing.T) {
		o := newTestOrder(t, customerID, order.PolicyRequired)
		require.NoError(t, o.Claim(shopperID))

		err := o.Cancel(mustActor(t, customerID, kernel.RoleCustomer))

		require.NoError(t, err)
		assert.Equal(t, order.Cancelled, o.Status())
	})

	t.Run("cancel fails once shopping has started", func(t *testing.T) {
		o := newTestOrder(t, customerID, order.PolicyRequired)
		require.NoError(t, o.Claim(shopperID))
		require.NoError(t, o.StartShopping(mustActor(t, shopperID, kernel.RoleShopper)))

		err := o.Cancel(mustActor(t, customerID, kernel.RoleCustomer))

		require.ErrorIs(t, err, errs.ErrInvalidTransition)
		assert.Equal(t, order.Shopping, o.Status())
	})

	t.Run("a different customer may not cancel", func(t *testing.T) {
		o := newTestOrder(t, customerID, order.PolicyRequired)

		err := o.Cancel(mustActor(t, kernel.NewUUID(), kernel.RoleCustomer))

		require.ErrorIs(t, err, errs.ErrForbidden)
		assert.Equal(t, order.New, o.Status())
	})
}

func TestRestoreOrder(t *testing.T) {
	customerID := kernel.NewUUID()
	shopperID := kernel.NewUUID()

	t.Run("should restore an in-flight order with shopper and actual amount", func(t *testing.T) {
		actual := mustMoney(t, 1450)

		o, err := order.RestoreOrder(
			kernel.NewUUID(), customerID, &shopperID,
			[]order.Item{mustItem(t, "Milk", 1)},
			mustMoney(t, 1500), &actual,
			order.PolicyRequired, "12 Hill Road", order.Enroute,
		)

		require.NoError(t, err)
		assert.Equal(t, order.Enroute, o.Status())
		require.NotNil(t, o.Shopper())
		assert.True(t, o.Shopper().IsEqual(shopperID))
		require.NotNil(t, o.ActualAmount())
		assert.Equal(t, int64(145000), o.ActualAmount().Minor())
	})

	t.Run("should reject a shopper bound to a New order", func(t *testing.T) {
		_, err := order.RestoreOrder(
			kernel.NewUUID(), customerID, &shopperID,
			[]order.Item{mustItem(t, "Milk", 1)},
			mustMoney(t, 1500), nil,
			order.PolicyRequired, "12 Hill Road", order.New,
		)

		require.Error(t, err)
	})

	t.Run("should reject an Accepted order without a shopper", func(t *testing.T) {
		_, err := order.RestoreOrder(
			kernel.NewUUID(), customerID, nil,
			[]order.Item{mustItem(t, "Milk", 1)},
			mustMoney(t, 1500), nil,
			order.PolicyRequired, "12 Hill Road", order.Accepted,
		)

		require.Error(t, err)
	})
}

func TestNewItem(t *testing.T) {
	t.Run("should create item with a price band", func(t *testing.T) {
		low := mustMoney(t, 200)
		high := mustMoney(t, 300)

		item, err := order.NewItem("Milk", 1, &low, &high)

		require.NoError(t, err)
		require.NoError(t, item.Validate())
		assert.Equal(t, "Milk", item.Name())
		assert.Equal(t, 1, item.Quantity())
		assert.True(t, item.HasPriceBand())
		assert.True(t, item.PriceInBand(mustMoney(t, 250)))
		assert.False(t, item.PriceInBand(mustMoney(t, 500)))
		assert.False(t, item.PriceInBand(mustMoney(t, 100)))
	})

	t.Run("should create item without a price band", func(t *testing.T) {
		item, err := order.NewItem("Eggs", 12, nil, nil)

		require.NoError(t, err)
		assert.False(t, item.HasPriceBand())
		assert.True(t, item.PriceInBand(mustMoney(t, 99999)))
	})

	t.Run("should fail with empty name", func(t *testing.T) {
		_, err := order.NewItem("", 1, nil, nil)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "item name")
	})

	t.Run("should fail with non-positive quantity", func(t *testing.T) {
		_, err := order.NewItem("Milk", 0, nil, nil)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "quantity")
	})

	t.Run("should fail with inverted price band", func(t *testing.T) {
		low := mustMoney(t, 300)
		high := mustMoney(t, 200)

		_, err := order.NewItem("Milk", 1, &low, &high)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "price band")
	})
}

func TestReceiptPolicyFromString(t *testing.T) {
	t.Run("should parse valid policies", func(t *testing.T) {
		required, err := order.ReceiptPolicyFromString("required")
		require.NoError(t, err)
		assert.Equal(t, order.PolicyRequired, required)

		optional, err := order.ReceiptPolicyFromString("optional")
		require.NoError(t, err)
		assert.Equal(t, order.PolicyOptional, optional)
	})

	t.Run("should reject unknown policies", func(t *testing.T) {
		_, err := order.ReceiptPolicyFromString("sometimes")
		require.Error(t, err)
	})
}
