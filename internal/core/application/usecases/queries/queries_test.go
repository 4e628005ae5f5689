package queries_test

import (
	"testing"

	"grocery/internal/core/application/usecases/queries"
	"grocery/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrderQuery(t *testing.T) {
	t.Run("should create valid query", func(t *testing.T) {
		orderID := kernel.NewUUID()

		query, err := queries.NewGetOrderQuery(orderID)

		require.NoError(t, err)
		require.NoError(t, query.Validate())
		assert.True(t, query.OrderID().IsEqual(orderID))
	})

	t.Run("should fail with invalid order ID", func(t *testing.T) {
		var invalidID kernel.UUID

		_, err := queries.NewGetOrderQuery(invalidID)

		require.Error(t, err)
	})

	t.Run("should fail validation for zero value query", func(t *testing.T) {
		var query queries.GetOrderQuery

		require.ErrorIs(t, query.Validate(), queries.ErrGetOrderQueryIsNotConstructed)
	})
}

func TestGetAuditTrailQuery(t *testing.T) {
	t.Run("should create valid query", func(t *testing.T) {
		query, err := queries.NewGetAuditTrailQuery(kernel.NewUUID())

		require.NoError(t, err)
		require.NoError(t, query.Validate())
	})

	t.Run("should fail validation for zero value query", func(t *testing.T) {
		var query queries.GetAuditTrailQuery

		require.ErrorIs(t, query.Validate(), queries.ErrGetAuditTrailQueryIsNotConstructed)
	})
}

func TestGetClaimableOrdersQuery(t *testing.T) {
	t.Run("should create valid query", func(t *testing.T) {
		query := queries.NewGetClaimableOrdersQuery()

		require.NoError(t, query.Validate())
	})

	t.Run("should fail validation for zero value query", func(t *testing.T) {
		var query queries.GetClaimableOrdersQuery

		require.ErrorIs(t, query.Validate(), queries.ErrGetClaimableOrdersQueryIsNotConstructed)
	})
}
