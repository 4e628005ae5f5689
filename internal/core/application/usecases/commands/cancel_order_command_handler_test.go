package commands_test

import (
	"testing"

	"grocery/internal/core/application/usecases/commands"
	"grocery/internal/core/domain/model/kernel"
	"grocery/internal/core/domain/model/order"
	"grocery/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCancelOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	customerID := kernel.NewUUID()
	customer, err := kernel.NewActor(customerID, kernel.RoleCustomer)
	require.NoError(t, err)
	o := testOrder(t, customerID, order.PolicyRequired)

	cmd, err := commands.NewCancelOrderCommand(o.ID(), customer, "changed my mind")
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	auditLog := new(MockAuditLog)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", ctx, o.ID()).Return(o, nil).Once(),
		repo.On("Update", ctx, o, order.New).Return(nil).Once(),
		uow.On("AuditLog").Return(auditLog).Once(),
		auditLog.On("Append", mock.Anything, mock.AnythingOfType("*audit.Entry")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCancelOrderCommandHandler(factory)
	cancelled, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	require.Equal(t, order.Cancelled, cancelled.Status())
	uow.AssertExpectations(t)
}

func TestCancelOrderCommandHandler_Handle_ShoppingAlreadyStarted(t *testing.T) {
	ctx := t.Context()
	customerID := kernel.NewUUID()
	customer, err := kernel.NewActor(customerID, kernel.RoleCustomer)
	require.NoError(t, err)

	shopper := testActor(t, kernel.RoleShopper)
	o := testOrder(t, customerID, order.PolicyRequired)
	require.NoError(t, o.Claim(shopper.ID()))
	require.NoError(t, o.StartShopping(shopper))

	cmd, err := commands.NewCancelOrderCommand(o.ID(), customer, "too slow")
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", ctx, o.ID()).Return(o, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCancelOrderCommandHandler(factory)
	_, err = h.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrInvalidTransition)
	require.Equal(t, order.Shopping, o.Status())
	repo.AssertNotCalled(t, "Update")
}

func TestNewCancelOrderCommand_RequiresReason(t *testing.T) {
	_, err := commands.NewCancelOrderCommand(
		kernel.NewUUID(), testActor(t, kernel.RoleCustomer), "",
	)

	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}
