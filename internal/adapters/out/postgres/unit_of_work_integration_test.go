package postgres_test

import (
	"context"
	"testing"
	"time"

	postgres_adapter "grocery/internal/adapters/out/postgres"
	"grocery/internal/adapters/out/postgres/auditrepo"
	"grocery/internal/adapters/out/postgres/orderrepo"
	"grocery/internal/adapters/out/postgres/receiptrepo"
	"grocery/internal/core/domain/model/audit"
	"grocery/internal/core/domain/model/kernel"
	"grocery/internal/core/domain/model/order"
	"grocery/internal/core/domain/model/receipt"
	"grocery/internal/core/ports"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite provides comprehensive integration testing
// for the GORM-based Unit of Work implementation with real PostgreSQL database.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   ports.UnitOfWorkFactory
}

// SetupSuite initializes PostgreSQL container and database connection for all tests.
// Runs database migrations to prepare schema for unit of work operations.
func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	// Start PostgreSQL container
	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2)),
	)
	suite.Require().NoError(err)
	suite.container = container

	// Connect to database
	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	// Run migrations
	err = db.AutoMigrate(&orderrepo.OrderDTO{}, &receiptrepo.ReceiptDTO{}, &auditrepo.EntryDTO{})
	suite.Require().NoError(err)

	// Create factory
	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(db)
}

// SetupTest ensures clean database state before each test.
// Truncates all tables to prevent test interference.
func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE orders, receipts, audit_entries").Error
	suite.Require().NoError(err)
}

// TearDownSuite cleans up PostgreSQL container after all tests complete.
func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

// TestUnitOfWorkFactory_Create verifies factory creates unit of work instances
// with proper initialization and isolation between instances.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWorkFactory_Create() {
	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()

	suite.NotSame(uow1, uow2, "Factory should create separate instances")

	suite.NotNil(uow1.OrderRepository(), "First instance should provide order repository")
	suite.NotNil(uow1.ReceiptRepository(), "First instance should provide receipt repository")
	suite.NotNil(uow1.AuditLog(), "First instance should provide audit log")
	suite.NotNil(uow2.OrderRepository(), "Second instance should provide order repository")
}

// TestUnitOfWork_TransactionLifecycle verifies proper transaction management
// including begin, commit, and rollback operations.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	err := uow.Begin(ctx)
	suite.Require().NoError(err, "Should begin transaction successfully")

	err = uow.Begin(ctx)
	suite.Require().NoError(err, "Multiple begin calls should be safe")

	err = uow.Commit(ctx)
	suite.Require().NoError(err, "Should commit transaction successfully")

	err = uow.Begin(ctx)
	suite.Require().NoError(err)

	err = uow.Rollback(ctx)
	suite.Require().NoError(err, "Should rollback transaction successfully")
}

// TestUnitOfWork_TransactionErrors verifies error handling for invalid transaction operations.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionErrors() {
	ctx := context.Background()
	uow := suite.factory.Create()

	err := uow.Commit(ctx)
	suite.Require().Error(err, "Should error when committing without active transaction")

	err = uow.Rollback(ctx)
	suite.Require().Error(err, "Should error when rolling back without active transaction")
}

// TestUnitOfWork_StateChangeWithAuditCommit verifies the core atomicity
// contract: the order write and the audit entry recording it land together.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_StateChangeWithAuditCommit() {
	ctx := context.Background()
	uow := suite.factory.Create()

	customer := suite.newActor(kernel.RoleCustomer)
	testOrder := suite.newOrder(customer.ID())

	err := uow.Begin(ctx)
	suite.Require().NoError(err)

	err = uow.OrderRepository().Add(ctx, testOrder)
	suite.Require().NoError(err)

	entry, err := audit.NewEntry(kernel.NewUUID(), testOrder.ID(), customer,
		audit.ActionOrderCreated, map[string]any{"to_status": order.New.String()},
		time.Now().UTC())
	suite.Require().NoError(err)
	err = uow.AuditLog().Append(ctx, entry)
	suite.Require().NoError(err)

	err = uow.Commit(ctx)
	suite.Require().NoError(err)

	// Both the order and its first audit entry are visible after commit.
	newUow := suite.factory.Create()
	retrieved, err := newUow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.True(testOrder.IsEqual(retrieved))

	trail, err := newUow.AuditLog().QueryByOrder(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Require().Len(trail, 1)
	suite.Equal(audit.ActionOrderCreated, trail[0].Action())
}

// TestUnitOfWork_StateChangeWithAuditRollback verifies rollback discards the
// state change and its audit entry together, leaving no partial trace.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_StateChangeWithAuditRollback() {
	ctx := context.Background()
	uow := suite.factory.Create()

	customer := suite.newActor(kernel.RoleCustomer)
	testOrder := suite.newOrder(customer.ID())

	err := uow.Begin(ctx)
	suite.Require().NoError(err)

	err = uow.OrderRepository().Add(ctx, testOrder)
	suite.Require().NoError(err)

	entry, err := audit.NewEntry(kernel.NewUUID(), testOrder.ID(), customer,
		audit.ActionOrderCreated, nil, time.Now().UTC())
	suite.Require().NoError(err)
	err = uow.AuditLog().Append(ctx, entry)
	suite.Require().NoError(err)

	// Entries are visible inside the transaction before rollback.
	trail, err := uow.AuditLog().QueryByOrder(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Len(trail, 1)

	err = uow.Rollback(ctx)
	suite.Require().NoError(err)

	newUow := suite.factory.Create()
	_, err = newUow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().Error(err, "Order should not exist after rollback")

	trail, err = newUow.AuditLog().QueryByOrder(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Empty(trail, "No audit entry should survive rollback")
}

// TestUnitOfWork_ReceiptSupersession verifies the resubmission sequence:
// snapshot the prior receipt into the audit trail, delete it, and insert the
// replacement, all in one transaction.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_ReceiptSupersession() {
	ctx := context.Background()

	customer := suite.newActor(kernel.RoleCustomer)
	shopper := suite.newActor(kernel.RoleShopper)
	testOrder := suite.newOrder(customer.ID())

	seedUow := suite.factory.Create()
	suite.Require().NoError(seedUow.OrderRepository().Add(ctx, testOrder))

	prior := suite.newReceipt(testOrder.ID(), shopper.ID())
	suite.Require().NoError(seedUow.ReceiptRepository().Add(ctx, prior))

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))

	snapshot, err := audit.NewEntry(kernel.NewUUID(), testOrder.ID(), shopper,
		audit.ActionReceiptSuperseded, map[string]any{
			"receipt_id": prior.ID().String(),
			"image_ref":  prior.ImageRef(),
		}, time.Now().UTC())
	suite.Require().NoError(err)
	suite.Require().NoError(uow.AuditLog().Append(ctx, snapshot))

	suite.Require().NoError(uow.ReceiptRepository().DeleteByOrder(ctx, testOrder.ID()))

	replacement := suite.newReceipt(testOrder.ID(), shopper.ID())
	suite.Require().NoError(uow.ReceiptRepository().Add(ctx, replacement))

	suite.Require().NoError(uow.Commit(ctx))

	// Only the replacement remains, and the snapshot is on the trail.
	newUow := suite.factory.Create()
	active, err := newUow.ReceiptRepository().GetActiveByOrder(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.True(replacement.IsEqual(active))

	trail, err := newUow.AuditLog().QueryByOrder(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Require().Len(trail, 1)
	suite.Equal(prior.ID().String(), trail[0].Payload()["receipt_id"])
}

// TestUnitOfWork_RepositoryIsolation verifies that repositories obtained
// from different unit of work instances operate independently.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_RepositoryIsolation() {
	ctx := context.Background()

	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()

	order1 := suite.newOrder(kernel.NewUUID())
	order2 := suite.newOrder(kernel.NewUUID())

	err := uow1.Begin(ctx)
	suite.Require().NoError(err)

	err = uow2.Begin(ctx)
	suite.Require().NoError(err)

	err = uow1.OrderRepository().Add(ctx, order1)
	suite.Require().NoError(err)

	err = uow2.OrderRepository().Add(ctx, order2)
	suite.Require().NoError(err)

	// Each transaction should only see its own changes
	_, err = uow1.OrderRepository().Get(ctx, order1.ID())
	suite.Require().NoError(err, "UOW1 should see order1")

	_, err = uow1.OrderRepository().Get(ctx, order2.ID())
	suite.Require().Error(err, "UOW1 should not see order2")

	_, err = uow2.OrderRepository().Get(ctx, order2.ID())
	suite.Require().NoError(err, "UOW2 should see order2")

	_, err = uow2.OrderRepository().Get(ctx, order1.ID())
	suite.Require().Error(err, "UOW2 should not see order1")

	err = uow1.Commit(ctx)
	suite.Require().NoError(err)

	err = uow2.Rollback(ctx)
	suite.Require().NoError(err)

	newUow := suite.factory.Create()
	_, err = newUow.OrderRepository().Get(ctx, order1.ID())
	suite.Require().NoError(err, "Order1 should persist after commit")

	_, err = newUow.OrderRepository().Get(ctx, order2.ID())
	suite.Require().Error(err, "Order2 should not persist after rollback")
}

// TestUnitOfWork_WithoutTransaction verifies that repositories work correctly
// without explicit transaction boundaries for immediate operations.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_WithoutTransaction() {
	ctx := context.Background()
	uow := suite.factory.Create()

	testOrder := suite.newOrder(kernel.NewUUID())

	err := uow.OrderRepository().Add(ctx, testOrder)
	suite.Require().NoError(err)

	retrieved, err := uow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.True(testOrder.IsEqual(retrieved))

	newUow := suite.factory.Create()
	retrieved, err = newUow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.True(testOrder.IsEqual(retrieved))
}

// TestUnitOfWork_FulfillmentWorkflow walks an order through the full
// fulfillment lifecycle with the audit trail growing at every step.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_FulfillmentWorkflow() {
	ctx := context.Background()

	customer := suite.newActor(kernel.RoleCustomer)
	shopper := suite.newActor(kernel.RoleShopper)
	testOrder := suite.newOrder(customer.ID())

	// Place
	suite.runStep(ctx, testOrder.ID(), customer, audit.ActionOrderCreated, func(uow ports.UnitOfWork) error {
		return uow.OrderRepository().Add(ctx, testOrder)
	})

	// Claim
	suite.Require().NoError(testOrder.Claim(shopper.ID()))
	suite.runStep(ctx, testOrder.ID(), shopper, audit.ActionOrderClaimed, func(uow ports.UnitOfWork) error {
		return uow.OrderRepository().Claim(ctx, testOrder)
	})

	// Start shopping
	suite.Require().NoError(testOrder.StartShopping(shopper))
	suite.runStep(ctx, testOrder.ID(), shopper, audit.ActionShoppingStarted, func(uow ports.UnitOfWork) error {
		return uow.OrderRepository().Update(ctx, testOrder, order.Accepted)
	})

	// Submit receipt (policy required, so the order waits for review)
	testReceipt := suite.newReceipt(testOrder.ID(), shopper.ID())
	suite.Require().NoError(testOrder.SubmitReceipt(shopper, testReceipt.Extraction().Total()))
	suite.runStep(ctx, testOrder.ID(), shopper, audit.ActionReceiptSubmitted, func(uow ports.UnitOfWork) error {
		if err := uow.ReceiptRepository().Add(ctx, testReceipt); err != nil {
			return err
		}
		return uow.OrderRepository().Update(ctx, testOrder, order.Shopping)
	})
	suite.Equal(order.AwaitReceiptOK, testOrder.Status())

	// Approve
	approved, err := kernel.MoneyFromMinor(148000)
	suite.Require().NoError(err)
	suite.Require().NoError(testOrder.ApproveReceipt(customer, approved))
	suite.Require().NoError(testReceipt.Approve(time.Now().UTC()))
	suite.runStep(ctx, testOrder.ID(), customer, audit.ActionReceiptApproved, func(uow ports.UnitOfWork) error {
		if err := uow.ReceiptRepository().Update(ctx, testReceipt); err != nil {
			return err
		}
		return uow.OrderRepository().Update(ctx, testOrder, order.AwaitReceiptOK)
	})

	// Deliver
	suite.Require().NoError(testOrder.CompleteDelivery(shopper))
	suite.runStep(ctx, testOrder.ID(), shopper, audit.ActionDeliveryCompleted, func(uow ports.UnitOfWork) error {
		return uow.OrderRepository().Update(ctx, testOrder, order.Enroute)
	})

	// Final state
	finalUow := suite.factory.Create()
	retrieved, err := finalUow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Delivered, retrieved.Status())
	suite.Require().NotNil(retrieved.ActualAmount())
	suite.Equal(int64(148000), retrieved.ActualAmount().Minor())

	trail, err := finalUow.AuditLog().QueryByOrder(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Require().Len(trail, 5)
	suite.Equal(audit.ActionOrderCreated, trail[0].Action())
	suite.Equal(audit.ActionOrderClaimed, trail[1].Action())
	suite.Equal(audit.ActionShoppingStarted, trail[2].Action())
	suite.Equal(audit.ActionReceiptSubmitted, trail[3].Action())
	suite.Equal(audit.ActionReceiptApproved, trail[4].Action())
}

// runStep executes one fulfillment step and its audit append in a transaction.
func (suite *UnitOfWorkIntegrationTestSuite) runStep(
	ctx context.Context,
	orderID kernel.UUID,
	actor kernel.Actor,
	action audit.Action,
	step func(uow ports.UnitOfWork) error,
) {
	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))

	suite.Require().NoError(step(uow))

	entry, err := audit.NewEntry(kernel.NewUUID(), orderID, actor, action, nil, time.Now().UTC())
	suite.Require().NoError(err)
	suite.Require().NoError(uow.AuditLog().Append(ctx, entry))

	suite.Require().NoError(uow.Commit(ctx))
}

// newOrder creates a valid order with a required receipt policy.
func (suite *UnitOfWorkIntegrationTestSuite) newOrder(customerID kernel.UUID) *order.Order {
	item, err := order.NewItem("Milk", 2, nil, nil)
	suite.Require().NoError(err)

	estimate, err := kernel.MoneyFromMinor(150000)
	suite.Require().NoError(err)

	testOrder, err := order.NewOrder(kernel.NewUUID(), customerID,
		[]order.Item{item}, estimate, order.PolicyRequired, "12 Hill Road")
	suite.Require().NoError(err)

	return testOrder
}

// newReceipt creates a pending receipt with a small extraction.
func (suite *UnitOfWorkIntegrationTestSuite) newReceipt(orderID, shopperID kernel.UUID) *receipt.Receipt {
	price, err := kernel.MoneyFromMinor(74000)
	suite.Require().NoError(err)
	total, err := kernel.MoneyFromMinor(148000)
	suite.Require().NoError(err)

	extraction, err := receipt.NewExtraction([]receipt.ExtractedItem{
		{Name: "Milk", Quantity: 2, Price: price},
	}, total, 0.95)
	suite.Require().NoError(err)

	testReceipt, err := receipt.NewReceipt(kernel.NewUUID(), orderID, shopperID,
		"receipts/workflow.jpg", extraction, 0.95, false, time.Now().UTC().Truncate(time.Microsecond))
	suite.Require().NoError(err)

	return testReceipt
}

func (suite *UnitOfWorkIntegrationTestSuite) newActor(role kernel.Role) kernel.Actor {
	actor, err := kernel.NewActor(kernel.NewUUID(), role)
	suite.Require().NoError(err)
	return actor
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
