package auditrepo_test

import (
	"context"
	"testing"
	"time"

	"grocery/internal/adapters/out/postgres/auditrepo"
	"grocery/internal/core/domain/model/audit"
	"grocery/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// AuditLogIntegrationTestSuite provides integration tests for the append-only
// audit log using PostgreSQL containers.
type AuditLogIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	log       *auditrepo.GormAuditLog
}

func (suite *AuditLogIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	err = db.AutoMigrate(&auditrepo.EntryDTO{})
	suite.Require().NoError(err)
}

func (suite *AuditLogIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE audit_entries").Error
	suite.Require().NoError(err)

	suite.log = auditrepo.NewGormAuditLog(suite.db)
}

func (suite *AuditLogIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *AuditLogIntegrationTestSuite) TestAppendAndQueryByOrder() {
	ctx := context.Background()
	orderID := kernel.NewUUID()
	customer := suite.newActor(kernel.RoleCustomer)
	shopper := suite.newActor(kernel.RoleShopper)
	base := time.Now().UTC().Truncate(time.Microsecond)

	created, err := audit.NewEntry(kernel.NewUUID(), orderID, customer,
		audit.ActionOrderCreated, map[string]any{
			"to_status":      "New",
			"estimate_minor": int64(150000),
		}, base)
	suite.Require().NoError(err)

	claimed, err := audit.NewEntry(kernel.NewUUID(), orderID, shopper,
		audit.ActionOrderClaimed, map[string]any{
			"from_status": "New",
			"to_status":   "Accepted",
		}, base.Add(time.Minute))
	suite.Require().NoError(err)

	// Append out of chronological order; the query must sort it out.
	suite.Require().NoError(suite.log.Append(ctx, claimed))
	suite.Require().NoError(suite.log.Append(ctx, created))

	entries, err := suite.log.QueryByOrder(ctx, orderID)
	suite.Require().NoError(err)
	suite.Require().Len(entries, 2)

	suite.Equal(audit.ActionOrderCreated, entries[0].Action())
	suite.Equal(audit.ActionOrderClaimed, entries[1].Action())
	suite.True(customer.ID().IsEqual(entries[0].Actor().ID()))
	suite.Equal(kernel.RoleCustomer, entries[0].Actor().Role())
	suite.Equal(kernel.RoleShopper, entries[1].Actor().Role())
	suite.True(base.Equal(entries[0].OccurredAt()))

	// JSON payloads round-trip; numbers come back as float64.
	suite.Equal("New", entries[0].Payload()["to_status"])
	suite.InDelta(150000, entries[0].Payload()["estimate_minor"], 0.1)
	suite.Equal("Accepted", entries[1].Payload()["to_status"])
}

func (suite *AuditLogIntegrationTestSuite) TestAppendWithoutPayload() {
	ctx := context.Background()
	orderID := kernel.NewUUID()

	entry, err := audit.NewEntry(kernel.NewUUID(), orderID, suite.newActor(kernel.RoleShopper),
		audit.ActionDeliveryCompleted, nil, time.Now().UTC())
	suite.Require().NoError(err)

	suite.Require().NoError(suite.log.Append(ctx, entry))

	entries, err := suite.log.QueryByOrder(ctx, orderID)
	suite.Require().NoError(err)
	suite.Require().Len(entries, 1)
	suite.Nil(entries[0].Payload())
}

func (suite *AuditLogIntegrationTestSuite) TestQueryByOrderScopesToOrder() {
	ctx := context.Background()
	orderID := kernel.NewUUID()
	otherID := kernel.NewUUID()
	actor := suite.newActor(kernel.RoleCustomer)

	mine, err := audit.NewEntry(kernel.NewUUID(), orderID, actor,
		audit.ActionOrderCreated, nil, time.Now().UTC())
	suite.Require().NoError(err)
	theirs, err := audit.NewEntry(kernel.NewUUID(), otherID, actor,
		audit.ActionOrderCreated, nil, time.Now().UTC())
	suite.Require().NoError(err)

	suite.Require().NoError(suite.log.Append(ctx, mine))
	suite.Require().NoError(suite.log.Append(ctx, theirs))

	entries, err := suite.log.QueryByOrder(ctx, orderID)
	suite.Require().NoError(err)
	suite.Require().Len(entries, 1)
	suite.True(orderID.IsEqual(entries[0].OrderID()))
}

func (suite *AuditLogIntegrationTestSuite) TestQueryByOrderEmptyTrail() {
	entries, err := suite.log.QueryByOrder(context.Background(), kernel.NewUUID())
	suite.Require().NoError(err)
	suite.Empty(entries)
}

func (suite *AuditLogIntegrationTestSuite) newActor(role kernel.Role) kernel.Actor {
	actor, err := kernel.NewActor(kernel.NewUUID(), role)
	suite.Require().NoError(err)
	return actor
}

func TestAuditLogIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(AuditLogIntegrationTestSuite))
}
