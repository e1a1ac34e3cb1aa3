package postgres_test

import (
	"context"
	"testing"
	"time"

	postgres_adapter "postpurchase/internal/adapters/out/postgres"
	"postpurchase/internal/adapters/out/postgres/pgtest"
	"postpurchase/internal/core/domain/model/cancellation"
	"postpurchase/internal/core/domain/model/kernel"
	"postpurchase/internal/core/domain/model/order"
	"postpurchase/internal/core/ports"
	"postpurchase/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite exercises transactions and the ledger flush
// against a real PostgreSQL database.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   ports.UnitOfWorkFactory
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	container, db, err := pgtest.Start(context.Background())
	suite.container = container
	suite.Require().NoError(err)
	suite.db = db

	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(db)
}

// SetupTest ensures clean database state before each test.
func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(pgtest.Truncate(suite.db))
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) createTestOrder() *order.Order {
	price, err := kernel.MoneyFromString("15.00")
	suite.Require().NoError(err)
	item, err := order.NewItem(kernel.NewUUID(), kernel.NewUUID(), "Mug", price, 3, kernel.Money{})
	suite.Require().NoError(err)
	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), []*order.Item{item}, order.Checkout{
		PaymentMethod:   "card",
		ShippingAddress: "1 Main St",
		BillingAddress:  "1 Main St",
	}, time.Now())
	suite.Require().NoError(err)
	return o
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Begin(ctx), "Begin is idempotent")
	suite.Require().NoError(uow.Commit(ctx))

	suite.ErrorIs(uow.Commit(ctx), gorm.ErrInvalidTransaction)
	suite.ErrorIs(uow.Rollback(ctx), gorm.ErrInvalidTransaction)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_CommitAppendsLedgerEntries() {
	ctx := context.Background()
	o := suite.createTestOrder()

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, o))
	_, err := o.ChangeStatus(order.Confirmed, "admin", "payment received", time.Now())
	suite.Require().NoError(err)
	suite.Require().NoError(uow.OrderRepository().Update(ctx, o))
	suite.Require().NoError(uow.Commit(ctx))

	suite.Empty(o.PendingEntries())
	entries, err := suite.factory.Create().LedgerRepository().ListByOrder(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Require().Len(entries, 1)
	suite.Equal("Pending", entries[0].From())
	suite.Equal("Confirmed", entries[0].To())
	suite.Equal("payment received", entries[0].Remarks())

	restored, err := suite.factory.Create().OrderRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Confirmed, restored.Status())
	suite.Len(restored.History(), 1)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_RollbackDiscardsWritesAndEntries() {
	ctx := context.Background()
	o := suite.createTestOrder()
	suite.Require().NoError(suite.factory.Create().OrderRepository().Add(ctx, o))

	itemID := o.Items()[0].ID()
	ci, err := cancellation.NewItem(kernel.NewUUID(), itemID, 1)
	suite.Require().NoError(err)
	c, err := cancellation.NewCancellation(kernel.NewUUID(), o.ID(), kernel.NewUUID(),
		[]*cancellation.Item{ci}, true, "customer-1", "", time.Now())
	suite.Require().NoError(err)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.CancellationRepository().Add(ctx, c))
	_, err = o.ChangeStatus(order.Cancelled, "customer-1", "", time.Now())
	suite.Require().NoError(err)
	suite.Require().NoError(uow.OrderRepository().Update(ctx, o))
	suite.Require().NoError(uow.Rollback(ctx))

	suite.Len(o.PendingEntries(), 1, "entries stay on the aggregate after a rollback")
	list, err := suite.factory.Create().CancellationRepository().ListByOrder(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Empty(list)
	entries, err := suite.factory.Create().LedgerRepository().ListByOrder(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Empty(entries)
	stored, err := suite.factory.Create().OrderRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Pending, stored.Status())
	suite.Equal(int64(1), stored.Version())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_ConcurrentWritersConflict() {
	ctx := context.Background()
	o := suite.createTestOrder()
	suite.Require().NoError(suite.factory.Create().OrderRepository().Add(ctx, o))

	first, second := suite.factory.Create(), suite.factory.Create()
	a, err := first.OrderRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)
	b, err := second.OrderRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)

	suite.Require().NoError(first.Begin(ctx))
	_, err = a.ChangeStatus(order.Confirmed, "admin", "", time.Now())
	suite.Require().NoError(err)
	suite.Require().NoError(first.OrderRepository().Update(ctx, a))
	suite.Require().NoError(first.Commit(ctx))

	suite.Require().NoError(second.Begin(ctx))
	_, err = b.ChangeStatus(order.Cancelled, "customer-1", "", time.Now())
	suite.Require().NoError(err)
	err = second.OrderRepository().Update(ctx, b)
	suite.Require().ErrorIs(err, errs.ErrConcurrencyConflict)
	suite.Require().NoError(second.Rollback(ctx))

	entries, err := suite.factory.Create().LedgerRepository().ListByOrder(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Require().Len(entries, 1)
	suite.Equal("Confirmed", entries[0].To())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_WithoutTransaction() {
	ctx := context.Background()
	o := suite.createTestOrder()

	uow := suite.factory.Create()
	suite.Require().NoError(uow.OrderRepository().Add(ctx, o))

	found, err := suite.factory.Create().OrderRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(o.ID(), found.ID())
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
