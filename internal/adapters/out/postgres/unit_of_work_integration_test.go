package postgres_test

import (
	"context"
	"testing"
	"time"

	postgres_adapter "orderwizard/internal/adapters/out/postgres"
	"orderwizard/internal/adapters/out/postgres/sessionrepo"
	"orderwizard/internal/core/domain/model/kernel"
	"orderwizard/internal/core/domain/model/wizard"
	"orderwizard/internal/core/ports"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite exercises the GORM unit of work against PostgreSQL.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   ports.UnitOfWorkFactory
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

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

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&sessionrepo.SessionDTO{}))

	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(db)
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE wizard_sessions").Error)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWorkFactory_Create() {
	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()

	suite.NotSame(uow1, uow2, "Factory should create separate instances")
	suite.NotNil(uow1.SessionRepository())
	suite.NotNil(uow2.SessionRepository())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Begin(ctx), "Multiple begin calls should be safe")
	suite.Require().NoError(uow.Commit(ctx))

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Rollback(ctx))

	suite.Require().ErrorIs(uow.Commit(ctx), gorm.ErrInvalidTransaction)
	suite.Require().ErrorIs(uow.Rollback(ctx), gorm.ErrInvalidTransaction)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_CommitPersists() {
	ctx := context.Background()
	uow := suite.factory.Create()
	session := createTestSession(suite)

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.SessionRepository().Add(ctx, session))

	suite.Require().NoError(session.Advance(time.Now()))
	suite.Require().NoError(uow.SessionRepository().Update(ctx, session))
	suite.Require().NoError(uow.Commit(ctx))

	restored, err := suite.factory.Create().SessionRepository().Get(ctx, session.ID())
	suite.Require().NoError(err)
	suite.Equal(wizard.Items, restored.Stage())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_RollbackDiscards() {
	ctx := context.Background()
	uow := suite.factory.Create()
	session := createTestSession(suite)

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.SessionRepository().Add(ctx, session))

	_, err := uow.SessionRepository().Get(ctx, session.ID())
	suite.Require().NoError(err, "Session should be visible inside the transaction")

	suite.Require().NoError(uow.Rollback(ctx))

	_, err = suite.factory.Create().SessionRepository().Get(ctx, session.ID())
	suite.Require().Error(err, "Session should not exist after rollback")
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_RepositoryIsolation() {
	ctx := context.Background()
	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()
	s1 := createTestSession(suite)
	s2 := createTestSession(suite)

	suite.Require().NoError(uow1.Begin(ctx))
	suite.Require().NoError(uow2.Begin(ctx))

	suite.Require().NoError(uow1.SessionRepository().Add(ctx, s1))
	suite.Require().NoError(uow2.SessionRepository().Add(ctx, s2))

	_, err := uow1.SessionRepository().Get(ctx, s2.ID())
	suite.Require().Error(err, "UOW1 should not see s2")
	_, err = uow2.SessionRepository().Get(ctx, s1.ID())
	suite.Require().Error(err, "UOW2 should not see s1")

	suite.Require().NoError(uow1.Commit(ctx))
	suite.Require().NoError(uow2.Rollback(ctx))

	repo := suite.factory.Create().SessionRepository()
	_, err = repo.Get(ctx, s1.ID())
	suite.Require().NoError(err)
	_, err = repo.Get(ctx, s2.ID())
	suite.Require().Error(err)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_WithoutTransaction() {
	ctx := context.Background()
	uow := suite.factory.Create()
	session := createTestSession(suite)

	suite.Require().NoError(uow.SessionRepository().Add(ctx, session))

	restored, err := suite.factory.Create().SessionRepository().Get(ctx, session.ID())
	suite.Require().NoError(err)
	suite.Equal(session.ID(), restored.ID())
}

func createTestSession(suite *UnitOfWorkIntegrationTestSuite) *wizard.Session {
	s, err := wizard.NewSession(kernel.NewUUID(), time.Now().Truncate(time.Microsecond))
	suite.Require().NoError(err)
	return s
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
