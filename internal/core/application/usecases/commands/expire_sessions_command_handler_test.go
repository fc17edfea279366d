package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"orderwizard/internal/core/application/usecases/commands"
	"orderwizard/internal/core/domain/model/kernel"
	"orderwizard/internal/core/domain/model/wizard"
	"orderwizard/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type SessionRepo struct{ mock.Mock }

func (m *SessionRepo) Add(ctx context.Context, s *wizard.Session) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *SessionRepo) Update(ctx context.Context, s *wizard.Session) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *SessionRepo) Get(ctx context.Context, id kernel.UUID) (*wizard.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wizard.Session), args.Error(1)
}

func (m *SessionRepo) Delete(ctx context.Context, id kernel.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *SessionRepo) GetActive(ctx context.Context) ([]*wizard.Session, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*wizard.Session), args.Error(1)
}

func (m *SessionRepo) GetIdleSince(ctx context.Context, before time.Time) ([]*wizard.Session, error) {
	args := m.Called(ctx, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*wizard.Session), args.Error(1)
}

type SessionUnitOfWork struct{ mock.Mock }

func (m *SessionUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *SessionUnitOfWork) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *SessionUnitOfWork) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *SessionUnitOfWork) SessionRepository() ports.SessionRepository {
	args := m.Called()
	return args.Get(0).(ports.SessionRepository)
}

type SessionUoWFactory struct{ mock.Mock }

func (m *SessionUoWFactory) Create() commands.SessionUoW {
	args := m.Called()
	return args.Get(0).(commands.SessionUoW)
}

type LiveSessions struct{ mock.Mock }

func (m *LiveSessions) Lookup(id kernel.UUID) (*wizard.Session, bool) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(*wizard.Session), args.Bool(1)
}

func (m *LiveSessions) Close(ctx context.Context, id kernel.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

var baseTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func sessionActiveAt(t *testing.T, lastActivity time.Time) *wizard.Session {
	t.Helper()
	s, err := wizard.RestoreSession(kernel.NewUUID(), wizard.Items, wizard.NoSubstep, 3,
		baseTime.Add(-2*time.Hour), lastActivity, []wizard.Stage{wizard.ClientAndBranch})
	require.NoError(t, err)
	return s
}

func TestExpireSessionsCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	now := baseTime
	cmd, err := commands.NewExpireSessionsCommand(30*time.Minute, now)
	require.NoError(t, err)

	orphan := sessionActiveAt(t, now.Add(-time.Hour))
	stale := sessionActiveAt(t, now.Add(-45*time.Minute))
	stillActive := sessionActiveAt(t, now.Add(-40*time.Minute))
	live := sessionActiveAt(t, now.Add(-time.Minute))

	repo := new(SessionRepo)
	uow := new(SessionUnitOfWork)
	factory := new(SessionUoWFactory)
	liveSessions := new(LiveSessions)

	factory.On("Create").Return(uow).Once()
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("SessionRepository").Return(repo).Once()
	repo.On("GetIdleSince", ctx, now.Add(-30*time.Minute)).
		Return([]*wizard.Session{orphan, stale, stillActive}, nil).Once()

	liveSessions.On("Lookup", orphan.ID()).Return(nil, false).Once()
	repo.On("Delete", ctx, orphan.ID()).Return(nil).Once()

	liveSessions.On("Lookup", stale.ID()).Return(stale, true).Once()
	liveSessions.On("Close", ctx, stale.ID()).Return(nil).Once()
	repo.On("Delete", ctx, stale.ID()).Return(nil).Once()

	liveSessions.On("Lookup", stillActive.ID()).Return(live, true).Once()
	repo.On("Update", ctx, live).Return(nil).Once()

	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	handler := commands.NewExpireSessionsCommandHandler(factory, liveSessions)
	expired, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, 2, expired)
	factory.AssertExpectations(t)
	uow.AssertExpectations(t)
	repo.AssertExpectations(t)
	liveSessions.AssertExpectations(t)
}

func TestExpireSessionsCommandHandler_Handle_ValidationError(t *testing.T) {
	factory := new(SessionUoWFactory)

	handler := commands.NewExpireSessionsCommandHandler(factory, nil)
	_, err := handler.Handle(t.Context(), commands.ExpireSessionsCommand{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be created via NewExpireSessionsCommand constructor")
	factory.AssertNotCalled(t, "Create")
}

func TestExpireSessionsCommandHandler_Handle_BeginError(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewExpireSessionsCommand(time.Minute, baseTime)
	require.NoError(t, err)

	uow := new(SessionUnitOfWork)
	factory := new(SessionUoWFactory)

	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(errors.New("begin error")).Once(),
	)

	handler := commands.NewExpireSessionsCommandHandler(factory, nil)
	_, err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "begin error")
	factory.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestExpireSessionsCommandHandler_Handle_RepositoryError(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewExpireSessionsCommand(time.Minute, baseTime)
	require.NoError(t, err)

	repo := new(SessionRepo)
	uow := new(SessionUnitOfWork)
	factory := new(SessionUoWFactory)

	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("SessionRepository").Return(repo).Once(),
		repo.On("GetIdleSince", ctx, baseTime.Add(-time.Minute)).Return(nil, errors.New("repository error")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	handler := commands.NewExpireSessionsCommandHandler(factory, nil)
	_, err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "repository error")
	uow.AssertNotCalled(t, "Commit", ctx)
	repo.AssertExpectations(t)
}

func TestExpireSessionsCommandHandler_Handle_DeleteError(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewExpireSessionsCommand(time.Minute, baseTime)
	require.NoError(t, err)
	orphan := sessionActiveAt(t, baseTime.Add(-time.Hour))

	repo := new(SessionRepo)
	uow := new(SessionUnitOfWork)
	factory := new(SessionUoWFactory)

	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("SessionRepository").Return(repo).Once(),
		repo.On("GetIdleSince", ctx, baseTime.Add(-time.Minute)).Return([]*wizard.Session{orphan}, nil).Once(),
		repo.On("Delete", ctx, orphan.ID()).Return(errors.New("delete error")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	handler := commands.NewExpireSessionsCommandHandler(factory, nil)
	_, err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "delete error")
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
}
