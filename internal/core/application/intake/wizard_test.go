package intake_test

import (
	"errors"
	"testing"

	"orderwizard/internal/core/application/intake"
	"orderwizard/internal/core/domain/model/branch"
	"orderwizard/internal/core/domain/model/client"
	"orderwizard/internal/core/domain/model/kernel"
	wzd "orderwizard/internal/core/domain/model/wizard"
	"orderwizard/internal/core/ports"
	"orderwizard/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestWizard_ClientAndBranchGating(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	assert.False(t, f.w.CanAdvance())
	assert.False(t, f.w.CanGoBack())
	assert.True(t, f.w.IsAvailable(wzd.ClientAndBranch))
	assert.False(t, f.w.IsAvailable(wzd.Items))

	err := f.w.CompleteStage(ctx)
	require.ErrorIs(t, err, intake.ErrStageIncomplete)

	var incomplete *intake.StageIncompleteError
	require.ErrorAs(t, err, &incomplete)
	assert.Contains(t, incomplete.Result.FieldErrors, "client")
	assert.Contains(t, incomplete.Result.FieldErrors, "branchId")
	f.sessions.AssertNotCalled(t, "CompleteStage", mock.Anything, mock.Anything, mock.Anything)

	f.toItems(t)

	snap := f.w.Snapshot()
	assert.Equal(t, "Items", snap.Stage)
	assert.Equal(t, "KV01-000123", snap.ReceiptNumber)
	require.NotNil(t, snap.Client)
	assert.Equal(t, testClient.ID, snap.Client.ID)
	assert.True(t, snap.Available["Items"])
	assert.False(t, snap.Available["OrderParameters"])
	assert.True(t, f.w.CanGoBack())
	assert.Contains(t, f.events.types(), ports.EventStageChanged)
}

func TestWizard_CompleteStageRemoteFailure(t *testing.T) {
	testCases := []struct {
		name       string
		remoteErr  error
		wantErr    error
		wantClosed bool
	}{
		{
			name:      "transport failure keeps the stage",
			remoteErr: errs.NewRemoteUnavailableError("sessions.complete_stage", errors.New("timeout")),
			wantErr:   errs.ErrRemoteUnavailable,
		},
		{
			name:       "unknown session closes the wizard",
			remoteErr:  errs.NewFatalSessionError("abc", "session not found"),
			wantErr:    errs.ErrFatalSession,
			wantClosed: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			ctx := t.Context()

			f.clients.On("GetByID", mock.Anything, testClient.ID).Return(testClient, nil)
			f.sessions.On("SelectClient", mock.Anything, f.id, testClient.ID).Return(nil)
			require.NoError(t, f.w.SelectClient(ctx, testClient.ID))

			f.branches.On("ListForSession", mock.Anything, f.id).Return([]branch.Branch{testBranch}, nil)
			f.branches.On("Select", mock.Anything, f.id, testBranch.ID).Return(nil)
			f.branches.On("GenerateReceiptNumber", mock.Anything, f.id, "KV01").Return("KV01-000001", nil)
			require.NoError(t, f.w.SelectBranch(ctx, testBranch.ID))

			f.sessions.On("CompleteStage", mock.Anything, f.id, wzd.ClientAndBranch).Return(tc.remoteErr)

			err := f.w.CompleteStage(ctx)
			require.ErrorIs(t, err, tc.wantErr)
			assert.Equal(t, wzd.ClientAndBranch, f.w.Session().Stage())
			assert.Equal(t, tc.wantClosed, f.w.IsClosed())

			if tc.wantClosed {
				require.ErrorIs(t, f.w.SelectClient(ctx, testClient.ID), errs.ErrFatalSession)
			}
		})
	}
}

func TestWizard_SelectBranch(t *testing.T) {
	t.Run("inactive branch is rejected", func(t *testing.T) {
		f := newFixture(t)
		closed := testBranch
		closed.ID = kernel.NewUUID()
		closed.Active = false

		f.branches.On("ListForSession", mock.Anything, f.id).Return([]branch.Branch{testBranch, closed}, nil)

		err := f.w.SelectBranch(t.Context(), closed.ID)
		require.Error(t, err)
		assert.True(t, errs.IsValidation(err))
		field, ok := errs.FieldOf(err)
		require.True(t, ok)
		assert.Equal(t, "branchId", field)
		f.branches.AssertNotCalled(t, "Select", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown branch", func(t *testing.T) {
		f := newFixture(t)
		f.branches.On("ListForSession", mock.Anything, f.id).Return([]branch.Branch{testBranch}, nil)

		err := f.w.SelectBranch(t.Context(), kernel.NewUUID())
		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("receipt failure leaves the stage incomplete", func(t *testing.T) {
		f := newFixture(t)
		f.branches.On("ListForSession", mock.Anything, f.id).Return([]branch.Branch{testBranch}, nil)
		f.branches.On("Select", mock.Anything, f.id, testBranch.ID).Return(nil)
		f.branches.On("GenerateReceiptNumber", mock.Anything, f.id, "KV01").
			Return("", errs.NewRemoteUnavailableError("branches.receipt", errors.New("503")))

		err := f.w.SelectBranch(t.Context(), testBranch.ID)
		require.ErrorIs(t, err, errs.ErrRemoteUnavailable)
		assert.Nil(t, f.w.Snapshot().Branch)
	})
}

func TestWizard_CreateClientRejectsDuplicateCall(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	draft := client.Draft{LastName: "Коваль", FirstName: "Іван", Phone: "0671234567",
		CommunicationChannels: []client.CommunicationChannel{client.ChannelSMS}}
	_, err := f.w.SetClientDraft(draft)
	require.NoError(t, err)

	created := client.Summary{ID: kernel.NewUUID(), LastName: "Коваль", FirstName: "Іван", Phone: "+380671234567"}
	entered := make(chan struct{})
	release := make(chan struct{})
	f.clients.On("Create", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			close(entered)
			<-release
		}).
		Return(created, nil).Once()
	f.sessions.On("SelectClient", mock.Anything, f.id, created.ID).Return(nil).Once()

	result := make(chan error, 1)
	go func() {
		_, err := f.w.CreateClient(ctx)
		result <- err
	}()
	<-entered

	_, err = f.w.CreateClient(ctx)
	require.ErrorIs(t, err, intake.ErrOperationInFlight)

	close(release)
	require.NoError(t, <-result)

	f.clients.AssertNumberOfCalls(t, "Create", 1)
	snap := f.w.Snapshot()
	require.NotNil(t, snap.Client)
	assert.Equal(t, created.ID, snap.Client.ID)
	assert.Nil(t, snap.ClientDraft)
}

func TestWizard_CreateClientValidatesLocally(t *testing.T) {
	f := newFixture(t)

	r, err := f.w.SetClientDraft(client.Draft{LastName: "К", Phone: "123"})
	require.Error(t, err)
	assert.False(t, r.IsValid)
	assert.Contains(t, r.FieldErrors, "firstName")

	_, err = f.w.CreateClient(t.Context())
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))
	f.clients.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestWizard_InvalidClientDraftKeepsSelection(t *testing.T) {
	f := newFixture(t)
	f.clients.On("GetByID", mock.Anything, testClient.ID).Return(testClient, nil).Once()
	f.sessions.On("SelectClient", mock.Anything, f.id, testClient.ID).Return(nil).Once()
	require.NoError(t, f.w.SelectClient(t.Context(), testClient.ID))

	_, err := f.w.SetClientDraft(client.Draft{LastName: "К", Phone: "123"})
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))

	snap := f.w.Snapshot()
	require.NotNil(t, snap.Client)
	assert.Equal(t, testClient.ID, snap.Client.ID)
}

func TestWizard_GoBackKeepsData(t *testing.T) {
	f := newFixture(t)
	drafts := f.toOrderParameters(t, suit)
	ctx := t.Context()

	require.NoError(t, f.w.GoBack(ctx, wzd.ClientAndBranch))

	snap := f.w.Snapshot()
	assert.Equal(t, "ClientAndBranch", snap.Stage)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, drafts[0].ID(), snap.Items[0].ID)
	assert.Equal(t, "KV01-000123", snap.ReceiptNumber)

	err := f.w.GoBack(ctx, wzd.Items)
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))
}

func TestWizard_Reset(t *testing.T) {
	f := newFixture(t)
	f.toOrderParameters(t, suit)

	require.NoError(t, f.w.Reset(t.Context()))

	snap := f.w.Snapshot()
	assert.Equal(t, "ClientAndBranch", snap.Stage)
	assert.Empty(t, snap.Items)
	assert.Nil(t, snap.Client)
	assert.Nil(t, snap.Branch)
	assert.True(t, snap.ItemsTotal.IsZero())
}

func TestWizard_Close(t *testing.T) {
	f := newFixture(t)
	f.sessions.On("Close", mock.Anything, f.id).Return(errs.NewRemoteUnavailableError("sessions.close", errors.New("down")))

	f.w.Close(t.Context())
	f.w.Close(t.Context())

	assert.True(t, f.w.IsClosed())
	assert.True(t, f.w.Snapshot().Closed)
	require.ErrorIs(t, f.w.SelectClient(t.Context(), testClient.ID), errs.ErrFatalSession)
	_, err := f.w.StartNewItem()
	require.ErrorIs(t, err, errs.ErrFatalSession)

	f.sessions.AssertNumberOfCalls(t, "Close", 1)
	assert.Contains(t, f.events.types(), ports.EventSessionClosed)
}

func TestWizard_OperationsOnWrongStage(t *testing.T) {
	f := newFixture(t)

	_, err := f.w.StartNewItem()
	require.ErrorIs(t, err, intake.ErrWrongStage)

	require.ErrorIs(t, f.w.SetUrgency("urgent_24h"), intake.ErrWrongStage)

	_, err = f.w.Submit(t.Context(), intake.SubmitRequest{TermsAccepted: true})
	require.ErrorIs(t, err, intake.ErrWrongStage)
}
