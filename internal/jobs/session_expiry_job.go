package jobs

import (
	"context"
	"log/slog"
	"time"

	"orderwizard/internal/core/application/usecases/commands"
	"orderwizard/internal/core/domain/model/kernel"

	"github.com/robfig/cron/v3"
)

// SessionExpirer removes idle sessions from the store.
type SessionExpirer interface {
	Handle(ctx context.Context, cmd commands.ExpireSessionsCommand) (int, error)
}

// IdleWizards closes running wizards that went idle.
type IdleWizards interface {
	ExpireIdle(ctx context.Context) int
}

// SessionExpiryJob closes wizards idle for longer than the idle TTL and removes
// their stored sessions.
type SessionExpiryJob struct {
	handler  SessionExpirer
	wizards  IdleWizards
	idleTTL  time.Duration
	clock    kernel.Clock
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewSessionExpiryJob(
	handler SessionExpirer,
	wizards IdleWizards,
	idleTTL time.Duration,
	clock kernel.Clock,
	schedule string,
	logger *slog.Logger,
) *SessionExpiryJob {
	return &SessionExpiryJob{
		handler:  handler,
		wizards:  wizards,
		idleTTL:  idleTTL,
		clock:    clock,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "session_expiry_job"),
	}
}

func (j *SessionExpiryJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Session expiry job started", "schedule", j.schedule, "idle_ttl", j.idleTTL)
	return nil
}

// Run performs one expiry pass. In-memory wizards go first so the stored pass
// only sees sessions nothing is working on.
func (j *SessionExpiryJob) Run(ctx context.Context) {
	closed := j.wizards.ExpireIdle(ctx)

	cmd, err := commands.NewExpireSessionsCommand(j.idleTTL, j.clock.Now())
	if err != nil {
		j.logger.ErrorContext(ctx, "Session expiry job misconfigured", "error", err)
		return
	}
	expired, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Session expiry job failed", "error", err)
		return
	}

	if closed > 0 || expired > 0 {
		j.logger.InfoContext(ctx, "Idle sessions expired", "wizards_closed", closed, "sessions_removed", expired)
	}
}

func (j *SessionExpiryJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Session expiry job stopped")
}
