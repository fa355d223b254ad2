package jobs

import (
	"context"
	"log/slog"
	"time"

	"aical.dev/aical/internal/services"
)

// TokenExpiryJob periodically re-checks the stored token expiry so an
// expired session is torn down even when no request comes in.
type TokenExpiryJob struct {
	session  *services.SessionService
	interval time.Duration
}

func NewTokenExpiryJob(
	session *services.SessionService,
	interval time.Duration,
) TokenExpiryJob {
	return TokenExpiryJob{
		session:  session,
		interval: interval,
	}
}

func (j TokenExpiryJob) ID() string {
	return "token-expiry"
}

func (j TokenExpiryJob) RunEvery() time.Duration {
	return j.interval
}

func (j TokenExpiryJob) Run(_ context.Context, _ *slog.Logger) error {
	j.session.CheckTokenExpiry(time.Now())
	return nil
}
