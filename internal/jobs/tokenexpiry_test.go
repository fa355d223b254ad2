package jobs_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xdoubleu/essentia/v2/pkg/logging"

	"aical.dev/aical/internal/jobs"
	"aical.dev/aical/internal/mocks"
	"aical.dev/aical/internal/models"
	"aical.dev/aical/internal/services"
	"aical.dev/aical/internal/tokencache"
)

func TestTokenExpiryJob(t *testing.T) {
	session := services.NewSessionService(
		logging.NewNopLogger(),
		mocks.NewMockCalendarClient(),
		tokencache.New(t.TempDir()),
	)

	//nolint:exhaustruct //other fields are optional
	session.SetLoginData("token123", time.Millisecond, models.UserProfile{
		Name: "Ada Lovelace",
	})
	require.True(t, session.LoggedIn())

	job := jobs.NewTokenExpiryJob(session, time.Minute)
	assert.Equal(t, "token-expiry", job.ID())
	assert.Equal(t, time.Minute, job.RunEvery())

	time.Sleep(5 * time.Millisecond)

	require.NoError(t, job.Run(context.Background(), logging.NewNopLogger()))
	assert.False(t, session.LoggedIn())
}
