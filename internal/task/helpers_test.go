package task

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/antiflow-api/internal/domain"
	"github.com/stretchr/testify/require"
)

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// waitForTerminal polls the store until task id reaches a terminal status.
func waitForTerminal(t *testing.T, s *MockTaskStore, id uuid.UUID) *domain.Task {
	t.Helper()
	var rec *domain.Task
	require.Eventually(t, func() bool {
		got, err := s.Get(context.Background(), id)
		if err != nil {
			return false
		}
		rec = got
		return got.Status.IsTerminal()
	}, 5*time.Second, 5*time.Millisecond)
	return rec
}
