package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"gorm.io/datatypes"

	"github.com/yungbote/lumina-backend/internal/data/repos"
	"github.com/yungbote/lumina-backend/internal/data/repos/testutil"
	types "github.com/yungbote/lumina-backend/internal/domain"
	"github.com/yungbote/lumina-backend/internal/platform/dbctx"
)

type sweeper struct {
	calls int
	err   error
}

func (s *sweeper) SweepExpiredSessions(context.Context) (int64, error) {
	s.calls++
	return 3, s.err
}

func TestNewValidatesSpecs(t *testing.T) {
	log := testutil.Logger(t)
	_, err := New(log, Task{Name: "bad", Spec: "every tuesday", Run: func(context.Context) (int64, error) { return 0, nil }})
	require.ErrorContains(t, err, `scheduler task "bad"`)

	_, err = New(log, Task{Name: "empty", Spec: "@hourly"})
	require.Error(t, err)

	s, err := New(log, MaintenanceTasks(&sweeper{}, nil, 0)...)
	require.NoError(t, err)
	require.Len(t, s.cron.Entries(), 2)
}

func TestMaintenanceTasks(t *testing.T) {
	db := testutil.DB(t)
	jobs := repos.NewJobRunRepo(db, testutil.Logger(t))
	ctx := context.Background()

	mk := func(status string, age time.Duration) *types.JobRun {
		at := time.Now().UTC().Add(-age)
		j := &types.JobRun{
			JobType:   types.JobTypeNewsletterWelcomeEmail,
			Status:    status,
			Stage:     "done",
			Payload:   datatypes.JSON([]byte(`{}`)),
			Result:    datatypes.JSON([]byte(`{}`)),
			CreatedAt: at,
			UpdatedAt: at,
		}
		_, err := jobs.Create(dbctx.Context{Ctx: ctx}, []*types.JobRun{j})
		require.NoError(t, err)
		return j
	}
	old := mk(types.JobStatusSucceeded, 10*24*time.Hour)
	fresh := mk(types.JobStatusSucceeded, time.Hour)
	oldFailed := mk(types.JobStatusFailed, 10*24*time.Hour)

	sw := &sweeper{}
	tasks := MaintenanceTasks(sw, jobs, 7*24*time.Hour)
	require.Equal(t, "@hourly", tasks[0].Spec)
	require.Equal(t, "@daily", tasks[1].Spec)

	n, err := tasks[0].Run(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(3), n)
	require.Equal(t, 1, sw.calls)

	n, err = tasks[1].Run(ctx)
	require.NoError(t, err)
	require.GreaterOrEqual(t, n, int64(1))

	left, err := jobs.GetByIDs(dbctx.Context{Ctx: ctx}, []uuid.UUID{old.ID, fresh.ID, oldFailed.ID})
	require.NoError(t, err)
	ids := map[uuid.UUID]bool{}
	for _, j := range left {
		ids[j.ID] = true
	}
	require.False(t, ids[old.ID])
	require.True(t, ids[fresh.ID])
	require.True(t, ids[oldFailed.ID])
}

func TestRunStopsOnCancel(t *testing.T) {
	log := testutil.Logger(t)
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	s, err := New(log, Task{Name: "noop", Spec: "@every 1h", Run: func(context.Context) (int64, error) {
		return 0, errors.New("unused")
	}})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, func() bool {
		next := s.Entries()
		return len(next) == 1 && !next[0].IsZero()
	}, time.Second, 10*time.Millisecond)
	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}
