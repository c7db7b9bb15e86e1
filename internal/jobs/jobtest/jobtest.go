// Package jobtest builds claimed job runs and a recording email client for
// handler tests.
package jobtest

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/lumina-backend/internal/data/repos"
	types "github.com/yungbote/lumina-backend/internal/domain"
	"github.com/yungbote/lumina-backend/internal/jobs/runtime"
	"github.com/yungbote/lumina-backend/internal/platform/dbctx"
	"github.com/yungbote/lumina-backend/internal/platform/sendgrid"
)

// Start inserts a running job row and returns its runtime context, as if a
// worker had just claimed it.
func Start(tb testing.TB, db *gorm.DB, repo repos.JobRunRepo, jobType, entityType string, entityID *uuid.UUID, payload map[string]any) *runtime.Context {
	tb.Helper()
	if payload == nil {
		payload = map[string]any{}
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		tb.Fatalf("marshal payload: %v", err)
	}
	job := &types.JobRun{
		JobType:    jobType,
		EntityType: entityType,
		EntityID:   entityID,
		Status:     types.JobStatusRunning,
		Stage:      "running",
		Attempts:   1,
		Payload:    datatypes.JSON(raw),
		Result:     datatypes.JSON([]byte(`{}`)),
	}
	ctx := context.Background()
	if _, err := repo.Create(dbctx.Context{Ctx: ctx}, []*types.JobRun{job}); err != nil {
		tb.Fatalf("create job: %v", err)
	}
	return runtime.NewContext(ctx, db, job, repo)
}

// Reload reads the stored row back.
func Reload(tb testing.TB, repo repos.JobRunRepo, id uuid.UUID) *types.JobRun {
	tb.Helper()
	rows, err := repo.GetByIDs(dbctx.Context{Ctx: context.Background()}, []uuid.UUID{id})
	if err != nil || len(rows) != 1 {
		tb.Fatalf("reload job %s: rows=%d err=%v", id, len(rows), err)
	}
	return rows[0]
}

// Result decodes the stored result JSON.
func Result(tb testing.TB, job *types.JobRun) map[string]any {
	tb.Helper()
	out := map[string]any{}
	if len(job.Result) == 0 {
		return out
	}
	if err := json.Unmarshal(job.Result, &out); err != nil {
		tb.Fatalf("decode result: %v", err)
	}
	return out
}

// Mailbox is a sendgrid.Client that records requests. Set Err to make every
// Send fail.
type Mailbox struct {
	mu   sync.Mutex
	Sent []sendgrid.SendEmailRequest
	Err  error
}

var _ sendgrid.Client = (*Mailbox)(nil)

func (m *Mailbox) Send(_ context.Context, req sendgrid.SendEmailRequest) (*sendgrid.SendEmailResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	m.Sent = append(m.Sent, req)
	return &sendgrid.SendEmailResult{StatusCode: 202, MessageID: "msg-" + uuid.NewString()[:8]}, nil
}

func (m *Mailbox) Messages() []sendgrid.SendEmailRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sendgrid.SendEmailRequest(nil), m.Sent...)
}

var ErrMailDown = errors.New("mail provider unavailable")
