package newsletter_welcome

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yungbote/lumina-backend/internal/data/repos"
	"github.com/yungbote/lumina-backend/internal/data/repos/testutil"
	types "github.com/yungbote/lumina-backend/internal/domain"
	"github.com/yungbote/lumina-backend/internal/jobs/jobtest"
	"github.com/yungbote/lumina-backend/internal/jobs/pipeline/mailer"
)

func TestWelcomeEmail(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	jobs := repos.NewJobRunRepo(db, log)
	box := &jobtest.Mailbox{}
	p := New(log, box, mailer.Store{Name: "Lumina", URL: "https://lumina.test"})

	jc := jobtest.Start(t, db, jobs, p.Type(), "newsletter_subscriber", nil, map[string]any{"email": "reader@example.com"})
	require.NoError(t, p.Run(jc))

	got := jobtest.Reload(t, jobs, jc.Job.ID)
	require.Equal(t, types.JobStatusSucceeded, got.Status)
	require.Len(t, box.Messages(), 1)
	msg := box.Messages()[0]
	require.Equal(t, "reader@example.com", msg.To[0].Email)
	require.Equal(t, "Welcome to the Lumina newsletter", msg.Subject)
	require.Contains(t, msg.Text, "https://lumina.test/newsletter/unsubscribe?email=reader@example.com")
}

func TestWelcomeEmailEdges(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	jobs := repos.NewJobRunRepo(db, log)
	store := mailer.Store{Name: "Lumina"}

	skipped := New(log, nil, store)
	jc := jobtest.Start(t, db, jobs, skipped.Type(), "newsletter_subscriber", nil, map[string]any{"email": "x@example.com"})
	require.NoError(t, skipped.Run(jc))
	got := jobtest.Reload(t, jobs, jc.Job.ID)
	require.Equal(t, types.JobStatusSucceeded, got.Status)
	require.Equal(t, true, jobtest.Result(t, got)["skipped"])

	p := New(log, &jobtest.Mailbox{}, store)
	jc = jobtest.Start(t, db, jobs, p.Type(), "newsletter_subscriber", nil, nil)
	require.NoError(t, p.Run(jc))
	got = jobtest.Reload(t, jobs, jc.Job.ID)
	require.Equal(t, types.JobStatusFailed, got.Status)
	require.Equal(t, "missing email", got.Error)
}
