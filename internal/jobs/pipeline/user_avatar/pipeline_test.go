package user_avatar

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/lumina-backend/internal/data/repos"
	"github.com/yungbote/lumina-backend/internal/data/repos/testutil"
	types "github.com/yungbote/lumina-backend/internal/domain"
	"github.com/yungbote/lumina-backend/internal/jobs/jobtest"
	"github.com/yungbote/lumina-backend/internal/platform/dbctx"
	"github.com/yungbote/lumina-backend/internal/platform/gcp"
	"github.com/yungbote/lumina-backend/internal/platform/gcp/gcptest"
	"github.com/yungbote/lumina-backend/internal/services"
)

func TestUserAvatarRendersOnce(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	jobs := repos.NewJobRunRepo(db, log)
	users := repos.NewUserRepo(db, log)
	bucket := gcptest.NewMemoryBucket()
	avatar, err := services.NewAvatarService(db, log, users, bucket)
	require.NoError(t, err)
	p := New(log, users, avatar)

	u := testutil.SeedUser(t, context.Background(), db, testutil.Unique("ada")+"@example.com")
	jc := jobtest.Start(t, db, jobs, p.Type(), "user", &u.ID, nil)
	require.NoError(t, p.Run(jc))

	got := jobtest.Reload(t, jobs, jc.Job.ID)
	require.Equal(t, types.JobStatusSucceeded, got.Status)

	reloaded, err := users.GetByIDs(dbctx.Context{Ctx: context.Background()}, []uuid.UUID{u.ID})
	require.NoError(t, err)
	require.Len(t, reloaded, 1)
	require.NotEmpty(t, reloaded[0].AvatarURL)
	require.Equal(t, reloaded[0].AvatarURL, jobtest.Result(t, got)["avatar_url"])
	require.True(t, bucket.Has(gcp.BucketCategoryAvatar, reloaded[0].AvatarBucketKey))

	// A second run leaves the existing avatar in place.
	jc = jobtest.Start(t, db, jobs, p.Type(), "user", &u.ID, nil)
	require.NoError(t, p.Run(jc))
	again := jobtest.Reload(t, jobs, jc.Job.ID)
	require.Equal(t, "avatar_exists", jobtest.Result(t, again)["reason"])
	require.Empty(t, bucket.Deleted())
}

func TestUserAvatarSkips(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	jobs := repos.NewJobRunRepo(db, log)
	users := repos.NewUserRepo(db, log)

	noStorage, err := services.NewAvatarService(db, log, users, nil)
	require.NoError(t, err)
	p := New(log, users, noStorage)
	id := uuid.New()
	jc := jobtest.Start(t, db, jobs, p.Type(), "user", &id, nil)
	require.NoError(t, p.Run(jc))
	require.Equal(t, "storage_disabled", jobtest.Result(t, jobtest.Reload(t, jobs, jc.Job.ID))["reason"])

	withStorage, err := services.NewAvatarService(db, log, users, gcptest.NewMemoryBucket())
	require.NoError(t, err)
	p = New(log, users, withStorage)
	jc = jobtest.Start(t, db, jobs, p.Type(), "user", &id, nil)
	require.NoError(t, p.Run(jc))
	require.Equal(t, "user_not_found", jobtest.Result(t, jobtest.Reload(t, jobs, jc.Job.ID))["reason"])

	jc = jobtest.Start(t, db, jobs, p.Type(), "user", nil, nil)
	require.NoError(t, p.Run(jc))
	require.Equal(t, types.JobStatusFailed, jobtest.Reload(t, jobs, jc.Job.ID).Status)
}
