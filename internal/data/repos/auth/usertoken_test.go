package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/lumina-backend/internal/data/repos/testutil"
	types "github.com/yungbote/lumina-backend/internal/domain"
	"github.com/yungbote/lumina-backend/internal/platform/dbctx"
)

func TestUserTokenRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewUserTokenRepo(db, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, tx, testutil.Unique("usertokenrepo")+"@example.com")

	makeToken := func(access string, expiresAt time.Time) *types.UserToken {
		return &types.UserToken{
			UserID:       u.ID,
			AccessToken:  access,
			RefreshToken: uuid.NewString(),
			ExpiresAt:    expiresAt,
		}
	}

	t1 := makeToken("access-1", time.Now().Add(time.Hour))
	if _, err := repo.Create(dbc, []*types.UserToken{t1}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if rows, err := repo.GetByIDs(dbc, []uuid.UUID{t1.ID}); err != nil || len(rows) != 1 {
		t.Fatalf("GetByIDs: err=%v len=%d", err, len(rows))
	}
	if rows, err := repo.GetByUserIDs(dbc, []uuid.UUID{u.ID}); err != nil || len(rows) != 1 {
		t.Fatalf("GetByUserIDs: err=%v len=%d", err, len(rows))
	}
	if rows, err := repo.GetByRefreshTokens(dbc, []string{t1.RefreshToken}); err != nil || len(rows) != 1 {
		t.Fatalf("GetByRefreshTokens: err=%v len=%d", err, len(rows))
	}

	if err := repo.UpdateAccessToken(dbc, t1.ID, "access-1b"); err != nil {
		t.Fatalf("UpdateAccessToken: %v", err)
	}
	rows, err := repo.GetByIDs(dbc, []uuid.UUID{t1.ID})
	if err != nil || len(rows) != 1 || rows[0].AccessToken != "access-1b" {
		t.Fatalf("UpdateAccessToken: err=%v rows=%+v", err, rows)
	}

	n, err := repo.FullDeleteByRefreshTokens(dbc, []string{t1.RefreshToken})
	if err != nil || n != 1 {
		t.Fatalf("FullDeleteByRefreshTokens: err=%v n=%d", err, n)
	}
	if n, err := repo.FullDeleteByRefreshTokens(dbc, []string{t1.RefreshToken}); err != nil || n != 0 {
		t.Fatalf("FullDeleteByRefreshTokens twice: err=%v n=%d", err, n)
	}

	expired := makeToken("access-2", time.Now().Add(-time.Hour))
	live := makeToken("access-3", time.Now().Add(time.Hour))
	if _, err := repo.Create(dbc, []*types.UserToken{expired, live}); err != nil {
		t.Fatalf("seed tokens: %v", err)
	}
	if n, err := repo.FullDeleteExpired(dbc, time.Now()); err != nil || n < 1 {
		t.Fatalf("FullDeleteExpired: err=%v n=%d", err, n)
	}
	if rows, err := repo.GetByIDs(dbc, []uuid.UUID{expired.ID, live.ID}); err != nil || len(rows) != 1 || rows[0].ID != live.ID {
		t.Fatalf("after FullDeleteExpired: err=%v rows=%+v", err, rows)
	}

	if err := repo.FullDeleteByIDs(dbc, []uuid.UUID{live.ID}); err != nil {
		t.Fatalf("FullDeleteByIDs: %v", err)
	}

	t4 := makeToken("access-4", time.Now().Add(time.Hour))
	if _, err := repo.Create(dbc, []*types.UserToken{t4}); err != nil {
		t.Fatalf("seed token4: %v", err)
	}
	if err := repo.FullDeleteByUserIDs(dbc, []uuid.UUID{u.ID}); err != nil {
		t.Fatalf("FullDeleteByUserIDs: %v", err)
	}
	if rows, err := repo.GetByUserIDs(dbc, []uuid.UUID{u.ID}); err != nil || len(rows) != 0 {
		t.Fatalf("after FullDeleteByUserIDs: err=%v len=%d", err, len(rows))
	}
}
