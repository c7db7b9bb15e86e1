package user

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/lumina-backend/internal/data/repos/testutil"
	types "github.com/yungbote/lumina-backend/internal/domain"
	"github.com/yungbote/lumina-backend/internal/platform/dbctx"
)

func TestUserRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewUserRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	email := testutil.Unique("userrepo") + "@example.com"
	username := testutil.Unique("userrepo")
	created, err := repo.Create(dbc, []*types.User{
		{
			Username:  username,
			Email:     email,
			Password:  "pw",
			FirstName: "Ada",
			LastName:  "Lovelace",
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(created) != 1 || created[0].ID == uuid.Nil {
		t.Fatalf("Create: expected 1 user with an id, got %+v", created)
	}
	if !created[0].Active() {
		t.Fatalf("Create: expected new user to default to active")
	}

	gotByIDs, err := repo.GetByIDs(dbc, []uuid.UUID{created[0].ID})
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	if len(gotByIDs) != 1 || gotByIDs[0].ID != created[0].ID {
		t.Fatalf("GetByIDs: unexpected result: %+v", gotByIDs)
	}

	gotByEmails, err := repo.GetByEmails(dbc, []string{email})
	if err != nil {
		t.Fatalf("GetByEmails: %v", err)
	}
	if len(gotByEmails) != 1 || gotByEmails[0].Email != email {
		t.Fatalf("GetByEmails: unexpected result: %+v", gotByEmails)
	}

	gotByUsernames, err := repo.GetByUsernames(dbc, []string{username})
	if err != nil || len(gotByUsernames) != 1 {
		t.Fatalf("GetByUsernames: err=%v len=%d", err, len(gotByUsernames))
	}

	if exists, err := repo.EmailExists(dbc, email); err != nil || !exists {
		t.Fatalf("EmailExists: expected true, err=%v", err)
	}
	if exists, err := repo.EmailExists(dbc, "does-not-exist@example.com"); err != nil || exists {
		t.Fatalf("EmailExists: expected false, err=%v", err)
	}
	if exists, err := repo.UsernameExists(dbc, username); err != nil || !exists {
		t.Fatalf("UsernameExists: expected true, err=%v", err)
	}

	if err := repo.UpdateFields(dbc, created[0].ID, map[string]interface{}{"city": "London", "bio": "analyst"}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	if err := repo.UpdateAvatarFields(dbc, created[0].ID, "user_avatar/x.png", "https://cdn/x.png"); err != nil {
		t.Fatalf("UpdateAvatarFields: %v", err)
	}
	loginAt := time.Now().UTC().Truncate(time.Second)
	if err := repo.UpdateLastLogin(dbc, created[0].ID, loginAt); err != nil {
		t.Fatalf("UpdateLastLogin: %v", err)
	}
	rows, err := repo.GetByIDs(dbc, []uuid.UUID{created[0].ID})
	if err != nil || len(rows) != 1 {
		t.Fatalf("GetByIDs after update: err=%v len=%d", err, len(rows))
	}
	got := rows[0]
	if got.City != "London" || got.Bio != "analyst" || got.AvatarURL != "https://cdn/x.png" || got.AvatarBucketKey != "user_avatar/x.png" {
		t.Fatalf("after updates: unexpected user %+v", got)
	}
	if got.LastLogin == nil || !got.LastLogin.Equal(loginAt) {
		t.Fatalf("UpdateLastLogin: got %v want %v", got.LastLogin, loginAt)
	}

	if err := repo.FullDeleteByIDs(dbc, []uuid.UUID{created[0].ID}); err != nil {
		t.Fatalf("FullDeleteByIDs: %v", err)
	}
	if rows, err := repo.GetByIDs(dbc, []uuid.UUID{created[0].ID}); err != nil || len(rows) != 0 {
		t.Fatalf("after FullDeleteByIDs: err=%v len=%d", err, len(rows))
	}
}

func TestUserRepoListNewestFirst(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewUserRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	base := time.Now().UTC().Add(time.Hour)
	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		u := &types.User{
			Username:  testutil.Unique("list"),
			Email:     testutil.Unique("list") + "@example.com",
			Password:  "pw",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if _, err := repo.Create(dbc, []*types.User{u}); err != nil {
			t.Fatalf("Create: %v", err)
		}
		ids = append(ids, u.ID)
	}

	page, total, err := repo.List(dbc, 0, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total < 3 {
		t.Fatalf("List: expected total >= 3, got %d", total)
	}
	if len(page) != 2 || page[0].ID != ids[2] || page[1].ID != ids[1] {
		t.Fatalf("List: expected newest first, got %+v", page)
	}
}
