package blog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/lumina-backend/internal/data/repos/testutil"
	types "github.com/yungbote/lumina-backend/internal/domain"
	"github.com/yungbote/lumina-backend/internal/platform/dbctx"
)

func TestCategoryRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	repo := NewCategoryRepo(db, testutil.Logger(t))
	slug := testutil.Unique("wellness")
	created, err := repo.Create(dbc, []*types.Category{{Name: testutil.Unique("Wellness"), Slug: slug}})
	if err != nil || len(created) != 1 {
		t.Fatalf("Create: err=%v len=%d", err, len(created))
	}
	if exists, err := repo.SlugExists(dbc, slug); err != nil || !exists {
		t.Fatalf("SlugExists: expected true, err=%v", err)
	}
	if rows, err := repo.GetBySlugs(dbc, []string{slug}); err != nil || len(rows) != 1 {
		t.Fatalf("GetBySlugs: err=%v len=%d", err, len(rows))
	}
	if rows, err := repo.GetByNames(dbc, []string{created[0].Name}); err != nil || len(rows) != 1 {
		t.Fatalf("GetByNames: err=%v len=%d", err, len(rows))
	}
	page, total, err := repo.List(dbc, 0, 100)
	if err != nil || total < 1 || len(page) < 1 {
		t.Fatalf("List: err=%v total=%d len=%d", err, total, len(page))
	}
	for i := 1; i < len(page); i++ {
		if page[i-1].Name > page[i].Name {
			t.Fatalf("List: expected name order, got %q before %q", page[i-1].Name, page[i].Name)
		}
	}
}

func TestBlogPostRepoFilters(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	repo := NewBlogPostRepo(db, testutil.Logger(t))
	author := testutil.SeedUser(t, ctx, tx, testutil.Unique("author")+"@example.com")
	cat := testutil.SeedCategory(t, ctx, tx, testutil.Unique("Rituals"))
	other := testutil.SeedCategory(t, ctx, tx, testutil.Unique("Other"))

	marker := testutil.Unique("zq")
	base := time.Now().UTC().Add(-time.Hour)
	mk := func(title string, catID uuid.UUID, status string, views int, featured bool, age time.Duration) *types.BlogPost {
		return &types.BlogPost{
			Title:      title + " " + marker,
			Slug:       testutil.Unique("post"),
			Excerpt:    "excerpt",
			Content:    "content",
			CategoryID: &catID,
			AuthorID:   author.ID,
			Status:     status,
			ReadTime:   5,
			Views:      views,
			IsFeatured: featured,
			CreatedAt:  base.Add(age),
		}
	}
	p1 := mk("Morning Light", cat.ID, types.PostStatusPublished, 10, true, 0)
	p2 := mk("Evening Calm", cat.ID, types.PostStatusPublished, 3, false, time.Minute)
	p3 := mk("Draft Notes", cat.ID, types.PostStatusDraft, 0, true, 2*time.Minute)
	p4 := mk("Elsewhere", other.ID, types.PostStatusPublished, 50, false, 3*time.Minute)
	if _, err := repo.Create(dbc, []*types.BlogPost{p1, p2, p3, p4}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	published := PostFilter{Status: types.PostStatusPublished, Search: marker}
	rows, total, err := repo.List(dbc, published, 0, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 3 || len(rows) != 3 {
		t.Fatalf("List published: total=%d len=%d", total, len(rows))
	}
	if rows[0].ID != p4.ID || rows[2].ID != p1.ID {
		t.Fatalf("List: expected -created_at order, got %v, %v, %v", rows[0].Title, rows[1].Title, rows[2].Title)
	}
	if rows[0].Author == nil || rows[0].Category == nil {
		t.Fatalf("List: expected author and category preloaded")
	}

	byViews := published
	byViews.Ordering = "-views"
	rows, _, err = repo.List(dbc, byViews, 0, 10)
	if err != nil || len(rows) != 3 || rows[0].ID != p4.ID || rows[2].ID != p2.ID {
		t.Fatalf("List -views: err=%v rows=%d", err, len(rows))
	}

	bySlug := published
	bySlug.CategorySlug = cat.Slug
	if _, total, err := repo.List(dbc, bySlug, 0, 10); err != nil || total != 2 {
		t.Fatalf("List category_slug: err=%v total=%d", err, total)
	}
	byID := published
	byID.CategoryID = &other.ID
	if _, total, err := repo.List(dbc, byID, 0, 10); err != nil || total != 1 {
		t.Fatalf("List category: err=%v total=%d", err, total)
	}
	featured := published
	featured.FeaturedOnly = true
	if rows, _, err := repo.List(dbc, featured, 0, 6); err != nil || len(rows) != 1 || rows[0].ID != p1.ID {
		t.Fatalf("List featured: err=%v rows=%d", err, len(rows))
	}
	search := PostFilter{Status: types.PostStatusPublished, Search: "EVENING CALM " + marker}
	if rows, _, err := repo.List(dbc, search, 0, 10); err != nil || len(rows) != 1 || rows[0].ID != p2.ID {
		t.Fatalf("List search: err=%v rows=%d", err, len(rows))
	}
	wild := PostFilter{Status: types.PostStatusPublished, Search: "evening_calm " + marker}
	if _, total, err := repo.List(dbc, wild, 0, 10); err != nil || total != 0 {
		t.Fatalf("List search _: err=%v total=%d", err, total)
	}
	wild.Search = "%" + marker
	if _, total, err := repo.List(dbc, wild, 0, 10); err != nil || total != 0 {
		t.Fatalf("List search %%: err=%v total=%d", err, total)
	}
	if rows, total, err := repo.List(dbc, published, 2, 2); err != nil || total != 3 || len(rows) != 1 {
		t.Fatalf("List offset: err=%v total=%d len=%d", err, total, len(rows))
	}

	got, err := repo.GetBySlug(dbc, p3.Slug, types.PostStatusPublished)
	if err != nil || got != nil {
		t.Fatalf("GetBySlug draft as published: err=%v got=%v", err, got)
	}
	got, err = repo.GetBySlug(dbc, p1.Slug, types.PostStatusPublished)
	if err != nil || got == nil || got.ID != p1.ID {
		t.Fatalf("GetBySlug: err=%v got=%v", err, got)
	}

	if err := repo.IncrementViews(dbc, p1.ID); err != nil {
		t.Fatalf("IncrementViews: %v", err)
	}
	if err := repo.IncrementViews(dbc, p1.ID); err != nil {
		t.Fatalf("IncrementViews: %v", err)
	}
	if rows, err := repo.GetByIDs(dbc, []uuid.UUID{p1.ID}); err != nil || len(rows) != 1 || rows[0].Views != 12 {
		t.Fatalf("IncrementViews: err=%v rows=%+v", err, rows)
	}

	if err := repo.UpdateFields(dbc, p2.ID, map[string]interface{}{"featured_image": "blog/x.png"}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	if exists, err := repo.SlugExists(dbc, p2.Slug); err != nil || !exists {
		t.Fatalf("SlugExists: expected true, err=%v", err)
	}

	counts, err := repo.CountPublishedByCategories(dbc, []uuid.UUID{cat.ID, other.ID})
	if err != nil {
		t.Fatalf("CountPublishedByCategories: %v", err)
	}
	if counts[cat.ID] != 2 || counts[other.ID] != 1 {
		t.Fatalf("CountPublishedByCategories: got %v", counts)
	}
}

func TestCommentRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	repo := NewCommentRepo(db, testutil.Logger(t))
	author := testutil.SeedUser(t, ctx, tx, testutil.Unique("commenter")+"@example.com")
	post := testutil.SeedPost(t, ctx, tx, author.ID, nil, types.PostStatusPublished)

	base := time.Now().UTC()
	older := &types.Comment{PostID: post.ID, AuthorName: "Jane Doe", AuthorEmail: "j@example.com", Content: "first", CreatedAt: base.Add(-time.Minute)}
	newer := &types.Comment{PostID: post.ID, AuthorName: "Sam", AuthorEmail: "s@example.com", Content: "second", CreatedAt: base}
	hidden := &types.Comment{PostID: post.ID, AuthorName: "Spam", AuthorEmail: "x@example.com", Content: "buy", IsApproved: testutil.PtrBool(false)}
	if _, err := repo.Create(dbc, []*types.Comment{older, newer, hidden}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	rows, err := repo.ListApprovedByPost(dbc, post.ID)
	if err != nil {
		t.Fatalf("ListApprovedByPost: %v", err)
	}
	if len(rows) != 2 || rows[0].ID != newer.ID || rows[1].ID != older.ID {
		t.Fatalf("ListApprovedByPost: unexpected rows %+v", rows)
	}
	if rows[1].Initials() != "JD" || rows[0].Initials() != "SA" {
		t.Fatalf("Initials: got %q and %q", rows[1].Initials(), rows[0].Initials())
	}

	counts, err := repo.CountApprovedByPosts(dbc, []uuid.UUID{post.ID})
	if err != nil || counts[post.ID] != 2 {
		t.Fatalf("CountApprovedByPosts: err=%v counts=%v", err, counts)
	}
}

func TestNewsletterSubscriberRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	repo := NewNewsletterSubscriberRepo(db, testutil.Logger(t))
	email := testutil.Unique("news") + "@example.com"
	created, err := repo.Create(dbc, []*types.NewsletterSubscriber{{Email: email, IsActive: true}})
	if err != nil || len(created) != 1 {
		t.Fatalf("Create: err=%v", err)
	}
	if err := repo.UpdateFields(dbc, created[0].ID, map[string]interface{}{"is_active": false}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	rows, err := repo.GetByEmails(dbc, []string{email})
	if err != nil || len(rows) != 1 || rows[0].IsActive {
		t.Fatalf("GetByEmails: err=%v rows=%+v", err, rows)
	}
}
