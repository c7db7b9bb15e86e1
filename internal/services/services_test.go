package services

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yungbote/lumina-backend/internal/data/repos"
	repotest "github.com/yungbote/lumina-backend/internal/data/repos/testutil"
	types "github.com/yungbote/lumina-backend/internal/domain"
	"github.com/yungbote/lumina-backend/internal/platform/apierr"
	"github.com/yungbote/lumina-backend/internal/platform/ctxutil"
	"github.com/yungbote/lumina-backend/internal/platform/dbctx"
	"github.com/yungbote/lumina-backend/internal/platform/gcp/gcptest"
	"github.com/yungbote/lumina-backend/internal/platform/logger"
)

const testJWTSecret = "test-secret"

type testEnv struct {
	db     *gorm.DB
	bucket *gcptest.MemoryBucket

	users    repos.UserRepo
	tokens   repos.UserTokenRepo
	products repos.ProductRepo
	jobs     JobService

	auth       AuthService
	avatar     AvatarService
	user       UserService
	media      MediaService
	blog       BlogService
	newsletter NewsletterService
	shop       ShopService
	orders     OrderService
	seed       SeedService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := repotest.DB(t)
	log := repotest.Logger(t)

	env := &testEnv{db: db, bucket: gcptest.NewMemoryBucket()}
	env.users = repos.NewUserRepo(db, log)
	env.tokens = repos.NewUserTokenRepo(db, log)
	env.products = repos.NewProductRepo(db, log)
	env.jobs = NewJobService(db, log, repos.NewJobRunRepo(db, log))

	avatar, err := NewAvatarService(db, log, env.users, env.bucket)
	require.NoError(t, err)
	env.avatar = avatar
	env.media = NewMediaService(log, env.bucket)

	blogCats := repos.NewCategoryRepo(db, log)
	posts := repos.NewBlogPostRepo(db, log)

	env.auth = NewAuthService(db, log, env.users, env.tokens, env.jobs, testJWTSecret, time.Minute, time.Hour)
	env.user = NewUserService(db, log, env.users, env.tokens, env.avatar)
	env.blog = NewBlogService(db, log, blogCats, posts, repos.NewCommentRepo(db, log), env.media)
	env.newsletter = NewNewsletterService(db, log, repos.NewNewsletterSubscriberRepo(db, log), env.jobs)
	env.shop = NewShopService(db, log,
		repos.NewProductCategoryRepo(db, log),
		env.products,
		repos.NewProductImageRepo(db, log),
		repos.NewProductReviewRepo(db, log),
		env.media,
	)
	env.orders = NewOrderService(db, log, repos.NewOrderRepo(db, log), env.products, env.jobs, nil)
	env.seed = NewSeedService(db, log, env.auth, env.blog, env.shop, env.users, posts, env.products, blogCats)
	return env
}

func bg() dbctx.Context { return dbctx.Context{Ctx: context.Background()} }

// dbc reads through the root handle, for assertions outside any service call.
func (env *testEnv) dbc() dbctx.Context {
	return dbctx.Context{Ctx: context.Background(), Tx: env.db}
}

func newTestLogger(t *testing.T) *logger.Logger { return repotest.Logger(t) }

func asUser(u *types.User) dbctx.Context {
	ctx := ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{UserID: u.ID, IsStaff: u.IsStaff})
	return dbctx.Context{Ctx: ctx}
}

func uniqueEmail(prefix string) string {
	return repotest.Unique(prefix) + "@example.com"
}

// register creates an active user through the auth service so the password
// is hashed the way Login expects.
func (env *testEnv) register(t *testing.T, password string) *types.User {
	t.Helper()
	u, err := env.auth.Register(bg(), RegisterInput{
		Username:        repotest.Unique("user"),
		Email:           uniqueEmail("user"),
		Password:        password,
		PasswordConfirm: password,
		FirstName:       "Ada",
		LastName:        "Lovelace",
	})
	require.NoError(t, err)
	return u
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func requireAPIError(t *testing.T, err error, status int, code string) *apierr.Error {
	t.Helper()
	require.Error(t, err)
	ae, ok := apierr.As(err)
	require.Truef(t, ok, "expected *apierr.Error, got %T: %v", err, err)
	require.Equal(t, status, ae.Status, "status for %v", err)
	require.Equal(t, code, ae.Code, "code for %v", err)
	return ae
}

func requireFieldError(t *testing.T, err error, field string) []string {
	t.Helper()
	ae := requireAPIError(t, err, 400, "validation_error")
	msgs, ok := ae.Fields[field]
	require.Truef(t, ok, "expected field %q in %v", field, ae.Fields)
	return msgs
}
