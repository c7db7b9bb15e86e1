package services

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	repotest "github.com/yungbote/lumina-backend/internal/data/repos/testutil"
	types "github.com/yungbote/lumina-backend/internal/domain"
	"github.com/yungbote/lumina-backend/internal/platform/ctxutil"
)

func TestAuthRegisterQueuesAvatarJob(t *testing.T) {
	env := newTestEnv(t)

	name := repotest.Unique("grace")
	u, err := env.auth.Register(bg(), RegisterInput{
		Username:        "  " + name + "  ",
		Email:           " " + strings.ToUpper(name) + "@Example.COM ",
		Password:        "s3cretpass",
		PasswordConfirm: "s3cretpass",
		FirstName:       "Grace",
		LastName:        "Hopper",
	})
	require.NoError(t, err)
	require.Equal(t, name, u.Username)
	require.Equal(t, name+"@example.com", u.Email)
	require.False(t, u.IsStaff)
	require.NotEqual(t, "s3cretpass", u.Password)

	job, err := env.jobs.GetLatestForEntity(bg(), "user", u.ID, types.JobTypeUserAvatar)
	require.NoError(t, err)
	require.NotNil(t, job)
	require.Equal(t, types.JobStatusQueued, job.Status)
}

func TestAuthRegisterValidation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.auth.Register(bg(), RegisterInput{
		Username:        "x",
		Email:           uniqueEmail("x"),
		Password:        "longenough",
		PasswordConfirm: "different1",
	})
	msgs := requireFieldError(t, err, "non_field_errors")
	require.Equal(t, []string{"Passwords don't match"}, msgs)

	_, err = env.auth.Register(bg(), RegisterInput{Username: "", Email: "nope", Password: "short"})
	requireFieldError(t, err, "username")
	requireFieldError(t, err, "email")
	requireFieldError(t, err, "password")

	existing := env.register(t, "password1")
	_, err = env.auth.Register(bg(), RegisterInput{
		Username:        existing.Username,
		Email:           existing.Email,
		Password:        "password1",
		PasswordConfirm: "password1",
	})
	require.Equal(t, []string{"A user with that username already exists."}, requireFieldError(t, err, "username"))
	require.Equal(t, []string{"user with this email already exists."}, requireFieldError(t, err, "email"))
}

func TestAuthRegisterRejectsInvalidEmail(t *testing.T) {
	env := newTestEnv(t)
	for _, email := range []string{"@", "x@", "a@@b", "not-an-email@"} {
		t.Run(email, func(t *testing.T) {
			_, err := env.auth.Register(bg(), RegisterInput{
				Username:        uniqueEmail("user"),
				Email:           email,
				Password:        "password1",
				PasswordConfirm: "password1",
			})
			require.Equal(t, []string{"Enter a valid email address."}, requireFieldError(t, err, "email"))
		})
	}
}

func TestAuthCreateStaff(t *testing.T) {
	env := newTestEnv(t)
	u, err := env.auth.CreateStaff(bg(), RegisterInput{
		Username:        repotest.Unique("admin"),
		Email:           uniqueEmail("admin"),
		Password:        "adminpass",
		PasswordConfirm: "adminpass",
	})
	require.NoError(t, err)
	require.True(t, u.IsStaff)
}

func TestAuthLoginRefreshLogout(t *testing.T) {
	env := newTestEnv(t)
	u := env.register(t, "password1")

	pair, err := env.auth.Login(bg(), u.Email, "password1")
	require.NoError(t, err)
	require.NotEmpty(t, pair.Access)
	require.NotEmpty(t, pair.Refresh)

	reloaded, err := env.users.GetByIDs(env.dbc(), []uuid.UUID{u.ID})
	require.NoError(t, err)
	require.NotNil(t, reloaded[0].LastLogin)

	ctx, err := env.auth.SetContextFromToken(context.Background(), pair.Access)
	require.NoError(t, err)
	rd := ctxutil.GetRequestData(ctx)
	require.NotNil(t, rd)
	require.Equal(t, u.ID, rd.UserID)
	require.False(t, rd.IsStaff)

	access, err := env.auth.Refresh(bg(), pair.Refresh)
	require.NoError(t, err)
	require.NotEmpty(t, access)

	// A token that belongs to someone else is ignored.
	other := env.register(t, "password2")
	require.NoError(t, env.auth.Logout(asUser(other), pair.Refresh))
	_, err = env.auth.Refresh(bg(), pair.Refresh)
	require.NoError(t, err)

	require.NoError(t, env.auth.Logout(asUser(u), pair.Refresh))
	_, err = env.auth.Refresh(bg(), pair.Refresh)
	requireAPIError(t, err, http.StatusUnauthorized, "token_not_valid")

	// Logging out twice is harmless.
	require.NoError(t, env.auth.Logout(asUser(u), pair.Refresh))
}

func TestAuthLogoutRequiresAuthAndToken(t *testing.T) {
	env := newTestEnv(t)
	u := env.register(t, "password1")

	requireAPIError(t, env.auth.Logout(bg(), "whatever"), http.StatusUnauthorized, "not_authenticated")
	requireFieldError(t, env.auth.Logout(asUser(u), "  "), "refresh")
}

func TestAuthLoginRejectsBadCredentials(t *testing.T) {
	env := newTestEnv(t)
	u := env.register(t, "password1")

	_, err := env.auth.Login(bg(), u.Email, "wrong-password")
	requireAPIError(t, err, http.StatusUnauthorized, "authentication_failed")

	_, err = env.auth.Login(bg(), uniqueEmail("nobody"), "password1")
	requireAPIError(t, err, http.StatusUnauthorized, "authentication_failed")

	require.NoError(t, env.users.UpdateFields(env.dbc(), u.ID, map[string]interface{}{"is_active": false}))
	_, err = env.auth.Login(bg(), u.Email, "password1")
	requireAPIError(t, err, http.StatusUnauthorized, "authentication_failed")
}

func TestAuthRefreshDeletesExpiredSession(t *testing.T) {
	env := newTestEnv(t)
	u := env.register(t, "password1")
	dbc := env.dbc()

	refresh := uuid.NewString()
	_, err := env.tokens.Create(dbc, []*types.UserToken{{
		ID:           uuid.New(),
		UserID:       u.ID,
		AccessToken:  "stale",
		RefreshToken: refresh,
		ExpiresAt:    time.Now().UTC().Add(-time.Minute),
	}})
	require.NoError(t, err)

	_, err = env.auth.Refresh(bg(), refresh)
	requireAPIError(t, err, http.StatusUnauthorized, "token_not_valid")

	left, err := env.tokens.GetByRefreshTokens(dbc, []string{refresh})
	require.NoError(t, err)
	require.Empty(t, left)
}

func TestAuthSweepExpiredSessions(t *testing.T) {
	env := newTestEnv(t)
	u := env.register(t, "password1")
	dbc := env.dbc()

	_, err := env.tokens.Create(dbc, []*types.UserToken{
		{ID: uuid.New(), UserID: u.ID, RefreshToken: uuid.NewString(), ExpiresAt: time.Now().UTC().Add(-time.Hour)},
		{ID: uuid.New(), UserID: u.ID, RefreshToken: uuid.NewString(), ExpiresAt: time.Now().UTC().Add(time.Hour)},
	})
	require.NoError(t, err)

	n, err := env.auth.SweepExpiredSessions(context.Background())
	require.NoError(t, err)
	require.GreaterOrEqual(t, n, int64(1))

	left, err := env.tokens.GetByUserIDs(dbc, []uuid.UUID{u.ID})
	require.NoError(t, err)
	require.Len(t, left, 1)
}

func TestAuthSetContextFromTokenRejects(t *testing.T) {
	env := newTestEnv(t)
	u := env.register(t, "password1")

	ctx, err := env.auth.SetContextFromToken(context.Background(), "")
	require.NoError(t, err)
	require.Nil(t, ctxutil.GetRequestData(ctx))

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, JWTClaims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   u.ID.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}})
	signed, err := forged.SignedString([]byte("not-the-secret"))
	require.NoError(t, err)
	_, err = env.auth.SetContextFromToken(context.Background(), signed)
	require.Error(t, err)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, JWTClaims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   u.ID.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	}})
	signed, err = expired.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	_, err = env.auth.SetContextFromToken(context.Background(), signed)
	require.Error(t, err)

	pair, err := env.auth.Login(bg(), u.Email, "password1")
	require.NoError(t, err)
	require.NoError(t, env.users.UpdateFields(env.dbc(), u.ID, map[string]interface{}{"is_active": false}))
	_, err = env.auth.SetContextFromToken(context.Background(), pair.Access)
	require.Error(t, err)
}

func TestAuthAccessTTLDefaults(t *testing.T) {
	svc := NewAuthService(nil, newTestLogger(t), nil, nil, nil, "k", 0, 0)
	require.Equal(t, 5*time.Minute, svc.GetAccessTTL())
}
