package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yungbote/lumina-backend/internal/data/repos"
	types "github.com/yungbote/lumina-backend/internal/domain"
	"github.com/yungbote/lumina-backend/internal/pkg/normalization"
	"github.com/yungbote/lumina-backend/internal/platform/apierr"
	"github.com/yungbote/lumina-backend/internal/platform/ctxutil"
	"github.com/yungbote/lumina-backend/internal/platform/dbctx"
	"github.com/yungbote/lumina-backend/internal/platform/logger"
	"github.com/yungbote/lumina-backend/internal/platform/validate"
)

var (
	errInvalidCredentials = errors.New("No active account found with the given credentials")
	errInvalidRefresh     = errors.New("Token is invalid or expired")
)

func invalidCredentials() *apierr.Error {
	return apierr.New(http.StatusUnauthorized, "authentication_failed", errInvalidCredentials)
}

func invalidRefresh() *apierr.Error {
	return apierr.New(http.StatusUnauthorized, "token_not_valid", errInvalidRefresh)
}

type JWTClaims struct {
	jwt.RegisteredClaims
}

type RegisterInput struct {
	Username        string `json:"username" binding:"required,max=150"`
	Email           string `json:"email" binding:"required,email,max=254"`
	Password        string `json:"password" binding:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" binding:"required"`
	FirstName       string `json:"first_name" binding:"max=150"`
	LastName        string `json:"last_name" binding:"max=150"`
}

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type AuthService interface {
	Register(dbc dbctx.Context, in RegisterInput) (*types.User, error)
	CreateStaff(dbc dbctx.Context, in RegisterInput) (*types.User, error)
	Login(dbc dbctx.Context, email, password string) (*TokenPair, error)
	Refresh(dbc dbctx.Context, refreshToken string) (string, error)
	Logout(dbc dbctx.Context, refreshToken string) error
	RevokeAll(dbc dbctx.Context, userID uuid.UUID) error
	SweepExpiredSessions(ctx context.Context) (int64, error)
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	GetAccessTTL() time.Duration
}

type authService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	userTokenRepo repos.UserTokenRepo
	jobService    JobService
	jwtSecretKey  string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	userTokenRepo repos.UserTokenRepo,
	jobService JobService,
	jwtSecretKey string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) AuthService {
	if accessTTL <= 0 {
		accessTTL = 5 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 24 * time.Hour
	}
	return &authService{
		db:            db,
		log:           log.With("service", "AuthService"),
		userRepo:      userRepo,
		userTokenRepo: userTokenRepo,
		jobService:    jobService,
		jwtSecretKey:  jwtSecretKey,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

func (as *authService) Register(dbc dbctx.Context, in RegisterInput) (*types.User, error) {
	return as.createUser(dbc, in, false)
}

// CreateStaff registers a user with is_staff set. Used by the createstaff
// command.
func (as *authService) CreateStaff(dbc dbctx.Context, in RegisterInput) (*types.User, error) {
	return as.createUser(dbc, in, true)
}

func (as *authService) createUser(dbc dbctx.Context, in RegisterInput, staff bool) (*types.User, error) {
	in.Username = normalization.Trim(in.Username)
	in.Email = normalization.Email(in.Email)
	in.FirstName = normalization.Trim(in.FirstName)
	in.LastName = normalization.Trim(in.LastName)

	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	if in.Password != in.PasswordConfirm {
		return nil, apierr.Validation(map[string][]string{"non_field_errors": {"Passwords don't match"}})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &types.User{
		ID:        uuid.New(),
		Username:  in.Username,
		Email:     in.Email,
		Password:  string(hash),
		FirstName: in.FirstName,
		LastName:  in.LastName,
		IsStaff:   staff,
	}

	if err := txBase(as.db, dbc).WithContext(dbc.Ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: dbc.Ctx, Tx: tx}
		dup := map[string][]string{}
		exists, err := as.userRepo.UsernameExists(inner, user.Username)
		if err != nil {
			return fmt.Errorf("check username: %w", err)
		}
		if exists {
			dup["username"] = []string{"A user with that username already exists."}
		}
		exists, err = as.userRepo.EmailExists(inner, user.Email)
		if err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		if exists {
			dup["email"] = []string{"user with this email already exists."}
		}
		if len(dup) > 0 {
			return apierr.Validation(dup)
		}
		if _, err := as.userRepo.Create(inner, []*types.User{user}); err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		if _, err := as.jobService.Enqueue(inner, &user.ID, types.JobTypeUserAvatar, "user", &user.ID, nil); err != nil {
			return fmt.Errorf("enqueue avatar job: %w", err)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	as.log.Info("User registered", "user_id", user.ID, "staff", staff)
	return user, nil
}

func (as *authService) Login(dbc dbctx.Context, email, password string) (*TokenPair, error) {
	email = normalization.Email(email)
	if email == "" || password == "" {
		return nil, invalidCredentials()
	}

	var pair *TokenPair
	err := txBase(as.db, dbc).WithContext(dbc.Ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: dbc.Ctx, Tx: tx}
		users, err := as.userRepo.GetByEmails(inner, []string{email})
		if err != nil {
			return fmt.Errorf("load user: %w", err)
		}
		if len(users) == 0 || users[0] == nil || !users[0].Active() {
			return invalidCredentials()
		}
		user := users[0]
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
			return invalidCredentials()
		}

		access, err := as.generateAccessToken(user)
		if err != nil {
			return fmt.Errorf("generate access token: %w", err)
		}
		now := time.Now().UTC()
		session := &types.UserToken{
			ID:           uuid.New(),
			UserID:       user.ID,
			AccessToken:  access,
			RefreshToken: uuid.NewString(),
			ExpiresAt:    now.Add(as.refreshTTL),
		}
		if _, err := as.userTokenRepo.Create(inner, []*types.UserToken{session}); err != nil {
			return fmt.Errorf("create session: %w", err)
		}
		if err := as.userRepo.UpdateLastLogin(inner, user.ID, now); err != nil {
			return fmt.Errorf("update last_login: %w", err)
		}
		pair = &TokenPair{Access: access, Refresh: session.RefreshToken}
		return nil
	})
	if err != nil {
		if _, ok := apierr.As(err); !ok {
			as.log.Warn("Login failed", "error", err)
		}
		return nil, err
	}
	return pair, nil
}

// Refresh issues a new access token for a live session. The session row keeps
// its refresh token and expiry; only the stored access token rotates.
func (as *authService) Refresh(dbc dbctx.Context, refreshToken string) (string, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return "", invalidRefresh()
	}

	var access string
	err := txBase(as.db, dbc).WithContext(dbc.Ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: dbc.Ctx, Tx: tx}
		found, err := as.userTokenRepo.GetByRefreshTokens(inner, []string{refreshToken})
		if err != nil {
			return fmt.Errorf("load session: %w", err)
		}
		if len(found) == 0 || found[0] == nil {
			return invalidRefresh()
		}
		session := found[0]
		if !session.ExpiresAt.After(time.Now()) {
			if err := as.userTokenRepo.FullDeleteByIDs(inner, []uuid.UUID{session.ID}); err != nil {
				return fmt.Errorf("delete expired session: %w", err)
			}
			return invalidRefresh()
		}
		users, err := as.userRepo.GetByIDs(inner, []uuid.UUID{session.UserID})
		if err != nil {
			return fmt.Errorf("load user: %w", err)
		}
		if len(users) == 0 || users[0] == nil || !users[0].Active() {
			return invalidRefresh()
		}
		tok, err := as.generateAccessToken(users[0])
		if err != nil {
			return fmt.Errorf("generate access token: %w", err)
		}
		if err := as.userTokenRepo.UpdateAccessToken(inner, session.ID, tok); err != nil {
			return fmt.Errorf("rotate access token: %w", err)
		}
		access = tok
		return nil
	})
	if err != nil {
		return "", err
	}
	return access, nil
}

// Logout deletes the session behind refreshToken when it belongs to the
// requesting user. Unknown or foreign tokens are a no-op.
func (as *authService) Logout(dbc dbctx.Context, refreshToken string) error {
	rd := ctxutil.GetRequestData(dbc.Ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return authRequired()
	}
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return apierr.FieldError("refresh", "This field is required.")
	}
	return txBase(as.db, dbc).WithContext(dbc.Ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: dbc.Ctx, Tx: tx}
		found, err := as.userTokenRepo.GetByRefreshTokens(inner, []string{refreshToken})
		if err != nil {
			return fmt.Errorf("load session: %w", err)
		}
		if len(found) == 0 || found[0] == nil || found[0].UserID != rd.UserID {
			return nil
		}
		if err := as.userTokenRepo.FullDeleteByIDs(inner, []uuid.UUID{found[0].ID}); err != nil {
			return fmt.Errorf("delete session: %w", err)
		}
		return nil
	})
}

func (as *authService) RevokeAll(dbc dbctx.Context, userID uuid.UUID) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = as.db
	}
	return as.userTokenRepo.FullDeleteByUserIDs(dbctx.Context{Ctx: dbc.Ctx, Tx: transaction}, []uuid.UUID{userID})
}

func (as *authService) SweepExpiredSessions(ctx context.Context) (int64, error) {
	n, err := as.userTokenRepo.FullDeleteExpired(dbctx.Context{Ctx: ctx, Tx: as.db}, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("sweep sessions: %w", err)
	}
	if n > 0 {
		as.log.Info("Expired sessions swept", "count", n)
	}
	return n, nil
}

func (as *authService) generateAccessToken(user *types.User) (string, error) {
	now := time.Now()
	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(as.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}

// SetContextFromToken verifies an access token and attaches the caller to
// ctx. The user row is loaded so deactivated accounts are rejected and the
// staff flag is current.
func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return ctx, nil
	}
	parsedToken, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(as.jwtSecretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return ctx, fmt.Errorf("parse token: %w", err)
	}
	claims, ok := parsedToken.Claims.(*JWTClaims)
	if !ok || !parsedToken.Valid {
		return ctx, fmt.Errorf("invalid or expired token")
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, fmt.Errorf("invalid user id in token: %w", err)
	}
	users, err := as.userRepo.GetByIDs(dbctx.Context{Ctx: ctx, Tx: as.db}, []uuid.UUID{userID})
	if err != nil {
		return ctx, fmt.Errorf("load user: %w", err)
	}
	if len(users) == 0 || users[0] == nil || !users[0].Active() {
		return ctx, fmt.Errorf("user inactive or deleted")
	}
	rd := &ctxutil.RequestData{
		TokenString: tokenString,
		UserID:      userID,
		IsStaff:     users[0].IsStaff,
	}
	return ctxutil.WithRequestData(ctx, rd), nil
}

func (as *authService) GetAccessTTL() time.Duration {
	return as.accessTTL
}
