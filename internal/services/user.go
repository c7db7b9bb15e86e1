package services

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yungbote/lumina-backend/internal/data/repos"
	types "github.com/yungbote/lumina-backend/internal/domain"
	"github.com/yungbote/lumina-backend/internal/pkg/normalization"
	"github.com/yungbote/lumina-backend/internal/pkg/pagination"
	"github.com/yungbote/lumina-backend/internal/platform/apierr"
	"github.com/yungbote/lumina-backend/internal/platform/ctxutil"
	"github.com/yungbote/lumina-backend/internal/platform/dbctx"
	"github.com/yungbote/lumina-backend/internal/platform/logger"
	"github.com/yungbote/lumina-backend/internal/platform/validate"
)

// MaxImageUploadBytes bounds avatar and media uploads.
const MaxImageUploadBytes = 5 << 20

var errWrongPassword = errors.New("Wrong password")

// ProfileUpdate carries a partial profile change. Nil fields are left alone.
type ProfileUpdate struct {
	FirstName              *string `json:"first_name" binding:"omitempty,max=150"`
	LastName               *string `json:"last_name" binding:"omitempty,max=150"`
	Phone                  *string `json:"phone" binding:"omitempty,max=20"`
	Bio                    *string `json:"bio"`
	Address                *string `json:"address" binding:"omitempty,max=255"`
	City                   *string `json:"city" binding:"omitempty,max=100"`
	State                  *string `json:"state" binding:"omitempty,max=100"`
	ZipCode                *string `json:"zip_code" binding:"omitempty,max=20"`
	Country                *string `json:"country" binding:"omitempty,max=100"`
	IsNewsletterSubscribed *bool   `json:"is_newsletter_subscribed"`
}

type PasswordChange struct {
	OldPassword        string `json:"old_password" binding:"required"`
	NewPassword        string `json:"new_password" binding:"required,min=8"`
	NewPasswordConfirm string `json:"new_password_confirm" binding:"required"`
}

type UserService interface {
	GetMe(dbc dbctx.Context) (*types.User, error)
	UpdateProfile(dbc dbctx.Context, in ProfileUpdate) (*types.User, error)
	ChangePassword(dbc dbctx.Context, in PasswordChange) error
	UploadAvatarImage(dbc dbctx.Context, raw []byte) (*types.User, error)
	ListUsers(dbc dbctx.Context, p pagination.Params) (pagination.Page[*types.User], error)
}

type userService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	userTokenRepo repos.UserTokenRepo
	avatarService AvatarService
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, userTokenRepo repos.UserTokenRepo, avatarService AvatarService) UserService {
	return &userService{
		db:            db,
		log:           log.With("service", "UserService"),
		userRepo:      userRepo,
		userTokenRepo: userTokenRepo,
		avatarService: avatarService,
	}
}

func (us *userService) loadUser(dbc dbctx.Context, userID uuid.UUID) (*types.User, error) {
	found, err := us.userRepo.GetByIDs(dbc, []uuid.UUID{userID})
	if err != nil {
		return nil, fmt.Errorf("error fetching user: %w", err)
	}
	if len(found) == 0 || found[0] == nil {
		return nil, apierr.NotFound("User not found.")
	}
	return found[0], nil
}

func (us *userService) GetMe(dbc dbctx.Context) (*types.User, error) {
	rd := ctxutil.GetRequestData(dbc.Ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, authRequired()
	}
	transaction := dbc.Tx
	if transaction == nil {
		transaction = us.db
	}
	return us.loadUser(dbctx.Context{Ctx: dbc.Ctx, Tx: transaction}, rd.UserID)
}

func (us *userService) UpdateProfile(dbc dbctx.Context, in ProfileUpdate) (*types.User, error) {
	rd := ctxutil.GetRequestData(dbc.Ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, authRequired()
	}

	updates := map[string]interface{}{}
	for column, value := range map[string]*string{
		"first_name": in.FirstName,
		"last_name":  in.LastName,
		"phone":      in.Phone,
		"bio":        in.Bio,
		"address":    in.Address,
		"city":       in.City,
		"state":      in.State,
		"zip_code":   in.ZipCode,
		"country":    in.Country,
	} {
		if value != nil {
			*value = normalization.Trim(*value)
			updates[column] = *value
		}
	}
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	if in.IsNewsletterSubscribed != nil {
		updates["is_newsletter_subscribed"] = *in.IsNewsletterSubscribed
	}

	var out *types.User
	if err := txBase(us.db, dbc).WithContext(dbc.Ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: dbc.Ctx, Tx: tx}
		if err := us.userRepo.UpdateFields(inner, rd.UserID, updates); err != nil {
			return fmt.Errorf("update profile: %w", err)
		}
		u, err := us.loadUser(inner, rd.UserID)
		if err != nil {
			return err
		}
		out = u
		return nil
	}); err != nil {
		return nil, err
	}
	return out, nil
}

// ChangePassword verifies the old password, stores the new hash and revokes
// every refresh session of the user.
func (us *userService) ChangePassword(dbc dbctx.Context, in PasswordChange) error {
	rd := ctxutil.GetRequestData(dbc.Ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return authRequired()
	}
	if err := validate.Struct(in); err != nil {
		return err
	}
	if in.NewPassword != in.NewPasswordConfirm {
		return apierr.Validation(map[string][]string{"non_field_errors": {"New passwords don't match"}})
	}

	return txBase(us.db, dbc).WithContext(dbc.Ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: dbc.Ctx, Tx: tx}
		u, err := us.loadUser(inner, rd.UserID)
		if err != nil {
			return err
		}
		if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(in.OldPassword)); err != nil {
			return apierr.New(http.StatusBadRequest, "wrong_password", errWrongPassword)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		if err := us.userRepo.UpdateFields(inner, u.ID, map[string]interface{}{"password": string(hash)}); err != nil {
			return fmt.Errorf("update password: %w", err)
		}
		if err := us.userTokenRepo.FullDeleteByUserIDs(inner, []uuid.UUID{u.ID}); err != nil {
			return fmt.Errorf("revoke sessions: %w", err)
		}
		us.log.Info("Password changed", "user_id", u.ID)
		return nil
	})
}

func (us *userService) UploadAvatarImage(dbc dbctx.Context, raw []byte) (*types.User, error) {
	rd := ctxutil.GetRequestData(dbc.Ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, authRequired()
	}
	if len(raw) == 0 {
		return nil, apierr.FieldError("file", "No file was submitted.")
	}
	if len(raw) > MaxImageUploadBytes {
		return nil, apierr.FieldError("file", "File too large.")
	}
	if !us.avatarService.Enabled() {
		return nil, storageUnavailable()
	}

	var out *types.User
	if err := txBase(us.db, dbc).WithContext(dbc.Ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: dbc.Ctx, Tx: tx}
		u, err := us.loadUser(inner, rd.UserID)
		if err != nil {
			return err
		}
		if err := us.avatarService.CreateAndUploadUserAvatarFromImage(inner, u, raw); err != nil {
			return err
		}
		out = u
		return nil
	}); err != nil {
		return nil, err
	}
	return out, nil
}

func (us *userService) ListUsers(dbc dbctx.Context, p pagination.Params) (pagination.Page[*types.User], error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = us.db
	}
	users, total, err := us.userRepo.List(dbctx.Context{Ctx: dbc.Ctx, Tx: transaction}, p.Offset(), p.Limit())
	if err != nil {
		return pagination.Page[*types.User]{}, fmt.Errorf("list users: %w", err)
	}
	if err := p.Check(total); err != nil {
		return pagination.Page[*types.User]{}, err
	}
	return pagination.Page[*types.User]{Items: users, Total: total, Params: p}, nil
}
