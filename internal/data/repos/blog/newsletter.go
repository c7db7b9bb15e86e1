package blog

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/lumina-backend/internal/domain"
	"github.com/yungbote/lumina-backend/internal/platform/dbctx"
	"github.com/yungbote/lumina-backend/internal/platform/logger"
)

type NewsletterSubscriberRepo interface {
	Create(dbc dbctx.Context, subs []*types.NewsletterSubscriber) ([]*types.NewsletterSubscriber, error)
	GetByEmails(dbc dbctx.Context, emails []string) ([]*types.NewsletterSubscriber, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
}

type newsletterSubscriberRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNewsletterSubscriberRepo(db *gorm.DB, baseLog *logger.Logger) NewsletterSubscriberRepo {
	return &newsletterSubscriberRepo{db: db, log: baseLog.With("repo", "NewsletterSubscriberRepo")}
}

func (r *newsletterSubscriberRepo) Create(dbc dbctx.Context, subs []*types.NewsletterSubscriber) ([]*types.NewsletterSubscriber, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(subs) == 0 {
		return []*types.NewsletterSubscriber{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Create(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *newsletterSubscriberRepo) GetByEmails(dbc dbctx.Context, emails []string) ([]*types.NewsletterSubscriber, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.NewsletterSubscriber
	if len(emails) == 0 {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Where("email IN ?", emails).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *newsletterSubscriberRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	return transaction.WithContext(dbc.Ctx).
		Model(&types.NewsletterSubscriber{}).
		Where("id = ?", id).
		Updates(updates).Error
}
