package services

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/lumina-backend/internal/data/repos"
	types "github.com/yungbote/lumina-backend/internal/domain"
	"github.com/yungbote/lumina-backend/internal/pkg/normalization"
	"github.com/yungbote/lumina-backend/internal/platform/apierr"
	"github.com/yungbote/lumina-backend/internal/platform/dbctx"
	"github.com/yungbote/lumina-backend/internal/platform/logger"
	"github.com/yungbote/lumina-backend/internal/platform/validate"
)

type NewsletterService interface {
	Subscribe(dbc dbctx.Context, email string) (*types.NewsletterSubscriber, error)
	Unsubscribe(dbc dbctx.Context, email string) error
}

type newsletterService struct {
	db         *gorm.DB
	log        *logger.Logger
	subRepo    repos.NewsletterSubscriberRepo
	jobService JobService
}

func NewNewsletterService(db *gorm.DB, baseLog *logger.Logger, subRepo repos.NewsletterSubscriberRepo, jobService JobService) NewsletterService {
	return &newsletterService{
		db:         db,
		log:        baseLog.With("service", "NewsletterService"),
		subRepo:    subRepo,
		jobService: jobService,
	}
}

// subscriberEmailRule matches the newsletter_subscribers.email column.
const subscriberEmailRule = "required,email,max=254"

// Subscribe creates a subscriber or reactivates an inactive one, then queues
// the welcome email in the same transaction.
func (s *newsletterService) Subscribe(dbc dbctx.Context, email string) (*types.NewsletterSubscriber, error) {
	email = normalization.Email(email)
	if err := validate.Var("email", email, subscriberEmailRule); err != nil {
		return nil, err
	}

	var out *types.NewsletterSubscriber
	err := txBase(s.db, dbc).WithContext(dbc.Ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: dbc.Ctx, Tx: tx}
		found, err := s.subRepo.GetByEmails(inner, []string{email})
		if err != nil {
			return fmt.Errorf("load subscriber: %w", err)
		}
		if len(found) > 0 {
			sub := found[0]
			if sub.IsActive {
				return apierr.FieldError("email", "This email is already subscribed.")
			}
			if err := s.subRepo.UpdateFields(inner, sub.ID, map[string]interface{}{"is_active": true}); err != nil {
				return fmt.Errorf("reactivate subscriber: %w", err)
			}
			sub.IsActive = true
			out = sub
		} else {
			sub := &types.NewsletterSubscriber{Email: email, IsActive: true}
			if _, err := s.subRepo.Create(inner, []*types.NewsletterSubscriber{sub}); err != nil {
				return fmt.Errorf("create subscriber: %w", err)
			}
			out = sub
		}
		_, err = s.jobService.Enqueue(inner, nil, types.JobTypeNewsletterWelcomeEmail, "newsletter_subscriber", &out.ID, map[string]any{
			"email": out.Email,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("Newsletter subscription", "subscriber_id", out.ID)
	return out, nil
}

func (s *newsletterService) Unsubscribe(dbc dbctx.Context, email string) error {
	email = normalization.Email(email)
	if err := validate.Var("email", email, subscriberEmailRule); err != nil {
		return err
	}
	transaction := dbc.Tx
	if transaction == nil {
		transaction = s.db
	}
	inner := dbctx.Context{Ctx: dbc.Ctx, Tx: transaction}
	found, err := s.subRepo.GetByEmails(inner, []string{email})
	if err != nil {
		return fmt.Errorf("load subscriber: %w", err)
	}
	if len(found) == 0 {
		return apierr.NotFound("Subscriber not found.")
	}
	if !found[0].IsActive {
		return nil
	}
	return s.subRepo.UpdateFields(inner, found[0].ID, map[string]interface{}{"is_active": false})
}
