package orders

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/lumina-backend/internal/domain"
	"github.com/yungbote/lumina-backend/internal/pkg/normalization"
	"github.com/yungbote/lumina-backend/internal/platform/dbctx"
	"github.com/yungbote/lumina-backend/internal/platform/logger"
)

type OrderFilter struct {
	UserID        *uuid.UUID
	Status        string
	PaymentStatus string
	Search        string
}

type OrderRepo interface {
	Create(dbc dbctx.Context, orders []*types.Order) ([]*types.Order, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Order, error)
	GetByNumber(dbc dbctx.Context, orderNumber string) (*types.Order, error)
	NumberExists(dbc dbctx.Context, orderNumber string) (bool, error)
	List(dbc dbctx.Context, f OrderFilter, offset, limit int) ([]*types.Order, int64, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
}

type orderRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOrderRepo(db *gorm.DB, baseLog *logger.Logger) OrderRepo {
	return &orderRepo{db: db, log: baseLog.With("repo", "OrderRepo")}
}

func preloadItems(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC").Order("id ASC")
}

// Create inserts orders together with their Items.
func (r *orderRepo) Create(dbc dbctx.Context, orders []*types.Order) ([]*types.Order, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(orders) == 0 {
		return []*types.Order{}, nil
	}
	for _, o := range orders {
		for i := range o.Items {
			if o.Items[i].Position == 0 {
				o.Items[i].Position = i + 1
			}
		}
	}
	if err := transaction.WithContext(dbc.Ctx).Omit("User").Create(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Order, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.Order
	if len(ids) == 0 {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Preload("Items", preloadItems).
		Where("id IN ?", ids).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// GetByNumber returns nil when no order matches.
func (r *orderRepo) GetByNumber(dbc dbctx.Context, orderNumber string) (*types.Order, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.Order
	if err := transaction.WithContext(dbc.Ctx).
		Preload("Items", preloadItems).
		Where("order_number = ?", orderNumber).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *orderRepo) NumberExists(dbc dbctx.Context, orderNumber string) (bool, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.Order{}).
		Where("order_number = ?", orderNumber).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *orderRepo) applyFilter(q *gorm.DB, f OrderFilter) *gorm.DB {
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.PaymentStatus != "" {
		q = q.Where("payment_status = ?", f.PaymentStatus)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := normalization.ContainsPattern(s)
		q = q.Where(`(LOWER(order_number) LIKE ? ESCAPE '\' OR LOWER(email) LIKE ? ESCAPE '\'
			OR LOWER(first_name) LIKE ? ESCAPE '\' OR LOWER(last_name) LIKE ? ESCAPE '\'
			OR LOWER(phone) LIKE ? ESCAPE '\' OR LOWER(transaction_id) LIKE ? ESCAPE '\')`,
			like, like, like, like, like, like)
	}
	return q
}

// List returns orders newest first, with items.
func (r *orderRepo) List(dbc dbctx.Context, f OrderFilter, offset, limit int) ([]*types.Order, int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var total int64
	if err := r.applyFilter(transaction.WithContext(dbc.Ctx).Model(&types.Order{}), f).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []*types.Order
	if err := r.applyFilter(transaction.WithContext(dbc.Ctx).Model(&types.Order{}), f).
		Preload("Items", preloadItems).
		Order("created_at DESC").
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *orderRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	return transaction.WithContext(dbc.Ctx).
		Model(&types.Order{}).
		Where("id = ?", id).
		Updates(updates).Error
}
