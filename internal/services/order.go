package services

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/lumina-backend/internal/data/repos"
	types "github.com/yungbote/lumina-backend/internal/domain"
	"github.com/yungbote/lumina-backend/internal/domain/orders"
	"github.com/yungbote/lumina-backend/internal/observability"
	"github.com/yungbote/lumina-backend/internal/pkg/money"
	"github.com/yungbote/lumina-backend/internal/pkg/normalization"
	"github.com/yungbote/lumina-backend/internal/pkg/pagination"
	"github.com/yungbote/lumina-backend/internal/platform/apierr"
	"github.com/yungbote/lumina-backend/internal/platform/ctxutil"
	"github.com/yungbote/lumina-backend/internal/platform/dbctx"
	"github.com/yungbote/lumina-backend/internal/platform/logger"
	"github.com/yungbote/lumina-backend/internal/platform/validate"
)

type CheckoutItem struct {
	ProductID    *uuid.UUID   `json:"product_id"`
	ProductName  string       `json:"product_name" binding:"max=255"`
	ProductSKU   string       `json:"product_sku" binding:"max=100"`
	ProductImage string       `json:"product_image"`
	Price        money.Amount `json:"price" binding:"gte=0,lte=9999999999"`
	Quantity     int          `json:"quantity" binding:"min=1,max=2147483647"`
}

// CheckoutInput is the checkout form. Card fields are validated for shape
// only and are never persisted.
type CheckoutInput struct {
	FirstName    string `json:"first_name" binding:"required,max=100"`
	LastName     string `json:"last_name" binding:"required,max=100"`
	Email        string `json:"email" binding:"required,email,max=254"`
	Phone        string `json:"phone" binding:"required,max=20"`
	Address      string `json:"address" binding:"required,max=255"`
	City         string `json:"city" binding:"required,max=100"`
	State        string `json:"state" binding:"required,max=100"`
	ZipCode      string `json:"zip_code" binding:"required,max=20"`
	Country      string `json:"country" binding:"max=100"`
	CustomerNote string `json:"customer_note"`

	CardNumber string `json:"card_number" binding:"required,max=20"`
	CardName   string `json:"card_name" binding:"required,max=100"`
	Expiry     string `json:"expiry" binding:"required,max=10"`
	CVV        string `json:"cvv" binding:"required,max=4"`

	Items []CheckoutItem `json:"items" binding:"required,min=1,dive"`
}

type OrderQuery struct {
	Status        string `form:"status" binding:"omitempty,oneof=pending processing shipped delivered cancelled refunded"`
	PaymentStatus string `form:"payment_status" binding:"omitempty,oneof=pending paid failed refunded"`
	Search        string `form:"search"`
}

type OrderStatusUpdate struct {
	Status        *string `json:"status" binding:"omitempty,oneof=pending processing shipped delivered cancelled refunded"`
	PaymentStatus *string `json:"payment_status" binding:"omitempty,oneof=pending paid failed refunded"`
	AdminNote     *string `json:"admin_note"`
}

type OrderService interface {
	Checkout(dbc dbctx.Context, in CheckoutInput) (*types.Order, error)
	MyOrders(dbc dbctx.Context, p pagination.Params) (pagination.Page[*types.Order], error)
	GetByNumber(dbc dbctx.Context, orderNumber string) (*types.Order, error)
	List(dbc dbctx.Context, q OrderQuery, p pagination.Params) (pagination.Page[*types.Order], error)
	UpdateStatus(dbc dbctx.Context, orderNumber string, in OrderStatusUpdate) (*types.Order, error)
}

type orderService struct {
	db          *gorm.DB
	log         *logger.Logger
	orderRepo   repos.OrderRepo
	productRepo repos.ProductRepo
	jobService  JobService
	metrics     *observability.Metrics
}

func NewOrderService(
	db *gorm.DB,
	baseLog *logger.Logger,
	orderRepo repos.OrderRepo,
	productRepo repos.ProductRepo,
	jobService JobService,
	metrics *observability.Metrics,
) OrderService {
	return &orderService{
		db:          db,
		log:         baseLog.With("service", "OrderService"),
		orderRepo:   orderRepo,
		productRepo: productRepo,
		jobService:  jobService,
		metrics:     metrics,
	}
}

// normalizeCheckout trims the form and fills the default country.
func normalizeCheckout(in *CheckoutInput) {
	for _, f := range []*string{
		&in.FirstName, &in.LastName, &in.Phone, &in.Address, &in.City, &in.State,
		&in.ZipCode, &in.Country, &in.CustomerNote, &in.CardNumber, &in.CardName, &in.Expiry, &in.CVV,
	} {
		*f = strings.TrimSpace(*f)
	}
	in.Email = normalization.Email(in.Email)
	if in.Country == "" {
		in.Country = "US"
	}
	for i := range in.Items {
		it := &in.Items[i]
		it.ProductName = strings.TrimSpace(it.ProductName)
		it.ProductSKU = strings.TrimSpace(it.ProductSKU)
		it.ProductImage = strings.TrimSpace(it.ProductImage)
	}
}

// validateCheckout runs the binding tags, then the rule they cannot express:
// a line without a catalog product must name itself.
func validateCheckout(in *CheckoutInput) error {
	err := validate.Struct(in)
	extra := map[string][]string{}
	for i, it := range in.Items {
		if it.ProductID != nil {
			continue
		}
		if it.ProductName == "" {
			extra[fmt.Sprintf("items[%d].product_name", i)] = []string{"This field is required when product_id is not set."}
		}
		if it.ProductSKU == "" {
			extra[fmt.Sprintf("items[%d].product_sku", i)] = []string{"This field is required when product_id is not set."}
		}
	}
	return validate.Merge(err, extra)
}

func totalTooLarge() *apierr.Error {
	return apierr.Validation(map[string][]string{
		"items": {fmt.Sprintf("Ensure the order total is less than or equal to %s.", money.Max)},
	})
}

func insufficientStock(name string) *apierr.Error {
	return apierr.New(http.StatusBadRequest, "insufficient_stock", fmt.Errorf("Insufficient stock for %s.", name))
}

func newTransactionID() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "TXN-" + strings.ToUpper(hex[:12])
}

// Checkout prices and persists an order. Catalog products are locked, their
// current name, SKU, image and price are snapshotted onto the line, and stock
// is decremented. Order, items, stock and the confirmation email job share one
// transaction.
func (s *orderService) Checkout(dbc dbctx.Context, in CheckoutInput) (*types.Order, error) {
	normalizeCheckout(&in)
	if err := validateCheckout(&in); err != nil {
		return nil, err
	}

	order := &types.Order{
		UserID:        ctxutil.UserID(dbc.Ctx),
		FirstName:     in.FirstName,
		LastName:      in.LastName,
		Email:         in.Email,
		Phone:         in.Phone,
		Address:       in.Address,
		City:          in.City,
		State:         in.State,
		ZipCode:       in.ZipCode,
		Country:       in.Country,
		Status:        types.OrderStatusProcessing,
		PaymentStatus: types.PaymentPaid,
		PaymentMethod: orders.PaymentMethodCreditCard,
		TransactionID: newTransactionID(),
		CustomerNote:  strings.TrimSpace(in.CustomerNote),
	}

	err := txBase(s.db, dbc).WithContext(dbc.Ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: dbc.Ctx, Tx: tx}

		ids := make([]uuid.UUID, 0, len(in.Items))
		for _, it := range in.Items {
			if it.ProductID != nil {
				ids = append(ids, *it.ProductID)
			}
		}
		locked, err := s.productRepo.LockByIDs(inner, ids)
		if err != nil {
			return fmt.Errorf("lock products: %w", err)
		}
		byID := make(map[uuid.UUID]*types.Product, len(locked))
		for _, p := range locked {
			byID[p.ID] = p
		}

		lines := make([]PriceLine, 0, len(in.Items))
		items := make([]types.OrderItem, 0, len(in.Items))
		for i, it := range in.Items {
			item := types.OrderItem{
				ProductName:  strings.TrimSpace(it.ProductName),
				ProductSKU:   strings.TrimSpace(it.ProductSKU),
				ProductImage: strings.TrimSpace(it.ProductImage),
				Price:        it.Price,
				Quantity:     it.Quantity,
				Position:     i + 1,
			}
			if it.ProductID != nil {
				if p, ok := byID[*it.ProductID]; ok {
					pid := p.ID
					item.ProductID = &pid
					if p.Status == types.ProductStatusActive {
						item.ProductName = p.Name
						item.ProductSKU = p.SKU
						item.ProductImage = p.Image
						item.Price = p.Price
						ok, err := s.productRepo.DecrementStock(inner, p.ID, it.Quantity)
						if err != nil {
							return fmt.Errorf("decrement stock: %w", err)
						}
						if !ok {
							return insufficientStock(p.Name)
						}
					}
				}
			}
			if item.ProductName == "" || item.ProductSKU == "" {
				return apierr.Validation(map[string][]string{
					"items": {fmt.Sprintf("Item %d: product_name and product_sku are required.", i+1)},
				})
			}
			items = append(items, item)
			lines = append(lines, PriceLine{Price: item.Price, Quantity: item.Quantity})
		}

		totals, err := PriceOrder(lines)
		if err != nil {
			return totalTooLarge()
		}
		order.Subtotal = totals.Subtotal
		order.ShippingCost = totals.Shipping
		order.Tax = totals.Tax
		order.Discount = totals.Discount
		order.Total = totals.Total
		order.Items = items

		for {
			order.OrderNumber = orders.NewOrderNumber()
			taken, err := s.orderRepo.NumberExists(inner, order.OrderNumber)
			if err != nil {
				return fmt.Errorf("check order number: %w", err)
			}
			if !taken {
				break
			}
		}

		if _, err := s.orderRepo.Create(inner, []*types.Order{order}); err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		_, err = s.jobService.Enqueue(inner, order.UserID, types.JobTypeOrderConfirmationEmail, "order", &order.ID, map[string]any{
			"order_number": order.OrderNumber,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.metrics.ObserveOrderPlaced(order.Total.Cents())
	s.log.Info("Order placed", "order_id", order.ID, "order_number", order.OrderNumber, "total", order.Total.String(), "items", len(order.Items))
	return order, nil
}

func (s *orderService) MyOrders(dbc dbctx.Context, p pagination.Params) (pagination.Page[*types.Order], error) {
	uid := ctxutil.UserID(dbc.Ctx)
	if uid == nil {
		return pagination.Page[*types.Order]{}, authRequired()
	}
	return s.list(dbc, repos.OrderFilter{UserID: uid}, p)
}

func (s *orderService) List(dbc dbctx.Context, q OrderQuery, p pagination.Params) (pagination.Page[*types.Order], error) {
	if err := validate.Struct(q); err != nil {
		return pagination.Page[*types.Order]{}, err
	}
	return s.list(dbc, repos.OrderFilter{Status: q.Status, PaymentStatus: q.PaymentStatus, Search: q.Search}, p)
}

func (s *orderService) list(dbc dbctx.Context, f repos.OrderFilter, p pagination.Params) (pagination.Page[*types.Order], error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = s.db
	}
	out, total, err := s.orderRepo.List(dbctx.Context{Ctx: dbc.Ctx, Tx: transaction}, f, p.Offset(), p.Limit())
	if err != nil {
		return pagination.Page[*types.Order]{}, fmt.Errorf("list orders: %w", err)
	}
	if err := p.Check(total); err != nil {
		return pagination.Page[*types.Order]{}, err
	}
	return pagination.Page[*types.Order]{Items: out, Total: total, Params: p}, nil
}

func (s *orderService) GetByNumber(dbc dbctx.Context, orderNumber string) (*types.Order, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = s.db
	}
	o, err := s.orderRepo.GetByNumber(dbctx.Context{Ctx: dbc.Ctx, Tx: transaction}, strings.TrimSpace(orderNumber))
	if err != nil {
		return nil, fmt.Errorf("load order: %w", err)
	}
	if o == nil {
		return nil, apierr.NotFound("No Order matches the given query.")
	}
	return o, nil
}

var notifyStatuses = map[string]bool{
	types.OrderStatusShipped:   true,
	types.OrderStatusDelivered: true,
	types.OrderStatusCancelled: true,
}

// UpdateStatus applies a staff status change. Entering shipped or delivered
// stamps the matching timestamp, and customer-facing transitions queue an
// email.
func (s *orderService) UpdateStatus(dbc dbctx.Context, orderNumber string, in OrderStatusUpdate) (*types.Order, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	var out *types.Order
	var changedTo string
	err := txBase(s.db, dbc).WithContext(dbc.Ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: dbc.Ctx, Tx: tx}
		o, err := s.orderRepo.GetByNumber(inner, strings.TrimSpace(orderNumber))
		if err != nil {
			return fmt.Errorf("load order: %w", err)
		}
		if o == nil {
			return apierr.NotFound("No Order matches the given query.")
		}

		now := time.Now().UTC()
		updates := map[string]interface{}{}
		if in.Status != nil && *in.Status != o.Status {
			changedTo = *in.Status
			updates["status"] = changedTo
			switch changedTo {
			case types.OrderStatusShipped:
				updates["shipped_at"] = now
			case types.OrderStatusDelivered:
				updates["delivered_at"] = now
			}
		}
		if in.PaymentStatus != nil && *in.PaymentStatus != o.PaymentStatus {
			updates["payment_status"] = *in.PaymentStatus
		}
		if in.AdminNote != nil {
			updates["admin_note"] = strings.TrimSpace(*in.AdminNote)
		}
		if err := s.orderRepo.UpdateFields(inner, o.ID, updates); err != nil {
			return fmt.Errorf("update order: %w", err)
		}
		if notifyStatuses[changedTo] {
			if _, err := s.jobService.Enqueue(inner, o.UserID, types.JobTypeOrderStatusEmail, "order", &o.ID, map[string]any{
				"order_number": o.OrderNumber,
				"status":       changedTo,
			}); err != nil {
				return err
			}
		}
		reloaded, err := s.orderRepo.GetByNumber(inner, o.OrderNumber)
		if err != nil {
			return fmt.Errorf("reload order: %w", err)
		}
		out = reloaded
		return nil
	})
	if err != nil {
		return nil, err
	}
	if changedTo != "" {
		s.metrics.IncOrderStatus(changedTo)
		s.log.Info("Order status changed", "order_number", out.OrderNumber, "status", changedTo)
	}
	return out, nil
}
