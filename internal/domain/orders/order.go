package orders

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/lumina-backend/internal/domain/user"
	"github.com/yungbote/lumina-backend/internal/pkg/money"
	"gorm.io/gorm"
)

const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusShipped    = "shipped"
	StatusDelivered  = "delivered"
	StatusCancelled  = "cancelled"
	StatusRefunded   = "refunded"
)

const (
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentFailed   = "failed"
	PaymentRefunded = "refunded"
)

const PaymentMethodCreditCard = "credit_card"

func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled, StatusRefunded:
		return true
	}
	return false
}

func ValidPaymentStatus(s string) bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

type Order struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	OrderNumber string     `gorm:"uniqueIndex;not null;size:50;column:order_number" json:"order_number"`
	UserID      *uuid.UUID `gorm:"type:uuid;index;column:user_id" json:"-"`
	User        *user.User `gorm:"constraint:OnDelete:SET NULL;foreignKey:UserID;references:ID" json:"-"`

	FirstName string `gorm:"not null;size:100;column:first_name" json:"first_name"`
	LastName  string `gorm:"not null;size:100;column:last_name" json:"last_name"`
	Email     string `gorm:"not null;index;column:email" json:"email"`
	Phone     string `gorm:"not null;size:20;column:phone" json:"phone"`
	Address   string `gorm:"not null;size:255;column:address" json:"address"`
	City      string `gorm:"not null;size:100;column:city" json:"city"`
	State     string `gorm:"not null;size:100;column:state" json:"state"`
	ZipCode   string `gorm:"not null;size:20;column:zip_code" json:"zip_code"`
	Country   string `gorm:"not null;default:'US';size:100;column:country" json:"country"`

	Status        string `gorm:"not null;default:'pending';size:20;index;column:status" json:"status"`
	PaymentStatus string `gorm:"not null;default:'pending';size:20;index;column:payment_status" json:"payment_status"`

	Subtotal     money.Amount `gorm:"not null;column:subtotal" json:"subtotal"`
	ShippingCost money.Amount `gorm:"not null;default:0;column:shipping_cost" json:"shipping_cost"`
	Tax          money.Amount `gorm:"not null;default:0;column:tax" json:"tax"`
	Discount     money.Amount `gorm:"not null;default:0;column:discount" json:"discount"`
	Total        money.Amount `gorm:"not null;column:total" json:"total"`

	PaymentMethod string `gorm:"not null;default:'';size:50;column:payment_method" json:"payment_method"`
	TransactionID string `gorm:"not null;default:'';size:255;column:transaction_id" json:"transaction_id"`
	CustomerNote  string `gorm:"not null;default:'';column:customer_note" json:"customer_note"`
	AdminNote     string `gorm:"not null;default:'';column:admin_note" json:"-"`

	Items []OrderItem `gorm:"foreignKey:OrderID;references:ID" json:"items"`

	CreatedAt   time.Time  `gorm:"not null;autoCreateTime;index" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null;autoUpdateTime" json:"updated_at"`
	ShippedAt   *time.Time `gorm:"column:shipped_at" json:"shipped_at"`
	DeliveredAt *time.Time `gorm:"column:delivered_at" json:"delivered_at"`
}

func (Order) TableName() string { return "order" }

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if o.OrderNumber == "" {
		o.OrderNumber = NewOrderNumber()
	}
	return nil
}

// NewOrderNumber returns "LM-" followed by eight upper-case hex characters.
func NewOrderNumber() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "LM-" + strings.ToUpper(hex[:8])
}

func (o *Order) FullName() string {
	return o.FirstName + " " + o.LastName
}

func (o *Order) ItemCount() int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}
