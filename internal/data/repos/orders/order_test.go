package orders

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/lumina-backend/internal/data/repos/testutil"
	types "github.com/yungbote/lumina-backend/internal/domain"
	"github.com/yungbote/lumina-backend/internal/pkg/money"
	"github.com/yungbote/lumina-backend/internal/platform/dbctx"
)

func TestOrderRepoCreateWithItems(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	repo := NewOrderRepo(db, testutil.Logger(t))
	p := testutil.SeedProduct(t, ctx, tx, nil, money.Cents(1250), 4)

	o := &types.Order{
		FirstName:     "Ada",
		LastName:      "Lovelace",
		Email:         "ada@example.com",
		Phone:         "555-0100",
		Address:       "1 Main St",
		City:          "London",
		State:         "LDN",
		ZipCode:       "N1",
		Status:        types.OrderStatusProcessing,
		PaymentStatus: types.PaymentPaid,
		Subtotal:      money.Cents(3500),
		ShippingCost:  money.Cents(1000),
		Tax:           money.Cents(280),
		Total:         money.Cents(4780),
		Items: []types.OrderItem{
			{ProductID: &p.ID, ProductName: "Candle", ProductSKU: p.SKU, Price: money.Cents(1250), Quantity: 2},
			{ProductName: "Card", ProductSKU: "SKU-CARD", Price: money.Cents(1000), Quantity: 1},
		},
	}
	if _, err := repo.Create(dbc, []*types.Order{o}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !strings.HasPrefix(o.OrderNumber, "LM-") || len(o.OrderNumber) != 11 {
		t.Fatalf("Create: unexpected order number %q", o.OrderNumber)
	}
	if o.Country != "" && o.Country != "US" {
		t.Fatalf("Create: unexpected country %q", o.Country)
	}

	got, err := repo.GetByNumber(dbc, o.OrderNumber)
	if err != nil || got == nil {
		t.Fatalf("GetByNumber: err=%v got=%v", err, got)
	}
	if len(got.Items) != 2 || got.Items[0].ProductName != "Candle" || got.Items[1].ProductName != "Card" {
		t.Fatalf("GetByNumber: unexpected items %+v", got.Items)
	}
	if got.ItemCount() != 3 || got.Items[0].Total() != money.Cents(2500) {
		t.Fatalf("derived fields: item_count=%d total=%s", got.ItemCount(), got.Items[0].Total())
	}
	if got.Country != "US" {
		t.Fatalf("GetByNumber: expected default country US, got %q", got.Country)
	}
	if exists, err := repo.NumberExists(dbc, o.OrderNumber); err != nil || !exists {
		t.Fatalf("NumberExists: expected true, err=%v", err)
	}
	if missing, err := repo.GetByNumber(dbc, "LM-NOPE0000"); err != nil || missing != nil {
		t.Fatalf("GetByNumber missing: err=%v got=%v", err, missing)
	}

	shippedAt := time.Now().UTC()
	if err := repo.UpdateFields(dbc, o.ID, map[string]interface{}{"status": types.OrderStatusShipped, "shipped_at": shippedAt}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	rows, err := repo.GetByIDs(dbc, []uuid.UUID{o.ID})
	if err != nil || len(rows) != 1 || rows[0].Status != types.OrderStatusShipped || rows[0].ShippedAt == nil {
		t.Fatalf("after UpdateFields: err=%v rows=%+v", err, rows)
	}
}

func TestOrderRepoList(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	repo := NewOrderRepo(db, testutil.Logger(t))
	u := testutil.SeedUser(t, ctx, tx, testutil.Unique("buyer")+"@example.com")
	email := testutil.Unique("guest") + "@example.com"

	mine1 := testutil.SeedOrder(t, ctx, tx, &u.ID, u.Email)
	mine2 := testutil.SeedOrder(t, ctx, tx, &u.ID, u.Email)
	guest := testutil.SeedOrder(t, ctx, tx, nil, email)
	if err := repo.UpdateFields(dbc, mine1.ID, map[string]interface{}{"created_at": time.Now().UTC().Add(-time.Hour)}); err != nil {
		t.Fatalf("backdate: %v", err)
	}

	rows, total, err := repo.List(dbc, OrderFilter{UserID: &u.ID}, 0, 10)
	if err != nil || total != 2 || len(rows) != 2 {
		t.Fatalf("List by user: err=%v total=%d", err, total)
	}
	if rows[0].ID != mine2.ID || rows[1].ID != mine1.ID {
		t.Fatalf("List by user: expected newest first")
	}
	if len(rows[0].Items) != 1 {
		t.Fatalf("List: expected items preloaded")
	}

	rows, total, err = repo.List(dbc, OrderFilter{Search: strings.ToUpper(email)}, 0, 10)
	if err != nil || total != 1 || rows[0].ID != guest.ID {
		t.Fatalf("List search: err=%v total=%d", err, total)
	}
	rows, total, err = repo.List(dbc, OrderFilter{Search: guest.OrderNumber}, 0, 10)
	if err != nil || total != 1 || rows[0].ID != guest.ID {
		t.Fatalf("List search by number: err=%v total=%d", err, total)
	}
	if _, total, err = repo.List(dbc, OrderFilter{Search: "%" + email}, 0, 10); err != nil || total != 0 {
		t.Fatalf("List search %%: err=%v total=%d", err, total)
	}
	if _, total, err = repo.List(dbc, OrderFilter{Search: strings.Replace(email, "-", "_", 1)}, 0, 10); err != nil || total != 0 {
		t.Fatalf("List search _: err=%v total=%d", err, total)
	}

	if err := repo.UpdateFields(dbc, guest.ID, map[string]interface{}{"status": types.OrderStatusCancelled, "payment_status": types.PaymentRefunded}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	_, total, err = repo.List(dbc, OrderFilter{Status: types.OrderStatusCancelled, PaymentStatus: types.PaymentRefunded, Search: email}, 0, 10)
	if err != nil || total != 1 {
		t.Fatalf("List status filter: err=%v total=%d", err, total)
	}
}
