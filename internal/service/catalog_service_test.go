package service

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/Dharshini-457/Smart-Agro-Tribe/internal/domain"
	"github.com/Dharshini-457/Smart-Agro-Tribe/internal/pricing"
	"github.com/Dharshini-457/Smart-Agro-Tribe/internal/repository"
)

// capturePublisher запоминает опубликованные события
type capturePublisher struct {
	mu     sync.Mutex
	events []string
	done   chan struct{}
}

func newCapturePublisher() *capturePublisher {
	return &capturePublisher{done: make(chan struct{}, 16)}
}

func (p *capturePublisher) Publish(ctx context.Context, routingKey string, data any) error {
	p.mu.Lock()
	p.events = append(p.events, routingKey)
	p.mu.Unlock()
	p.done <- struct{}{}
	return nil
}

func (p *capturePublisher) Close() {}

type fixture struct {
	users   *UserService
	catalog *CatalogService
	orders  *OrderService
	ledger  repository.LedgerRepository
	pub     *capturePublisher
}

func setup(t *testing.T) *fixture {
	t.Helper()
	store := repository.NewMemoryStore()
	products := repository.NewMemoryProducts(store)
	ordersRepo := repository.NewMemoryOrders(store)
	ledger := repository.NewMemoryLedger(store)
	tx := repository.NewMemoryTx(store)
	engine := pricing.NewEngine(pricing.DefaultPlatformFee)
	pub := newCapturePublisher()

	us := NewUserService(store)
	cs := NewCatalogService(products, ordersRepo, store, engine)
	os := NewOrderService(products, ordersRepo, ledger, tx, engine, pub, zerolog.Nop())
	return &fixture{users: us, catalog: cs, orders: os, ledger: ledger, pub: pub}
}

func (f *fixture) registerFarmer(t *testing.T, email string) {
	t.Helper()
	if _, err := f.users.Register(context.Background(), "Farmer", email, "pw", domain.RoleFarmer); err != nil {
		t.Fatalf("register farmer: %v", err)
	}
}

func TestAddProduct_Valid(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	f.registerFarmer(t, "f@x.com")

	p, err := f.catalog.AddProduct(ctx, "f@x.com", "Tomato", "vegetable", "A", 10, 5)
	if err != nil {
		t.Fatalf("add product: %v", err)
	}
	if p.ID == 0 {
		t.Fatalf("expected id assigned")
	}
}

func TestAddProduct_Errors(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	f.registerFarmer(t, "f@x.com")
	// buyer не может выставлять товары
	if _, err := f.users.Register(ctx, "Buyer", "b@x.com", "pw", domain.RoleBuyer); err != nil {
		t.Fatal(err)
	}

	if _, err := f.catalog.AddProduct(ctx, "stranger@x.com", "Tomato", "", "", 10, 5); err != ErrUnknownFarmer {
		t.Fatalf("expected unknown farmer, got %v", err)
	}
	if _, err := f.catalog.AddProduct(ctx, "b@x.com", "Tomato", "", "", 10, 5); err != ErrUnknownFarmer {
		t.Fatalf("expected unknown farmer for buyer, got %v", err)
	}
	if _, err := f.catalog.AddProduct(ctx, "f@x.com", "Tomato", "", "", 0, 5); err != ErrInvalidQuantityOrPrice {
		t.Fatalf("expected invalid price for masp=0, got %v", err)
	}
	if _, err := f.catalog.AddProduct(ctx, "f@x.com", "Tomato", "", "", -1, 5); err != ErrInvalidQuantityOrPrice {
		t.Fatalf("expected invalid price for masp<0, got %v", err)
	}
	if _, err := f.catalog.AddProduct(ctx, "f@x.com", "Tomato", "", "", 10, -1); err != ErrInvalidQuantityOrPrice {
		t.Fatalf("expected invalid quantity, got %v", err)
	}
	if _, err := f.catalog.AddProduct(ctx, "f@x.com", "", "", "", 10, 5); err != ErrInvalidInput {
		t.Fatalf("expected invalid input for empty name, got %v", err)
	}
}

func TestList_PriceRecomputedOnRead(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	f.registerFarmer(t, "f@x.com")
	// 25 единиц: средний остаток, поправка 0
	p, err := f.catalog.AddProduct(ctx, "f@x.com", "Tomato", "", "", 10, 25)
	if err != nil {
		t.Fatal(err)
	}

	list, err := f.catalog.List(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("list: %v %v", len(list), err)
	}
	if list[0].CurrentPrice != 13 {
		t.Fatalf("current price expected 13, got %v", list[0].CurrentPrice)
	}
	if list[0].PricingBreakdown.Recommendation != pricing.RecommendationStable {
		t.Fatalf("recommendation: %q", list[0].PricingBreakdown.Recommendation)
	}

	// после покупки остаток падает в дефицитную зону и цена растёт
	if _, _, err := f.orders.PlaceOrder(ctx, "John", "j@x.com", p.ID, 10); err != nil {
		t.Fatalf("place order: %v", err)
	}
	list, err = f.catalog.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if list[0].Available != 15 {
		t.Fatalf("available expected 15, got %v", list[0].Available)
	}
	if list[0].CurrentPrice != 15 {
		t.Fatalf("scarcity price expected 15, got %v", list[0].CurrentPrice)
	}
	if list[0].CurrentPrice < list[0].MASP {
		t.Fatalf("price below masp")
	}
}

func TestListForFarmer_JoinsOrders(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	f.registerFarmer(t, "f1@x.com")
	f.registerFarmer(t, "f2@x.com")

	p1, _ := f.catalog.AddProduct(ctx, "f1@x.com", "Tomato", "", "", 10, 50)
	p2, _ := f.catalog.AddProduct(ctx, "f2@x.com", "Onion", "", "", 8, 50)

	if _, _, err := f.orders.PlaceOrder(ctx, "John", "j@x.com", p1.ID, 2); err != nil {
		t.Fatal(err)
	}
	if _, _, err := f.orders.PlaceOrder(ctx, "Jane", "jn@x.com", p2.ID, 1); err != nil {
		t.Fatal(err)
	}

	products, orders, err := f.catalog.ListForFarmer(ctx, "f1@x.com")
	if err != nil {
		t.Fatalf("list for farmer: %v", err)
	}
	if len(products) != 1 || products[0].Name != "Tomato" {
		t.Fatalf("products: %+v", products)
	}
	if len(orders) != 1 || orders[0].BuyerName != "John" {
		t.Fatalf("orders: %+v", orders)
	}
}
