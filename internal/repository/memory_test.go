package repository

import (
	"context"
	"testing"

	"github.com/Dharshini-457/Smart-Agro-Tribe/internal/domain"
)

func TestMemoryStore_UserUniqueEmail(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	u := domain.User{Name: "Alice", Email: "a@x.com", PasswordHash: "h", Role: domain.RoleFarmer}
	if err := store.Create(ctx, &u); err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.ID == 0 {
		t.Fatalf("no id")
	}

	// duplicate, different case
	dup := domain.User{Name: "Bob", Email: "A@X.COM", PasswordHash: "h2", Role: domain.RoleBuyer}
	if err := store.Create(ctx, &dup); err != ErrDuplicateEmail {
		t.Fatalf("expected duplicate email, got %v", err)
	}

	got, err := store.GetByEmail(ctx, "A@x.Com")
	if err != nil || got.Name != "Alice" {
		t.Fatalf("get by email: %v", err)
	}
	if _, err := store.GetByEmail(ctx, "missing@x.com"); err != ErrNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMemoryProducts_CreateAndList(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	products := NewMemoryProducts(store)

	p1 := domain.Product{FarmerEmail: "f@x.com", Name: "Tomato", MASP: 10, Available: 5}
	p2 := domain.Product{FarmerEmail: "G@x.com", Name: "Onion", MASP: 8, Available: 200}
	if err := products.Create(ctx, &p1); err != nil {
		t.Fatal(err)
	}
	if err := products.Create(ctx, &p2); err != nil {
		t.Fatal(err)
	}
	if p1.ID == 0 || p2.ID <= p1.ID {
		t.Fatalf("ids not assigned in order: %v %v", p1.ID, p2.ID)
	}

	all, err := products.List(ctx)
	if err != nil || len(all) != 2 {
		t.Fatalf("list: %v %v", len(all), err)
	}

	// farmer filter is case-insensitive
	mine, err := products.ListByFarmer(ctx, "g@X.com")
	if err != nil || len(mine) != 1 || mine[0].Name != "Onion" {
		t.Fatalf("list by farmer: %+v %v", mine, err)
	}

	p1.Available = 2
	if err := products.Update(ctx, &p1); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ := products.GetByID(ctx, p1.ID)
	if got.Available != 2 {
		t.Fatalf("available expected 2, got %v", got.Available)
	}

	if err := products.Update(ctx, &domain.Product{ID: 999}); err != ErrNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMemoryTx_AtomicOrderUnit(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	tx := NewMemoryTx(store)
	products := NewMemoryProducts(store)
	orders := NewMemoryOrders(store)
	ledger := NewMemoryLedger(store)

	// seed product
	p := domain.Product{FarmerEmail: "f@x.com", Name: "Tomato", MASP: 10, Available: 5}
	if err := products.Create(ctx, &p); err != nil {
		t.Fatal(err)
	}

	// emulate atomic stock decrement + order + ledger append
	err := tx.WithTransaction(ctx, func(ctx context.Context) error {
		pp, err := products.GetByID(ctx, p.ID)
		if err != nil {
			return err
		}
		if pp.Available < 3 {
			t.Fatalf("stock precondition")
		}
		pp.Available -= 3
		if err := products.Update(ctx, pp); err != nil {
			return err
		}
		o := domain.Order{ProductID: p.ID, FarmerEmail: p.FarmerEmail, BuyerName: "John", BuyerEmail: "j@x.com", Qty: 3, Status: domain.OrderStatusPlaced}
		if err := orders.Create(ctx, &o); err != nil {
			return err
		}
		return ledger.Append(ctx, &domain.LedgerEntry{OrderID: o.ID, Order: o, Hash: "h1"})
	})
	if err != nil {
		t.Fatalf("tx: %v", err)
	}

	pp, _ := products.GetByID(context.Background(), p.ID)
	if pp.Available != 2 {
		t.Fatalf("available expected 2, got %v", pp.Available)
	}
	o, err := orders.GetByID(ctx, 1001)
	if err != nil {
		t.Fatalf("order ids start at 1001: %v", err)
	}
	if o.Qty != 3 {
		t.Fatalf("order qty: %v", o.Qty)
	}
	if h, _ := ledger.LastHash(ctx); h != "h1" {
		t.Fatalf("last hash: %q", h)
	}
}

func TestMemoryOrders_ListByFarmer(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	orders := NewMemoryOrders(store)

	for _, fe := range []string{"f1@x.com", "f2@x.com", "f1@x.com"} {
		o := domain.Order{FarmerEmail: fe, BuyerName: "B", BuyerEmail: "b@x.com", Qty: 1}
		if err := orders.Create(ctx, &o); err != nil {
			t.Fatal(err)
		}
	}
	got, err := orders.ListByFarmer(ctx, "F1@x.com")
	if err != nil || len(got) != 2 {
		t.Fatalf("list by farmer: %v %v", len(got), err)
	}
}

func TestMemorySessions_Revoke(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	sessions := NewMemorySessions(store)

	if ok, _ := sessions.IsRevoked(ctx, "jti-1"); ok {
		t.Fatalf("fresh jti must not be revoked")
	}
	if err := sessions.Revoke(ctx, "jti-1"); err != nil {
		t.Fatal(err)
	}
	// idempotent
	if err := sessions.Revoke(ctx, "jti-1"); err != nil {
		t.Fatal(err)
	}
	if ok, _ := sessions.IsRevoked(ctx, "jti-1"); !ok {
		t.Fatalf("jti must be revoked")
	}
}
