package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Dharshini-457/Smart-Agro-Tribe/internal/domain"
)

// MemoryStore объединённое in-memory хранилище и простой генератор ID
type MemoryStore struct {
	mu           sync.RWMutex
	nextUserID   int64
	nextProdID   int64
	nextOrderID  int64
	usersByEmail map[string]domain.User
	productsByID map[int64]domain.Product
	ordersByID   map[int64]domain.Order
	ledger       []domain.LedgerEntry
	revokedJTI   map[string]struct{}
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextUserID:   1,
		nextProdID:   1,
		nextOrderID:  1001, // заказы нумеруются с 1001
		usersByEmail: make(map[string]domain.User),
		productsByID: make(map[int64]domain.Product),
		ordersByID:   make(map[int64]domain.Order),
		revokedJTI:   make(map[string]struct{}),
	}
}

// transaction-aware locking helpers
type txKey struct{}

func isTx(ctx context.Context) bool {
	v := ctx.Value(txKey{})
	if v == nil {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}

func (m *MemoryStore) rlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.RLock()
	}
}
func (m *MemoryStore) runlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.RUnlock()
	}
}
func (m *MemoryStore) wlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.Lock()
	}
}
func (m *MemoryStore) wunlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.Unlock()
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Ensure interfaces
var _ UserRepository = (*MemoryStore)(nil)

// UserRepository implementation

func (m *MemoryStore) Create(ctx context.Context, u *domain.User) error {
	m.wlock(ctx)
	defer m.wunlock(ctx)
	key := normalizeEmail(u.Email)
	if _, ok := m.usersByEmail[key]; ok {
		return ErrDuplicateEmail
	}
	u.ID = m.nextUserID
	m.nextUserID++
	u.Email = key
	u.CreatedAt = time.Now().UTC()
	m.usersByEmail[key] = *u
	return nil
}

func (m *MemoryStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.rlock(ctx)
	defer m.runlock(ctx)
	u, ok := m.usersByEmail[normalizeEmail(email)]
	if !ok {
		return nil, ErrNotFound
	}
	cp := u
	return &cp, nil
}

// ProductRepository implementation на отдельном типе-обёртке,
// чтобы не конфликтовать методами Create с пользователями

// MemoryProducts хранилище товаров поверх общего MemoryStore
type MemoryProducts struct{ store *MemoryStore }

func NewMemoryProducts(store *MemoryStore) *MemoryProducts { return &MemoryProducts{store: store} }

func (mp *MemoryProducts) Create(ctx context.Context, p *domain.Product) error {
	mp.store.wlock(ctx)
	defer mp.store.wunlock(ctx)
	p.ID = mp.store.nextProdID
	mp.store.nextProdID++
	p.FarmerEmail = normalizeEmail(p.FarmerEmail)
	p.CreatedAt = time.Now().UTC()
	mp.store.productsByID[p.ID] = *p
	return nil
}

func (mp *MemoryProducts) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	mp.store.rlock(ctx)
	defer mp.store.runlock(ctx)
	p, ok := mp.store.productsByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	// return copy
	cp := p
	return &cp, nil
}

func (mp *MemoryProducts) Update(ctx context.Context, p *domain.Product) error {
	mp.store.wlock(ctx)
	defer mp.store.wunlock(ctx)
	if _, ok := mp.store.productsByID[p.ID]; !ok {
		return ErrNotFound
	}
	mp.store.productsByID[p.ID] = *p
	return nil
}

func (mp *MemoryProducts) List(ctx context.Context) ([]domain.Product, error) {
	mp.store.rlock(ctx)
	defer mp.store.runlock(ctx)
	out := make([]domain.Product, 0, len(mp.store.productsByID))
	for _, p := range mp.store.productsByID {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (mp *MemoryProducts) ListByFarmer(ctx context.Context, farmerEmail string) ([]domain.Product, error) {
	mp.store.rlock(ctx)
	defer mp.store.runlock(ctx)
	key := normalizeEmail(farmerEmail)
	out := make([]domain.Product, 0)
	for _, p := range mp.store.productsByID {
		if p.FarmerEmail == key {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

var _ ProductRepository = (*MemoryProducts)(nil)

// MemoryOrders хранилище заказов поверх общего MemoryStore
type MemoryOrders struct{ store *MemoryStore }

func NewMemoryOrders(store *MemoryStore) *MemoryOrders { return &MemoryOrders{store: store} }

var _ OrderRepository = (*MemoryOrders)(nil)

func (mo *MemoryOrders) Create(ctx context.Context, o *domain.Order) error {
	mo.store.wlock(ctx)
	defer mo.store.wunlock(ctx)
	o.ID = mo.store.nextOrderID
	mo.store.nextOrderID++
	o.FarmerEmail = normalizeEmail(o.FarmerEmail)
	o.CreatedAt = time.Now().UTC()
	mo.store.ordersByID[o.ID] = *o
	return nil
}

func (mo *MemoryOrders) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	mo.store.rlock(ctx)
	defer mo.store.runlock(ctx)
	o, ok := mo.store.ordersByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := o
	return &cp, nil
}

func (mo *MemoryOrders) ListByFarmer(ctx context.Context, farmerEmail string) ([]domain.Order, error) {
	mo.store.rlock(ctx)
	defer mo.store.runlock(ctx)
	key := normalizeEmail(farmerEmail)
	out := make([]domain.Order, 0)
	for _, o := range mo.store.ordersByID {
		if o.FarmerEmail == key {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// MemoryLedger журнал на дозапись поверх общего MemoryStore
type MemoryLedger struct{ store *MemoryStore }

func NewMemoryLedger(store *MemoryStore) *MemoryLedger { return &MemoryLedger{store: store} }

var _ LedgerRepository = (*MemoryLedger)(nil)

func (ml *MemoryLedger) Append(ctx context.Context, e *domain.LedgerEntry) error {
	ml.store.wlock(ctx)
	defer ml.store.wunlock(ctx)
	ml.store.ledger = append(ml.store.ledger, *e)
	return nil
}

func (ml *MemoryLedger) List(ctx context.Context) ([]domain.LedgerEntry, error) {
	ml.store.rlock(ctx)
	defer ml.store.runlock(ctx)
	out := make([]domain.LedgerEntry, len(ml.store.ledger))
	copy(out, ml.store.ledger)
	return out, nil
}

func (ml *MemoryLedger) LastHash(ctx context.Context) (string, error) {
	ml.store.rlock(ctx)
	defer ml.store.runlock(ctx)
	if len(ml.store.ledger) == 0 {
		return "", nil
	}
	return ml.store.ledger[len(ml.store.ledger)-1].Hash, nil
}

// MemorySessions множество отозванных jti поверх общего MemoryStore
type MemorySessions struct{ store *MemoryStore }

func NewMemorySessions(store *MemoryStore) *MemorySessions { return &MemorySessions{store: store} }

var _ SessionRepository = (*MemorySessions)(nil)

func (ms *MemorySessions) Revoke(ctx context.Context, jti string) error {
	ms.store.wlock(ctx)
	defer ms.store.wunlock(ctx)
	ms.store.revokedJTI[jti] = struct{}{}
	return nil
}

func (ms *MemorySessions) IsRevoked(ctx context.Context, jti string) (bool, error) {
	ms.store.rlock(ctx)
	defer ms.store.runlock(ctx)
	_, ok := ms.store.revokedJTI[jti]
	return ok, nil
}

// Tx manager using write lock to emulate transaction boundary
type MemoryTx struct{ store *MemoryStore }

func NewMemoryTx(store *MemoryStore) *MemoryTx { return &MemoryTx{store: store} }

var _ TxManager = (*MemoryTx)(nil)

func (tx *MemoryTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	// Для in-memory используем блокировку записи и помечаем контекст, чтобы репозитории пропускали внутренние локи
	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()
	ctx = context.WithValue(ctx, txKey{}, true)
	return fn(ctx)
}
