package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Dharshini-457/Smart-Agro-Tribe/internal/domain"
	"github.com/Dharshini-457/Smart-Agro-Tribe/internal/eventbus"
	"github.com/Dharshini-457/Smart-Agro-Tribe/internal/pricing"
	"github.com/Dharshini-457/Smart-Agro-Tribe/internal/repository"
)

var (
	ErrNotEnoughStock  = errors.New("not enough stock")
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrLedgerCorrupt   = errors.New("ledger hash chain broken")
)

// OrderService оформление заказов: списание остатка, запись заказа и
// строка журнала создаются одной атомарной единицей
type OrderService struct {
	products  repository.ProductRepository
	orders    repository.OrderRepository
	ledger    repository.LedgerRepository
	tx        repository.TxManager
	engine    *pricing.Engine
	publisher eventbus.Publisher
	log       zerolog.Logger
}

func NewOrderService(products repository.ProductRepository, orders repository.OrderRepository, ledger repository.LedgerRepository, tx repository.TxManager, engine *pricing.Engine, publisher eventbus.Publisher, log zerolog.Logger) *OrderService {
	return &OrderService{
		products:  products,
		orders:    orders,
		ledger:    ledger,
		tx:        tx,
		engine:    engine,
		publisher: publisher,
		log:       log,
	}
}

// PlaceOrder проверяет остаток и атомарно списывает его, фиксируя цену
// на момент вызова
func (s *OrderService) PlaceOrder(ctx context.Context, buyerName, buyerEmail string, productID, qty int64) (*domain.Order, *domain.LedgerEntry, error) {
	buyerName = strings.TrimSpace(buyerName)
	buyerEmail = strings.TrimSpace(buyerEmail)
	if buyerName == "" || buyerEmail == "" || productID <= 0 {
		return nil, nil, ErrInvalidInput
	}
	if qty <= 0 {
		return nil, nil, ErrInvalidQuantity
	}

	var (
		created *domain.Order
		entry   *domain.LedgerEntry
	)
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		p, err := s.products.GetByID(ctx, productID)
		if err != nil {
			return err
		}
		if p.Available < qty {
			return ErrNotEnoughStock
		}

		// цена на момент заказа
		quote := s.engine.Quote(p.MASP, p.Available)

		p.Available -= qty
		if err := s.products.Update(ctx, p); err != nil {
			return err
		}

		o := domain.Order{
			ProductID:        p.ID,
			ProductName:      p.Name,
			FarmerEmail:      p.FarmerEmail,
			BuyerName:        buyerName,
			BuyerEmail:       buyerEmail,
			Qty:              qty,
			UnitPrice:        quote.FinalPrice,
			TotalPrice:       pricing.Round2(quote.FinalPrice * float64(qty)),
			PricingBreakdown: quote,
			Status:           domain.OrderStatusPlaced,
		}
		if err := s.orders.Create(ctx, &o); err != nil {
			return err
		}

		prev, err := s.ledger.LastHash(ctx)
		if err != nil {
			return err
		}
		e := domain.LedgerEntry{
			ID:        uuid.NewString(),
			OrderID:   o.ID,
			Order:     o,
			PrevHash:  prev,
			Timestamp: time.Now().UTC(),
		}
		e.Hash = hashEntry(e)
		if err := s.ledger.Append(ctx, &e); err != nil {
			return err
		}

		created = &o
		entry = &e
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	go s.publishOrderPlaced(context.Background(), created)

	return created, entry, nil
}

// GetOrder возвращает заказ по id
func (s *OrderService) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	if id <= 0 {
		return nil, ErrInvalidInput
	}
	return s.orders.GetByID(ctx, id)
}

// Ledger полный журнал для аудита
func (s *OrderService) Ledger(ctx context.Context) ([]domain.LedgerEntry, error) {
	return s.ledger.List(ctx)
}

// VerifyLedger пересчитывает цепочку хэшей; при расхождении возвращает
// индекс первой испорченной записи
func (s *OrderService) VerifyLedger(ctx context.Context) (int, error) {
	entries, err := s.ledger.List(ctx)
	if err != nil {
		return -1, err
	}
	prev := ""
	for i, e := range entries {
		if e.PrevHash != prev {
			return i, ErrLedgerCorrupt
		}
		if hashEntry(e) != e.Hash {
			return i, ErrLedgerCorrupt
		}
		prev = e.Hash
	}
	return -1, nil
}

// hashEntry SHA-256 канонического JSON записи без её собственного хэша
func hashEntry(e domain.LedgerEntry) string {
	e.Hash = ""
	b, err := json.Marshal(e)
	if err != nil {
		// структура всегда сериализуема; сюда попасть нельзя
		panic(fmt.Sprintf("marshal ledger entry: %v", err))
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func (s *OrderService) publishOrderPlaced(ctx context.Context, o *domain.Order) {
	evt := map[string]any{
		"order_id":    o.ID,
		"product_id":  o.ProductID,
		"qty":         o.Qty,
		"total_price": o.TotalPrice,
		"created_at":  o.CreatedAt,
	}
	if err := s.publisher.Publish(ctx, "order.placed", evt); err != nil {
		s.log.Error().Err(err).Int64("order_id", o.ID).Msg("failed to publish order.placed")
	}
}
