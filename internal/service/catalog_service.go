package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Dharshini-457/Smart-Agro-Tribe/internal/domain"
	"github.com/Dharshini-457/Smart-Agro-Tribe/internal/pricing"
	"github.com/Dharshini-457/Smart-Agro-Tribe/internal/repository"
)

var (
	ErrUnknownFarmer          = errors.New("farmer not registered")
	ErrInvalidQuantityOrPrice = errors.New("masp must be positive and available non-negative")
)

// CatalogService товары фермеров и расчёт текущей цены при чтении
type CatalogService struct {
	products repository.ProductRepository
	orders   repository.OrderRepository
	users    repository.UserRepository
	engine   *pricing.Engine
}

func NewCatalogService(products repository.ProductRepository, orders repository.OrderRepository, users repository.UserRepository, engine *pricing.Engine) *CatalogService {
	return &CatalogService{products: products, orders: orders, users: users, engine: engine}
}

// AddProduct создаёт новую позицию каталога. Каждый вызов — новая строка,
// пополнение существующей позиции не поддерживается.
func (s *CatalogService) AddProduct(ctx context.Context, farmerEmail, name, category, quality string, masp float64, available int64) (*domain.Product, error) {
	farmerEmail = strings.TrimSpace(farmerEmail)
	if farmerEmail == "" || strings.TrimSpace(name) == "" {
		return nil, ErrInvalidInput
	}
	if masp <= 0 || available < 0 {
		return nil, ErrInvalidQuantityOrPrice
	}

	u, err := s.users.GetByEmail(ctx, farmerEmail)
	if err != nil || u.Role != domain.RoleFarmer {
		return nil, ErrUnknownFarmer
	}

	p := domain.Product{
		FarmerEmail: u.Email,
		Name:        strings.TrimSpace(name),
		Category:    category,
		Quality:     quality,
		MASP:        masp,
		Available:   available,
	}
	if err := s.products.Create(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// List возвращает все товары с ценой, пересчитанной на момент вызова
func (s *CatalogService) List(ctx context.Context) ([]domain.PricedProduct, error) {
	list, err := s.products.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.priceAll(list), nil
}

// ListForFarmer товары фермера и заказы на них
func (s *CatalogService) ListForFarmer(ctx context.Context, farmerEmail string) ([]domain.PricedProduct, []domain.Order, error) {
	if strings.TrimSpace(farmerEmail) == "" {
		return nil, nil, ErrInvalidInput
	}
	products, err := s.products.ListByFarmer(ctx, farmerEmail)
	if err != nil {
		return nil, nil, err
	}
	orders, err := s.orders.ListByFarmer(ctx, farmerEmail)
	if err != nil {
		return nil, nil, err
	}
	return s.priceAll(products), orders, nil
}

func (s *CatalogService) priceAll(list []domain.Product) []domain.PricedProduct {
	out := make([]domain.PricedProduct, 0, len(list))
	for _, p := range list {
		q := s.engine.Quote(p.MASP, p.Available)
		out = append(out, domain.PricedProduct{
			Product:          p,
			CurrentPrice:     q.FinalPrice,
			PricingBreakdown: q,
		})
	}
	return out
}
