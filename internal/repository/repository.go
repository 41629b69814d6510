package repository

import (
	"context"
	"errors"

	"github.com/Dharshini-457/Smart-Agro-Tribe/internal/domain"
)

// ErrNotFound возвращается, когда сущность не найдена
var ErrNotFound = errors.New("not found")

// ErrDuplicateEmail возвращается при попытке повторной регистрации email
var ErrDuplicateEmail = errors.New("email already registered")

// UserRepository интерфейс хранилища пользователей. Email сравнивается
// без учёта регистра.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// ProductRepository интерфейс хранилища товаров. Товары не удаляются,
// только исчерпываются.
type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) error
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	Update(ctx context.Context, p *domain.Product) error
	List(ctx context.Context) ([]domain.Product, error)
	ListByFarmer(ctx context.Context, farmerEmail string) ([]domain.Product, error)
}

// OrderRepository интерфейс хранилища заказов
type OrderRepository interface {
	Create(ctx context.Context, o *domain.Order) error
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	ListByFarmer(ctx context.Context, farmerEmail string) ([]domain.Order, error)
}

// LedgerRepository журнал только на дозапись
type LedgerRepository interface {
	Append(ctx context.Context, e *domain.LedgerEntry) error
	List(ctx context.Context) ([]domain.LedgerEntry, error)
	LastHash(ctx context.Context) (string, error)
}

// SessionRepository множество отозванных идентификаторов токенов (jti)
type SessionRepository interface {
	Revoke(ctx context.Context, jti string) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// TxManager абстракция транзакции. Для in-memory — глобальная блокировка записи.
type TxManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
