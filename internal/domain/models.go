package domain

import "time"

// Role роль пользователя на площадке
type Role string

const (
	RoleFarmer Role = "farmer"
	RoleBuyer  Role = "buyer"
)

// Valid проверяет, что роль одна из известных
func (r Role) Valid() bool {
	return r == RoleFarmer || r == RoleBuyer
}

// User учётная запись фермера или покупателя
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// Product позиция каталога: товар фермера с минимальной гарантированной ценой
type Product struct {
	ID          int64     `json:"id"`
	FarmerEmail string    `json:"farmer_email"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Quality     string    `json:"quality"`
	MASP        float64   `json:"masp"`
	Available   int64     `json:"available"`
	CreatedAt   time.Time `json:"created_at"`
}

// PriceQuote расшифровка текущей цены относительно MASP
type PriceQuote struct {
	MASP             float64 `json:"masp"`
	PlatformFee      float64 `json:"platform_fee"`
	MarketAdjustment float64 `json:"market_adjustment"`
	FinalPrice       float64 `json:"final_price"`
	Recommendation   string  `json:"recommendation"`
}

// PricedProduct товар с ценой, рассчитанной на момент чтения
type PricedProduct struct {
	Product
	CurrentPrice     float64    `json:"current_price"`
	PricingBreakdown PriceQuote `json:"pricing_breakdown"`
}

// OrderStatus тип статуса заказа
type OrderStatus string

const OrderStatusPlaced OrderStatus = "placed"

// Order заказ покупателя; цена фиксируется в момент оформления
type Order struct {
	ID               int64       `json:"id"`
	ProductID        int64       `json:"product_id"`
	ProductName      string      `json:"product_name"`
	FarmerEmail      string      `json:"farmer_email"`
	BuyerName        string      `json:"buyer_name"`
	BuyerEmail       string      `json:"buyer_email"`
	Qty              int64       `json:"qty"`
	UnitPrice        float64     `json:"unit_price"`
	TotalPrice       float64     `json:"total_price"`
	PricingBreakdown PriceQuote  `json:"pricing_breakdown"`
	Status           OrderStatus `json:"status"`
	CreatedAt        time.Time   `json:"created_at"`
}

// LedgerEntry запись аудиторского журнала; PrevHash связывает её с предыдущей
type LedgerEntry struct {
	ID        string    `json:"id"`
	OrderID   int64     `json:"order_id"`
	Order     Order     `json:"order"`
	PrevHash  string    `json:"prev_hash"`
	Hash      string    `json:"hash"`
	Timestamp time.Time `json:"timestamp"`
}
