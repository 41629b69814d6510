package pricing

import (
	"math"

	"github.com/Dharshini-457/Smart-Agro-Tribe/internal/domain"
)

// DefaultPlatformFee фиксированная комиссия площадки за единицу товара
const DefaultPlatformFee = 3.0

// Тексты рекомендаций покупателю
const (
	RecommendationRise   = "Buy now — price expected to rise"
	RecommendationDrop   = "You may wait — price expected to drop"
	RecommendationStable = "Price stable"
)

// Engine детерминированный расчёт текущей цены: masp + комиссия + рыночная
// поправка по остатку. Цена никогда не опускается ниже masp.
type Engine struct {
	platformFee float64
}

func NewEngine(platformFee float64) *Engine {
	if platformFee < 0 {
		platformFee = DefaultPlatformFee
	}
	return &Engine{platformFee: platformFee}
}

// marketAdjustment поправка по дефициту/профициту остатка
func marketAdjustment(available int64) float64 {
	switch {
	case available <= 20:
		return 2.0 // scarcity
	case available <= 100:
		return 0.0
	default:
		return -1.0 // surplus
	}
}

// Quote считает цену для товара с данным masp и остатком
func (e *Engine) Quote(masp float64, available int64) domain.PriceQuote {
	adj := marketAdjustment(available)
	final := Round2(masp + e.platformFee + adj)

	// защита фермера: итоговая цена не ниже masp
	floor := Round2(masp)
	if final < floor {
		final = floor
		adj = Round2(final - masp - e.platformFee)
	}

	var rec string
	switch {
	case adj > 0:
		rec = RecommendationRise
	case adj < 0:
		rec = RecommendationDrop
	default:
		rec = RecommendationStable
	}

	return domain.PriceQuote{
		MASP:             masp,
		PlatformFee:      e.platformFee,
		MarketAdjustment: adj,
		FinalPrice:       final,
		Recommendation:   rec,
	}
}

// Round2 округление до копеек, как в денежных полях API
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
