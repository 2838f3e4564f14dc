package aggregate

import (
	"fmt"

	"github.com/shopspring/decimal"

	"purchases/internal/core"
)

// AveragePricePrecision is the number of decimal places kept by
// AveragePriceByCategory. The quotient is rounded toward positive infinity.
const AveragePricePrecision = 2

// AveragePriceByCategory returns, for every category bought at least once,
// the mean price over purchase instances: a product bought three times
// weighs three times. Categories without purchases are absent.
func (a *Aggregate) AveragePriceByCategory() map[core.Category]decimal.Decimal {
	sums := make(map[core.Category]decimal.Decimal)
	counts := make(map[core.Category]int64)
	for _, e := range a.entries {
		for _, pc := range e.items {
			c := pc.Product.Category
			sums[c] = sums[c].Add(lineTotal(pc))
			counts[c] += pc.Count
		}
	}

	out := make(map[core.Category]decimal.Decimal, len(counts))
	for c, n := range counts {
		if n == 0 {
			continue
		}
		out[c] = divCeil(sums[c], n, AveragePricePrecision)
	}
	return out
}

// divCeil divides exactly and rounds the quotient up to places decimals.
// Both operands are non-negative.
func divCeil(sum decimal.Decimal, n int64, places int32) decimal.Decimal {
	q, r := sum.QuoRem(decimal.NewFromInt(n), places)
	if r.Sign() > 0 {
		q = q.Add(decimal.New(1, -places))
	}
	return q
}

// MaxPriceProductByCategory returns the most expensive distinct product of
// every category present. Ties go to the first product in natural order.
func (a *Aggregate) MaxPriceProductByCategory() map[core.Category]core.Product {
	return a.extremeByCategory(MaxPriceProduct)
}

// MinPriceProductByCategory returns the cheapest distinct product of every
// category present. Ties go to the first product in natural order.
func (a *Aggregate) MinPriceProductByCategory() map[core.Category]core.Product {
	return a.extremeByCategory(MinPriceProduct)
}

func (a *Aggregate) extremeByCategory(pick func([]core.Product) (core.Product, error)) map[core.Category]core.Product {
	byCategory := make(map[core.Category][]core.Product)
	for _, p := range a.products() {
		byCategory[p.Category] = append(byCategory[p.Category], p)
	}

	out := make(map[core.Category]core.Product, len(byCategory))
	for c, products := range byCategory {
		// products is never empty here.
		p, err := pick(products)
		if err != nil {
			continue
		}
		out[c] = p
	}
	return out
}

// MaxPriceProduct returns the first product with the highest price.
func MaxPriceProduct(products []core.Product) (core.Product, error) {
	return extremeProduct(products, 1)
}

// MinPriceProduct returns the first product with the lowest price.
func MinPriceProduct(products []core.Product) (core.Product, error) {
	return extremeProduct(products, -1)
}

func extremeProduct(products []core.Product, want int) (core.Product, error) {
	if len(products) == 0 {
		return core.Product{}, fmt.Errorf("extreme price product: %w", core.ErrNotFound)
	}
	best := products[0]
	for _, p := range products[1:] {
		if p.Price.Cmp(best.Price) == want {
			best = p
		}
	}
	return best, nil
}
