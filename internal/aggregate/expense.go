package aggregate

import (
	"fmt"

	"github.com/shopspring/decimal"

	"purchases/internal/core"
)

// TotalExpense sums price x count over the multiset. Zero when empty.
func TotalExpense(items []core.ProductCount) decimal.Decimal {
	total := decimal.Zero
	for _, pc := range items {
		total = total.Add(lineTotal(pc))
	}
	return total
}

// CategoryExpense is TotalExpense restricted to products of category c.
func CategoryExpense(items []core.ProductCount, c core.Category) decimal.Decimal {
	total := decimal.Zero
	for _, pc := range items {
		if pc.Product.HasCategory(c) {
			total = total.Add(lineTotal(pc))
		}
	}
	return total
}

func lineTotal(pc core.ProductCount) decimal.Decimal {
	return pc.Product.Price.Mul(decimal.NewFromInt(pc.Count))
}

// CustomerWithMaxExpense returns the customer who spent the most overall.
// Ties go to the first customer in natural key order.
func (a *Aggregate) CustomerWithMaxExpense() (core.Customer, error) {
	c, ok := a.maxBy(TotalExpense)
	if !ok {
		return core.Customer{}, fmt.Errorf("customer with max expense: %w", core.ErrNotFound)
	}
	return c, nil
}

// CustomerWithMaxExpenseOnCategory returns the customer who spent the most on
// category c. When nobody bought anything in c it fails with ErrNotFound,
// even on a non-empty aggregate, instead of naming a customer with zero
// expense. An unknown category fails with ErrInvalidArgument.
func (a *Aggregate) CustomerWithMaxExpenseOnCategory(c core.Category) (core.Customer, error) {
	if !c.Valid() {
		return core.Customer{}, fmt.Errorf("%w: category %q", core.ErrInvalidArgument, c)
	}
	if !a.hasCategory(c) {
		return core.Customer{}, fmt.Errorf("customer with max expense on %s: %w", c, core.ErrNotFound)
	}
	customer, _ := a.maxBy(func(items []core.ProductCount) decimal.Decimal {
		return CategoryExpense(items, c)
	})
	return customer, nil
}

// CustomerDebts returns cash minus total expense for every customer, in
// natural key order. Values are not clamped: negative means surplus.
func (a *Aggregate) CustomerDebts() []core.CustomerDebt {
	out := make([]core.CustomerDebt, 0, len(a.entries))
	for _, e := range a.entries {
		out = append(out, core.CustomerDebt{
			Customer: e.customer,
			Debt:     e.customer.Cash.Sub(TotalExpense(e.items)),
		})
	}
	return out
}

// maxBy scans customers in natural order and keeps the first strict maximum.
func (a *Aggregate) maxBy(score func([]core.ProductCount) decimal.Decimal) (core.Customer, bool) {
	var (
		best     decimal.Decimal
		customer core.Customer
		found    bool
	)
	for _, e := range a.entries {
		s := score(e.items)
		if !found || s.GreaterThan(best) {
			best, customer, found = s, e.customer, true
		}
	}
	return customer, found
}

func (a *Aggregate) hasCategory(c core.Category) bool {
	for _, e := range a.entries {
		for _, pc := range e.items {
			if pc.Product.HasCategory(c) {
				return true
			}
		}
	}
	return false
}
