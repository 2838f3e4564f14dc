package aggregate

import (
	"purchases/internal/core"
)

// PopularCategoriesByAge groups customers by age and returns, per age, every
// category with the highest number of purchase instances, in enumeration
// order. Several categories mean a tie; an empty slice means the customers of
// that age bought nothing in a known category. Unknown categories, kept by
// permissive validation, never count.
func (a *Aggregate) PopularCategoriesByAge() map[int][]core.Category {
	totals := make(map[int]map[core.Category]int64)
	for _, e := range a.entries {
		age := e.customer.Age
		if _, ok := totals[age]; !ok {
			totals[age] = make(map[core.Category]int64)
		}
		for _, pc := range e.items {
			totals[age][pc.Product.Category] += pc.Count
		}
	}

	out := make(map[int][]core.Category, len(totals))
	for age, byCategory := range totals {
		out[age] = topCategories(byCategory)
	}
	return out
}

func topCategories(byCategory map[core.Category]int64) []core.Category {
	cats := core.Categories()
	var best int64
	for _, c := range cats {
		best = max(best, byCategory[c])
	}
	top := []core.Category{}
	if best == 0 {
		return top
	}
	for _, c := range cats {
		if byCategory[c] == best {
			top = append(top, c)
		}
	}
	return top
}

// CustomerWithMaxCategoryPurchases returns one row per category of the full
// enumeration, naming the customer who bought the most instances of it.
// Customer is nil for a category nobody bought. Ties go to the first
// customer in natural key order.
func (a *Aggregate) CustomerWithMaxCategoryPurchases() []core.CategoryLeader {
	cats := core.Categories()
	out := make([]core.CategoryLeader, 0, len(cats))
	for _, c := range cats {
		leader := core.CategoryLeader{Category: c}
		best := -1
		for i, e := range a.entries {
			if n := categoryQuantity(e.items, c); n > leader.Count {
				leader.Count, best = n, i
			}
		}
		if best >= 0 {
			customer := a.entries[best].customer
			leader.Customer = &customer
		}
		out = append(out, leader)
	}
	return out
}

func categoryQuantity(items []core.ProductCount, c core.Category) int64 {
	var n int64
	for _, pc := range items {
		if pc.Product.HasCategory(c) {
			n += pc.Count
		}
	}
	return n
}
