// Package aggregate builds the immutable customer -> product multiset and
// answers the purchase reports over it.
//
// Every "first maximal" tie-break follows the natural key order of
// core.CustomerKey and core.ProductKey, never map iteration order, so results
// do not depend on the order in which records were loaded.
package aggregate

import (
	"slices"

	"purchases/internal/core"
)

// Aggregate maps each distinct customer to the multiset of products bought.
// It is read-only after Build.
type Aggregate struct {
	entries []entry
	index   map[core.CustomerKey]int
}

type entry struct {
	customer core.Customer
	items    []core.ProductCount
}

// Build groups records by customer value and counts each distinct product.
// Records of the same customer are merged by summing their counts.
func Build(records []core.PurchaseRecord) *Aggregate {
	type group struct {
		customer core.Customer
		counts   map[core.ProductKey]*core.ProductCount
	}

	groups := make(map[core.CustomerKey]*group)
	for _, r := range records {
		key := r.Customer.Key()
		g, ok := groups[key]
		if !ok {
			g = &group{customer: r.Customer, counts: make(map[core.ProductKey]*core.ProductCount)}
			groups[key] = g
		}
		for _, p := range r.Products {
			pk := p.Key()
			if pc, ok := g.counts[pk]; ok {
				pc.Count++
				continue
			}
			g.counts[pk] = &core.ProductCount{Product: p, Count: 1}
		}
	}

	a := &Aggregate{
		entries: make([]entry, 0, len(groups)),
		index:   make(map[core.CustomerKey]int, len(groups)),
	}
	for _, g := range groups {
		items := make([]core.ProductCount, 0, len(g.counts))
		for _, pc := range g.counts {
			items = append(items, *pc)
		}
		slices.SortFunc(items, func(x, y core.ProductCount) int {
			return x.Product.Key().Compare(y.Product.Key())
		})
		a.entries = append(a.entries, entry{customer: g.customer, items: items})
	}
	slices.SortFunc(a.entries, func(x, y entry) int {
		return x.customer.Key().Compare(y.customer.Key())
	})
	for i, e := range a.entries {
		a.index[e.customer.Key()] = i
	}
	return a
}

// Len returns the number of distinct customers.
func (a *Aggregate) Len() int {
	return len(a.entries)
}

// Customers returns the customers in natural key order.
func (a *Aggregate) Customers() []core.Customer {
	out := make([]core.Customer, len(a.entries))
	for i, e := range a.entries {
		out[i] = e.customer
	}
	return out
}

// Purchases returns a copy of the customer's product multiset in natural
// product order, and false when the customer is unknown.
func (a *Aggregate) Purchases(key core.CustomerKey) ([]core.ProductCount, bool) {
	i, ok := a.index[key]
	if !ok {
		return nil, false
	}
	return slices.Clone(a.entries[i].items), true
}

// products returns the distinct products across all customers, each once,
// in natural product order.
func (a *Aggregate) products() []core.Product {
	seen := make(map[core.ProductKey]struct{})
	var out []core.Product
	for _, e := range a.entries {
		for _, pc := range e.items {
			k := pc.Product.Key()
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, pc.Product)
		}
	}
	slices.SortFunc(out, func(x, y core.Product) int {
		return x.Key().Compare(y.Key())
	})
	return out
}
