package core

import (
	"cmp"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	Clothing    Category = "CLOTHING"
	Book        Category = "BOOK"
	Electronics Category = "ELECTRONICS"
	Food        Category = "FOOD"
	Sport       Category = "SPORT"
	Home        Category = "HOME"
)

// categories is the closed category set in its canonical order.
var categories = []Category{Clothing, Book, Electronics, Food, Sport, Home}

type (
	Category string

	Customer struct {
		Name    string
		Surname string
		Age     int
		Cash    decimal.Decimal
	}

	Product struct {
		Name     string
		Category Category
		Price    decimal.Decimal
	}

	// PurchaseRecord is one customer with the products bought, duplicates included.
	PurchaseRecord struct {
		Customer Customer
		Products []Product
	}

	// CustomerKey identifies a customer by value. Cash holds the canonical
	// decimal string so that 100, 100.0 and 100.00 are the same key.
	CustomerKey struct {
		Name    string
		Surname string
		Age     int
		Cash    string
	}

	// ProductKey identifies a product by value.
	ProductKey struct {
		Name     string
		Category Category
		Price    string
	}
)

// Categories returns the full category enumeration in canonical order.
func Categories() []Category {
	return append([]Category(nil), categories...)
}

// ParseCategory matches s case-insensitively against the enumeration.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: unknown category %q", ErrInvalidArgument, s)
	}
	return c, nil
}

// Valid reports whether c belongs to the enumeration.
func (c Category) Valid() bool {
	return c.Ordinal() >= 0
}

// Ordinal returns the position of c in the enumeration, or -1.
func (c Category) Ordinal() int {
	for i, v := range categories {
		if v == c {
			return i
		}
	}
	return -1
}

func (c Category) String() string {
	return string(c)
}

func (c Customer) Key() CustomerKey {
	return CustomerKey{
		Name:    c.Name,
		Surname: c.Surname,
		Age:     c.Age,
		Cash:    c.Cash.String(),
	}
}

func (c Customer) String() string {
	return fmt.Sprintf("%s %s (age %d, cash %s)", c.Name, c.Surname, c.Age, FormatMoney(c.Cash))
}

// HasCategory reports whether the product belongs to category c.
func (p Product) HasCategory(c Category) bool {
	return p.Category == c
}

func (p Product) Key() ProductKey {
	return ProductKey{
		Name:     p.Name,
		Category: p.Category,
		Price:    p.Price.String(),
	}
}

func (p Product) String() string {
	return fmt.Sprintf("%s [%s] %s", p.Name, p.Category, FormatMoney(p.Price))
}

// Compare orders customer keys by surname, name, age and cash.
func (k CustomerKey) Compare(o CustomerKey) int {
	if c := cmp.Compare(k.Surname, o.Surname); c != 0 {
		return c
	}
	if c := cmp.Compare(k.Name, o.Name); c != 0 {
		return c
	}
	if c := cmp.Compare(k.Age, o.Age); c != 0 {
		return c
	}
	return compareDecimalStrings(k.Cash, o.Cash)
}

// Compare orders product keys by category ordinal, name and price.
func (k ProductKey) Compare(o ProductKey) int {
	if c := cmp.Compare(k.Category.Ordinal(), o.Category.Ordinal()); c != 0 {
		return c
	}
	if c := cmp.Compare(k.Name, o.Name); c != 0 {
		return c
	}
	return compareDecimalStrings(k.Price, o.Price)
}

// compareDecimalStrings compares numerically, falling back to text for
// values that do not parse (keys built by hand in tests).
func compareDecimalStrings(a, b string) int {
	da, errA := decimal.NewFromString(a)
	db, errB := decimal.NewFromString(b)
	if errA != nil || errB != nil {
		return cmp.Compare(a, b)
	}
	return da.Cmp(db)
}
