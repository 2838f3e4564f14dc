package core

import "github.com/shopspring/decimal"

// ProductCount is one entry of a customer's product multiset.
type ProductCount struct {
	Product Product
	Count   int64
}

// CustomerDebt is cash minus total expense; negative means surplus.
type CustomerDebt struct {
	Customer Customer
	Debt     decimal.Decimal
}

// CategoryLeader names the customer who bought the most instances of a
// category. Customer is nil when nobody bought it.
type CategoryLeader struct {
	Category Category
	Customer *Customer
	Count    int64
}
