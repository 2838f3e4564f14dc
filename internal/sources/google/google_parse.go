package google

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"purchases/internal/core"
)

// Column layout of a purchases sheet, one row per purchased item.
const (
	colName = iota
	colSurname
	colAge
	colCash
	colProduct
	colCategory
	colPrice
)

// parseRows converts a values matrix (as returned by the Sheets API) into
// purchase records. A first row starting with "name" is a header. Rows with
// an empty product cell describe a customer without purchases. Consecutive
// rows of the same customer form one record.
func parseRows(values [][]any) ([]core.PurchaseRecord, error) {
	var records []core.PurchaseRecord
	for i, raw := range values {
		row := toStrings(raw)
		if i == 0 && strings.EqualFold(safeGet(row, colName), "name") {
			continue
		}
		if isBlank(row) {
			continue
		}
		customer, err := parseCustomer(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}

		n := len(records)
		if n == 0 || records[n-1].Customer.Key() != customer.Key() {
			records = append(records, core.PurchaseRecord{Customer: customer})
			n++
		}
		if safeGet(row, colProduct) == "" {
			continue
		}
		product, err := parseProduct(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		records[n-1].Products = append(records[n-1].Products, product)
	}
	return records, nil
}

func parseCustomer(row []string) (core.Customer, error) {
	age, err := strconv.Atoi(safeGet(row, colAge))
	if err != nil {
		return core.Customer{}, fmt.Errorf("invalid age %q", safeGet(row, colAge))
	}
	cash, err := parseAmount(safeGet(row, colCash))
	if err != nil {
		return core.Customer{}, fmt.Errorf("invalid cash %q: %w", safeGet(row, colCash), err)
	}
	return core.Customer{
		Name:    safeGet(row, colName),
		Surname: safeGet(row, colSurname),
		Age:     age,
		Cash:    cash,
	}, nil
}

func parseProduct(row []string) (core.Product, error) {
	price, err := parseAmount(safeGet(row, colPrice))
	if err != nil {
		return core.Product{}, fmt.Errorf("invalid price %q: %w", safeGet(row, colPrice), err)
	}
	return core.Product{
		Name:     safeGet(row, colProduct),
		Category: core.Category(strings.ToUpper(safeGet(row, colCategory))),
		Price:    price,
	}, nil
}

// parseAmount accepts "12.50", "12,50" and "-3", with an optional leading
// euro sign. Negative values are kept for validation to report.
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "€"))
	negative := strings.HasPrefix(s, "-")
	v, err := core.ParseMoney(strings.TrimPrefix(s, "-"))
	if err != nil {
		return decimal.Zero, err
	}
	if negative {
		v = v.Neg()
	}
	return v, nil
}

func toStrings(row []any) []string {
	out := make([]string, len(row))
	for i, v := range row {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func safeGet(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func isBlank(row []string) bool {
	for _, v := range row {
		if v != "" {
			return false
		}
	}
	return true
}
