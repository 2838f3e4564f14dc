// Package validation checks purchase records field by field.
//
// Violations are collected, never thrown: callers pick a Mode to decide
// whether they abort the run (strict) or are only reported (permissive).
package validation

import (
	"fmt"
	"sort"
	"strings"

	"purchases/internal/core"
)

// MinAge is the youngest accepted customer age.
const MinAge = 18

const (
	Permissive Mode = "permissive"
	Strict     Mode = "strict"
)

type (
	Mode string

	// Errors maps a field path to its message, e.g. "products[1].price".
	Errors map[string]string

	// Violation is the set of problems found in one record.
	Violation struct {
		Index    int
		Customer core.Customer
		Errors   Errors
	}

	Report struct {
		Checked    int
		Violations []Violation
	}
)

// ParseMode accepts "permissive" or "strict"; empty means permissive.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", Permissive:
		return Permissive, nil
	case Strict:
		return Strict, nil
	default:
		return "", fmt.Errorf("%w: validation mode %q", core.ErrInvalidArgument, s)
	}
}

// Apply returns ErrValidation when m is strict and the report has violations.
func (m Mode) Apply(r Report) error {
	if m == Strict {
		return r.Err()
	}
	return nil
}

// ValidateRecord checks a single record.
func ValidateRecord(r core.PurchaseRecord) Errors {
	errs := Errors{}
	c := r.Customer
	if c.Age < MinAge {
		errs["age"] = fmt.Sprintf("has to be >= %d", MinAge)
	}
	if c.Cash.IsNegative() {
		errs["cash"] = "has to be >= 0"
	}
	for i, p := range r.Products {
		if p.Price.IsNegative() {
			errs[fmt.Sprintf("products[%d].price", i)] = "has to be >= 0"
		}
		if !p.Category.Valid() {
			errs[fmt.Sprintf("products[%d].category", i)] = fmt.Sprintf("unknown category %q", p.Category)
		}
	}
	return errs
}

// Validate checks every record and collects the violations in input order.
func Validate(records []core.PurchaseRecord) Report {
	report := Report{Checked: len(records)}
	for i, r := range records {
		if errs := ValidateRecord(r); len(errs) > 0 {
			report.Violations = append(report.Violations, Violation{Index: i, Customer: r.Customer, Errors: errs})
		}
	}
	return report
}

// Valid reports whether no record had a violation.
func (r Report) Valid() bool {
	return len(r.Violations) == 0
}

// Err returns nil for a valid report, otherwise ErrValidation listing the
// first offending records.
func (r Report) Err() error {
	if r.Valid() {
		return nil
	}
	const shown = 3
	parts := make([]string, 0, shown)
	for i, v := range r.Violations {
		if i == shown {
			parts = append(parts, fmt.Sprintf("and %d more", len(r.Violations)-shown))
			break
		}
		parts = append(parts, fmt.Sprintf("record %d: %s", v.Index, v.Errors))
	}
	return fmt.Errorf("%w: %d of %d records: %s", core.ErrValidation, len(r.Violations), r.Checked, strings.Join(parts, "; "))
}

// String joins the errors as "field: message" pairs in field order.
func (e Errors) String() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f + ": " + e[f]
	}
	return strings.Join(parts, ", ")
}
