package core

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseCategory(t *testing.T) {
	cases := []struct {
		in   string
		want Category
		ok   bool
	}{
		{"CLOTHING", Clothing, true},
		{"book", Book, true},
		{" Home ", Home, true},
		{"", "", false},
		{"TOYS", "", false},
	}
	for _, tc := range cases {
		got, err := ParseCategory(tc.in)
		if tc.ok {
			if err != nil || got != tc.want {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.want, got, err)
			}
			continue
		}
		if !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("%q expected ErrInvalidArgument, got %v", tc.in, err)
		}
	}
}

func TestCategoriesOrder(t *testing.T) {
	cats := Categories()
	if len(cats) != 6 || cats[0] != Clothing || cats[5] != Home {
		t.Fatalf("unexpected enumeration: %v", cats)
	}
	cats[0] = "MUTATED"
	if Categories()[0] != Clothing {
		t.Fatalf("Categories must return a copy")
	}
	for i, c := range Categories() {
		if c.Ordinal() != i {
			t.Fatalf("ordinal of %s: expected %d, got %d", c, i, c.Ordinal())
		}
	}
	if Category("TOYS").Valid() {
		t.Fatalf("TOYS must not be valid")
	}
}

func TestCustomerKeyEquality(t *testing.T) {
	a := Customer{Name: "Ann", Surname: "Lee", Age: 30, Cash: decimal.RequireFromString("100")}
	b := Customer{Name: "Ann", Surname: "Lee", Age: 30, Cash: decimal.RequireFromString("100.00")}
	c := Customer{Name: "Ann", Surname: "Lee", Age: 31, Cash: decimal.RequireFromString("100")}

	if a.Key() != b.Key() {
		t.Fatalf("numerically equal cash must give equal keys: %+v vs %+v", a.Key(), b.Key())
	}
	if a.Key() == c.Key() {
		t.Fatalf("different age must give different keys")
	}

	seen := map[CustomerKey]int{}
	seen[a.Key()]++
	seen[b.Key()]++
	seen[c.Key()]++
	if len(seen) != 2 || seen[a.Key()] != 2 {
		t.Fatalf("unexpected grouping: %v", seen)
	}
}

func TestCustomerKeyCompare(t *testing.T) {
	base := CustomerKey{Name: "Ann", Surname: "Lee", Age: 30, Cash: "100"}
	cases := []struct {
		other CustomerKey
		want  int
	}{
		{base, 0},
		{CustomerKey{Name: "Ann", Surname: "Moe", Age: 30, Cash: "100"}, -1},
		{CustomerKey{Name: "Abe", Surname: "Lee", Age: 30, Cash: "100"}, 1},
		{CustomerKey{Name: "Ann", Surname: "Lee", Age: 40, Cash: "100"}, -1},
		{CustomerKey{Name: "Ann", Surname: "Lee", Age: 30, Cash: "20"}, 1}, // numeric, not lexical
	}
	for i, tc := range cases {
		if got := base.Compare(tc.other); got != tc.want {
			t.Fatalf("case %d expected %d, got %d", i, tc.want, got)
		}
	}
}

func TestProductKeyCompare(t *testing.T) {
	shirt := Product{Name: "Shirt", Category: Clothing, Price: decimal.RequireFromString("20")}
	book := Product{Name: "Atlas", Category: Book, Price: decimal.RequireFromString("5")}
	cheap := Product{Name: "Shirt", Category: Clothing, Price: decimal.RequireFromString("9.99")}

	if shirt.Key().Compare(book.Key()) >= 0 {
		t.Fatalf("CLOTHING sorts before BOOK regardless of name")
	}
	if cheap.Key().Compare(shirt.Key()) >= 0 {
		t.Fatalf("same name sorts by price")
	}
	if !shirt.HasCategory(Clothing) || shirt.HasCategory(Book) {
		t.Fatalf("HasCategory mismatch")
	}
}

func TestSourceError(t *testing.T) {
	cause := errors.New("boom")
	err := error(&SourceError{Source: "customers1.json", Err: cause})
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("SourceError must match ErrSourceUnavailable")
	}
	if !errors.Is(err, cause) {
		t.Fatalf("SourceError must unwrap to its cause")
	}
	var se *SourceError
	if !errors.As(err, &se) || se.Source != "customers1.json" {
		t.Fatalf("errors.As failed: %v", err)
	}
}
