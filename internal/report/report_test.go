package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"purchases/internal/aggregate"
	"purchases/internal/core"
	"purchases/internal/validation"
)

func sampleAggregate() *aggregate.Aggregate {
	ann := core.Customer{Name: "Ann", Surname: "Lee", Age: 30, Cash: decimal.RequireFromString("100")}
	bob := core.Customer{Name: "Bob", Surname: "Moe", Age: 41, Cash: decimal.RequireFromString("5")}
	shirt := core.Product{Name: "Shirt", Category: core.Clothing, Price: decimal.RequireFromString("20")}
	atlas := core.Product{Name: "Atlas", Category: core.Book, Price: decimal.RequireFromString("10")}
	novel := core.Product{Name: "Novel", Category: core.Book, Price: decimal.RequireFromString("15.25")}
	return aggregate.Build([]core.PurchaseRecord{
		{Customer: ann, Products: []core.Product{shirt, shirt, atlas}},
		{Customer: bob, Products: []core.Product{novel}},
	})
}

func render(t *testing.T, agg *aggregate.Aggregate, opts Options) string {
	t.Helper()
	var buf bytes.Buffer
	opts.NoColor = true
	require.NoError(t, NewRenderer(&buf, opts).Render(agg))
	return buf.String()
}

func TestRenderAllSections(t *testing.T) {
	out := render(t, sampleAggregate(), Options{})

	for _, title := range []string{
		"=== Purchases ===",
		"=== Customer with max expense ===",
		"=== Customer with max expense by category ===",
		"=== Customer debts ===",
		"=== Average price by category ===",
		"=== Price extremes by category ===",
		"=== Popular categories by age ===",
		"=== Top customer by category ===",
	} {
		assert.Contains(t, out, title)
	}

	assert.Contains(t, out, "Ann Lee (age 30, cash 100.00)")
	assert.Contains(t, out, "50.00")
	// Bob owes -10.25.
	assert.Contains(t, out, "-10.25")
	// (10 + 15.25) / 2 rounded up.
	assert.Contains(t, out, "12.63")
	assert.Contains(t, out, "Novel [BOOK] 15.25")
	assert.Contains(t, out, "Atlas [BOOK] 10.00")
	assert.NotContains(t, out, "\x1b[")
}

func TestRenderSectionOrder(t *testing.T) {
	out := render(t, sampleAggregate(), Options{})
	first := strings.Index(out, "=== Purchases ===")
	last := strings.Index(out, "=== Top customer by category ===")
	require.GreaterOrEqual(t, first, 0)
	assert.Less(t, first, last)
}

func TestRenderCategoryWithoutBuyers(t *testing.T) {
	out := render(t, sampleAggregate(), Options{Categories: []core.Category{core.Food}})

	start := strings.Index(out, "=== Customer with max expense by category ===")
	end := strings.Index(out, "=== Customer debts ===")
	require.True(t, start >= 0 && end > start)
	section := out[start:end]
	assert.Contains(t, section, "FOOD")
	assert.Contains(t, section, noValue)
}

func TestRenderEmptyAggregate(t *testing.T) {
	out := render(t, aggregate.Build(nil), Options{})

	assert.Contains(t, out, "no customers")
	assert.Contains(t, out, "(none)")
	assert.Contains(t, out, "HOME")
}

func TestRenderValidation(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, Options{NoColor: true})

	require.NoError(t, r.RenderValidation(validation.Report{Checked: 1200}))
	assert.Equal(t, "All 1,200 records valid\n", buf.String())

	buf.Reset()
	teen := core.Customer{Name: "Tim", Surname: "Young", Age: 16, Cash: decimal.Zero}
	report := validation.Validate([]core.PurchaseRecord{{Customer: teen}})
	require.NoError(t, r.RenderValidation(report))
	assert.Contains(t, buf.String(), "Tim Young")
	assert.Contains(t, buf.String(), "age:")
	assert.Contains(t, buf.String(), "1 of 1 records have problems")
}

func TestRenderCategories(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewRenderer(&buf, Options{NoColor: true}).RenderCategories())

	out := buf.String()
	prev := -1
	for _, c := range core.Categories() {
		i := strings.Index(out, c.String())
		require.Greater(t, i, prev, "category %s out of order", c)
		prev = i
	}
}
