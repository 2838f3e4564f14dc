package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"purchases/internal/core"
)

func TestAveragePriceByCategory(t *testing.T) {
	tests := []struct {
		name    string
		records []core.PurchaseRecord
		want    map[core.Category]string
	}{
		{
			name: "single instance equals its price",
			records: []core.PurchaseRecord{
				{Customer: ann, Products: []core.Product{product("Novel", core.Book, "12.5")}},
			},
			want: map[core.Category]string{core.Book: "12.50"},
		},
		{
			name: "instances are weighted by count",
			records: []core.PurchaseRecord{
				{Customer: ann, Products: []core.Product{shirt, shirt}},
				{Customer: bob, Products: []core.Product{product("Sock", core.Clothing, "11")}},
			},
			// (20 + 20 + 11) / 3
			want: map[core.Category]string{core.Clothing: "17"},
		},
		{
			name: "quotient rounds toward positive",
			records: []core.PurchaseRecord{
				{Customer: ann, Products: []core.Product{
					product("A", core.Food, "10"),
					product("B", core.Food, "10"),
					product("C", core.Food, "10.01"),
				}},
			},
			// 30.01 / 3 = 10.00333...
			want: map[core.Category]string{core.Food: "10.01"},
		},
		{
			name: "extra precision in a single price is rounded up",
			records: []core.PurchaseRecord{
				{Customer: ann, Products: []core.Product{product("Gum", core.Food, "10.001")}},
			},
			want: map[core.Category]string{core.Food: "10.01"},
		},
		{
			name: "categories are independent",
			records: []core.PurchaseRecord{
				{Customer: ann, Products: []core.Product{shirt, atlas}},
				{Customer: carl, Products: []core.Product{phone, product("Tablet", core.Electronics, "201")}},
			},
			want: map[core.Category]string{
				core.Clothing:    "20",
				core.Book:        "10",
				core.Electronics: "250.5",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Build(tt.records).AveragePriceByCategory()
			require.Len(t, got, len(tt.want))
			for c, want := range tt.want {
				v, ok := got[c]
				require.True(t, ok, "missing %s", c)
				requireDecimal(t, want, v)
			}
		})
	}
}

func TestExtremePriceProductByCategory(t *testing.T) {
	cheapBook := product("Pamphlet", core.Book, "2")
	twinA := product("Alpha", core.Electronics, "300")
	a := Build([]core.PurchaseRecord{
		{Customer: ann, Products: []core.Product{shirt, atlas, cheapBook, cheapBook}},
		{Customer: bob, Products: []core.Product{phone, twinA}},
	})

	maxes := a.MaxPriceProductByCategory()
	mins := a.MinPriceProductByCategory()

	require.Len(t, maxes, 3)
	require.Len(t, mins, 3)
	assert.Equal(t, atlas.Key(), maxes[core.Book].Key())
	assert.Equal(t, cheapBook.Key(), mins[core.Book].Key())
	assert.Equal(t, shirt.Key(), maxes[core.Clothing].Key())
	assert.Equal(t, shirt.Key(), mins[core.Clothing].Key())

	// Equal prices: Alpha sorts before Phone.
	assert.Equal(t, twinA.Key(), maxes[core.Electronics].Key())
	assert.Equal(t, twinA.Key(), mins[core.Electronics].Key())

	_, ok := maxes[core.Food]
	assert.False(t, ok)
}

func TestExtremeProductEmpty(t *testing.T) {
	_, err := MaxPriceProduct(nil)
	require.ErrorIs(t, err, core.ErrNotFound)
	_, err = MinPriceProduct([]core.Product{})
	require.ErrorIs(t, err, core.ErrNotFound)

	p, err := MinPriceProduct([]core.Product{phone, atlas, shirt})
	require.NoError(t, err)
	assert.Equal(t, atlas.Key(), p.Key())
}
