package google

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"purchases/internal/core"
)

func TestParseRowsGroupsConsecutiveCustomer(t *testing.T) {
	values := [][]any{
		{"name", "surname", "age", "cash", "product", "category", "price"},
		{"Ann", "Lee", "30", "100", "Shirt", "clothing", "20"},
		{"Ann", "Lee", 30, "100.00", "Shirt", "CLOTHING", "20,00"},
		{"Ann", "Lee", "30", "100", "Atlas", "BOOK", "10"},
		{},
		{"Bob", "Moe", "41", "€ 5"},
		{"Ann", "Lee", "30", "100", "Lamp", "HOME", "-1"},
	}

	records, err := parseRows(values)
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "Ann", records[0].Customer.Name)
	require.Len(t, records[0].Products, 3)
	assert.Equal(t, records[0].Products[0].Key(), records[0].Products[1].Key())
	assert.Equal(t, core.Clothing, records[0].Products[0].Category)

	assert.Equal(t, "Bob", records[1].Customer.Name)
	assert.Empty(t, records[1].Products)
	assert.True(t, records[1].Customer.Cash.Equal(decimal.NewFromInt(5)))

	// Ann again after Bob is a separate record; the aggregate merges it later.
	require.Len(t, records[2].Products, 1)
	assert.True(t, records[2].Products[0].Price.IsNegative())
}

func TestParseRowsWithoutHeader(t *testing.T) {
	records, err := parseRows([][]any{{"Ann", "Lee", "30", "1", "Pen", "HOME", "2"}})
	require.NoError(t, err)
	require.Len(t, records, 1)
}

func TestParseRowsErrors(t *testing.T) {
	tests := []struct {
		name string
		row  []any
	}{
		{name: "age", row: []any{"Ann", "Lee", "thirty", "1"}},
		{name: "cash", row: []any{"Ann", "Lee", "30", "lots"}},
		{name: "price", row: []any{"Ann", "Lee", "30", "1", "Pen", "HOME", "free"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseRows([][]any{tt.row})
			require.Error(t, err)
			assert.Contains(t, err.Error(), "row 1")
		})
	}
}

type fakeValues struct {
	values [][]any
	err    error
	gotRng string
}

func (f *fakeValues) Get(_ context.Context, _, rng string) ([][]any, error) {
	f.gotRng = rng
	return f.values, f.err
}

func TestLoaderLoad(t *testing.T) {
	fv := &fakeValues{values: [][]any{{"Ann", "Lee", "30", "1", "Pen", "HOME", "2"}}}
	l := newLoader(fv, "sheet-id", "", nil)

	records, err := l.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, DefaultRange, fv.gotRng)
	assert.Equal(t, "sheets:sheet-id/"+DefaultRange, l.Name())
}

func TestLoaderLoadFailure(t *testing.T) {
	l := newLoader(&fakeValues{err: errors.New("403")}, "sheet-id", "Data!A:G", nil)
	_, err := l.Load(context.Background())
	require.ErrorIs(t, err, core.ErrSourceUnavailable)

	l = newLoader(&fakeValues{values: [][]any{{"Ann", "Lee", "x", "1"}}}, "sheet-id", "Data!A:G", nil)
	_, err = l.Load(context.Background())
	require.ErrorIs(t, err, core.ErrSourceUnavailable)
}
