package aggregate

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"purchases/internal/core"
)

func customer(name, surname string, age int, cash string) core.Customer {
	return core.Customer{Name: name, Surname: surname, Age: age, Cash: decimal.RequireFromString(cash)}
}

func product(name string, c core.Category, price string) core.Product {
	return core.Product{Name: name, Category: c, Price: decimal.RequireFromString(price)}
}

func requireDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.Truef(t, decimal.RequireFromString(want).Equal(got), "expected %s, got %s", want, got)
}

var (
	ann   = customer("Ann", "Lee", 30, "100")
	bob   = customer("Bob", "Moe", 30, "40")
	carl  = customer("Carl", "Nash", 45, "0")
	shirt = product("Shirt", core.Clothing, "20")
	atlas = product("Atlas", core.Book, "10")
	phone = product("Phone", core.Electronics, "300")
)

func TestBuildEmpty(t *testing.T) {
	a := Build(nil)

	assert.Equal(t, 0, a.Len())
	assert.Empty(t, a.Customers())
	assert.Empty(t, a.CustomerDebts())
	assert.Empty(t, a.AveragePriceByCategory())
	assert.Empty(t, a.MaxPriceProductByCategory())
	assert.Empty(t, a.MinPriceProductByCategory())
	assert.Empty(t, a.PopularCategoriesByAge())

	_, err := a.CustomerWithMaxExpense()
	require.ErrorIs(t, err, core.ErrNotFound)

	_, err = a.CustomerWithMaxExpenseOnCategory(core.Book)
	require.ErrorIs(t, err, core.ErrNotFound)

	leaders := a.CustomerWithMaxCategoryPurchases()
	require.Len(t, leaders, len(core.Categories()))
	for _, l := range leaders {
		assert.Nil(t, l.Customer, "category %s", l.Category)
		assert.Zero(t, l.Count)
	}
}

func TestSingleCustomerScenario(t *testing.T) {
	a := Build([]core.PurchaseRecord{
		{Customer: ann, Products: []core.Product{shirt, atlas, shirt}},
	})

	items, ok := a.Purchases(ann.Key())
	require.True(t, ok)
	require.Len(t, items, 2)
	// CLOTHING sorts before BOOK.
	assert.Equal(t, "Shirt", items[0].Product.Name)
	assert.Equal(t, int64(2), items[0].Count)
	assert.Equal(t, int64(1), items[1].Count)

	requireDecimal(t, "50", TotalExpense(items))
	requireDecimal(t, "40", CategoryExpense(items, core.Clothing))
	requireDecimal(t, "10", CategoryExpense(items, core.Book))
	requireDecimal(t, "0", CategoryExpense(items, core.Food))

	debts := a.CustomerDebts()
	require.Len(t, debts, 1)
	assert.Equal(t, ann.Key(), debts[0].Customer.Key())
	requireDecimal(t, "50", debts[0].Debt)
}

func TestTotalExpenseEmpty(t *testing.T) {
	requireDecimal(t, "0", TotalExpense(nil))
	requireDecimal(t, "0", CategoryExpense(nil, core.Book))
}

func TestCategoryExpensePartitionsTotal(t *testing.T) {
	items := []core.ProductCount{
		{Product: shirt, Count: 3},
		{Product: atlas, Count: 2},
		{Product: phone, Count: 1},
		{Product: product("Apple", core.Food, "0.35"), Count: 7},
	}
	sum := decimal.Zero
	for _, c := range core.Categories() {
		sum = sum.Add(CategoryExpense(items, c))
	}
	requireDecimal(t, TotalExpense(items).String(), sum)
	assert.True(t, TotalExpense(items).GreaterThanOrEqual(decimal.Zero))
}

func TestBuildMergesSameCustomer(t *testing.T) {
	sameAnn := customer("Ann", "Lee", 30, "100.00")
	a := Build([]core.PurchaseRecord{
		{Customer: ann, Products: []core.Product{shirt, atlas}},
		{Customer: bob, Products: []core.Product{atlas}},
		{Customer: sameAnn, Products: []core.Product{shirt, shirt}},
	})

	require.Equal(t, 2, a.Len())
	items, ok := a.Purchases(ann.Key())
	require.True(t, ok)
	counts := map[string]int64{}
	for _, pc := range items {
		counts[pc.Product.Name] = pc.Count
	}
	assert.Equal(t, map[string]int64{"Shirt": 3, "Atlas": 1}, counts)
}

func TestBuildIsOrderIndependent(t *testing.T) {
	records := []core.PurchaseRecord{
		{Customer: ann, Products: []core.Product{shirt, atlas}},
		{Customer: bob, Products: []core.Product{phone, atlas, atlas}},
		{Customer: ann, Products: []core.Product{shirt}},
		{Customer: carl, Products: nil},
		{Customer: bob, Products: []core.Product{shirt}},
	}
	want := Build(records)

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		shuffled := append([]core.PurchaseRecord(nil), records...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		got := Build(shuffled)

		require.Equal(t, want.Len(), got.Len())
		for _, c := range want.Customers() {
			w, _ := want.Purchases(c.Key())
			g, ok := got.Purchases(c.Key())
			require.True(t, ok)
			require.Equal(t, w, g)
		}
	}
}

func TestPurchasesReturnsCopy(t *testing.T) {
	a := Build([]core.PurchaseRecord{{Customer: ann, Products: []core.Product{shirt}}})
	items, _ := a.Purchases(ann.Key())
	items[0].Count = 99

	again, _ := a.Purchases(ann.Key())
	assert.Equal(t, int64(1), again[0].Count)

	_, ok := a.Purchases(carl.Key())
	assert.False(t, ok)
}

func TestCustomerWithMaxExpense(t *testing.T) {
	a := Build([]core.PurchaseRecord{
		{Customer: ann, Products: []core.Product{shirt, atlas}},
		{Customer: bob, Products: []core.Product{phone}},
		{Customer: carl, Products: []core.Product{atlas}},
	})

	got, err := a.CustomerWithMaxExpense()
	require.NoError(t, err)
	assert.Equal(t, bob.Key(), got.Key())
}

func TestCustomerWithMaxExpenseTieIsDeterministic(t *testing.T) {
	// Both spend 50; Lee sorts before Moe.
	records := []core.PurchaseRecord{
		{Customer: bob, Products: []core.Product{shirt, shirt, atlas}},
		{Customer: ann, Products: []core.Product{atlas, atlas, atlas, atlas, atlas}},
	}
	for i := 0; i < 10; i++ {
		if i%2 == 1 {
			records[0], records[1] = records[1], records[0]
		}
		got, err := Build(records).CustomerWithMaxExpense()
		require.NoError(t, err)
		assert.Equal(t, ann.Key(), got.Key())
	}
}

func TestCustomerWithMaxExpenseOnCategory(t *testing.T) {
	a := Build([]core.PurchaseRecord{
		{Customer: ann, Products: []core.Product{shirt, atlas}},
		{Customer: bob, Products: []core.Product{phone, atlas, atlas}},
		{Customer: carl, Products: []core.Product{product("Ball", core.Sport, "15")}},
	})

	tests := []struct {
		name     string
		category core.Category
		want     core.Customer
		wantErr  error
	}{
		{name: "clothing", category: core.Clothing, want: ann},
		{name: "book", category: core.Book, want: bob},
		{name: "sport", category: core.Sport, want: carl},
		{name: "nobody bought food", category: core.Food, wantErr: core.ErrNotFound},
		{name: "unknown category", category: core.Category("TOYS"), wantErr: core.ErrInvalidArgument},
		{name: "empty category", category: core.Category(""), wantErr: core.ErrInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := a.CustomerWithMaxExpenseOnCategory(tt.category)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want.Key(), got.Key())
		})
	}
}

func TestCustomerDebtsNotClamped(t *testing.T) {
	a := Build([]core.PurchaseRecord{
		{Customer: ann, Products: []core.Product{shirt}},
		{Customer: bob, Products: []core.Product{phone}},
		{Customer: carl},
	})

	debts := a.CustomerDebts()
	require.Len(t, debts, 3)
	assert.Equal(t, ann.Key(), debts[0].Customer.Key())
	requireDecimal(t, "80", debts[0].Debt)
	assert.Equal(t, bob.Key(), debts[1].Customer.Key())
	requireDecimal(t, "-260", debts[1].Debt)
	requireDecimal(t, "0", debts[2].Debt)
}
