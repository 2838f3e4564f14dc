// Package report renders the purchase reports as plain-text tables.
package report

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"purchases/internal/aggregate"
	"purchases/internal/core"
	"purchases/internal/validation"
)

const noValue = "-"

// DefaultCategories are the categories reported by the expense-on-category
// section when the caller names none.
var DefaultCategories = []core.Category{core.Clothing, core.Book}

// Options configures a Renderer.
type Options struct {
	// Categories lists the categories of the expense-on-category section.
	Categories []core.Category
	NoColor    bool
}

// Renderer writes reports to w.
type Renderer struct {
	w       io.Writer
	opts    Options
	heading *color.Color
	warn    *color.Color
	ok      *color.Color
}

func NewRenderer(w io.Writer, opts Options) *Renderer {
	if len(opts.Categories) == 0 {
		opts.Categories = DefaultCategories
	}
	r := &Renderer{
		w:       w,
		opts:    opts,
		heading: color.New(color.FgCyan, color.Bold),
		warn:    color.New(color.FgYellow),
		ok:      color.New(color.FgGreen),
	}
	if opts.NoColor {
		r.heading.DisableColor()
		r.warn.DisableColor()
		r.ok.DisableColor()
	}
	return r
}

// Render writes every report over agg, in a fixed order.
func (r *Renderer) Render(agg *aggregate.Aggregate) error {
	sections := []func(*aggregate.Aggregate) error{
		r.purchases,
		r.maxExpense,
		r.maxExpenseOnCategories,
		r.debts,
		r.averagePrices,
		r.extremePrices,
		r.popularByAge,
		r.categoryLeaders,
	}
	for _, section := range sections {
		if err := section(agg); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) purchases(agg *aggregate.Aggregate) error {
	tbl := newTable("Customer", "Items", "Total expense")
	for _, c := range agg.Customers() {
		items, _ := agg.Purchases(c.Key())
		var n int64
		for _, pc := range items {
			n += pc.Count
		}
		tbl.AppendRow(table.Row{c.String(), humanize.Comma(n), core.FormatMoney(aggregate.TotalExpense(items))})
	}
	tbl.AppendFooter(table.Row{"Customers", humanize.Comma(int64(agg.Len())), ""})
	return r.section("Purchases", tbl)
}

func (r *Renderer) maxExpense(agg *aggregate.Aggregate) error {
	c, err := agg.CustomerWithMaxExpense()
	if errors.Is(err, core.ErrNotFound) {
		return r.note("Customer with max expense", "no customers")
	}
	if err != nil {
		return err
	}
	items, _ := agg.Purchases(c.Key())
	tbl := newTable("Customer", "Total expense")
	tbl.AppendRow(table.Row{c.String(), core.FormatMoney(aggregate.TotalExpense(items))})
	return r.section("Customer with max expense", tbl)
}

func (r *Renderer) maxExpenseOnCategories(agg *aggregate.Aggregate) error {
	tbl := newTable("Category", "Customer", "Category expense")
	for _, cat := range r.opts.Categories {
		c, err := agg.CustomerWithMaxExpenseOnCategory(cat)
		switch {
		case errors.Is(err, core.ErrNotFound):
			tbl.AppendRow(table.Row{cat, noValue, noValue})
		case err != nil:
			return err
		default:
			items, _ := agg.Purchases(c.Key())
			tbl.AppendRow(table.Row{cat, c.String(), core.FormatMoney(aggregate.CategoryExpense(items, cat))})
		}
	}
	return r.section("Customer with max expense by category", tbl)
}

func (r *Renderer) debts(agg *aggregate.Aggregate) error {
	tbl := newTable("Customer", "Cash", "Debt")
	for _, d := range agg.CustomerDebts() {
		tbl.AppendRow(table.Row{d.Customer.String(), core.FormatMoney(d.Customer.Cash), core.FormatMoney(d.Debt)})
	}
	return r.section("Customer debts", tbl)
}

func (r *Renderer) averagePrices(agg *aggregate.Aggregate) error {
	avg := agg.AveragePriceByCategory()
	tbl := newTable("Category", "Average price")
	for _, cat := range core.Categories() {
		if v, ok := avg[cat]; ok {
			tbl.AppendRow(table.Row{cat, core.FormatMoney(v)})
		}
	}
	return r.section("Average price by category", tbl)
}

func (r *Renderer) extremePrices(agg *aggregate.Aggregate) error {
	maxima := agg.MaxPriceProductByCategory()
	minima := agg.MinPriceProductByCategory()
	tbl := newTable("Category", "Most expensive", "Cheapest")
	for _, cat := range core.Categories() {
		hi, ok := maxima[cat]
		if !ok {
			continue
		}
		lo := minima[cat]
		tbl.AppendRow(table.Row{cat, hi.String(), lo.String()})
	}
	return r.section("Price extremes by category", tbl)
}

func (r *Renderer) popularByAge(agg *aggregate.Aggregate) error {
	byAge := agg.PopularCategoriesByAge()
	ages := make([]int, 0, len(byAge))
	for age := range byAge {
		ages = append(ages, age)
	}
	sort.Ints(ages)

	tbl := newTable("Age", "Popular categories")
	for _, age := range ages {
		tbl.AppendRow(table.Row{strconv.Itoa(age), joinCategories(byAge[age])})
	}
	return r.section("Popular categories by age", tbl)
}

func (r *Renderer) categoryLeaders(agg *aggregate.Aggregate) error {
	tbl := newTable("Category", "Customer", "Items")
	for _, l := range agg.CustomerWithMaxCategoryPurchases() {
		if l.Customer == nil {
			tbl.AppendRow(table.Row{l.Category, noValue, noValue})
			continue
		}
		tbl.AppendRow(table.Row{l.Category, l.Customer.String(), humanize.Comma(l.Count)})
	}
	return r.section("Top customer by category", tbl)
}

// RenderValidation writes the validation report.
func (r *Renderer) RenderValidation(report validation.Report) error {
	if report.Valid() {
		_, err := r.ok.Fprintf(r.w, "All %s records valid\n", humanize.Comma(int64(report.Checked)))
		return err
	}

	tbl := newTable("Record", "Customer", "Problems")
	for _, v := range report.Violations {
		tbl.AppendRow(table.Row{strconv.Itoa(v.Index), v.Customer.String(), v.Errors.String()})
	}
	tbl.AppendFooter(table.Row{"Invalid", humanize.Comma(int64(len(report.Violations))), "of " + humanize.Comma(int64(report.Checked))})
	if err := r.section("Validation problems", tbl); err != nil {
		return err
	}
	_, err := r.warn.Fprintf(r.w, "%s of %s records have problems\n",
		humanize.Comma(int64(len(report.Violations))), humanize.Comma(int64(report.Checked)))
	return err
}

// RenderCategories lists the category enumeration with ordinals.
func (r *Renderer) RenderCategories() error {
	tbl := newTable("#", "Category")
	for _, c := range core.Categories() {
		tbl.AppendRow(table.Row{strconv.Itoa(c.Ordinal()), c})
	}
	return r.section("Categories", tbl)
}

func (r *Renderer) section(title string, tbl table.Writer) error {
	if _, err := r.heading.Fprintf(r.w, "=== %s ===\n", title); err != nil {
		return err
	}
	if tbl.Length() == 0 {
		_, err := fmt.Fprintln(r.w, "(none)")
		return err
	}
	_, err := fmt.Fprintf(r.w, "%s\n\n", tbl.Render())
	return err
}

func (r *Renderer) note(title, msg string) error {
	if _, err := r.heading.Fprintf(r.w, "=== %s ===\n", title); err != nil {
		return err
	}
	_, err := r.warn.Fprintf(r.w, "%s\n\n", msg)
	return err
}

func newTable(header ...any) table.Writer {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.DrawBorder = false
	tbl.AppendHeader(table.Row(header))
	return tbl
}

func joinCategories(cs []core.Category) string {
	if len(cs) == 0 {
		return noValue
	}
	names := make([]string, len(cs))
	for i, c := range cs {
		names[i] = c.String()
	}
	return strings.Join(names, ", ")
}
