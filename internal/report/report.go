// Package report renders transaction views as text tables and charts.
package report

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"fintrack/internal/core"
)

const (
	chartWidth  = 512
	chartHeight = 512
)

// ErrNoData is returned by RenderPie when there is nothing to draw.
var ErrNoData = errors.New("no expenses to chart")

// WriteTransactions writes one table per section, preceded by its title.
func WriteTransactions(w io.Writer, sections []core.Section, currency string, style core.DateStyle) {
	if len(sections) == 0 {
		fmt.Fprintln(w, "No transactions found")
		return
	}
	for i, s := range sections {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, s.Title)

		table := tablewriter.NewWriter(w)
		table.SetHeader([]string{"ID", "Date", "Name", "Category", "Description", "Amount"})
		table.SetColumnAlignment([]int{
			tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT,
			tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT,
		})
		for _, t := range s.Transactions {
			table.Append([]string{
				shortID(t.ID),
				core.FormatDate(t.Date, style),
				t.Name,
				string(t.Category),
				t.Description,
				core.FormatMoney(t.Amount, currency),
			})
		}
		table.Render()
	}
}

// WriteTotal writes the closing balance line of a list.
func WriteTotal(w io.Writer, total float64, currency string) {
	fmt.Fprintf(w, "\nTotal: %s\n", core.FormatMoney(total, currency))
}

// WriteCategoryTotals writes a category/amount table with the overall total
// as footer.
func WriteCategoryTotals(w io.Writer, amounts []core.CategoryAmount, total float64, currency string) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Category", "Amount"})
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})
	for _, a := range amounts {
		table.Append([]string{string(a.Category), core.FormatMoney(a.Amount, currency)})
	}
	table.SetFooter([]string{"Total", core.FormatMoney(total, currency)})
	table.Render()
}

// WriteHome writes the greeting of the current month.
func WriteHome(w io.Writer, o core.MonthOverview, currency string) {
	fmt.Fprintf(w, "Hello there,\nYou have spent %s out of %s this month.\nHave a nice day!\n",
		core.FormatMoney(-o.Expense, currency),
		core.FormatMoney(o.Income, currency))
	if o.Overspent() {
		fmt.Fprintln(w, "Uh-oh. Looks like you spend more than your income this month!")
	}
}

// WriteOverview writes all-time category totals followed by a spending
// summary.
func WriteOverview(w io.Writer, o core.MonthOverview, currency string) {
	WriteCategoryTotals(w, o.ByCategory, o.Net, currency)
	fmt.Fprintf(w, "In total, you have spent %s out of %s of your income.\n",
		core.FormatMoney(-o.Expense, currency),
		core.FormatMoney(o.Income, currency))
}

// WriteCategories lists categories one per line.
func WriteCategories(w io.Writer, cats []core.Category) {
	for _, c := range cats {
		fmt.Fprintln(w, c)
	}
}

// RenderPie draws slices as a PNG pie chart. Slices without an amount are
// left out.
func RenderPie(w io.Writer, title string, slices []core.ChartSlice) error {
	values := make([]chart.Value, 0, len(slices))
	for _, s := range slices {
		if s.Amount <= 0 {
			continue
		}
		color := drawing.ColorFromHex(strings.TrimPrefix(s.Color, "#"))
		values = append(values, chart.Value{
			Label: string(s.Category),
			Value: s.Amount,
			Style: chart.Style{
				FillColor:   color,
				StrokeColor: drawing.ColorWhite,
				StrokeWidth: 1,
			},
		})
	}
	if len(values) == 0 {
		return ErrNoData
	}

	pie := chart.PieChart{
		Title:  title,
		Width:  chartWidth,
		Height: chartHeight,
		Values: values,
	}
	if err := pie.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render pie chart: %w", err)
	}
	return nil
}

// shortID keeps table rows narrow; the prefix is enough to address a
// transaction from the command line.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
