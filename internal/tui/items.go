package tui

import (
	"github.com/bwmarrin/snowflake"
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/andy/faktur/internal/builder"
	"github.com/andy/faktur/internal/domain"
)

// itemColumns are the editable cells of a row, in focus order.
var itemColumns = []domain.ItemField{
	domain.ItemDescription,
	domain.ItemQuantity,
	domain.ItemPrice,
}

// itemRow is one row of the item editor. total is display only.
type itemRow struct {
	id     snowflake.ID
	inputs []textinput.Model
	total  string
}

func newItemRow(r builder.ItemRow, descWidth int) itemRow {
	row := itemRow{id: snowflake.ID(r.ID), total: r.Total}
	values := []string{r.Description, r.Quantity, r.Price}
	placeholders := []string{"Deskripsi item", "Jumlah", "Harga"}
	widths := []int{descWidth, 8, 14}

	for i := range itemColumns {
		in := textinput.New()
		in.Placeholder = placeholders[i]
		in.Width = widths[i]
		in.CharLimit = 200
		if i > 0 {
			in.CharLimit = 15
		}
		in.SetValue(values[i])
		row.inputs = append(row.inputs, in)
	}
	return row
}

// indexOf returns the position of the row with id, or -1.
func indexOf(rows []itemRow, id snowflake.ID) int {
	for i, r := range rows {
		if r.id == id {
			return i
		}
	}
	return -1
}
