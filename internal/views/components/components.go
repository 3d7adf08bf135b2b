package components

import (
	"math"
	"strconv"

	"github.com/a-h/templ"
	"github.com/shopspring/decimal"

	"recipecost/internal/costing"
)

// Alert renders a dismissable error banner. Empty messages render nothing.
func Alert(message string) templ.Component {
	return Func(func(h *Writer) {
		if message == "" {
			return
		}
		h.Raw(`<div class="alert" role="alert">`)
		h.Text(message)
		h.Raw(`</div>`)
	})
}

// Field renders a labelled input.
func Field(label, name, inputType, value string, required bool) templ.Component {
	return Func(func(h *Writer) {
		h.Raw(`<label class="field"><span>`)
		h.Text(label)
		h.Raw(`</span><input`)
		h.Attr("type", inputType)
		h.Attr("name", name)
		h.Attr("value", value)
		h.Flag("required", required)
		h.Raw(`></label>`)
	})
}

// TextArea renders a labelled multi-line input.
func TextArea(label, name, value string) templ.Component {
	return Func(func(h *Writer) {
		h.Raw(`<label class="field"><span>`)
		h.Text(label)
		h.Raw(`</span><textarea rows="5"`)
		h.Attr("name", name)
		h.Raw(`>`)
		h.Text(value)
		h.Raw(`</textarea></label>`)
	})
}

// UnitSelect renders the closed set of units with selected pre-chosen.
func UnitSelect(label, name, selected string) templ.Component {
	return Func(func(h *Writer) {
		current, _ := costing.ParseUnit(selected)
		h.Raw(`<label class="field"><span>`)
		h.Text(label)
		h.Raw(`</span><select`)
		h.Attr("name", name)
		h.Raw(` required><option value="">Select a unit</option>`)
		for _, unit := range costing.Units() {
			h.Raw(`<option`)
			h.Attr("value", unit.String())
			h.Flag("selected", unit == current)
			h.Raw(`>`)
			h.Text(unit.String())
			h.Raw(`</option>`)
		}
		h.Raw(`</select></label>`)
	})
}

// Option is one entry of a generic select.
type Option struct {
	Value string
	Label string
}

// Select renders a labelled select with an optional blank first entry.
func Select(label, name, blank, selected string, options []Option) templ.Component {
	return Func(func(h *Writer) {
		h.Raw(`<label class="field"><span>`)
		h.Text(label)
		h.Raw(`</span><select`)
		h.Attr("name", name)
		h.Raw(`>`)
		if blank != "" {
			h.Raw(`<option value="">`)
			h.Text(blank)
			h.Raw(`</option>`)
		}
		for _, option := range options {
			h.Raw(`<option`)
			h.Attr("value", option.Value)
			h.Flag("selected", option.Value == selected)
			h.Raw(`>`)
			h.Text(option.Label)
			h.Raw(`</option>`)
		}
		h.Raw(`</select></label>`)
	})
}

// Money formats a currency amount for display.
func Money(value float64) string {
	return "R$ " + costing.FormatMoney(value)
}

// UnitCost formats a cost per recipe unit with four decimals, since gram and
// millilitre costs are usually below one cent.
func UnitCost(value float64) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		value = 0
	}
	return "R$ " + decimal.NewFromFloat(value).StringFixed(4)
}

// Quantity formats a quantity without trailing zeros.
func Quantity(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
