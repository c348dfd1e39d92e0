package templates

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const itemsPlaceholder = "{{itemsTable}}"

// lineItem is one row of a receipt.
type lineItem struct {
	name     string
	quantity string
	price    string
}

func collectItems(vars map[string]any, locale language.Tag) []lineItem {
	raw, ok := vars["items"]
	if !ok || KindOf(raw) != KindList {
		return nil
	}
	rv, ok := deref(raw)
	if !ok {
		return nil
	}

	currency := ""
	if c, ok := vars["currency"]; ok {
		currency = Stringify(c)
	}
	p := message.NewPrinter(locale)

	items := make([]lineItem, 0, rv.Len())
	for i := range rv.Len() {
		row := rv.Index(i).Interface()
		if KindOf(row) != KindObject {
			continue
		}
		name, _ := child(row, "name")
		qty, _ := child(row, "quantity")
		price, _ := child(row, "price")

		item := lineItem{name: Stringify(name), quantity: Stringify(qty)}
		if item.quantity == "" {
			item.quantity = "1"
		}
		if f, ok := toFloat(price); ok {
			item.price = p.Sprintf("%.2f", f)
		} else {
			item.price = Stringify(price)
		}
		if currency != "" && item.price != "" {
			item.price = currency + " " + item.price
		}
		items = append(items, item)
	}
	return items
}

// itemsTable renders line items as an HTML table. Cell values are escaped.
func itemsTable(items []lineItem) string {
	if len(items) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(`<table class="items"><thead><tr><th>Item</th><th>Qty</th><th>Price</th></tr></thead><tbody>`)
	for _, it := range items {
		b.WriteString("<tr><td>")
		b.WriteString(sanitize(it.name, true))
		b.WriteString("</td><td>")
		b.WriteString(sanitize(it.quantity, true))
		b.WriteString("</td><td>")
		b.WriteString(sanitize(it.price, true))
		b.WriteString("</td></tr>")
	}
	b.WriteString("</tbody></table>")
	return b.String()
}

// itemsText is the plain-text counterpart used in subjects and summaries.
func itemsText(items []lineItem) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, sanitize(it.name, false)+" x"+sanitize(it.quantity, false))
	}
	return strings.Join(parts, ", ")
}
