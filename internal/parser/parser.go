// Package parser turns free-text order messages into structured line items.
package parser

import (
	"regexp"
	"strconv"
	"strings"

	"orderbot_backend/platform/apperr"
)

// Unit is a recognized measurement unit token.
type Unit string

const (
	UnitKilogram   Unit = "кг"
	UnitPiece      Unit = "шт"
	UnitGram       Unit = "г"
	UnitLiter      Unit = "л"
	UnitMilliliter Unit = "мл"
)

// Item is a single parsed order position.
type Item struct {
	Product  string
	Quantity float64
	Unit     Unit
	Raw      string
}

// Line renders the item the way it is stored on an order and shown to
// suppliers: "Огурцы 13 кг".
func (i Item) Line() string {
	return i.Product + " " + strconv.FormatFloat(i.Quantity, 'f', -1, 64) + " " + string(i.Unit)
}

// Customers separate positions with newlines, commas or the word "и".
var lineSplitRe = regexp.MustCompile(`[\n,]+|\s+и\s+`)

// Decimal commas ("2,5 л") must not be taken for position separators.
var decimalCommaRe = regexp.MustCompile(`(\d),(\d)`)

// Quantity immediately before a unit token. Longer units first so "кг" is not
// consumed as "г".
var quantityRe = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(кг|шт|мл|г|л)`)

// Parse splits raw order text into items. Lines carrying only a product name
// are merged with an adjacent line carrying only a quantity, since customers
// sometimes put the name and the amount on separate lines. Returns a
// validation error when nothing parseable is found.
func Parse(raw string) ([]Item, error) {
	// Hyphens act as separators between name and amount ("Огурцы - 5 кг").
	cleaned := strings.ReplaceAll(raw, "-", " ")
	// Fold decimal commas to dots before splitting on commas.
	cleaned = decimalCommaRe.ReplaceAllString(cleaned, "$1.$2")

	var items []Item
	var pendingProduct string
	var pendingQty *Item

	for _, line := range lineSplitRe.Split(cleaned, -1) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		loc := quantityRe.FindStringSubmatchIndex(line)
		if loc == nil {
			// Bare product fragment, no quantity on this line.
			if pendingQty != nil {
				q := *pendingQty
				q.Product = collapseSpaces(line)
				q.Raw = line + " " + q.Raw
				items = append(items, q)
				pendingQty = nil
				continue
			}
			pendingProduct = collapseSpaces(line)
			continue
		}

		amount := line[loc[2]:loc[3]]
		unit := strings.ToLower(line[loc[4]:loc[5]])
		product := collapseSpaces(line[:loc[0]] + " " + line[loc[1]:])

		qty, err := strconv.ParseFloat(strings.ReplaceAll(amount, ",", "."), 64)
		if err != nil {
			continue
		}

		item := Item{
			Product:  product,
			Quantity: qty,
			Unit:     Unit(unit),
			Raw:      line,
		}

		if product == "" {
			// Quantity with no product name; merge with the previous
			// fragment or hold for the next one.
			if pendingProduct != "" {
				item.Product = pendingProduct
				item.Raw = pendingProduct + " " + line
				items = append(items, item)
				pendingProduct = ""
				continue
			}
			pendingQty = &item
			continue
		}

		items = append(items, item)
	}

	// Fragments with nothing to merge into are discarded.

	if len(items) == 0 {
		return nil, apperr.Validation("order text contains no recognizable items").WithOp("parser.Parse")
	}

	return items, nil
}

// ProductOf extracts the product name from a rendered item line by removing
// the quantity+unit token. Used when re-partitioning stored order lines.
func ProductOf(line string) string {
	loc := quantityRe.FindStringIndex(line)
	if loc == nil {
		return collapseSpaces(line)
	}
	return collapseSpaces(line[:loc[0]] + " " + line[loc[1]:])
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
