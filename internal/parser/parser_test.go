package parser

import (
	"testing"

	"orderbot_backend/platform/apperr"
)

func TestParseSingleItem(t *testing.T) {
	items, err := Parse("Огурцы 13 кг")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].Product != "Огурцы" {
		t.Fatalf("expected product Огурцы, got %q", items[0].Product)
	}
	if items[0].Quantity != 13 {
		t.Fatalf("expected quantity 13, got %v", items[0].Quantity)
	}
	if items[0].Unit != UnitKilogram {
		t.Fatalf("expected unit кг, got %q", items[0].Unit)
	}
}

func TestParseMultipleSeparators(t *testing.T) {
	items, err := Parse("Огурцы 5 кг, Помидоры 3 кг и Булочки 30 шт")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	if items[1].Product != "Помидоры" || items[1].Quantity != 3 {
		t.Fatalf("unexpected second item: %+v", items[1])
	}
	if items[2].Product != "Булочки" || items[2].Unit != UnitPiece {
		t.Fatalf("unexpected third item: %+v", items[2])
	}
}

func TestParseDecimalQuantity(t *testing.T) {
	items, err := Parse("Страчателла 1.5 кг\nМолоко 2,5 л")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if items[0].Quantity != 1.5 {
		t.Fatalf("expected 1.5, got %v", items[0].Quantity)
	}
	if items[1].Product != "Молоко" || items[1].Quantity != 2.5 || items[1].Unit != UnitLiter {
		t.Fatalf("unexpected item: %+v", items[1])
	}
}

func TestParseDecimalCommaWithCommaSeparator(t *testing.T) {
	items, err := Parse("Молоко 2,5 л, Огурцы 3 кг")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d: %+v", len(items), items)
	}
	if items[0].Product != "Молоко" || items[0].Quantity != 2.5 {
		t.Fatalf("unexpected first item: %+v", items[0])
	}
	if items[1].Product != "Огурцы" || items[1].Quantity != 3 {
		t.Fatalf("unexpected second item: %+v", items[1])
	}
}

func TestParseProductAndQuantityOnSeparateLines(t *testing.T) {
	items, err := Parse("Пельмени\n5 кг")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected merged item, got %d items", len(items))
	}
	if items[0].Product != "Пельмени" || items[0].Quantity != 5 {
		t.Fatalf("unexpected merged item: %+v", items[0])
	}
}

func TestParseQuantityBeforeProduct(t *testing.T) {
	items, err := Parse("5 кг\nПельмени")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected merged item, got %d items", len(items))
	}
	if items[0].Product != "Пельмени" || items[0].Quantity != 5 {
		t.Fatalf("unexpected merged item: %+v", items[0])
	}
}

func TestParseDanglingFragmentDiscarded(t *testing.T) {
	items, err := Parse("Огурцы 5 кг\nПомидоры")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected the dangling fragment to be discarded, got %d items", len(items))
	}
}

func TestParseEmptyInput(t *testing.T) {
	for _, raw := range []string{"", "привет", "   \n  "} {
		_, err := Parse(raw)
		if err == nil {
			t.Fatalf("expected error for %q", raw)
		}
		if !apperr.Is(err, apperr.KindValidation) {
			t.Fatalf("expected validation error for %q, got %v", raw, err)
		}
	}
}

func TestParseDuplicatesKept(t *testing.T) {
	items, err := Parse("Огурцы 5 кг, Огурцы 3 кг")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("duplicates must not be deduplicated at the parser, got %d items", len(items))
	}
}

func TestParseHyphenSeparated(t *testing.T) {
	items, err := Parse("Огурцы - 5 кг")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if items[0].Product != "Огурцы" {
		t.Fatalf("expected hyphen to be treated as a separator, got %q", items[0].Product)
	}
}

func TestItemLine(t *testing.T) {
	item := Item{Product: "Огурцы", Quantity: 13, Unit: UnitKilogram}
	if item.Line() != "Огурцы 13 кг" {
		t.Fatalf("unexpected rendering: %q", item.Line())
	}

	item = Item{Product: "Молоко", Quantity: 2.5, Unit: UnitLiter}
	if item.Line() != "Молоко 2.5 л" {
		t.Fatalf("unexpected rendering: %q", item.Line())
	}
}

func TestProductOf(t *testing.T) {
	if got := ProductOf("Огурцы 13 кг"); got != "Огурцы" {
		t.Fatalf("ProductOf = %q", got)
	}
	if got := ProductOf("Зеленый лук 2 шт"); got != "Зеленый лук" {
		t.Fatalf("ProductOf = %q", got)
	}
}
