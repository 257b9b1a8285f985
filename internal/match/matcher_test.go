package match

import (
	"reflect"
	"testing"

	"orderbot_backend/internal/catalog"
	"orderbot_backend/internal/parser"
	"orderbot_backend/internal/textmatch"
)

func testMatcher() *Matcher {
	c := catalog.New(
		[]catalog.Supplier{
			{Name: "Олжас", Products: []string{"Огурцы", "Помидоры", "Картофель"}, Contact: "+77010000001"},
			{Name: "Молочный двор", Products: []string{"Молоко", "Страчателла"}, Contact: "dairy@example.kz"},
			{Name: "Пекарня", Products: []string{"Булочки", "Хлеб"}, Contact: "+77010000003"},
		},
		map[string]string{"1": "Bookish Cafe"},
		[]string{"1"},
		nil,
	)
	return New(c, textmatch.EditDistance{})
}

func TestResolveSupplierFirstMatchWins(t *testing.T) {
	m := testMatcher()

	supplier, ok := m.ResolveSupplier("Огурцы")
	if !ok || supplier != "Олжас" {
		t.Fatalf("expected Олжас, got %q ok=%v", supplier, ok)
	}

	// Misspelled but within the edit-distance threshold.
	supplier, ok = m.ResolveSupplier("агурцы")
	if !ok || supplier != "Олжас" {
		t.Fatalf("expected fuzzy resolution to Олжас, got %q ok=%v", supplier, ok)
	}

	if _, ok := m.ResolveSupplier("авокадо"); ok {
		t.Fatal("unknown product must not resolve")
	}
}

func TestPartitionGroupsBySupplierPreservingOrder(t *testing.T) {
	m := testMatcher()
	items, err := parser.Parse("Огурцы 5 кг, Молоко 2 л, Помидоры 3 кг, Булочки 30 шт")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	p := m.Partition(items)

	if len(p.Unmatched) != 0 {
		t.Fatalf("expected no unmatched items, got %v", p.Unmatched)
	}
	if len(p.Matched) != 4 {
		t.Fatalf("expected 4 matched items, got %d", len(p.Matched))
	}

	want := map[string][]string{
		"Олжас":         {"Огурцы 5 кг", "Помидоры 3 кг"},
		"Молочный двор": {"Молоко 2 л"},
		"Пекарня":       {"Булочки 30 шт"},
	}
	if !reflect.DeepEqual(p.BySupplier, want) {
		t.Fatalf("unexpected partition: %v", p.BySupplier)
	}

	wantOrder := []string{"Олжас", "Молочный двор", "Пекарня"}
	if !reflect.DeepEqual(p.SupplierOrder, wantOrder) {
		t.Fatalf("expected directory order %v, got %v", wantOrder, p.SupplierOrder)
	}
}

func TestPartitionUnmatched(t *testing.T) {
	m := testMatcher()
	items, err := parser.Parse("Огурцы 5 кг, Авокадо 3 кг")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	p := m.Partition(items)

	if len(p.Matched) != 1 || len(p.Unmatched) != 1 {
		t.Fatalf("unexpected split: matched=%d unmatched=%d", len(p.Matched), len(p.Unmatched))
	}
	if p.Unmatched[0].Product != "Авокадо" {
		t.Fatalf("unexpected unmatched item: %+v", p.Unmatched[0])
	}
}

func TestPartitionIdempotent(t *testing.T) {
	m := testMatcher()
	items, err := parser.Parse("Огурцы 5 кг, Авокадо 3 кг, Молоко 1 л")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	first := m.Partition(items)
	second := m.Partition(items)

	if !reflect.DeepEqual(first, second) {
		t.Fatal("partition must be idempotent on the same input")
	}
}

func TestPartitionLines(t *testing.T) {
	m := testMatcher()

	p := m.PartitionLines([]string{"Огурцы 5 кг", "Страчателла 1 кг"})

	if len(p.BySupplier["Олжас"]) != 1 || p.BySupplier["Олжас"][0] != "Огурцы 5 кг" {
		t.Fatalf("unexpected partition: %v", p.BySupplier)
	}
	if len(p.BySupplier["Молочный двор"]) != 1 {
		t.Fatalf("unexpected partition: %v", p.BySupplier)
	}
}
