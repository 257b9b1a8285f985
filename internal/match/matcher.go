// Package match resolves parsed products to suppliers and partitions an
// order across the supplier directory.
package match

import (
	"orderbot_backend/internal/catalog"
	"orderbot_backend/internal/parser"
	"orderbot_backend/internal/textmatch"
)

// Matcher resolves products against the supplier directory using a pluggable
// similarity predicate.
type Matcher struct {
	catalog *catalog.Catalog
	sim     textmatch.Similarity
}

// New creates a matcher over the given catalog.
func New(c *catalog.Catalog, sim textmatch.Similarity) *Matcher {
	return &Matcher{catalog: c, sim: sim}
}

// ResolveSupplier returns the first supplier whose any product is similar to
// the given product name. Directory order is the tie-break, first match wins.
func (m *Matcher) ResolveSupplier(product string) (string, bool) {
	for _, s := range m.catalog.Suppliers() {
		for _, candidate := range s.Products {
			if m.sim.Similar(product, candidate) {
				return s.Name, true
			}
		}
	}
	return "", false
}

// Partition is the division of an order's items by resolved supplier.
// SupplierOrder lists suppliers in directory order for deterministic fan-out.
type Partition struct {
	Matched       []parser.Item
	Unmatched     []parser.Item
	BySupplier    map[string][]string
	SupplierOrder []string
}

// Partition applies ResolveSupplier to every item. Items within a supplier's
// group keep their input order.
func (m *Matcher) Partition(items []parser.Item) Partition {
	p := Partition{BySupplier: map[string][]string{}}

	for _, item := range items {
		supplier, ok := m.ResolveSupplier(item.Product)
		if !ok {
			p.Unmatched = append(p.Unmatched, item)
			continue
		}
		p.Matched = append(p.Matched, item)
		if _, seen := p.BySupplier[supplier]; !seen {
			p.SupplierOrder = append(p.SupplierOrder, supplier)
		}
		p.BySupplier[supplier] = append(p.BySupplier[supplier], item.Line())
	}

	p.sortSupplierOrder(m.catalog)
	return p
}

// PartitionLines re-partitions already rendered item lines, extracting the
// product name from each line. Lines that no longer resolve are dropped;
// callers only use this on orders whose items all matched at creation.
func (m *Matcher) PartitionLines(lines []string) Partition {
	items := make([]parser.Item, 0, len(lines))
	for _, line := range lines {
		items = append(items, parser.Item{Product: parser.ProductOf(line), Raw: line})
	}

	p := Partition{BySupplier: map[string][]string{}}
	for _, item := range items {
		supplier, ok := m.ResolveSupplier(item.Product)
		if !ok {
			p.Unmatched = append(p.Unmatched, item)
			continue
		}
		p.Matched = append(p.Matched, item)
		if _, seen := p.BySupplier[supplier]; !seen {
			p.SupplierOrder = append(p.SupplierOrder, supplier)
		}
		p.BySupplier[supplier] = append(p.BySupplier[supplier], item.Raw)
	}

	p.sortSupplierOrder(m.catalog)
	return p
}

// sortSupplierOrder rewrites SupplierOrder to follow directory order.
func (p *Partition) sortSupplierOrder(c *catalog.Catalog) {
	if len(p.SupplierOrder) < 2 {
		return
	}
	ordered := make([]string, 0, len(p.SupplierOrder))
	for _, s := range c.Suppliers() {
		if _, ok := p.BySupplier[s.Name]; ok {
			ordered = append(ordered, s.Name)
		}
	}
	p.SupplierOrder = ordered
}
