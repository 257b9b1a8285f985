// Package catalog holds the static lookup tables loaded once at startup:
// the supplier directory used for product matching, the location menu and
// the optional employee directory.
package catalog

import (
	"strings"

	"orderbot_backend/platform/phone"
)

// Supplier is one entry of the supplier directory. Contact is either a phone
// number or an email address. Entry order is meaningful: the matcher resolves
// products first-match-wins in directory order.
type Supplier struct {
	Name     string   `yaml:"name"`
	Products []string `yaml:"products"`
	Contact  string   `yaml:"contact"`
}

// Catalog is immutable for the process lifetime.
type Catalog struct {
	suppliers []Supplier
	byContact map[string]int // normalized contact -> supplier index
	locations map[string]string
	locOrder  []string
	employees map[string]string
}

// New builds a catalog with the contact reverse index, so the per-message
// "is this sender a supplier" check is a map lookup instead of a scan.
func New(suppliers []Supplier, locations map[string]string, locationOrder []string, employees map[string]string) *Catalog {
	c := &Catalog{
		suppliers: suppliers,
		byContact: make(map[string]int, len(suppliers)),
		locations: locations,
		locOrder:  locationOrder,
		employees: make(map[string]string, len(employees)),
	}
	for i, s := range suppliers {
		c.byContact[NormalizeContact(s.Contact)] = i
	}
	for contact, name := range employees {
		c.employees[NormalizeContact(contact)] = name
	}
	return c
}

// Suppliers returns the directory in its authoritative order.
func (c *Catalog) Suppliers() []Supplier {
	return c.suppliers
}

// SupplierByContact resolves the supplier owning a contact identifier.
func (c *Catalog) SupplierByContact(contact string) (Supplier, bool) {
	i, ok := c.byContact[NormalizeContact(contact)]
	if !ok {
		return Supplier{}, false
	}
	return c.suppliers[i], true
}

// SupplierByName looks a supplier up by its directory name.
func (c *Catalog) SupplierByName(name string) (Supplier, bool) {
	for _, s := range c.suppliers {
		if s.Name == name {
			return s, true
		}
	}
	return Supplier{}, false
}

// Location resolves a menu selection key to its display string.
func (c *Catalog) Location(key string) (string, bool) {
	display, ok := c.locations[strings.TrimSpace(key)]
	return display, ok
}

// LocationKeys returns the selection keys in menu order.
func (c *Catalog) LocationKeys() []string {
	return c.locOrder
}

// EmployeeName resolves a contact to a display name; falls back to a generic
// label when the contact is not in the employee directory.
func (c *Catalog) EmployeeName(contact string) string {
	if name, ok := c.employees[NormalizeContact(contact)]; ok {
		return name
	}
	return "Сотрудник"
}

// NormalizeContact canonicalizes a contact identifier: emails are lowercased,
// phone numbers normalized to E.164 without the leading plus.
func NormalizeContact(contact string) string {
	trimmed := strings.TrimSpace(contact)
	if strings.Contains(trimmed, "@") {
		return strings.ToLower(trimmed)
	}
	return strings.TrimPrefix(phone.NormalizeE164(trimmed), "+")
}

// IsEmail reports whether a contact identifier is an email address.
func IsEmail(contact string) bool {
	return strings.Contains(contact, "@")
}
