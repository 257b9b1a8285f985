package catalog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// LoadFromDB reads the directories from Postgres. The tables are read-only
// lookup data provisioned by migrations; the pool is not retained after
// loading.
func LoadFromDB(ctx context.Context, pool *pgxpool.Pool) (*Catalog, error) {
	rows, err := pool.Query(ctx,
		`SELECT name, products, contact FROM directory_suppliers ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query suppliers: %w", err)
	}
	defer rows.Close()

	var suppliers []Supplier
	for rows.Next() {
		var s Supplier
		if err := rows.Scan(&s.Name, &s.Products, &s.Contact); err != nil {
			return nil, fmt.Errorf("scan supplier: %w", err)
		}
		suppliers = append(suppliers, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(suppliers) == 0 {
		return nil, fmt.Errorf("directory_suppliers is empty")
	}

	locRows, err := pool.Query(ctx,
		`SELECT key, display FROM directory_locations ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("query locations: %w", err)
	}
	defer locRows.Close()

	locations := map[string]string{}
	var locOrder []string
	for locRows.Next() {
		var key, display string
		if err := locRows.Scan(&key, &display); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		locations[key] = display
		locOrder = append(locOrder, key)
	}
	if err := locRows.Err(); err != nil {
		return nil, err
	}
	if len(locations) == 0 {
		return nil, fmt.Errorf("directory_locations is empty")
	}

	empRows, err := pool.Query(ctx,
		`SELECT contact, display_name FROM directory_employees`)
	if err != nil {
		return nil, fmt.Errorf("query employees: %w", err)
	}
	defer empRows.Close()

	employees := map[string]string{}
	for empRows.Next() {
		var contact, name string
		if err := empRows.Scan(&contact, &name); err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		employees[contact] = name
	}
	if err := empRows.Err(); err != nil {
		return nil, err
	}

	return New(suppliers, locations, locOrder, employees), nil
}
