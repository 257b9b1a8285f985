package catalog

import (
	"fmt"
	"os"

	"orderbot_backend/platform/config"

	"gopkg.in/yaml.v3"
)

type locationEntry struct {
	Key     string `yaml:"key"`
	Display string `yaml:"display"`
}

type employeeEntry struct {
	Contact string `yaml:"contact"`
	Name    string `yaml:"name"`
}

// LoadFromFiles reads the supplier, location and employee directories from
// YAML files. The employee file is optional.
func LoadFromFiles(cfg config.DirectoryConfig) (*Catalog, error) {
	var suppliers []Supplier
	if err := readYAML(cfg.GetSuppliersFile(), &suppliers); err != nil {
		return nil, fmt.Errorf("load suppliers: %w", err)
	}
	if len(suppliers) == 0 {
		return nil, fmt.Errorf("supplier directory %s is empty", cfg.GetSuppliersFile())
	}

	var locEntries []locationEntry
	if err := readYAML(cfg.GetLocationsFile(), &locEntries); err != nil {
		return nil, fmt.Errorf("load locations: %w", err)
	}
	if len(locEntries) == 0 {
		return nil, fmt.Errorf("location directory %s is empty", cfg.GetLocationsFile())
	}

	locations := make(map[string]string, len(locEntries))
	locOrder := make([]string, 0, len(locEntries))
	for _, e := range locEntries {
		locations[e.Key] = e.Display
		locOrder = append(locOrder, e.Key)
	}

	employees := map[string]string{}
	var empEntries []employeeEntry
	if err := readYAML(cfg.GetEmployeesFile(), &empEntries); err == nil {
		for _, e := range empEntries {
			employees[e.Contact] = e.Name
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("load employees: %w", err)
	}

	return New(suppliers, locations, locOrder, employees), nil
}

func readYAML(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, out)
}
