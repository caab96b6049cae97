package config

import (
	"fmt"
	"strings"
)

// Override replaces or adds a single entry of a loaded store
type Override struct {
	Section string
	Key     string
	Value   string
}

// ParseSetValues parses --set style "section.key=value" overrides.
// The value is everything after the first '=', so host attribute lists
// such as "nodes.a=cpu=0.5 app=ping" are kept whole.
func ParseSetValues(setValues []string) ([]Override, error) {
	overrides := make([]Override, 0, len(setValues))

	for _, sv := range setValues {
		path, value, ok := strings.Cut(sv, "=")
		if !ok {
			return nil, fmt.Errorf("failed to parse value %s: expected section.key=value", sv)
		}
		section, key, ok := strings.Cut(path, ".")
		if !ok || section == "" || key == "" {
			return nil, fmt.Errorf("failed to parse value %s: expected section.key=value", sv)
		}
		overrides = append(overrides, Override{Section: section, Key: key, Value: value})
	}

	return overrides, nil
}

// ApplyOverrides writes each override into the store in order
func ApplyOverrides(store *Store, overrides []Override) error {
	for _, o := range overrides {
		if err := store.SetValue(o.Section, o.Key, o.Value); err != nil {
			return fmt.Errorf("failed to apply override %s.%s: %w", o.Section, o.Key, err)
		}
	}
	return nil
}
