package config

import (
	"errors"
)

// ParseSwitches parses the optional switches section. An absent section
// yields no switches and no error.
func ParseSwitches(src Source) ([]Switch, error) {
	items, err := src.Items(SectionSwitches)
	if err != nil {
		if errors.Is(err, ErrSectionNotFound) {
			return []Switch{}, nil
		}
		return nil, err
	}

	switches := make([]Switch, 0, len(items))
	for _, item := range items {
		switches = append(switches, Switch{Name: item.Key})
	}
	return switches, nil
}
