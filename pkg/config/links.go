package config

import (
	"errors"
	"strconv"
	"strings"
)

// ParseLinks parses the optional links section. An absent section yields no
// links and no error; any malformed entry fails the whole section.
func ParseLinks(src Source) ([]Link, error) {
	items, err := src.Items(SectionLinks)
	if err != nil {
		if errors.Is(err, ErrSectionNotFound) {
			return []Link{}, nil
		}
		return nil, err
	}

	links := make([]Link, 0, len(items))
	for _, item := range items {
		link, err := parseLink(item)
		if err != nil {
			return nil, err
		}
		links = append(links, link)
	}
	return links, nil
}

func parseLink(item Item) (Link, error) {
	endpoints := strings.Split(item.Key, "-")
	if len(endpoints) != 2 || endpoints[0] == "" || endpoints[1] == "" {
		return Link{}, &MalformedLinkKeyError{Key: item.Key}
	}

	attrs := make(map[string]any)
	for _, tok := range strings.Fields(item.Value) {
		parts := strings.Split(tok, "=")
		if len(parts) != 2 {
			reason := errExtraEquals
			if len(parts) < 2 {
				reason = errMissingEquals
			}
			return Link{}, &MalformedAttributeError{Section: SectionLinks, Key: item.Key, Token: tok, Reason: reason.Error()}
		}
		if parts[0] == "" {
			return Link{}, &MalformedAttributeError{Section: SectionLinks, Key: item.Key, Token: tok, Reason: errEmptyAttributeName.Error()}
		}

		value, err := coerceLinkAttr(parts[0], parts[1])
		if err != nil {
			return Link{}, &InvalidAttributeValueError{
				Section:   SectionLinks,
				Key:       item.Key,
				Attribute: parts[0],
				Value:     parts[1],
				Err:       err,
			}
		}
		attrs[parts[0]] = value
	}

	return Link{Endpoint1: endpoints[0], Endpoint2: endpoints[1], Attributes: attrs}, nil
}

func coerceLinkAttr(key, value string) (any, error) {
	switch key {
	case AttrBandwidth, AttrJitter, AttrMaxQueueSize:
		return strconv.Atoi(value)
	case AttrLoss:
		return strconv.ParseFloat(value, 64)
	default:
		return value, nil
	}
}
