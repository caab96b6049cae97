package config

import (
	"strconv"
	"strings"

	"github.com/google/shlex"
)

const (
	// noAppToken marks a host explicitly declared without an application.
	noAppToken = "_"
	// coordinateMarker identifies node values that carry a position.
	coordinateMarker = "radius"
)

type hostAttr int

const (
	attrParam hostAttr = iota
	attrCPU
	attrCores
	attrCache
	attrMem
	attrApp
	attrNoApp
)

// Checked in this order when matching by prefix.
var hostKeywords = []struct {
	keyword string
	attr    hostAttr
}{
	{"cpu", attrCPU},
	{"cores", attrCores},
	{"cache", attrCache},
	{"mem", attrMem},
	{"app", attrApp},
	{noAppToken, attrNoApp},
}

// hostEntry is a nodes item after tokenization. A nil tokens slice means the
// node declared no attributes.
type hostEntry struct {
	name   string
	tokens []string
}

// ParseHosts parses the mandatory nodes section into hosts, in source order.
// A missing section is returned as a *SectionNotFoundError, and a coordinate
// shared by two nodes aborts the whole parse with a *DuplicateCoordinateError.
func ParseHosts(src Source, opts ...Option) ([]Host, error) {
	o := newOptions(opts)

	items, err := src.Items(SectionNodes)
	if err != nil {
		return nil, err
	}

	if err := checkCoordinates(items); err != nil {
		return nil, err
	}

	entries, err := tokenizeHosts(items)
	if err != nil {
		return nil, err
	}

	hosts := make([]Host, 0, len(entries))
	for _, e := range entries {
		h, err := buildHost(e, o)
		if err != nil {
			return nil, err
		}
		hosts = append(hosts, h)
	}
	return hosts, nil
}

func checkCoordinates(items []Item) error {
	owners := make(map[string]string)
	for _, item := range items {
		if !strings.Contains(item.Value, coordinateMarker) {
			continue
		}
		if first, ok := owners[item.Value]; ok {
			return &DuplicateCoordinateError{Value: item.Value, Nodes: []string{first, item.Key}}
		}
		owners[item.Value] = item.Key
	}
	return nil
}

func tokenizeHosts(items []Item) ([]hostEntry, error) {
	entries := make([]hostEntry, 0, len(items))
	for _, item := range items {
		e := hostEntry{name: item.Key}
		if len(strings.Fields(item.Value)) > 0 {
			tokens, err := shlex.Split(item.Value)
			if err != nil {
				return nil, &MalformedAttributeError{
					Section: SectionNodes,
					Key:     item.Key,
					Token:   item.Value,
					Reason:  err.Error(),
				}
			}
			if len(tokens) > 0 {
				e.tokens = tokens
			}
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func buildHost(e hostEntry, o *options) (Host, error) {
	h := Host{Name: e.name, Params: make(map[string]string)}

	for _, tok := range e.tokens {
		attr, key, value, err := classifyHostToken(tok, o.keyMatch)
		if err != nil {
			return Host{}, &MalformedAttributeError{Section: SectionNodes, Key: e.name, Token: tok, Reason: err.Error()}
		}

		switch attr {
		case attrCPU:
			cpu, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return Host{}, &InvalidAttributeValueError{
					Section:   SectionNodes,
					Key:       e.name,
					Attribute: "cpu",
					Value:     value,
					Err:       err,
				}
			}
			h.CPU = &cpu
		case attrCores:
			h.Cores = &value
		case attrCache:
			h.Cache = &value
		case attrMem:
			// Memory limits are read but not carried on the host.
			o.logger.Debug("ignoring memory limit", "host", e.name, "mem", value)
		case attrApp:
			h.App = value
		case attrNoApp:
			h.App = ""
		default:
			h.Params[key] = value
		}
	}
	return h, nil
}

func classifyHostToken(tok string, match KeyMatch) (hostAttr, string, string, error) {
	if match == MatchPrefix {
		return classifyPrefix(tok)
	}
	return classifyExact(tok)
}

func classifyExact(tok string) (hostAttr, string, string, error) {
	if tok == noAppToken {
		return attrNoApp, "", "", nil
	}

	key, value, ok := strings.Cut(tok, "=")
	if !ok {
		return 0, "", "", errMissingEquals
	}
	if key == "" {
		return 0, "", "", errEmptyAttributeName
	}

	for _, kw := range hostKeywords {
		if kw.attr != attrNoApp && kw.keyword == key {
			return kw.attr, key, value, nil
		}
	}
	return attrParam, key, value, nil
}

// classifyPrefix picks the first keyword the token starts with. The value is
// the text between the first and second '='.
func classifyPrefix(tok string) (hostAttr, string, string, error) {
	attr := attrParam
	for _, kw := range hostKeywords {
		if strings.HasPrefix(tok, kw.keyword) {
			attr = kw.attr
			break
		}
	}
	if attr == attrNoApp {
		return attrNoApp, "", "", nil
	}

	parts := strings.Split(tok, "=")
	if len(parts) < 2 {
		return 0, "", "", errMissingEquals
	}
	return attr, parts[0], parts[1], nil
}
