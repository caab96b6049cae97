package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSectionNotFound is matched by every SectionNotFoundError via errors.Is.
var ErrSectionNotFound = errors.New("section not found")

var (
	errMissingEquals      = errors.New("expected key=value")
	errEmptyAttributeName = errors.New("empty attribute name")
	errExtraEquals        = errors.New("expected exactly one '='")
)

// ConfigLoadError reports a topology file that could not be read or is not
// valid sectioned key/value text.
type ConfigLoadError struct {
	Path string
	Err  error
}

func (e *ConfigLoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("failed to load topology configuration: %v", e.Err)
	}
	return fmt.Sprintf("failed to load topology configuration %s: %v", e.Path, e.Err)
}

func (e *ConfigLoadError) Unwrap() error { return e.Err }

// SectionNotFoundError is returned by Store.Items when a section is absent.
// Optional sections treat it as an empty result.
type SectionNotFoundError struct {
	Section string
}

func (e *SectionNotFoundError) Error() string {
	return fmt.Sprintf("section %q not found", e.Section)
}

func (e *SectionNotFoundError) Is(target error) bool { return target == ErrSectionNotFound }

// DuplicateCoordinateError aborts host parsing when two or more nodes carry
// the same radius-bearing value. Every node position must be unique.
type DuplicateCoordinateError struct {
	Value string
	Nodes []string
}

func (e *DuplicateCoordinateError) Error() string {
	return fmt.Sprintf("duplicate coordinate, %q used by multiple nodes (%s)",
		e.Value, strings.Join(e.Nodes, ", "))
}

// MalformedLinkKeyError reports a links entry whose key is not "<a>-<b>".
type MalformedLinkKeyError struct {
	Key string
}

func (e *MalformedLinkKeyError) Error() string {
	return fmt.Sprintf("malformed link key %q: expected two endpoint names separated by '-'", e.Key)
}

// MalformedAttributeError reports a token that is not a well-formed
// key=value attribute.
type MalformedAttributeError struct {
	Section string
	Key     string
	Token   string
	Reason  string
}

func (e *MalformedAttributeError) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = "expected key=value"
	}
	return fmt.Sprintf("[%s] %s: malformed attribute %q: %s", e.Section, e.Key, e.Token, reason)
}

// InvalidAttributeValueError reports a numeric attribute whose value does not
// parse.
type InvalidAttributeValueError struct {
	Section   string
	Key       string
	Attribute string
	Value     string
	Err       error
}

func (e *InvalidAttributeValueError) Error() string {
	return fmt.Sprintf("[%s] %s: invalid value %q for %s: %v", e.Section, e.Key, e.Value, e.Attribute, e.Err)
}

func (e *InvalidAttributeValueError) Unwrap() error { return e.Err }

// MalformedOverlayLinkError reports an overlay_links entry without a peer.
type MalformedOverlayLinkError struct {
	Key string
}

func (e *MalformedOverlayLinkError) Error() string {
	return fmt.Sprintf("overlay link %q has no peer", e.Key)
}
