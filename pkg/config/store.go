package config

import (
	"fmt"
	"os"
	"strings"
	"unicode"

	"gopkg.in/ini.v1"
)

// Section names understood by the topology parser.
const (
	SectionNodes        = "nodes"
	SectionSwitches     = "switches"
	SectionLinks        = "links"
	SectionOverlayNodes = "overlay_nodes"
	SectionOverlayLinks = "overlay_links"
)

// Item is a single key/value entry of a section. Keys declared without a
// delimiter have an empty Value.
type Item struct {
	Key   string
	Value string
}

// Source is the read side of a Store consumed by the parsers.
type Source interface {
	Items(section string) ([]Item, error)
}

// Store is a loaded, section-structured key/value topology source. Section
// and key names are case-sensitive.
type Store struct {
	file *ini.File
	// bare records keys written without a delimiter, which ini reports as "true".
	bare map[string]map[string]bool
}

var loadOptions = ini.LoadOptions{
	AllowBooleanKeys:           true,
	AllowPythonMultilineValues: true,
	IgnoreContinuation:         true,
	IgnoreInlineComment:        true,
	PreserveSurroundedQuote:    true,
	KeyValueDelimiters:         "=:",
}

// literalMarker is prepended to values starting with ` or """ so ini keeps
// them verbatim instead of unwrapping them as raw literals.
const literalMarker = "\x00"

// Load reads and parses a topology configuration file.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is user-provided CLI input
	if err != nil {
		return nil, &ConfigLoadError{Path: path, Err: err}
	}

	s, err := LoadBytes(data)
	if err != nil {
		if le, ok := err.(*ConfigLoadError); ok {
			le.Path = path
		}
		return nil, err
	}
	return s, nil
}

// LoadBytes parses an in-memory topology configuration.
func LoadBytes(data []byte) (*Store, error) {
	if line, ok := entryBeforeHeader(data); ok {
		return nil, &ConfigLoadError{
			Err: fmt.Errorf("entry %q appears before the first section header", line),
		}
	}
	data = protectLiterals(data)

	f, err := ini.LoadSources(loadOptions, data)
	if err != nil {
		return nil, &ConfigLoadError{Err: err}
	}

	// A second pass without boolean keys tells bare keys apart from keys
	// whose value is literally "true".
	strictOpts := loadOptions
	strictOpts.AllowBooleanKeys = false
	strictOpts.SkipUnrecognizableLines = true
	strict, err := ini.LoadSources(strictOpts, data)
	if err != nil {
		return nil, &ConfigLoadError{Err: err}
	}

	bare := make(map[string]map[string]bool)
	for _, sec := range f.Sections() {
		for _, key := range sec.Keys() {
			key.SetValue(normalizeValue(key.Value()))
			if strictSec, err := strict.GetSection(sec.Name()); err == nil && strictSec.HasKey(key.Name()) {
				continue
			}
			if bare[sec.Name()] == nil {
				bare[sec.Name()] = make(map[string]bool)
			}
			bare[sec.Name()][key.Name()] = true
		}
	}

	return &Store{file: f, bare: bare}, nil
}

// Items returns the entries of a section in source order.
func (s *Store) Items(section string) ([]Item, error) {
	sec, err := s.section(section)
	if err != nil {
		return nil, err
	}

	// Entries of an explicit [DEFAULT] section come first in every section;
	// a section's own entry replaces the default value in place.
	defaults := s.file.Section(ini.DefaultSection)
	items := make([]Item, 0, len(defaults.Keys())+len(sec.Keys()))
	for _, key := range defaults.Keys() {
		if sec.HasKey(key.Name()) {
			items = append(items, s.item(section, sec.Key(key.Name())))
			continue
		}
		items = append(items, s.item(ini.DefaultSection, key))
	}
	for _, key := range sec.Keys() {
		if defaults.HasKey(key.Name()) {
			continue
		}
		items = append(items, s.item(section, key))
	}
	return items, nil
}

func (s *Store) item(section string, key *ini.Key) Item {
	if s.bare[section][key.Name()] {
		return Item{Key: key.Name()}
	}
	return Item{Key: key.Name(), Value: key.Value()}
}

// SetValue overwrites the value of a key in place, adding the key if it does
// not exist yet. Subsequent Items calls observe the update.
func (s *Store) SetValue(section, key, value string) error {
	sec, err := s.section(section)
	if err != nil {
		return err
	}

	if sec.HasKey(key) {
		sec.Key(key).SetValue(value)
	} else if _, err := sec.NewKey(key, value); err != nil {
		return fmt.Errorf("failed to set [%s] %s: %w", section, key, err)
	}
	delete(s.bare[section], key)
	return nil
}

// HasSection reports whether the section is declared.
func (s *Store) HasSection(name string) bool {
	_, err := s.section(name)
	return err == nil
}

// Sections returns the declared section names in source order.
func (s *Store) Sections() []string {
	var names []string
	for _, name := range s.file.SectionStrings() {
		if name == ini.DefaultSection {
			continue
		}
		names = append(names, name)
	}
	return names
}

func (s *Store) section(name string) (*ini.Section, error) {
	if name == ini.DefaultSection {
		return nil, &SectionNotFoundError{Section: name}
	}
	sec, err := s.file.GetSection(name)
	if err != nil {
		return nil, &SectionNotFoundError{Section: name}
	}
	return sec, nil
}

// entryBeforeHeader reports the first entry found before any section header.
func entryBeforeHeader(data []byte) (string, bool) {
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || line[0] == '#' || line[0] == ';' {
			continue
		}
		if line[0] == '[' {
			return "", false
		}
		return line, true
	}
	return "", false
}

// protectLiterals marks entry values that start with ` or """.
func protectLiterals(data []byte) []byte {
	lines := strings.SplitAfter(string(data), "\n")
	for i, line := range lines {
		trimmed := strings.TrimLeftFunc(line, unicode.IsSpace)
		if trimmed == "" || strings.ContainsRune("#;[", rune(trimmed[0])) {
			continue
		}
		idx := strings.IndexAny(line, loadOptions.KeyValueDelimiters)
		if idx == -1 {
			continue
		}
		rest := line[idx+1:]
		value := strings.TrimLeftFunc(rest, unicode.IsSpace)
		if strings.HasPrefix(value, "`") || strings.HasPrefix(value, `"""`) {
			lines[i] = line[:idx+1] + rest[:len(rest)-len(value)] + literalMarker + value
		}
	}
	return []byte(strings.Join(lines, ""))
}

// normalizeValue folds indented continuation lines into the value, one
// trimmed line each, and drops an inline comment from the first line.
func normalizeValue(raw string) string {
	lines := strings.Split(strings.ReplaceAll(raw, literalMarker, ""), "\n")

	value := stripInlineComment(strings.TrimSpace(lines[0]))
	for _, line := range lines[1:] {
		if line = strings.TrimSpace(line); line != "" {
			value += "\n" + line
		}
	}
	return value
}

// stripInlineComment cuts the value at the first ';' that follows whitespace
// and sits outside shell quotes. '#' never starts an inline comment.
func stripInlineComment(value string) string {
	var quote rune
	escaped := false
	for i, r := range value {
		switch {
		case escaped:
			escaped = false
		case quote == '\'':
			if r == '\'' {
				quote = 0
			}
		case r == '\\':
			escaped = true
		case quote == '"':
			if r == '"' {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
		case r == ';' && i > 0 && unicode.IsSpace(rune(value[i-1])):
			return strings.TrimSpace(value[:i])
		}
	}
	return value
}
