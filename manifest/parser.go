package manifest

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"

	"go.chromium.org/luci/common/data/stringset"
	"go.chromium.org/luci/common/errors"
	"go.chromium.org/luci/common/logging"
)

// whitespace is the set of ASCII whitespace bytes trimmed from section
// names, keys and values: space, \t, \n, \r, \f, \v.
const whitespace = " \t\n\r\f\v"

// Section is one INI section: its entries in manifest order, and whether it
// is a meta-section (name prefixed with '@' in the source file; the prefix
// itself is not retained here — meta-ness is not persisted into the
// container, so there is no reason to keep the '@' once parsing is done).
type Section struct {
	Meta    bool
	Entries *OrderedMap[string]
}

// Manifest is the parsed, ordered form of a resource manifest file: section
// name -> Section, in first-insertion order.
type Manifest struct {
	Sections *OrderedMap[*Section]
}

// categoryKeySet tracks which (section, key) pairs have been seen, to
// detect and log silent overwrites. It is not part of the public API: it
// exists purely to drive the debug log in Parse.
type categoryKeySet struct {
	seen map[string]stringset.Set
}

func newCategoryKeySet() *categoryKeySet {
	return &categoryKeySet{seen: make(map[string]stringset.Set)}
}

func (c *categoryKeySet) sawBefore(section, key string) bool {
	set, ok := c.seen[section]
	if !ok {
		set = stringset.New(1)
		c.seen[section] = set
	}
	return !set.Add(key)
}

// Parse reads path as an INI-flavored manifest: lines are split on '\n',
// with '\r' and NUL stripped; ';' starts a
// comment; '[section]' opens a section (optionally followed by a trailing
// comment, stripped before locating the closing bracket); 'key = value'
// adds an entry to the current section. Lines matching neither form before
// any section has been opened are ignored.
func Parse(ctx context.Context, path string) (*Manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Annotate(err, "opening manifest %q", path).Err()
	}

	raw = bytes.ReplaceAll(raw, []byte{'\r'}, nil)
	raw = bytes.ReplaceAll(raw, []byte{0}, nil)

	m := &Manifest{Sections: NewOrderedMap[*Section]()}
	dupes := newCategoryKeySet()

	var current *Section
	var currentName string

	for _, lineBytes := range bytes.Split(raw, []byte{'\n'}) {
		line := strings.Trim(string(lineBytes), whitespace)
		if line == "" {
			continue
		}
		switch line[0] {
		case ';':
			continue
		case '[':
			name, meta := parseSectionHeader(line)
			if name == "" {
				continue
			}
			currentName = name
			if existing, ok := m.Sections.Get(name); ok {
				current = existing
			} else {
				current = &Section{Meta: meta, Entries: NewOrderedMap[string]()}
				m.Sections.Set(name, current)
			}
			logging.Debugf(ctx, "manifest: entering section %q (meta=%v)", name, current.Meta)
			continue
		}

		key, value, ok := parseKeyValue(line)
		if !ok || current == nil {
			continue
		}
		if !current.Meta {
			value = normalizePathSeparators(value)
		}
		if dupes.sawBefore(currentName, key) {
			logging.Debugf(ctx, "manifest: %q/%q redefined, keeping last value", currentName, key)
		}
		current.Entries.Set(key, value)
	}

	return m, nil
}

// parseSectionHeader extracts the section name from a line beginning with
// '[': truncate at the first ';' found after the opening
// bracket, then take the content up to the *last* ']' in what remains.
// A leading '@' marks a meta-section; it is stripped from the returned
// name.
func parseSectionHeader(line string) (name string, meta bool) {
	if commentAt := strings.IndexByte(line, ';'); commentAt >= 0 {
		line = line[:commentAt]
	}
	closeAt := strings.LastIndexByte(line, ']')
	if closeAt < 0 {
		return "", false
	}
	section := strings.Trim(line[1:closeAt], whitespace)
	if strings.HasPrefix(section, "@") {
		return section[1:], true
	}
	return section, false
}

// parseKeyValue splits "key = value" on the first '=', trimming both
// halves. Lines with no '=' return ok == false.
func parseKeyValue(line string) (key, value string, ok bool) {
	eqAt := strings.IndexByte(line, '=')
	if eqAt < 0 {
		return "", "", false
	}
	key = strings.Trim(line[:eqAt], whitespace)
	value = strings.Trim(line[eqAt+1:], whitespace)
	return key, value, true
}

// normalizePathSeparators converts whichever of '/' or '\' is not native
// into the host's native separator.
func normalizePathSeparators(value string) string {
	if filepath.Separator == '/' {
		return strings.ReplaceAll(value, "\\", "/")
	}
	return strings.ReplaceAll(value, "/", "\\")
}
