// Package template renders snippet templates written in an ERB subset
// against a fixed set of named properties.
package template

import (
	"sort"
	"strings"
)

// PredicateSuffix marks the derived lookup name of a boolean property.
const PredicateSuffix = "?"

// Context holds the properties a template is rendered against. Every key is
// bound under its normalized name, and every boolean property additionally
// under "<name>?". A Context is immutable once created.
type Context struct {
	values map[string]any
}

// NewContext binds values into a new Context. Keys are normalized with
// NormalizeKey; when two keys collide, the one already in normalized form wins.
// Explicit keys ending in "?" are never replaced by derived predicates.
func NewContext(values map[string]any) *Context {
	bound := make(map[string]any, len(values)*2)

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	// Keys that need normalizing go first so that exact names overwrite them.
	sort.Slice(keys, func(i, j int) bool {
		ni, nj := keys[i] != NormalizeKey(keys[i]), keys[j] != NormalizeKey(keys[j])
		if ni != nj {
			return ni
		}
		return keys[i] < keys[j]
	})

	for _, k := range keys {
		bound[NormalizeKey(k)] = values[k]
	}

	for _, k := range sortedKeys(bound) {
		b, ok := bound[k].(bool)
		if !ok {
			continue
		}
		predicate := k + PredicateSuffix
		if _, exists := bound[predicate]; exists {
			continue
		}
		bound[predicate] = b
	}

	return &Context{values: bound}
}

// NormalizeKey turns a data or override key into a lookup name by replacing
// every "-" with "_".
func NormalizeKey(key string) string {
	return strings.ReplaceAll(key, "-", "_")
}

// Get returns the value bound to property, or an *InsufficientContextError
// when nothing is bound under that name.
func (c *Context) Get(property string) (any, error) {
	v, ok := c.values[property]
	if !ok {
		return nil, &InsufficientContextError{Property: property}
	}

	return v, nil
}

// Has reports whether property is bound.
func (c *Context) Has(property string) bool {
	_, ok := c.values[property]
	return ok
}

// Keys returns every bound lookup name, derived predicates included, sorted.
func (c *Context) Keys() []string {
	return sortedKeys(c.values)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}
