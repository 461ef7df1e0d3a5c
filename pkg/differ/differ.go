// Package differ decides whether two versions of an entity describe the same
// thing. Both versions are normalized into plain comparison trees first, so
// identifiers, the order of list elements and empty values do not count as
// changes.
package differ

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/lukas-kratochvil/music-event-connect/pkg/errors"
	"github.com/lukas-kratochvil/music-event-connect/pkg/rdf/mapping"
	"github.com/lukas-kratochvil/music-event-connect/pkg/rdf/serialization"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortKey is the member objects in a list are ordered by
const SortKey = "name"

type Differ struct {
	registry *mapping.Registry
	locale   language.Tag
}

func WithLocale(tag language.Tag) func(*Differ) {
	return func(d *Differ) {
		d.locale = tag
	}
}

func New(registry *mapping.Registry, options ...func(*Differ)) *Differ {
	d := &Differ{
		registry: registry,
		locale:   language.Czech,
	}

	for _, option := range options {
		option(d)
	}

	return d
}

// Same reports whether a and b normalize to equal trees
func (d *Differ) Same(a, b mapping.Entity) (bool, error) {
	diff, err := d.Diff(a, b)
	if err != nil {
		return false, err
	}
	return diff == "", nil
}

// Diff returns a human readable report of the differences between a and b, or
// an empty string when there are none.
func (d *Differ) Diff(a, b mapping.Entity) (string, error) {
	na, err := d.Normalize(a)
	if err != nil {
		return "", err
	}

	nb, err := d.Normalize(b)
	if err != nil {
		return "", err
	}

	return cmp.Diff(na, nb, cmpopts.EquateEmpty()), nil
}

// Normalize turns e into nested maps keyed by field name. Lists are sorted,
// absent and empty values left out and times rendered as strings.
func (d *Differ) Normalize(e mapping.Entity) (map[string]any, error) {
	n := &normalizer{
		registry: d.registry,
		// collators keep internal buffers and must not be shared
		collator: collate.New(d.locale),
		visiting: map[mapping.Entity]bool{},
	}
	return n.entity(e)
}

type normalizer struct {
	registry *mapping.Registry
	collator *collate.Collator
	visiting map[mapping.Entity]bool
}

func (n *normalizer) entity(e mapping.Entity) (map[string]any, error) {
	t, err := n.registry.TypeOf(e)
	if err != nil {
		return nil, err
	}

	if n.visiting[e] {
		return nil, errors.NewMappingError("%s entity %s refers back to itself", t.Name, e.EntityID())
	}
	n.visiting[e] = true
	defer delete(n.visiting, e)

	tree := map[string]any{}

	for _, f := range t.Fields {
		values, err := f.Values(e)
		if err != nil {
			return nil, err
		}

		normalized := make([]any, 0, len(values))
		for _, v := range values {
			nv, err := n.value(v)
			if err != nil {
				return nil, err
			}
			if !isEmpty(nv) {
				normalized = append(normalized, nv)
			}
		}

		if len(normalized) == 0 {
			continue
		}

		if f.Many {
			n.sort(normalized)
			tree[f.Name] = normalized
		} else {
			tree[f.Name] = normalized[0]
		}
	}

	return tree, nil
}

func (n *normalizer) value(v any) (any, error) {
	switch value := v.(type) {
	case mapping.Entity:
		return n.entity(value)
	case time.Time:
		return value.UTC().Format(serialization.TimeLayout), nil
	case float32:
		return float64(value), nil
	case int:
		return float64(value), nil
	case int64:
		return float64(value), nil
	default:
		return v, nil
	}
}

func (n *normalizer) sort(values []any) {
	sort.SliceStable(values, func(i, j int) bool {
		return n.less(values[i], values[j])
	})
}

func (n *normalizer) less(a, b any) bool {
	switch x := a.(type) {
	case string:
		if y, ok := b.(string); ok {
			return n.lessString(x, y)
		}
	case float64:
		if y, ok := b.(float64); ok {
			return x < y
		}
	case map[string]any:
		if y, ok := b.(map[string]any); ok {
			xs, _ := x[SortKey].(string)
			ys, _ := y[SortKey].(string)
			if xs != ys {
				return n.lessString(xs, ys)
			}
		}
	}

	return fmt.Sprint(a) < fmt.Sprint(b)
}

func (n *normalizer) lessString(a, b string) bool {
	if c := n.collator.CompareString(a, b); c != 0 {
		return c < 0
	}
	return a < b
}

func isEmpty(v any) bool {
	switch value := v.(type) {
	case nil:
		return true
	case string:
		return value == ""
	case map[string]any:
		return len(value) == 0
	case []any:
		return len(value) == 0
	}
	return false
}
