// Package querystring turns untrusted list-endpoint query strings into bounded,
// parameterised SELECT statements. Identifiers only ever come from a Schema;
// client input only ever reaches the statement as positional arguments.
package querystring

type Kind int

const (
	KindText Kind = iota
	KindNumber
	KindUUID
	KindTime
	KindBool
	KindTextArray
	KindUUIDArray
)

func (k Kind) isArray() bool {
	return k == KindTextArray || k == KindUUIDArray
}

// comparable reports whether gte/gt/lte/lt make sense for the kind.
func (k Kind) comparable() bool {
	return k == KindText || k == KindNumber || k == KindTime
}

// Field exposes one column to the query string under Name.
type Field struct {
	Name   string
	Column string
	Kind   Kind
	// Hidden fields can never be filtered, sorted or selected.
	Hidden bool
	// Internal fields are left out of the default projection.
	Internal bool
}

type Schema struct {
	fields []Field
	byName map[string]Field
}

func NewSchema(fields ...Field) Schema {
	byName := make(map[string]Field, len(fields))
	for _, f := range fields {
		if f.Column == "" {
			f.Column = f.Name
		}
		byName[f.Name] = f
	}

	normalized := make([]Field, len(fields))
	for i, f := range fields {
		normalized[i] = byName[f.Name]
	}

	return Schema{fields: normalized, byName: byName}
}

// Lookup returns a visible field by its query-string name.
func (s Schema) Lookup(name string) (Field, bool) {
	f, ok := s.byName[name]
	if !ok || f.Hidden {
		return Field{}, false
	}
	return f, true
}

// DefaultProjection is every visible, non-internal field in declaration order.
func (s Schema) DefaultProjection() []Field {
	out := make([]Field, 0, len(s.fields))
	for _, f := range s.fields {
		if f.Hidden || f.Internal {
			continue
		}
		out = append(out, f)
	}
	return out
}
