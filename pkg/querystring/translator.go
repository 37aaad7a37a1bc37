package querystring

import (
	"fmt"
	"math"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"appmarket/pkg/utils"

	"github.com/google/uuid"
)

const (
	DefaultLimit = 100
	MaxLimit     = 100
	DefaultSort  = "-created_at"
)

// control keys never become predicates
var controlKeys = map[string]bool{
	"page":   true,
	"sort":   true,
	"limit":  true,
	"fields": true,
}

var bracketKey = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\[([A-Za-z]+)\]$`)

// Translator holds the pagination bounds; Translate itself is pure.
type Translator struct {
	DefaultLimit int
	MaxLimit     int
	DefaultSort  string
}

func NewTranslator(defaultLimit, maxLimit int) *Translator {
	if defaultLimit < 1 {
		defaultLimit = DefaultLimit
	}
	if maxLimit < 1 {
		maxLimit = MaxLimit
	}
	if defaultLimit > maxLimit {
		defaultLimit = maxLimit
	}

	return &Translator{
		DefaultLimit: defaultLimit,
		MaxLimit:     maxLimit,
		DefaultSort:  DefaultSort,
	}
}

// Translate refines base with the filter, sort, projection and page window
// described by values. base is left untouched.
func (t *Translator) Translate(base *Query, values url.Values) (*Query, error) {
	q := base.clone()

	if err := t.filter(q, values); err != nil {
		return nil, err
	}
	if err := t.sort(q, values.Get("sort")); err != nil {
		return nil, err
	}
	if err := t.limitFields(q, values.Get("fields")); err != nil {
		return nil, err
	}
	if err := t.paginate(q, values.Get("page"), values.Get("limit")); err != nil {
		return nil, err
	}

	return q, nil
}

func (t *Translator) filter(q *Query, values url.Values) error {
	keys := make([]string, 0, len(values))
	for key := range values {
		if !controlKeys[key] {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	for _, key := range keys {
		name, op := key, OpEq
		if m := bracketKey.FindStringSubmatch(key); m != nil {
			name = m[1]
			switch Operator(m[2]) {
			case OpGte, OpGt, OpLte, OpLt:
				op = Operator(m[2])
			default:
				return invalidParam(key, "unsupported operator "+m[2])
			}
		}

		field, ok := q.schema.Lookup(name)
		if !ok {
			return invalidParam(key, "unknown field "+name)
		}

		raw := values[key]
		if op == OpEq {
			p, err := equality(field, raw)
			if err != nil {
				return invalidParam(key, err.Error())
			}
			q.Filters = append(q.Filters, p)
			continue
		}

		if !field.Kind.comparable() {
			return invalidParam(key, "field "+name+" does not support "+string(op))
		}
		for _, v := range raw {
			parsed, err := parseValue(field.Kind, v)
			if err != nil {
				return invalidParam(key, err.Error())
			}
			q.Filters = append(q.Filters, Predicate{Field: field, Op: op, Value: parsed})
		}
	}

	return nil
}

// equality builds =, membership, or array containment depending on the
// field kind and the number of values.
func equality(field Field, raw []string) (Predicate, error) {
	if field.Kind.isArray() {
		elemKind := KindText
		if field.Kind == KindUUIDArray {
			elemKind = KindUUID
		}
		list, err := parseList(elemKind, raw)
		if err != nil {
			return Predicate{}, err
		}
		return Predicate{Field: field, Op: OpContains, Value: list}, nil
	}

	if len(raw) == 1 {
		v, err := parseValue(field.Kind, raw[0])
		if err != nil {
			return Predicate{}, err
		}
		return Predicate{Field: field, Op: OpEq, Value: v}, nil
	}

	list, err := parseList(field.Kind, raw)
	if err != nil {
		return Predicate{}, err
	}
	return Predicate{Field: field, Op: OpIn, Value: list}, nil
}

func (t *Translator) sort(q *Query, raw string) error {
	if strings.TrimSpace(raw) == "" {
		raw = t.DefaultSort
		// the default tiebreak is optional for schemas without it
		if _, ok := q.schema.Lookup(strings.TrimPrefix(raw, "-")); !ok {
			return nil
		}
	}

	for _, part := range splitList(raw) {
		desc := strings.HasPrefix(part, "-")
		name := strings.TrimPrefix(part, "-")

		field, ok := q.schema.Lookup(name)
		if !ok {
			return invalidParam("sort", "unknown field "+name)
		}
		q.Sort = append(q.Sort, Order{Field: field, Desc: desc})
	}

	return nil
}

func (t *Translator) limitFields(q *Query, raw string) error {
	parts := splitList(raw)
	if len(parts) == 0 {
		return nil
	}

	excluding := strings.HasPrefix(parts[0], "-")
	chosen := make(map[string]bool, len(parts))
	for _, part := range parts {
		if strings.HasPrefix(part, "-") != excluding {
			return invalidParam("fields", "cannot mix inclusion and exclusion")
		}
		name := strings.TrimPrefix(part, "-")
		if _, ok := q.schema.Lookup(name); !ok {
			return invalidParam("fields", "unknown field "+name)
		}
		chosen[name] = true
	}

	var fields []Field
	if excluding {
		for _, f := range q.schema.DefaultProjection() {
			if !chosen[f.Name] {
				fields = append(fields, f)
			}
		}
	} else {
		if id, ok := q.schema.Lookup("id"); ok {
			fields = append(fields, id)
			delete(chosen, "id")
		}
		for _, part := range parts {
			if chosen[part] {
				f, _ := q.schema.Lookup(part)
				fields = append(fields, f)
				delete(chosen, part)
			}
		}
	}

	if len(fields) == 0 {
		return invalidParam("fields", "no fields left to select")
	}

	q.Fields = fields
	return nil
}

func (t *Translator) paginate(q *Query, page, limit string) error {
	p := utils.ParseInt(page, 1)
	l := utils.ParseInt(limit, t.DefaultLimit)
	if l > t.MaxLimit {
		l = t.MaxLimit
	}
	if p-1 > math.MaxInt/l {
		return invalidParam("page", "out of range")
	}

	q.Limit = l
	q.Offset = utils.CalculateOffset(p, l)
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseValue(kind Kind, raw string) (any, error) {
	switch kind {
	case KindNumber:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", raw)
		}
		return v, nil
	case KindUUID:
		v, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("%q is not a valid id", raw)
		}
		return v, nil
	case KindTime:
		for _, layout := range []string{time.RFC3339, "2006-01-02"} {
			if v, err := time.Parse(layout, raw); err == nil {
				return v, nil
			}
		}
		return nil, fmt.Errorf("%q is not a date", raw)
	case KindBool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%q is not a boolean", raw)
		}
		return v, nil
	default:
		return raw, nil
	}
}

// parseList returns a typed slice so the driver can encode it as an array.
func parseList(kind Kind, raw []string) (any, error) {
	switch kind {
	case KindNumber:
		out := make([]float64, 0, len(raw))
		for _, r := range raw {
			v, err := parseValue(kind, r)
			if err != nil {
				return nil, err
			}
			out = append(out, v.(float64))
		}
		return out, nil
	case KindUUID:
		out := make([]uuid.UUID, 0, len(raw))
		for _, r := range raw {
			v, err := parseValue(kind, r)
			if err != nil {
				return nil, err
			}
			out = append(out, v.(uuid.UUID))
		}
		return out, nil
	case KindTime:
		out := make([]time.Time, 0, len(raw))
		for _, r := range raw {
			v, err := parseValue(kind, r)
			if err != nil {
				return nil, err
			}
			out = append(out, v.(time.Time))
		}
		return out, nil
	case KindBool:
		out := make([]bool, 0, len(raw))
		for _, r := range raw {
			v, err := parseValue(kind, r)
			if err != nil {
				return nil, err
			}
			out = append(out, v.(bool))
		}
		return out, nil
	default:
		return append([]string(nil), raw...), nil
	}
}

func invalidParam(key, reason string) error {
	return utils.BadRequest(fmt.Sprintf("Invalid query parameter %q: %s", key, reason))
}
