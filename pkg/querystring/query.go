package querystring

import (
	"fmt"
	"strings"
)

type Operator string

const (
	OpEq       Operator = "eq"
	OpIn       Operator = "in"
	OpContains Operator = "contains"
	OpGte      Operator = "gte"
	OpGt       Operator = "gt"
	OpLte      Operator = "lte"
	OpLt       Operator = "lt"
)

var comparisonSQL = map[Operator]string{
	OpGte: ">=",
	OpGt:  ">",
	OpLte: "<=",
	OpLt:  "<",
}

type Predicate struct {
	Field Field
	Op    Operator
	Value any
}

type Order struct {
	Field Field
	Desc  bool
}

// Query is a composed, not yet executed SELECT over one table.
type Query struct {
	table      string
	schema     Schema
	conditions []string

	Filters []Predicate
	Sort    []Order
	Fields  []Field
	Limit   int
	Offset  int
}

// New returns the base unfiltered query. conditions are trusted SQL fragments
// that are always ANDed in, such as a soft-delete guard.
func New(table string, schema Schema, conditions ...string) *Query {
	return &Query{
		table:      table,
		schema:     schema,
		conditions: conditions,
	}
}

func (q *Query) Schema() Schema {
	return q.schema
}

// Projection is the selected fields, falling back to the schema default.
func (q *Query) Projection() []Field {
	if len(q.Fields) > 0 {
		return q.Fields
	}
	return q.schema.DefaultProjection()
}

func (q *Query) clone() *Query {
	c := *q
	c.conditions = append([]string(nil), q.conditions...)
	c.Filters = append([]Predicate(nil), q.Filters...)
	c.Sort = append([]Order(nil), q.Sort...)
	c.Fields = append([]Field(nil), q.Fields...)
	return &c
}

// ToSQL renders the statement and its positional arguments.
func (q *Query) ToSQL() (string, []any) {
	var sb strings.Builder
	args := []any{}

	placeholder := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	projection := q.Projection()
	columns := make([]string, len(projection))
	for i, f := range projection {
		columns[i] = f.Column
	}

	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(columns, ", "))
	sb.WriteString(" FROM ")
	sb.WriteString(q.table)

	where := append([]string(nil), q.conditions...)
	for _, p := range q.Filters {
		switch p.Op {
		case OpEq:
			where = append(where, fmt.Sprintf("%s = %s", p.Field.Column, placeholder(p.Value)))
		case OpIn:
			where = append(where, fmt.Sprintf("%s = ANY(%s)", p.Field.Column, placeholder(p.Value)))
		case OpContains:
			where = append(where, fmt.Sprintf("%s @> %s", p.Field.Column, placeholder(p.Value)))
		default:
			where = append(where, fmt.Sprintf("%s %s %s", p.Field.Column, comparisonSQL[p.Op], placeholder(p.Value)))
		}
	}

	if len(where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(where, " AND "))
	}

	if len(q.Sort) > 0 {
		orders := make([]string, len(q.Sort))
		for i, o := range q.Sort {
			dir := "ASC"
			if o.Desc {
				dir = "DESC"
			}
			orders[i] = o.Field.Column + " " + dir
		}
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(orders, ", "))
	}

	if q.Limit > 0 {
		sb.WriteString(" LIMIT ")
		sb.WriteString(placeholder(q.Limit))
		sb.WriteString(" OFFSET ")
		sb.WriteString(placeholder(q.Offset))
	}

	return sb.String(), args
}
