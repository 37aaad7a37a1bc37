package repository

import (
	"context"
	"errors"
	"fmt"

	"appmarket/pkg/database"
	"appmarket/pkg/querystring"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrDuplicate is returned when an insert or update hits a unique constraint.
var ErrDuplicate = errors.New("duplicate key")

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// findProjected runs a translated query and returns one map per row keyed by
// the exposed field names of the projection.
func findProjected(ctx context.Context, db database.PgxIface, q *querystring.Query) ([]map[string]any, error) {
	sql, args := q.ToSQL()
	projection := q.Projection()

	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("run query: %w", err)
	}
	defer rows.Close()

	result := []map[string]any{}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("read row values: %w", err)
		}

		doc := make(map[string]any, len(projection))
		for i, f := range projection {
			if i < len(values) {
				doc[f.Name] = normalizeValue(values[i])
			}
		}
		result = append(result, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return result, nil
}

// normalizeValue turns driver representations into JSON friendly ones.
func normalizeValue(v any) any {
	switch val := v.(type) {
	case [16]byte:
		return uuid.UUID(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalizeValue(item)
		}
		return out
	default:
		return v
	}
}
