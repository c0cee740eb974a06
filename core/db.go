package core

import (
	"strings"

	"github.com/jmoiron/sqlx"
)

// DBExecutor is what repositories need to run queries; satisfied by *sqlx.DB and *sqlx.Tx.
type DBExecutor interface {
	sqlx.ExtContext
}

type DBOrdering struct {
	Field     string
	Ascending bool
}

func (ord DBOrdering) String() string {
	direction := "DESC"
	if ord.Ascending {
		direction = "ASC"
	}
	return ord.Field + " " + direction
}

// ParseOrdering reads a comma separated list of fields, "-" prefixed fields being descending.
// Fields not in `allowed` are dropped.
func ParseOrdering(raw string, allowed ...string) []DBOrdering {
	if raw == "" {
		return nil
	}
	ok := make(map[string]bool, len(allowed))
	for _, f := range allowed {
		ok[f] = true
	}

	var orderings []DBOrdering
	for _, field := range strings.Split(raw, ",") {
		field = strings.TrimSpace(field)
		descending := strings.HasPrefix(field, "-")
		if descending {
			field = field[1:] // drop "-"
		}
		if !ok[field] {
			continue
		}
		orderings = append(orderings, DBOrdering{Field: field, Ascending: !descending})
	}
	return orderings
}
