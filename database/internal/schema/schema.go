// Package schema compares a database table's columns with the columns the
// workspace repos expect.
package schema

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// ErrMismatch is returned when a table is missing or its columns differ.
var ErrMismatch = errors.New("schema mismatch")

// Column is the part of a column definition the repos depend on.
type Column struct {
	Type     string
	Nullable bool
}

// Table maps column names to their definition.
type Table map[string]Column

// Missing reports a table that does not exist.
func Missing(table string) error {
	return fmt.Errorf("table %s does not exist: %w", table, ErrMismatch)
}

// Compare checks every column in want against got. Types are compared
// case-insensitively and extra columns in got are ignored.
func Compare(table string, want, got Table) error {
	var missing, mismatched []string

	for _, name := range slices.Sorted(maps.Keys(want)) {
		w := want[name]
		g, ok := got[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		if !strings.EqualFold(g.Type, w.Type) {
			mismatched = append(mismatched, fmt.Sprintf("%s type %s, want %s", name, strings.ToLower(g.Type), w.Type))
		}
		if g.Nullable != w.Nullable {
			mismatched = append(mismatched, fmt.Sprintf("%s nullable=%t, want %t", name, g.Nullable, w.Nullable))
		}
	}

	var problems []string
	if len(missing) > 0 {
		problems = append(problems, "missing columns "+strings.Join(missing, ", "))
	}
	problems = append(problems, mismatched...)

	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("table %s: %s: %w", table, strings.Join(problems, "; "), ErrMismatch)
}
