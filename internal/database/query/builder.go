// Roomrank - Rental Listing Recommendation and Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomrank

package query

import (
	"strconv"
	"strings"
)

// WhereBuilder constructs SQL WHERE clauses with parameterized arguments.
// Clauses are written with "?" markers which Build numbers as $1, $2, ...
// so the same SQL runs on DuckDB and PostgreSQL.
//
// Example usage:
//
//	wb := query.NewWhereBuilder()
//	wb.AddClause("active = ?", true)
//	wb.AddEqualFold("city", "Delhi")
//	wb.AddIn("id", []string{"a", "b"})
//	whereClause, args := wb.Build()
//	// active = $1 AND LOWER(city) = LOWER($2) AND id IN ($3, $4)
type WhereBuilder struct {
	clauses []string
	args    []any
}

// NewWhereBuilder creates a new WhereBuilder instance.
func NewWhereBuilder() *WhereBuilder {
	return &WhereBuilder{}
}

// AddClause adds a raw condition. Each "?" in clause binds one of args, in order.
func (wb *WhereBuilder) AddClause(clause string, args ...any) *WhereBuilder {
	wb.clauses = append(wb.clauses, clause)
	wb.args = append(wb.args, args...)
	return wb
}

// AddEqualFold adds a case-insensitive equality on a text column.
// Empty values are skipped.
func (wb *WhereBuilder) AddEqualFold(column, value string) *WhereBuilder {
	value = strings.TrimSpace(value)
	if value == "" {
		return wb
	}
	return wb.AddClause("LOWER(TRIM("+column+")) = LOWER(?)", value)
}

// AddIn adds "column IN (...)". An empty slice adds a clause that matches
// nothing, since an empty set filter must not widen the result.
func (wb *WhereBuilder) AddIn(column string, values []string) *WhereBuilder {
	if len(values) == 0 {
		return wb.AddClause("1=0")
	}
	wb.clauses = append(wb.clauses, column+" IN ("+Markers(len(values))+")")
	for _, v := range values {
		wb.args = append(wb.args, v)
	}
	return wb
}

// Build joins the clauses with AND and numbers the placeholders from $1.
// Returns ("1=1", nil) if no clauses were added.
func (wb *WhereBuilder) Build() (string, []any) {
	return wb.BuildFrom(1)
}

// BuildFrom is Build with numbering starting at first, for queries that bind
// other arguments before the WHERE clause.
func (wb *WhereBuilder) BuildFrom(first int) (string, []any) {
	if len(wb.clauses) == 0 {
		return "1=1", nil
	}
	return Number(strings.Join(wb.clauses, " AND "), first), wb.args
}

// Count returns the number of clauses added to the builder.
func (wb *WhereBuilder) Count() int {
	return len(wb.clauses)
}

// IsEmpty returns true if no clauses have been added.
func (wb *WhereBuilder) IsEmpty() bool {
	return len(wb.clauses) == 0
}

// Markers returns n comma-separated "?" markers.
func Markers(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}

// Number rewrites "?" markers outside string literals to $first, $first+1, ...
func Number(sql string, first int) string {
	var b strings.Builder
	b.Grow(len(sql) + 8)
	n := first
	quoted := false
	for i := 0; i < len(sql); i++ {
		c := sql[i]
		switch {
		case c == '\'':
			quoted = !quoted
			b.WriteByte(c)
		case c == '?' && !quoted:
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			n++
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
