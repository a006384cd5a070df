// Package query builds parameterized SELECT statements over a single
// projected table.
package query

import (
	"fmt"
	"regexp"
	"strings"
)

var identifier = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// ProjectionMap is the set of columns a query selects, keyed by the field
// names callers filter and sort on. Only mapped fields can reach SQL, so
// request input never becomes an identifier.
type ProjectionMap struct {
	from    string
	alias   string
	byField map[string]string
	columns []string
}

// NewProjectionMap creates a projection over schema.table aliased as alias.
// An empty schema leaves the table unqualified. It panics on names that are
// not plain lower-case SQL identifiers.
func NewProjectionMap(schema, table, alias string) *ProjectionMap {
	from := mustIdent(table)
	if schema != "" {
		from = mustIdent(schema) + "." + from
	}
	return &ProjectionMap{
		from:    from + " " + mustIdent(alias),
		alias:   alias,
		byField: make(map[string]string),
	}
}

// Project selects column and exposes it under field.
func (p *ProjectionMap) Project(column, field string) *ProjectionMap {
	if _, dup := p.byField[field]; dup {
		panic(fmt.Sprintf("query: field %q projected twice", field))
	}
	qualified := p.alias + "." + mustIdent(column)
	p.byField[field] = qualified
	p.columns = append(p.columns, qualified)
	return p
}

// Table returns the FROM target, e.g. "public.assets a".
func (p *ProjectionMap) Table() string {
	return p.from
}

// Column returns the qualified column for field and whether it is mapped.
func (p *ProjectionMap) Column(field string) (string, bool) {
	col, ok := p.byField[field]
	return col, ok
}

// Columns returns the select list in projection order.
func (p *ProjectionMap) Columns() string {
	return strings.Join(p.columns, ", ")
}

func (p *ProjectionMap) mustColumn(field string) string {
	col, ok := p.Column(field)
	if !ok {
		panic(fmt.Sprintf("query: field %q is not projected", field))
	}
	return col
}

func mustIdent(name string) string {
	if !identifier.MatchString(name) {
		panic(fmt.Sprintf("query: invalid identifier %q", name))
	}
	return name
}
