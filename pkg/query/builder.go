package query

import (
	"reflect"
	"strconv"
	"strings"
)

// predicate is one WHERE term: column, operator and a single bound argument.
type predicate struct {
	column string
	op     string
	arg    any
	suffix string
}

// SortField is one ORDER BY term. Field is a logical name from the
// ProjectionMap; NullsLast sorts NULLs after every value in either direction.
type SortField struct {
	Field      string
	Descending bool
	NullsLast  bool
}

// Builder assembles a SELECT over a ProjectionMap. Conditions are ANDed in
// the order they were added and numbered $1, $2, ... in that order. Unknown
// field names panic.
type Builder struct {
	projection  *ProjectionMap
	predicates  []predicate
	order       []SortField
	defaultSort []SortField
}

// NewBuilder creates a Builder that orders by defaultSort unless
// OrderByFields is called.
func NewBuilder(projection *ProjectionMap, defaultSort ...SortField) *Builder {
	return &Builder{projection: projection, defaultSort: defaultSort}
}

// Build returns the SELECT statement and its arguments.
func (b *Builder) Build() (string, []any) {
	var sb strings.Builder
	b.writeSelect(&sb)

	args := make([]any, 0, len(b.predicates))
	for i, p := range b.predicates {
		if i == 0 {
			sb.WriteString(" WHERE ")
		} else {
			sb.WriteString(" AND ")
		}
		args = append(args, p.arg)
		sb.WriteString(p.column)
		sb.WriteByte(' ')
		sb.WriteString(p.op)
		sb.WriteString(" $")
		sb.WriteString(strconv.Itoa(len(args)))
		sb.WriteString(p.suffix)
	}

	b.writeOrderBy(&sb)
	return sb.String(), args
}

// BuildSingle returns a SELECT for the row whose idField equals id. Other
// conditions and ordering are ignored.
func (b *Builder) BuildSingle(idField string, id any) (string, []any) {
	var sb strings.Builder
	b.writeSelect(&sb)
	sb.WriteString(" WHERE ")
	sb.WriteString(b.projection.mustColumn(idField))
	sb.WriteString(" = $1")
	return sb.String(), []any{id}
}

// OrderByFields replaces the default sort.
func (b *Builder) OrderByFields(fields []SortField) *Builder {
	b.order = fields
	return b
}

// WhereEquals adds field = value. Nil values add nothing.
func (b *Builder) WhereEquals(field string, value any) *Builder {
	return b.where(field, "=", value, "")
}

// WhereGreaterOrEqual adds field >= value. Nil values add nothing.
func (b *Builder) WhereGreaterOrEqual(field string, value any) *Builder {
	return b.where(field, ">=", value, "")
}

// WhereLessOrEqual adds field <= value. Nil values add nothing.
func (b *Builder) WhereLessOrEqual(field string, value any) *Builder {
	return b.where(field, "<=", value, "")
}

// WhereLike adds a case-sensitive LIKE with backslash as the escape
// character. The pattern is bound unchanged, so callers own wildcard
// translation. Nil and empty patterns add nothing.
func (b *Builder) WhereLike(field string, pattern *string) *Builder {
	if pattern == nil || *pattern == "" {
		return b
	}
	return b.where(field, "LIKE", *pattern, ` ESCAPE '\'`)
}

func (b *Builder) where(field, op string, value any, suffix string) *Builder {
	if isNil(value) {
		return b
	}
	b.predicates = append(b.predicates, predicate{
		column: b.projection.mustColumn(field),
		op:     op,
		arg:    value,
		suffix: suffix,
	})
	return b
}

func (b *Builder) writeSelect(sb *strings.Builder) {
	sb.WriteString("SELECT ")
	sb.WriteString(b.projection.Columns())
	sb.WriteString(" FROM ")
	sb.WriteString(b.projection.Table())
}

func (b *Builder) writeOrderBy(sb *strings.Builder) {
	fields := b.order
	if len(fields) == 0 {
		fields = b.defaultSort
	}

	for i, f := range fields {
		if i == 0 {
			sb.WriteString(" ORDER BY ")
		} else {
			sb.WriteString(", ")
		}
		sb.WriteString(b.projection.mustColumn(f.Field))
		if f.Descending {
			sb.WriteString(" DESC")
		} else {
			sb.WriteString(" ASC")
		}
		if f.NullsLast {
			sb.WriteString(" NULLS LAST")
		}
	}
}

// isNil reports whether value is nil or a nil pointer, map, slice, channel,
// function or interface.
func isNil(value any) bool {
	if value == nil {
		return true
	}

	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return v.IsNil()
	}
	return false
}
