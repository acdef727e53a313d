// Package querybuilder renders the small set of postgres statements used by
// the repositories with numbered placeholders.
package querybuilder

import (
	"errors"
	"strconv"
	"strings"
)

var (
	errNoTable   = errors.New("querybuilder: table is required")
	errNoColumns = errors.New("querybuilder: columns are required")
)

// params accumulates bound values and hands out $n placeholders in order.
type params struct {
	values []any
}

func (p *params) bind(v any) string {
	p.values = append(p.values, v)
	return "$" + strconv.Itoa(len(p.values))
}

// expand replaces each '?' in expr with the next bound placeholder.
// Extra '?' characters without a matching value are left untouched.
func (p *params) expand(expr string, values []any) string {
	if len(values) == 0 {
		return expr
	}
	var sb strings.Builder
	rest := values
	for _, r := range expr {
		if r == '?' && len(rest) > 0 {
			sb.WriteString(p.bind(rest[0]))
			rest = rest[1:]
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// Condition is one predicate of a WHERE clause; predicates are ANDed.
type Condition interface {
	render(p *params) string
}

type condFunc func(p *params) string

func (f condFunc) render(p *params) string { return f(p) }

// Eq renders "column = $n".
func Eq(column string, value any) Condition {
	return condFunc(func(p *params) string {
		return column + " = " + p.bind(value)
	})
}

// Expr renders raw SQL, binding '?' markers to args in order.
func Expr(expr string, args ...any) Condition {
	return condFunc(func(p *params) string {
		return p.expand(expr, args)
	})
}

func whereClause(conds []Condition, p *params) string {
	if len(conds) == 0 {
		return ""
	}
	parts := make([]string, len(conds))
	for i, c := range conds {
		parts[i] = c.render(p)
	}
	return " WHERE " + strings.Join(parts, " AND ")
}

type SelectBuilder struct {
	columns []string
	table   string
	where   []Condition
	orderBy []string
	limit   int
	lock    string
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: append([]string(nil), columns...)}
}

func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.table = table
	return b
}

func (b *SelectBuilder) Where(conds ...Condition) *SelectBuilder {
	b.where = append(b.where, conds...)
	return b
}

func (b *SelectBuilder) OrderBy(terms ...string) *SelectBuilder {
	b.orderBy = append(b.orderBy, terms...)
	return b
}

// Limit caps the row count; zero or negative means no LIMIT clause.
func (b *SelectBuilder) Limit(n int) *SelectBuilder {
	b.limit = n
	return b
}

// ForUpdate locks the selected rows, e.g. ForUpdate("NOWAIT").
func (b *SelectBuilder) ForUpdate(modifiers ...string) *SelectBuilder {
	b.lock = strings.Join(append([]string{"FOR UPDATE"}, modifiers...), " ")
	return b
}

func (b *SelectBuilder) ToSQL() (string, []any, error) {
	if len(b.columns) == 0 {
		return "", nil, errNoColumns
	}
	if strings.TrimSpace(b.table) == "" {
		return "", nil, errNoTable
	}

	p := &params{}
	sql := "SELECT " + strings.Join(b.columns, ", ") + " FROM " + b.table + whereClause(b.where, p)
	if len(b.orderBy) > 0 {
		sql += " ORDER BY " + strings.Join(b.orderBy, ", ")
	}
	if b.limit > 0 {
		sql += " LIMIT " + strconv.Itoa(b.limit)
	}
	if b.lock != "" {
		sql += " " + b.lock
	}
	return sql, p.values, nil
}

type assignment struct {
	column string
	value  any
}

type UpdateBuilder struct {
	table string
	sets  []assignment
	where []Condition
}

func Update(table string) *UpdateBuilder {
	return &UpdateBuilder{table: table}
}

func (b *UpdateBuilder) Set(column string, value any) *UpdateBuilder {
	b.sets = append(b.sets, assignment{column: column, value: value})
	return b
}

func (b *UpdateBuilder) Where(conds ...Condition) *UpdateBuilder {
	b.where = append(b.where, conds...)
	return b
}

func (b *UpdateBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, errNoTable
	}
	if len(b.sets) == 0 {
		return "", nil, errNoColumns
	}

	p := &params{}
	sets := make([]string, len(b.sets))
	for i, s := range b.sets {
		sets[i] = s.column + " = " + p.bind(s.value)
	}
	sql := "UPDATE " + b.table + " SET " + strings.Join(sets, ", ") + whereClause(b.where, p)
	return sql, p.values, nil
}
