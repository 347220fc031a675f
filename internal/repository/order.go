package repository

import (
	"gorm.io/gorm/clause"
)

// matchFirst orders rows whose column equals value ahead of the rest, then
// by id. Pair it with Take: First appends its own ORDER BY, which replaces
// an expression ordering.
func matchFirst(column string, value interface{}) clause.OrderBy {
	return clause.OrderBy{Expression: clause.Expr{
		SQL:  "CASE WHEN ? = ? THEN 0 ELSE 1 END, id",
		Vars: []interface{}{clause.Column{Name: column}, value},
	}}
}
