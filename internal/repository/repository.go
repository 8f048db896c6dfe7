package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// forUpdate adds a whole-row exclusive lock to the query. sqlite (used by
// the tests) has no FOR UPDATE syntax and a single writer, so the clause is
// only applied on mysql.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
