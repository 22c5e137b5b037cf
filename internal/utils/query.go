package utils

import (
	"gorm.io/gorm"
	"strings"
)

// WhereContains adds a case-insensitive substring match on column. Postgres
// gets ILIKE; other dialects fall back to LOWER(...) LIKE.
func WhereContains(db *gorm.DB, column, term string) *gorm.DB {
	pattern := "%" + strings.TrimSpace(term) + "%"
	if db.Dialector.Name() == "postgres" {
		return db.Where(column+" ILIKE ?", pattern)
	}
	return db.Where("LOWER("+column+") LIKE LOWER(?)", pattern)
}
