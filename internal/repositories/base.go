package repositories

import (
	"database/sql"

	intconfig "planillabus/internal/config"
)

func pick(db *sql.DB) *sql.DB {
	if db != nil {
		return db
	}
	return intconfig.DB
}
