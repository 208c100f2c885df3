package db

import (
	"fmt"

	"github.com/kasuganosora/railsim/config"
	dbmysql "github.com/kasuganosora/railsim/db/mysql"
	dbsqlite "github.com/kasuganosora/railsim/db/sqlite"
	"gorm.io/gorm"
)

const (
	ModeNone   = "none"
	ModeMemory = "memory"
	ModeSQLite = "sqlite"
	ModeMySQL  = "mysql"
)

// Open returns a *gorm.DB for the configured report mode. ModeNone is not
// accepted here; callers skip the report store instead.
func Open(cfg config.ReportConfig) (*gorm.DB, error) {
	switch cfg.Mode {
	case ModeMemory:
		return dbsqlite.OpenMemory()
	case ModeSQLite:
		return dbsqlite.Open(cfg.SQLitePath)
	case ModeMySQL:
		return dbmysql.Open(cfg.MySQLDSN, cfg.MySQLMaxOpen, cfg.MySQLMaxIdle, cfg.MySQLMaxLife)
	default:
		return nil, fmt.Errorf("db: unknown mode %q", cfg.Mode)
	}
}
