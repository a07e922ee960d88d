// internal/history/db.go
package history

import (
	"fmt"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	sqlite3 "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Config wybiera bazę historii. Domyślnie plik sqlite w katalogu aplikacji.
type Config struct {
	Enabled bool   `json:"enabled"`
	Driver  string `json:"driver"` // sqlite (czyste Go) | sqlite3 (cgo) | mysql | postgres
	DSN     string `json:"dsn"`    // dla sqlite: ścieżka pliku; pusty = <appDir>/ean13gen.db
	Verbose bool   `json:"verbose"`
}

type Handle struct {
	DB   *gorm.DB
	Path string // DSN albo ścieżka pliku
}

func OpenAt(dir string, cfg Config) (*Handle, error) {
	dsn := cfg.DSN
	driver := cfg.Driver
	if driver == "" {
		driver = "sqlite"
	}

	var dial gorm.Dialector
	switch driver {
	case "sqlite", "sqlite3":
		if dsn == "" {
			dsn = filepath.Join(dir, "ean13gen.db")
		}
		if driver == "sqlite" {
			dial = sqlite.Open(dsn)
		} else {
			dial = sqlite3.Open(dsn)
		}
	case "mysql":
		dial = mysql.Open(dsn)
	case "postgres":
		dial = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("nieznany sterownik bazy %q", driver)
	}

	gcfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	if cfg.Verbose {
		gcfg.Logger = logger.Default.LogMode(logger.Info)
	}
	gdb, err := gorm.Open(dial, gcfg)
	if err != nil {
		return nil, err
	}
	return &Handle{DB: gdb, Path: dsn}, nil
}

func (h *Handle) Close() error {
	sqlDB, err := h.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
