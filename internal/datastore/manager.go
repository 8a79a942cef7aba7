// Package datastore opens the catalog cache database and migrates its schema.
package datastore

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tphakala/pokedex-go/internal/conf"
	"github.com/tphakala/pokedex-go/internal/datastore/entities"
	"github.com/tphakala/pokedex-go/internal/datastore/repository"
	"github.com/tphakala/pokedex-go/internal/errors"
	"github.com/tphakala/pokedex-go/internal/logger"
)

const (
	slowQueryThreshold = 200 * time.Millisecond
	mysqlDialTimeout   = "10s"
)

// Manager owns a database connection.
type Manager interface {
	// Initialize migrates the schema.
	Initialize() error
	// DB returns the underlying GORM database.
	DB() *gorm.DB
	// Path returns the database location for display.
	Path() string
	Close() error
	IsMySQL() bool
}

// Open creates the manager selected by settings.Type and initializes the schema.
func Open(settings *conf.DatabaseSettings, log logger.Logger) (Manager, error) {
	if log == nil {
		log = logger.Global().Module("datastore")
	}

	var (
		m   Manager
		err error
	)
	switch settings.Type {
	case "", "sqlite":
		m, err = NewSQLiteManager(settings.SQLite.Path, log)
	case "mysql":
		m, err = NewMySQLManager(&settings.MySQL, log)
	default:
		return nil, errors.Newf("unsupported database type %q", settings.Type).
			Component("datastore").
			Category(errors.CategoryConfiguration).
			Build()
	}
	if err != nil {
		return nil, err
	}

	if err := m.Initialize(); err != nil {
		_ = m.Close()
		return nil, err
	}

	log.Info("database ready",
		logger.String("path", m.Path()),
		logger.Bool("mysql", m.IsMySQL()))
	return m, nil
}

// NewStore returns the repository bundle for m.
func NewStore(m Manager) *repository.Store {
	return repository.NewStore(m.DB())
}

func gormConfig(log logger.Logger) *gorm.Config {
	return &gorm.Config{
		Logger:         logger.NewGormLoggerAdapter(log, slowQueryThreshold),
		TranslateError: true,
	}
}

func migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(entities.All()...); err != nil {
		return errors.Newf("failed to migrate schema: %w", err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Build()
	}
	return nil
}

func closeDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying database: %w", err)
	}
	return sqlDB.Close()
}

// SQLiteManager handles a file-backed SQLite cache.
type SQLiteManager struct {
	db     *gorm.DB
	dbPath string
}

// NewSQLiteManager opens (creating if needed) the SQLite database at dbPath.
func NewSQLiteManager(dbPath string, log logger.Logger) (*SQLiteManager, error) {
	if dbPath == "" {
		return nil, errors.Newf("sqlite path is empty").
			Component("datastore").
			Category(errors.CategoryConfiguration).
			Build()
	}
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=ON", dbPath)
	db, err := gorm.Open(sqlite.Open(dsn), gormConfig(log))
	if err != nil {
		return nil, errors.Newf("failed to open sqlite database: %w", err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("path", dbPath).
			Build()
	}

	// A single writer avoids SQLITE_BUSY under concurrent batch upserts.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying database: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	return &SQLiteManager{db: db, dbPath: dbPath}, nil
}

func (m *SQLiteManager) Initialize() error { return migrate(m.db) }
func (m *SQLiteManager) DB() *gorm.DB      { return m.db }
func (m *SQLiteManager) Path() string      { return m.dbPath }
func (m *SQLiteManager) Close() error      { return closeDB(m.db) }
func (m *SQLiteManager) IsMySQL() bool     { return false }

// MySQLManager handles a MySQL-backed cache.
type MySQLManager struct {
	db       *gorm.DB
	location string
}

// MySQLDSN builds a DSN with proper credential escaping.
func MySQLDSN(cfg *conf.MySQLSettings) string {
	port := cfg.Port
	if port == 0 {
		port = 3306
	}
	mc := mysql.Config{
		User:                 cfg.Username,
		Passwd:               cfg.Password,
		Net:                  "tcp",
		Addr:                 net.JoinHostPort(cfg.Host, strconv.Itoa(port)),
		DBName:               cfg.Database,
		AllowNativePasswords: true,
		ParseTime:            true,
		Loc:                  time.UTC,
		Params: map[string]string{
			"charset": "utf8mb4",
			"timeout": mysqlDialTimeout,
		},
	}
	return mc.FormatDSN()
}

// NewMySQLManager connects to MySQL using cfg.
func NewMySQLManager(cfg *conf.MySQLSettings, log logger.Logger) (*MySQLManager, error) {
	db, err := gorm.Open(gormmysql.Open(MySQLDSN(cfg)), gormConfig(log))
	if err != nil {
		return nil, errors.Newf("failed to open mysql database: %w", err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("host", cfg.Host).
			Build()
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying database: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return &MySQLManager{
		db:       db,
		location: fmt.Sprintf("%s:%d/%s", cfg.Host, cfg.Port, cfg.Database),
	}, nil
}

func (m *MySQLManager) Initialize() error { return migrate(m.db) }
func (m *MySQLManager) DB() *gorm.DB      { return m.db }
func (m *MySQLManager) Path() string      { return m.location }
func (m *MySQLManager) Close() error      { return closeDB(m.db) }
func (m *MySQLManager) IsMySQL() bool     { return true }
