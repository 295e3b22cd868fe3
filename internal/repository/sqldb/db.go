package sqldb

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-sql-driver/mysql"
	"github.com/mattn/go-sqlite3"
)

const (
	DriverSQLite = "sqlite3"
	DriverMySQL  = "mysql"
)

// DB wraps the SQL connection with thread-safe access.
type DB struct {
	conn   *sql.DB
	driver string
	mu     sync.RWMutex
}

// New opens a database for the given driver and applies the schema.
// For sqlite3 dsn is a file path, for mysql a go-sql-driver DSN.
func New(driver, dsn string) (*DB, error) {
	var (
		conn *sql.DB
		err  error
	)

	switch driver {
	case DriverSQLite:
		if dir := filepath.Dir(dsn); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		conn, err = sql.Open(DriverSQLite, dsn+"?_journal_mode=WAL&_busy_timeout=5000")
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		conn.SetMaxOpenConns(1)
		conn.SetMaxIdleConns(1)
		conn.SetConnMaxLifetime(0)
	case DriverMySQL:
		conn, err = sql.Open(DriverMySQL, dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		conn.SetMaxOpenConns(10)
		conn.SetMaxIdleConns(5)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db := &DB{conn: conn, driver: driver}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

// migrate creates the necessary tables if they don't exist.
func (db *DB) migrate() error {
	schema := sqliteSchema
	if db.driver == DriverMySQL {
		schema = mysqlSchema
	}

	for _, stmt := range schema {
		if _, err := db.conn.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS videos (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		video_name TEXT NOT NULL,
		video_url TEXT,
		status INTEGER DEFAULT 1,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		video_id INTEGER NOT NULL,
		frame_id TEXT,
		category INTEGER,
		ship_id TEXT,
		bbox TEXT,
		ship_bbox TEXT,
		region_url TEXT,
		timestamp TEXT,
		confidence REAL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS ship_profiles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		category_id INTEGER NOT NULL,
		category_name TEXT,
		ship_id TEXT UNIQUE,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_results_video_id ON results(video_id)`,
	`CREATE INDEX IF NOT EXISTS idx_results_ship_id ON results(ship_id)`,
	`CREATE INDEX IF NOT EXISTS idx_results_category ON results(category)`,
	`CREATE INDEX IF NOT EXISTS idx_results_created_at ON results(created_at)`,
}

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS videos (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		video_name VARCHAR(255) NOT NULL,
		video_url VARCHAR(255),
		status TINYINT DEFAULT 1,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	) CHARACTER SET utf8mb4 COLLATE utf8mb4_general_ci`,
	`CREATE TABLE IF NOT EXISTS results (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		video_id BIGINT NOT NULL,
		frame_id VARCHAR(20),
		category TINYINT,
		ship_id VARCHAR(100),
		bbox VARCHAR(100),
		ship_bbox VARCHAR(100),
		region_url VARCHAR(255),
		timestamp VARCHAR(50),
		confidence FLOAT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		INDEX idx_results_video_id (video_id),
		INDEX idx_results_ship_id (ship_id),
		INDEX idx_results_category (category),
		INDEX idx_results_created_at (created_at)
	) CHARACTER SET utf8mb4 COLLATE utf8mb4_general_ci`,
	`CREATE TABLE IF NOT EXISTS ship_profiles (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		category_id TINYINT NOT NULL,
		category_name VARCHAR(100),
		ship_id VARCHAR(100) UNIQUE,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	) CHARACTER SET utf8mb4 COLLATE utf8mb4_general_ci`,
}

// isDuplicate reports whether err is a unique constraint violation.
func isDuplicate(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}
	return false
}

// Driver returns the name of the SQL driver in use.
func (db *DB) Driver() string {
	return db.driver
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Conn returns the underlying database connection for use by repositories.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Lock acquires a write lock.
func (db *DB) Lock() {
	db.mu.Lock()
}

// Unlock releases the write lock.
func (db *DB) Unlock() {
	db.mu.Unlock()
}

// RLock acquires a read lock.
func (db *DB) RLock() {
	db.mu.RLock()
}

// RUnlock releases the read lock.
func (db *DB) RUnlock() {
	db.mu.RUnlock()
}
