package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"foldermail/internal/database/migration"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	// 导入SQLite驱动
	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

// Options 数据库选项
type Options struct {
	Path   string
	PureGo bool // 使用纯Go SQLite驱动
	Debug  bool // 输出全部SQL
}

// Initialize 初始化数据库连接
func Initialize(dbPath string) (*gorm.DB, error) {
	return InitializeWithOptions(Options{Path: dbPath})
}

// InitializeWithOptions 执行迁移后打开GORM连接
func InitializeWithOptions(opts Options) (*gorm.DB, error) {
	if opts.Path == "" {
		return nil, fmt.Errorf("database path cannot be empty")
	}

	if err := os.MkdirAll(filepath.Dir(opts.Path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	if err := runMigrations(opts); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	logLevel := logger.Warn
	if opts.Debug {
		logLevel = logger.Info
	}
	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: 200 * time.Millisecond,
			LogLevel:      logLevel,
			Colorful:      true,
		},
	)

	db, err := gorm.Open(dialector(opts), &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	optimizeConnectionPool(sqlDB)
	applySQLiteOptimizations(db)

	log.Println("[INFO] Database initialized successfully")
	return db, nil
}

func dialector(opts Options) gorm.Dialector {
	if opts.PureGo {
		return sqlite.Dialector{DriverName: "sqlite", DSN: opts.Path}
	}
	return sqlite.Open(opts.Path)
}

// runMigrations 使用单独的连接执行版本化迁移
func runMigrations(opts Options) error {
	driverName := "sqlite3"
	if opts.PureGo {
		driverName = "sqlite"
	}

	migrationDB, err := sql.Open(driverName, opts.Path)
	if err != nil {
		return fmt.Errorf("failed to open migration database connection: %w", err)
	}
	defer migrationDB.Close()

	migrationService := migration.NewMigrationService(nil)
	if err := migrationService.Initialize(migrationDB, migration.MigrationConfig{
		DatabaseName: "sqlite3",
		TableName:    "schema_migrations",
	}); err != nil {
		return fmt.Errorf("failed to initialize migration service: %w", err)
	}
	defer migrationService.Close()

	return migrationService.RunMigrations(context.Background())
}

// optimizeConnectionPool 连接池配置
// SQLite写入是串行的，少量连接即可
func optimizeConnectionPool(sqlDB *sql.DB) {
	sqlDB.SetMaxOpenConns(5)
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(15 * time.Minute)
}

// applySQLiteOptimizations 应用SQLite性能优化，失败不阻止启动
func applySQLiteOptimizations(db *gorm.DB) {
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA temp_store = MEMORY",
	}

	for _, pragma := range pragmas {
		if err := db.Exec(pragma).Error; err != nil {
			log.Printf("[WARN] Failed to execute %s: %v", pragma, err)
		}
	}
}

// Close 关闭数据库连接
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
