package migration

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// MigrationService 迁移服务实现
type MigrationService struct {
	migrator IMigrator
	config   MigrationConfig
	logger   *log.Logger
}

// NewMigrationService 创建新的迁移服务
func NewMigrationService(logger *log.Logger) *MigrationService {
	if logger == nil {
		logger = log.New(os.Stdout, "[MIGRATION] ", log.LstdFlags)
	}

	return &MigrationService{
		logger: logger,
	}
}

// Initialize 初始化迁移服务
func (s *MigrationService) Initialize(db *sql.DB, config MigrationConfig) error {
	if config.TableName == "" {
		config.TableName = "schema_migrations"
	}
	if config.DatabaseName == "" {
		config.DatabaseName = "sqlite3"
	}

	if config.MigrationsPath != "" {
		if err := s.ensureMigrationsDir(config.MigrationsPath); err != nil {
			return fmt.Errorf("failed to ensure migrations directory: %w", err)
		}
	}

	migrator, err := NewGolangMigrator(db, config)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	return s.initializeWith(migrator, config)
}

func (s *MigrationService) initializeWith(migrator IMigrator, config MigrationConfig) error {
	s.migrator = migrator
	s.config = config

	source := config.MigrationsPath
	if source == "" {
		source = "embedded"
	}
	s.logger.Printf("Migration service initialized with source: %s", source)
	return nil
}

// RunMigrations 运行迁移
func (s *MigrationService) RunMigrations(ctx context.Context) error {
	if s.migrator == nil {
		return fmt.Errorf("migration service not initialized")
	}

	version, dirty, err := s.migrator.Version(ctx)
	if err != nil {
		return err
	}
	s.logger.Printf("Current migration version: %d (dirty: %v)", version, dirty)

	if dirty {
		// 上次迁移中途失败，回到前一个版本重新执行
		s.logger.Printf("Database is in dirty state at version %d, forcing version %d", version, version-1)
		if err := s.migrator.Force(ctx, version-1); err != nil {
			return fmt.Errorf("failed to recover from dirty state at version %d: %w", version, err)
		}
	}

	if err := s.migrator.Up(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if finalVersion, _, err := s.migrator.Version(ctx); err == nil {
		s.logger.Printf("Migrations completed successfully, current version: %d", finalVersion)
	}
	return nil
}

// GetMigrationInfo 获取迁移信息
func (s *MigrationService) GetMigrationInfo(ctx context.Context) (*MigrationInfo, error) {
	if s.migrator == nil {
		return nil, fmt.Errorf("migration service not initialized")
	}

	version, dirty, err := s.migrator.Version(ctx)
	if err != nil {
		return nil, err
	}
	return &MigrationInfo{Version: version, Dirty: dirty}, nil
}

// Rollback 回滚指定步数
func (s *MigrationService) Rollback(ctx context.Context, steps int) error {
	if s.migrator == nil {
		return fmt.Errorf("migration service not initialized")
	}
	if steps <= 0 {
		return fmt.Errorf("rollback steps must be positive")
	}

	s.logger.Printf("Rolling back %d migration steps...", steps)
	if err := s.migrator.Steps(ctx, -steps); err != nil {
		return fmt.Errorf("failed to rollback %d steps: %w", steps, err)
	}
	return nil
}

// Close 关闭服务
func (s *MigrationService) Close() error {
	if s.migrator != nil {
		return s.migrator.Close()
	}
	return nil
}

// ensureMigrationsDir 确保迁移目录存在
func (s *MigrationService) ensureMigrationsDir(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}
	if err := os.MkdirAll(absPath, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", absPath, err)
	}
	return nil
}
