package migration

import (
	"context"
	"database/sql"
)

// IMigrator 数据库迁移接口
type IMigrator interface {
	// Up 执行向上迁移
	Up(ctx context.Context) error

	// Down 执行向下迁移
	Down(ctx context.Context) error

	// Steps 执行指定步数的迁移
	Steps(ctx context.Context, n int) error

	// Force 强制设置迁移版本
	Force(ctx context.Context, version int) error

	// Version 获取当前迁移版本，未迁移过时返回 0
	Version(ctx context.Context) (version int, dirty bool, err error)

	// Close 关闭迁移器
	Close() error
}

// MigrationConfig 迁移配置
type MigrationConfig struct {
	MigrationsPath string // 为空时使用内置迁移
	DatabaseName   string
	TableName      string // 迁移版本表名，默认为 schema_migrations
}

// MigrationInfo 迁移信息
type MigrationInfo struct {
	Version int  `json:"version"`
	Dirty   bool `json:"dirty"`
}

// IMigrationService 迁移服务接口
type IMigrationService interface {
	Initialize(db *sql.DB, config MigrationConfig) error
	RunMigrations(ctx context.Context) error
	GetMigrationInfo(ctx context.Context) (*MigrationInfo, error)
	Rollback(ctx context.Context, steps int) error
	Close() error
}
