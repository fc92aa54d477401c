package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v2"
)

// Config 应用配置结构
type Config struct {
	Server   ServerConfig   `json:"server" yaml:"server"`
	Database DatabaseConfig `json:"database" yaml:"database"`
	Remote   RemoteConfig   `json:"remote" yaml:"remote"`
	Folders  FoldersConfig  `json:"folders" yaml:"folders"`
	CORS     CORSConfig     `json:"cors" yaml:"cors"`
	Logging  LoggingConfig  `json:"logging" yaml:"logging"`
	SSE      SSEConfig      `json:"sse" yaml:"sse"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host string `json:"host" yaml:"host"`
	Port string `json:"port" yaml:"port"`
	Env  string `json:"env" yaml:"env"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Path   string `json:"path" yaml:"path"`
	PureGo bool   `json:"pure_go" yaml:"pure_go"` // 使用 modernc.org/sqlite，不需要 CGO
}

// 远端模式
const (
	RemoteModeJSON = "json"
	RemoteModeIMAP = "imap"
)

// RemoteConfig 远端邮件存储配置
type RemoteConfig struct {
	Mode    string        `json:"mode" yaml:"mode"`
	Account string        `json:"account" yaml:"account"`
	BaseURL string        `json:"base_url" yaml:"base_url"`
	Token   string        `json:"-" yaml:"token"`
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
	IMAP    IMAPConfig    `json:"imap" yaml:"imap"`
}

// IMAPConfig IMAP服务器配置
type IMAPConfig struct {
	Host     string `json:"host" yaml:"host"`
	Port     int    `json:"port" yaml:"port"`
	Security string `json:"security" yaml:"security"` // SSL, STARTTLS, NONE
	Username string `json:"username" yaml:"username"`
	Password string `json:"-" yaml:"password"`
}

// FoldersConfig 文件夹设置页配置
type FoldersConfig struct {
	ConfirmTimeout      time.Duration `json:"confirm_timeout" yaml:"confirm_timeout"`
	LiftDelay           time.Duration `json:"lift_delay" yaml:"lift_delay"`
	DiscardStaleDeletes bool          `json:"discard_stale_deletes" yaml:"discard_stale_deletes"`
	Locale              string        `json:"locale" yaml:"locale"`
}

// CORSConfig CORS配置
type CORSConfig struct {
	Origins []string `json:"origins" yaml:"origins"`
}

// LoggingConfig 日志配置
type LoggingConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"`
}

// SSEConfig SSE配置
type SSEConfig struct {
	MaxConnections    int           `json:"max_connections" yaml:"max_connections"`
	ConnectionTimeout time.Duration `json:"connection_timeout" yaml:"connection_timeout"`
	HeartbeatInterval time.Duration `json:"heartbeat_interval" yaml:"heartbeat_interval"`
	CleanupInterval   time.Duration `json:"cleanup_interval" yaml:"cleanup_interval"`
	EnableHeartbeat   bool          `json:"enable_heartbeat" yaml:"enable_heartbeat"`
}

// Load 加载配置
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host: getEnv("HOST", "localhost"),
			Port: getEnv("PORT", "8080"),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			Path:   getEnv("DB_PATH", "./foldermail.db"),
			PureGo: parseBool(getEnv("DB_PURE_GO", "false")),
		},
		Remote: RemoteConfig{
			Mode:    strings.ToLower(getEnv("REMOTE_MODE", RemoteModeJSON)),
			Account: getEnv("REMOTE_ACCOUNT", ""),
			BaseURL: getEnv("REMOTE_BASE_URL", "http://localhost:8888"),
			Token:   getEnv("REMOTE_TOKEN", ""),
			Timeout: parseDuration(getEnv("REMOTE_TIMEOUT", "30s"), 30*time.Second),
			IMAP: IMAPConfig{
				Host:     getEnv("IMAP_HOST", "localhost"),
				Port:     parseInt(getEnv("IMAP_PORT", "993"), 993),
				Security: strings.ToUpper(getEnv("IMAP_SECURITY", "SSL")),
				Username: getEnv("IMAP_USERNAME", ""),
				Password: getEnv("IMAP_PASSWORD", ""),
			},
		},
		Folders: FoldersConfig{
			ConfirmTimeout:      parseDuration(getEnv("FOLDERS_CONFIRM_TIMEOUT", "3s"), 3*time.Second),
			LiftDelay:           parseDuration(getEnv("FOLDERS_LIFT_DELAY", "100ms"), 100*time.Millisecond),
			DiscardStaleDeletes: parseBool(getEnv("FOLDERS_DISCARD_STALE_DELETES", "false")),
			Locale:              getEnv("LOCALE", "en"),
		},
		CORS: CORSConfig{
			Origins: parseStringSlice(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:8080")),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
		SSE: SSEConfig{
			MaxConnections:    parseInt(getEnv("SSE_MAX_CONNECTIONS", "50"), 50),
			ConnectionTimeout: parseDuration(getEnv("SSE_CONNECTION_TIMEOUT", "30m"), 30*time.Minute),
			HeartbeatInterval: parseDuration(getEnv("SSE_HEARTBEAT_INTERVAL", "30s"), 30*time.Second),
			CleanupInterval:   parseDuration(getEnv("SSE_CLEANUP_INTERVAL", "5m"), 5*time.Minute),
			EnableHeartbeat:   parseBool(getEnv("SSE_ENABLE_HEARTBEAT", "true")),
		},
	}
}

// LoadFile 用YAML文件覆盖已有配置，文件中没有的字段保持不变
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	c.Remote.Mode = strings.ToLower(c.Remote.Mode)
	c.Remote.IMAP.Security = strings.ToUpper(c.Remote.IMAP.Security)
	return c.Validate()
}

// Validate 检查配置
func (c *Config) Validate() error {
	switch c.Remote.Mode {
	case RemoteModeJSON:
		if c.Remote.BaseURL == "" {
			return fmt.Errorf("remote base_url is required in json mode")
		}
	case RemoteModeIMAP:
		if c.Remote.IMAP.Host == "" {
			return fmt.Errorf("imap host is required in imap mode")
		}
		if c.Remote.IMAP.Port <= 0 || c.Remote.IMAP.Port > 65535 {
			return fmt.Errorf("invalid imap port: %d", c.Remote.IMAP.Port)
		}
		switch c.Remote.IMAP.Security {
		case "SSL", "TLS", "STARTTLS", "NONE":
		default:
			return fmt.Errorf("invalid imap security: %s", c.Remote.IMAP.Security)
		}
	default:
		return fmt.Errorf("invalid remote mode: %s", c.Remote.Mode)
	}
	if c.Folders.ConfirmTimeout < 0 {
		return fmt.Errorf("confirm_timeout must not be negative")
	}
	return nil
}

// AccountName 事件和偏好使用的账户名
func (c *Config) AccountName() string {
	if c.Remote.Account != "" {
		return c.Remote.Account
	}
	if c.Remote.Mode == RemoteModeIMAP {
		return c.Remote.IMAP.Username
	}
	return "default"
}

// IsProduction 是否为生产环境
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// IsDebug 是否输出调试日志
func (c *Config) IsDebug() bool {
	return strings.EqualFold(c.Logging.Level, "debug")
}

// getEnv 获取环境变量，如果不存在则返回默认值
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseDuration 解析时间间隔
func parseDuration(s string, defaultValue time.Duration) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		return defaultValue
	}
	return duration
}

// parseStringSlice 解析字符串切片
func parseStringSlice(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// parseBool 解析布尔值
func parseBool(s string) bool {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false
	}
	return b
}

// parseInt 解析整数
func parseInt(s string, defaultValue int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return defaultValue
	}
	return i
}
