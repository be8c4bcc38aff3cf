package config

import (
	"fmt"
	"os"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr         string
	Port               string
	DatabasePath       string
	SessionSecret      string
	GinMode            string
	UploadDir          string
	UploadURLPath      string
	SuperRootUserName  string
	SuperRootPassword  string
	SiteBaseURL        string
	LogLevel           string
	LogFormat          string
	CORSAllowedOrigins []string
	ResendAPIKey       string
	LeadNotifyFrom     string
	LeadNotifyTo       string
}

// Load 从环境变量读取应用配置，并为缺失项提供安全的默认值。
func Load() AppConfig {
	port := envOr("PORT", "8080")

	return AppConfig{
		ListenAddr:         envOr("LISTEN_ADDR", fmt.Sprintf(":%s", port)),
		Port:               port,
		DatabasePath:       envOr("DATABASE_PATH", "tidewater.db"),
		SessionSecret:      envOr("SESSION_SECRET", "tidewater-dev-secret"),
		GinMode:            envOr("GIN_MODE", "release"),
		UploadDir:          envOr("UPLOAD_DIR", "web/static/uploads"),
		UploadURLPath:      envOr("UPLOAD_URL_PATH", "/static/uploads"),
		SuperRootUserName:  strings.TrimSpace(os.Getenv("SUPER_ROOT_USER_NAME")),
		SuperRootPassword:  strings.TrimSpace(os.Getenv("SUPER_ROOT_PASSWORD")),
		SiteBaseURL:        envOr("SITE_BASE_URL", "https://www.tidewater.travel"),
		LogLevel:           envOr("LOG_LEVEL", "info"),
		LogFormat:          envOr("LOG_FORMAT", "json"),
		CORSAllowedOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		ResendAPIKey:       strings.TrimSpace(os.Getenv("RESEND_API_KEY")),
		LeadNotifyFrom:     envOr("LEAD_NOTIFY_FROM", "bookings@tidewater.travel"),
		LeadNotifyTo:       strings.TrimSpace(os.Getenv("LEAD_NOTIFY_TO")),
	}
}

// Validate 校验配置的完整性，启用邮件通知时要求收发件地址合法。
func (c *AppConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.ListenAddr, validation.Required),
		validation.Field(&c.DatabasePath, validation.Required),
		validation.Field(&c.SessionSecret, validation.Required, validation.Length(8, 0)),
		validation.Field(&c.GinMode, validation.In("debug", "release", "test")),
		validation.Field(&c.LogFormat, validation.In("json", "console")),
	); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if c.NotificationsEnabled() {
		if err := validation.ValidateStruct(c,
			validation.Field(&c.LeadNotifyFrom, validation.Required, is.EmailFormat),
			validation.Field(&c.LeadNotifyTo, validation.Required, is.EmailFormat),
		); err != nil {
			return fmt.Errorf("invalid lead notification config: %w", err)
		}
	}
	return nil
}

// NotificationsEnabled 在配置了 Resend API Key 时返回 true。
func (c *AppConfig) NotificationsEnabled() bool {
	return c.ResendAPIKey != ""
}

func envOr(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func splitList(raw string) []string {
	var items []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
