package config

import "time"

// Config основной конфиг
type Config struct {
	Environment string `validate:"required,oneof=development test production"`
	HTTPPort    string `validate:"required,numeric"`
	Database    DatabaseConfig
	Notifier    NotifierConfig
	Duplication DuplicationConfig
}

// NotifierConfig - telegram chats warned when a duplication job ends
type NotifierConfig struct {
	Token    string
	Debug    bool
	AdminIDs []int64
}

type DuplicationConfig struct {
	ModelWeekStart time.Time
	JobRetention   time.Duration `validate:"min=0"`
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
