package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type Persistence struct {
	FilePath     string        `yaml:"filePath" validate:"required|unixPath"`
	SaveInterval time.Duration `yaml:"saveInterval" validate:"required|min:1"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type MonitorConfig struct {
	Interval              time.Duration `yaml:"interval" validate:"required|min:1"`
	Pacing                time.Duration `yaml:"pacing"`
	ConfirmationThreshold int           `yaml:"confirmationThreshold" validate:"required|min:1"`
	MaxUsernamesPerUser   int           `yaml:"maxUsernamesPerUser"`
	FetchMode             string        `yaml:"fetchMode" validate:"required|in:heuristic,http"`
	FetchTimeout          time.Duration `yaml:"fetchTimeout" validate:"required|min:1"`
	FetchBaseURL          string        `yaml:"fetchBaseUrl"`
	FetchRetries          int           `yaml:"fetchRetries"`
}

type TelegramConfig struct {
	Token    string  `yaml:"token" validate:"required"`
	OwnerID  int64   `yaml:"ownerId"`
	AdminIDs []int64 `yaml:"adminIds"`
}

type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	Size    int  `yaml:"size"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName     string
	Debug       bool
	Path        string
	Monitor     MonitorConfig  `yaml:"monitor"`
	Telegram    TelegramConfig `yaml:"telegram"`
	WebServer   Server         `yaml:"webServer"`
	Persistence Persistence    `yaml:"persistence"`
	Logger      LoggerConfig   `yaml:"logger"`
	Cache       CacheConfig    `yaml:"cache"`
	Metrics     MetricsConfig  `yaml:"metrics"`
}
