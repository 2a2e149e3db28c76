package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// GroqConfig Groq LLM服务配置 (OpenAI兼容接口)
type GroqConfig struct {
	APIKey         string  `yaml:"api_key"`
	APIURL         string  `yaml:"api_url"`
	Model          string  `yaml:"model"`
	Temperature    float64 `yaml:"temperature"`
	TimeoutSeconds int     `yaml:"timeout_seconds"` // 单次评分调用的超时(秒)，0表示不限制
}

// ServerConfig HTTP服务器配置
type ServerConfig struct {
	Address string `yaml:"address"` // 例如 ":8000" 或 "0.0.0.0:8000"
	APIKey  string `yaml:"api_key"` // 为空时不启用API Key鉴权
}

// SessionConfig 会话存储配置
type SessionConfig struct {
	Backend    string `yaml:"backend"`     // "memory" 或 "redis"
	TTLMinutes int    `yaml:"ttl_minutes"` // 会话保留时长(分钟)，0使用默认值
}

// RedisConfig Redis连接配置
type RedisConfig struct {
	Address             string `yaml:"address"`
	Password            string `yaml:"password"`
	DB                  int    `yaml:"db"`
	PoolSize            int    `yaml:"pool_size"`
	MinIdleConns        int    `yaml:"min_idle_conns"`
	DialTimeoutSeconds  int    `yaml:"dial_timeout_seconds"`
	ReadTimeoutSeconds  int    `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `yaml:"write_timeout_seconds"`
}

// MySQLConfig MySQL配置，仅用于面试安排的持久化审计记录。
// Host为空时整个功能关闭。
type MySQLConfig struct {
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	Username     string `yaml:"username"`
	Password     string `yaml:"password"`
	Database     string `yaml:"database"`
	MaxIdleConns int    `yaml:"max_idle_conns"`
	MaxOpenConns int    `yaml:"max_open_conns"`
}

// CalendarConfig Google日历集成配置
type CalendarConfig struct {
	CredentialsFile string `yaml:"credentials_file"` // OAuth客户端密钥文件
	TokenFile       string `yaml:"token_file"`       // 已授权token的JSON文件
	CalendarID      string `yaml:"calendar_id"`      // 默认 "primary"
	TimeZone        string `yaml:"time_zone"`        // 事件时区
}

// SMTPConfig 邮件通知配置
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Sender   string `yaml:"sender"`
	Password string `yaml:"password"`
}

// MeetingConfig 会议链接生成配置
type MeetingConfig struct {
	BaseURL string `yaml:"base_url"`
}

// LoggerConfig 日志配置
type LoggerConfig struct {
	Level        string `yaml:"level"`
	Format       string `yaml:"format"`
	TimeFormat   string `yaml:"time_format"`
	ReportCaller bool   `yaml:"report_caller"`
}

// Config 应用程序配置
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Groq     GroqConfig     `yaml:"groq"`
	Session  SessionConfig  `yaml:"session"`
	Redis    RedisConfig    `yaml:"redis"`
	MySQL    MySQLConfig    `yaml:"mysql"`
	Calendar CalendarConfig `yaml:"calendar"`
	SMTP     SMTPConfig     `yaml:"smtp"`
	Meeting  MeetingConfig  `yaml:"meeting"`
	Logger   LoggerConfig   `yaml:"logger"`
}

// LoadConfig 从文件加载配置。configPath为空时在常见位置查找，
// 都找不到则退回默认配置。敏感项总是允许环境变量覆盖。
func LoadConfig(configPath string) (*Config, error) {
	// .env 仅作为开发便利，不存在时静默忽略
	_ = godotenv.Load()

	if configPath == "" {
		for _, path := range []string{"config.yaml", "./config.yaml", "internal/config/config.yaml"} {
			if _, err := os.Stat(path); err == nil {
				configPath = path
				break
			}
		}
	}

	config := createDefaultConfig()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("解析配置文件失败: %w", err)
		}
	}

	applyEnvOverrides(config)
	applyDefaults(config)

	return config, nil
}

// applyEnvOverrides 从环境变量覆盖敏感配置项
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("GROQ_API_KEY"); v != "" {
		config.Groq.APIKey = v
	}
	if v := os.Getenv("GROQ_API_URL"); v != "" {
		config.Groq.APIURL = v
	}
	if v := os.Getenv("GROQ_MODEL"); v != "" {
		config.Groq.Model = v
	}
	if v := os.Getenv("EMAIL_SENDER"); v != "" {
		config.SMTP.Sender = v
	}
	if v := os.Getenv("SMTP_PASSWORD"); v != "" {
		config.SMTP.Password = v
	}
	if v := os.Getenv("SMTP_SERVER"); v != "" {
		config.SMTP.Host = v
	}
	if v := os.Getenv("SMTP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			config.SMTP.Port = port
		}
	}
	if v := os.Getenv("REDIS_ADDRESS"); v != "" {
		config.Redis.Address = v
	}
}

// applyDefaults 补齐未设置的配置项
func applyDefaults(config *Config) {
	if config.Server.Address == "" {
		config.Server.Address = ":8000"
	}
	if config.Groq.APIURL == "" {
		config.Groq.APIURL = "https://api.groq.com/openai/v1/chat/completions"
	}
	if config.Groq.Model == "" {
		config.Groq.Model = "llama3-8b-8192"
	}
	if config.Groq.Temperature == 0 {
		config.Groq.Temperature = 0.2
	}
	if config.Session.Backend == "" {
		config.Session.Backend = "memory"
	}
	if config.Calendar.CalendarID == "" {
		config.Calendar.CalendarID = "primary"
	}
	if config.Calendar.TimeZone == "" {
		config.Calendar.TimeZone = "Asia/Kolkata"
	}
	if config.SMTP.Host == "" {
		config.SMTP.Host = "smtp.gmail.com"
	}
	if config.SMTP.Port == 0 {
		config.SMTP.Port = 587
	}
	if config.Meeting.BaseURL == "" {
		config.Meeting.BaseURL = "https://meet.google.com/"
	}
	if config.Logger.Level == "" {
		config.Logger.Level = "info"
	}
	if config.Logger.Format == "" {
		config.Logger.Format = "pretty"
	}
	if config.Logger.TimeFormat == "" {
		config.Logger.TimeFormat = "2006-01-02 15:04:05"
	}
}

// createDefaultConfig 创建默认配置，测试环境可直接使用
func createDefaultConfig() *Config {
	config := &Config{}
	config.Calendar.CredentialsFile = "credentials.json"
	config.Calendar.TokenFile = "token.json"
	applyDefaults(config)
	return config
}

// IsTestEnv 粗略判断当前是否在 go test 下运行
func IsTestEnv() bool {
	for _, arg := range os.Args {
		if strings.Contains(arg, "test") {
			return true
		}
	}
	return false
}

// SessionTTL 返回配置的会话保留时长
func (c *Config) SessionTTL(defaultTTL time.Duration) time.Duration {
	if c.Session.TTLMinutes <= 0 {
		return defaultTTL
	}
	return time.Duration(c.Session.TTLMinutes) * time.Minute
}

// GroqTimeout 返回单次LLM调用的超时，0表示不限制
func (c *Config) GroqTimeout() time.Duration {
	if c.Groq.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.Groq.TimeoutSeconds) * time.Second
}
