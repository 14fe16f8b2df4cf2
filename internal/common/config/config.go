// internal/common/config/config.go
package config

import "fmt"

// Config is the root configuration of the lead-intelligence service.
type Config struct {
	App           AppConfig               `mapstructure:"app"`
	Camunda       CamundaConfig           `mapstructure:"camunda"`
	Database      DatabaseConfig          `mapstructure:"database"`
	Workers       map[string]WorkerConfig `mapstructure:"workers"`
	Integrations  IntegrationConfig       `mapstructure:"integrations"`
	APIs          APIsConfig              `mapstructure:"apis"`
	Logging       LoggingConfig           `mapstructure:"logging"`
	Notifications NotificationConfig      `mapstructure:"notifications"`
	Chat          ChatConfig              `mapstructure:"chat"`
	Observability ObservabilityConfig     `mapstructure:"observability"`
	HTTP          HTTPConfig              `mapstructure:"http"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
	UsePlaintext   bool   `mapstructure:"use_plaintext"`
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// Configured reports whether enough is set to attempt a connection.
func (p PostgresConfig) Configured() bool {
	return p.Host != "" && p.Database != "" && p.User != ""
}

func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses  []string `mapstructure:"addresses"`
	Username   string   `mapstructure:"username"`
	Password   string   `mapstructure:"password"`
	SSLEnabled bool     `mapstructure:"ssl_enabled"`
	URL        string   `mapstructure:"url"`
	LeadIndex  string   `mapstructure:"lead_index"`
}

// GetURL returns the explicit URL or the first address.
func (e ElasticsearchConfig) GetURL() string {
	if e.URL != "" {
		return e.URL
	}
	if len(e.Addresses) > 0 {
		return e.Addresses[0]
	}
	return ""
}

func (e ElasticsearchConfig) Configured() bool {
	return e.GetURL() != ""
}

type RedisConfig struct {
	Address      string `mapstructure:"address"`
	Password     string `mapstructure:"password"`
	DB           int    `mapstructure:"db"`
	PoolSize     int    `mapstructure:"pool_size"`
	MinIdleConns int    `mapstructure:"min_idle_conns"`
	// Timeout in milliseconds, applied to dial, read and write.
	Timeout int `mapstructure:"timeout"`
}

func (r RedisConfig) Configured() bool {
	return r.Address != ""
}

// WorkerConfig holds the settings shared by every Zeebe worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"` // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"`
}

type ZohoConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	APIKey     string `mapstructure:"api_key"`
	AuthToken  string `mapstructure:"oauth_token"`
	BaseURL    string `mapstructure:"base_url"`
	LeadSource string `mapstructure:"lead_source"`
}

type SESConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	FromEmail string `mapstructure:"from_email"`
}

type SNSConfig struct {
	Enabled            bool     `mapstructure:"enabled"`
	DefaultSMSSenderID string   `mapstructure:"default_sms_sender_id"`
	SalesPhoneNumbers  []string `mapstructure:"sales_phone_numbers"`
}

type AWSConfig struct {
	Region string    `mapstructure:"region"`
	SES    SESConfig `mapstructure:"ses"`
	SNS    SNSConfig `mapstructure:"sns"`
}

// IntegrationConfig holds the outbound sinks: CRM mailing list and AWS messaging.
type IntegrationConfig struct {
	Zoho ZohoConfig `mapstructure:"zoho"`
	AWS  AWSConfig  `mapstructure:"aws"`
}

type OpenAIConfig struct {
	BaseURL     string  `mapstructure:"base_url"`
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`
	Timeout     int     `mapstructure:"timeout"` // milliseconds
	MaxRetries  int     `mapstructure:"max_retries"`
}

type APIsConfig struct {
	OpenAI OpenAIConfig `mapstructure:"openai"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// NotificationConfig controls sales alerts and welcome emails.
type NotificationConfig struct {
	SalesEmails    []string `mapstructure:"sales_emails"`
	SalesAlerts    bool     `mapstructure:"sales_alerts"`
	WelcomeEnabled bool     `mapstructure:"welcome_enabled"`
	WelcomeSubject string   `mapstructure:"welcome_subject"`
	Timeout        int      `mapstructure:"timeout"` // milliseconds
}

// ChatConfig tunes the chat-turn pipeline.
type ChatConfig struct {
	ContextTTL       int   `mapstructure:"context_ttl"` // seconds
	MaxHistory       int   `mapstructure:"max_history"`
	RandomSeed       int64 `mapstructure:"random_seed"`
	WriteRetries     int   `mapstructure:"write_retries"`
	PersistTimeout   int   `mapstructure:"persist_timeout"` // milliseconds
	LLMEnabled       bool  `mapstructure:"llm_enabled"`
	PriorityCacheTTL int   `mapstructure:"priority_cache_ttl"` // seconds
}

type ObservabilityConfig struct {
	ServiceName    string  `mapstructure:"service_name"`
	TracingEnabled bool    `mapstructure:"tracing_enabled"`
	JaegerEndpoint string  `mapstructure:"jaeger_endpoint"`
	SampleRatio    float64 `mapstructure:"sample_ratio"`
}

type HTTPConfig struct {
	Port         int `mapstructure:"port"`
	ReadTimeout  int `mapstructure:"read_timeout"`  // milliseconds
	WriteTimeout int `mapstructure:"write_timeout"` // milliseconds
}
