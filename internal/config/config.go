package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/igodwin/campaign-mailer/internal/domain"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables overriding configuration keys
const EnvPrefix = "CAMPAIGN_MAILER"

// ErrInvalidConfig wraps every configuration validation failure
var ErrInvalidConfig = errors.New("invalid configuration")

const (
	TransportSMTP   = "smtp"
	TransportStdout = "stdout"
)

// Config is the root configuration of the service
type Config struct {
	Server  ServerConfig       `mapstructure:"server" json:"server"`
	Logging LoggingConfig      `mapstructure:"logging" json:"logging"`
	Queue   domain.QueueConfig `mapstructure:"queue" json:"queue"`
	Report  ReportConfig       `mapstructure:"report" json:"report"`

	// ConfigFile is the file the configuration was read from, empty when only defaults were used
	ConfigFile string `mapstructure:"-" json:"config_file,omitempty"`
}

// ServerConfig contains the REST server settings
type ServerConfig struct {
	Host     string `mapstructure:"host" json:"host"`
	RESTPort int    `mapstructure:"rest_port" json:"rest_port"`
}

// LoggingConfig contains the logger settings
type LoggingConfig struct {
	Level      string `mapstructure:"level" json:"level"`
	OutputPath string `mapstructure:"output_path" json:"output_path"`
}

// ReportConfig groups the report export settings
type ReportConfig struct {
	Export ExportConfig `mapstructure:"export" json:"export"`
}

// ExportConfig contains the settings of every report exporter
type ExportConfig struct {
	JUnit JUnitConfig `mapstructure:"junit" json:"junit"`
	Mail  MailConfig  `mapstructure:"mail" json:"mail"`
}

// JUnitConfig locates the generated JUnit reports
type JUnitConfig struct {
	// Folder contains one subdirectory of reports per campaign key
	Folder string `mapstructure:"folder" json:"folder"`
}

// MailConfig contains the mail notification settings
type MailConfig struct {
	Enabled            bool     `mapstructure:"enabled" json:"enabled"`
	Status             []string `mapstructure:"status" json:"status"`
	Username           string   `mapstructure:"username" json:"username,omitempty"`
	Password           string   `mapstructure:"password" json:"password,omitempty"`
	Host               string   `mapstructure:"host" json:"host"`
	Port               int      `mapstructure:"port" json:"port"`
	AuthenticationMode string   `mapstructure:"authentication_mode" json:"authentication_mode"`
	From               string   `mapstructure:"from" json:"from"`
	To                 []string `mapstructure:"to" json:"to"`
	Cc                 []string `mapstructure:"cc" json:"cc,omitempty"`

	// JUnit attaches the generated reports of the campaign as a ZIP archive
	JUnit    bool `mapstructure:"junit" json:"junit"`
	SSL      bool `mapstructure:"ssl" json:"ssl"`
	StartTLS bool `mapstructure:"starttls" json:"starttls"`

	// Transport selects the delivery implementation (smtp or stdout)
	Transport string `mapstructure:"transport" json:"transport"`

	// Exclude lists glob patterns of report files left out of the archive
	Exclude []string `mapstructure:"exclude" json:"exclude,omitempty"`
}

// SetDefaults registers the default value of every key on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.rest_port", 8080)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.output_path", "stdout")

	v.SetDefault("queue.worker_count", 4)
	v.SetDefault("queue.local.buffer_size", 1000)
	v.SetDefault("queue.local.persist_to_disk", false)
	v.SetDefault("queue.local.persist_path", "")

	v.SetDefault("report.export.junit.folder", "")

	v.SetDefault("report.export.mail.enabled", false)
	v.SetDefault("report.export.mail.status", []string{string(domain.ReportStatusAll)})
	v.SetDefault("report.export.mail.username", "")
	v.SetDefault("report.export.mail.password", "")
	v.SetDefault("report.export.mail.host", "localhost")
	v.SetDefault("report.export.mail.port", 25)
	v.SetDefault("report.export.mail.authentication_mode", string(domain.AuthPlain))
	v.SetDefault("report.export.mail.from", "no-reply@qalipsis.io")
	v.SetDefault("report.export.mail.to", []string{})
	v.SetDefault("report.export.mail.cc", []string{})
	v.SetDefault("report.export.mail.junit", false)
	v.SetDefault("report.export.mail.ssl", false)
	v.SetDefault("report.export.mail.starttls", false)
	v.SetDefault("report.export.mail.transport", TransportSMTP)
	v.SetDefault("report.export.mail.exclude", []string{})
}

// Load reads the configuration from configFile, or searches the default locations when it is empty.
// Environment variables prefixed with CAMPAIGN_MAILER_ override file values.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/campaign-mailer")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	return decode(v)
}

// FromViper decodes and validates a configuration from an already populated viper instance
func FromViper(v *viper.Viper) (*Config, error) {
	return decode(v)
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.ConfigFile = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the whole configuration
func (c *Config) Validate() error {
	if c.Server.RESTPort < 0 {
		return fmt.Errorf("%w: server.rest_port must not be negative", ErrInvalidConfig)
	}
	if c.Queue.WorkerCount < 0 {
		return fmt.Errorf("%w: queue.worker_count must not be negative", ErrInvalidConfig)
	}
	if c.Report.Export.Mail.Enabled {
		if err := c.Report.Export.Mail.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks the mail settings; it is only relevant when mail notifications are enabled
func (m *MailConfig) Validate() error {
	if len(m.Status) == 0 {
		return fmt.Errorf("%w: mail status must not be empty", ErrInvalidConfig)
	}
	if _, err := m.StatusSet(); err != nil {
		return fmt.Errorf("%w: mail status: %v", ErrInvalidConfig, err)
	}
	if strings.TrimSpace(m.Host) == "" {
		return fmt.Errorf("%w: mail host must not be blank", ErrInvalidConfig)
	}
	if m.Port <= 0 {
		return fmt.Errorf("%w: mail port must be positive, got %d", ErrInvalidConfig, m.Port)
	}
	if _, err := m.AuthMode(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if strings.TrimSpace(m.From) == "" {
		return fmt.Errorf("%w: mail from must not be blank", ErrInvalidConfig)
	}
	if _, err := domain.ParseAddress(m.From); err != nil {
		return fmt.Errorf("%w: mail from: %v", ErrInvalidConfig, err)
	}
	if len(m.To) == 0 {
		return fmt.Errorf("%w: mail to must contain at least one recipient", ErrInvalidConfig)
	}
	if _, err := domain.ParseAddresses(m.To); err != nil {
		return fmt.Errorf("%w: mail to: %v", ErrInvalidConfig, err)
	}
	if _, err := domain.ParseAddresses(m.Cc); err != nil {
		return fmt.Errorf("%w: mail cc: %v", ErrInvalidConfig, err)
	}
	switch m.TransportKind() {
	case TransportSMTP, TransportStdout:
	default:
		return fmt.Errorf("%w: unknown mail transport %q", ErrInvalidConfig, m.Transport)
	}
	return nil
}

// StatusSet parses the subscribed statuses
func (m *MailConfig) StatusSet() (domain.StatusSet, error) {
	return domain.ParseStatusSet(m.Status)
}

// AuthMode parses the authentication mode, PLAIN when unset
func (m *MailConfig) AuthMode() (domain.AuthenticationMode, error) {
	if m.AuthenticationMode == "" {
		return domain.AuthPlain, nil
	}
	return domain.ParseAuthenticationMode(m.AuthenticationMode)
}

// TransportKind returns the configured transport, smtp when unset
func (m *MailConfig) TransportKind() string {
	if m.Transport == "" {
		return TransportSMTP
	}
	return strings.ToLower(m.Transport)
}

// Sanitize returns a copy of the configuration safe to log
func (c *Config) Sanitize() *Config {
	sanitized := *c
	mail := c.Report.Export.Mail
	if mail.Password != "" {
		mail.Password = "***REDACTED***"
	}
	sanitized.Report.Export.Mail = mail
	return &sanitized
}

// Default returns the configuration made only of default values
func Default() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	// Defaults always decode.
	_ = v.Unmarshal(&cfg)
	return &cfg
}
