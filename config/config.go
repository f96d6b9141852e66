package config

import (
	"bytes"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	KeyLoggingLevel                 = "logging.level"
	KeyLoggingDir                   = "logging.dir"
	KeyLoggingConsole               = "logging.console"
	KeyTransformMissingName         = "transform.missing_name_placeholder"
	KeyTransformMissingSchool       = "transform.missing_school_placeholder"
	KeyTransformStrictHours         = "transform.strict_hours"
	KeyHistoryEnabled               = "history.enabled"
	KeyHistoryDB                    = "history.db"
	KeyServePort                    = "serve.port"
	defaultMissingNamePlaceholder   = "<missing_name>"
	defaultMissingSchoolPlaceholder = "<missing_school>"
)

type Config struct {
	Logging   LoggingConfig   `mapstructure:"logging"`
	Transform TransformConfig `mapstructure:"transform"`
	History   HistoryConfig   `mapstructure:"history"`
	Serve     ServeConfig     `mapstructure:"serve"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	// Dir holds one log file per run. Empty means $HOME/.traininghours.
	Dir     string `mapstructure:"dir"`
	Console bool   `mapstructure:"console"`
}

type TransformConfig struct {
	MissingNamePlaceholder   string `mapstructure:"missing_name_placeholder" validate:"required"`
	MissingSchoolPlaceholder string `mapstructure:"missing_school_placeholder" validate:"required"`
	StrictHours              bool   `mapstructure:"strict_hours"`
}

type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	DB      string `mapstructure:"db" validate:"required_if=Enabled true"`
}

type ServeConfig struct {
	Port int `mapstructure:"port" validate:"min=1,max=65535"`
}

// SetDefaults sets default values if not provided
func SetDefaults() {
	setDefaults(viper.GetViper())
}

// LoadAndValidate loads config from Viper and validates it
func LoadAndValidate() (*Config, error) {
	return loadAndValidateFromViper(viper.GetViper())
}

// ValidateYAMLContent validates configuration from raw YAML content.
func ValidateYAMLContent(content []byte) (*Config, error) {
	local := viper.New()
	setDefaults(local)
	local.SetConfigType("yaml")
	if err := local.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("read config content: %w", err)
	}
	return loadAndValidateFromViper(local)
}

// ExampleYAML returns the default configuration template.
func ExampleYAML() string {
	return `# traininghours configuration
logging:
  level: "info"
  # dir: "/var/log/traininghours"
  console: true

transform:
  missing_name_placeholder: "<missing_name>"
  missing_school_placeholder: "<missing_school>"
  strict_hours: false

history:
  enabled: false
  db: "./traininghours.db"

serve:
  port: 8080
`
}

func loadAndValidateFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyLoggingLevel, "info")
	v.SetDefault(KeyLoggingDir, "")
	v.SetDefault(KeyLoggingConsole, true)
	v.SetDefault(KeyTransformMissingName, defaultMissingNamePlaceholder)
	v.SetDefault(KeyTransformMissingSchool, defaultMissingSchoolPlaceholder)
	v.SetDefault(KeyTransformStrictHours, false)
	v.SetDefault(KeyHistoryEnabled, false)
	v.SetDefault(KeyHistoryDB, "./traininghours.db")
	v.SetDefault(KeyServePort, 8080)
}
