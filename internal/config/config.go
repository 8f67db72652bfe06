package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Drive     DriveConfig     `yaml:"drive" mapstructure:"drive"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	BrasilAPI BrasilAPIConfig `yaml:"brasilapi" mapstructure:"brasilapi"`
	Extract   ExtractConfig   `yaml:"extract" mapstructure:"extract"`
	Files     FilesConfig     `yaml:"files" mapstructure:"files"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// DriveConfig configures Google Drive access and the source folders.
type DriveConfig struct {
	TokenPath string        `yaml:"token_path" mapstructure:"token_path"`
	Folders   []DriveFolder `yaml:"folders" mapstructure:"folders"`
}

// DriveFolder names one source folder of contract terms.
type DriveFolder struct {
	Name string `yaml:"name" mapstructure:"name"`
	ID   string `yaml:"id" mapstructure:"id"`
}

// AnthropicConfig holds the extraction model settings.
type AnthropicConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int64  `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// BrasilAPIConfig holds the CNPJ registry settings. The free tier allows
// roughly three requests per minute, hence the cool-down.
type BrasilAPIConfig struct {
	BaseURL      string `yaml:"base_url" mapstructure:"base_url"`
	CooldownSecs int    `yaml:"cooldown_secs" mapstructure:"cooldown_secs"`
}

// ExtractConfig configures the extraction stage behavior.
type ExtractConfig struct {
	MaxAttempts        int `yaml:"max_attempts" mapstructure:"max_attempts"`
	InitialBackoffSecs int `yaml:"initial_backoff_secs" mapstructure:"initial_backoff_secs"`
	PauseSecs          int `yaml:"pause_secs" mapstructure:"pause_secs"`
}

// FilesConfig names the intermediate stage files.
type FilesConfig struct {
	Extracted string `yaml:"extracted" mapstructure:"extracted"`
	Sanitized string `yaml:"sanitized" mapstructure:"sanitized"`
	Review    string `yaml:"review" mapstructure:"review"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("TERMOS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "sistemacipt.db")
	v.SetDefault("drive.token_path", "token.json")
	v.SetDefault("anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.max_tokens", 4096)
	v.SetDefault("brasilapi.base_url", "https://brasilapi.com.br/api")
	v.SetDefault("brasilapi.cooldown_secs", 21)
	v.SetDefault("extract.max_attempts", 3)
	v.SetDefault("extract.initial_backoff_secs", 5)
	v.SetDefault("extract.pause_secs", 1)
	v.SetDefault("files.extracted", "dados_extraidos.json")
	v.SetDefault("files.sanitized", "dados_prontos_para_importar.json")
	v.SetDefault("files.review", "revisao_faltantes.txt")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
