package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/JonMunkholm/sheetcheck/internal/columns"
	"github.com/JonMunkholm/sheetcheck/internal/core"
)

// EnvPrefix namespaces the CLI's environment variables, e.g.
// SHEETCHECK_LLM_MODEL.
const EnvPrefix = "SHEETCHECK"

// Settings are the CLI's knobs. Precedence: flags > environment > config
// file > defaults.
type Settings struct {
	Resolver       string        `mapstructure:"resolver" yaml:"resolver"`
	LocationColumn string        `mapstructure:"location_column" yaml:"location_column"`
	RegionColumn   string        `mapstructure:"region_column" yaml:"region_column"`
	LLMBaseURL     string        `mapstructure:"llm_base_url" yaml:"llm_base_url"`
	LLMAPIKey      string        `mapstructure:"llm_api_key" yaml:"llm_api_key"`
	LLMModel       string        `mapstructure:"llm_model" yaml:"llm_model"`
	LLMTimeout     time.Duration `mapstructure:"llm_timeout" yaml:"llm_timeout"`
	LLMMaxAttempts int           `mapstructure:"llm_max_attempts" yaml:"llm_max_attempts"`
	MaxFileSize    int64         `mapstructure:"max_file_size" yaml:"max_file_size"`
	MaxRows        int           `mapstructure:"max_rows" yaml:"max_rows"`
	Timeout        time.Duration `mapstructure:"timeout" yaml:"timeout"`
	Output         string        `mapstructure:"output" yaml:"output"`
	LogLevel       string        `mapstructure:"log_level" yaml:"log_level"`
}

func defaults(v *viper.Viper) {
	v.SetDefault("resolver", columns.ModeHeader)
	v.SetDefault("location_column", "")
	v.SetDefault("region_column", "")
	v.SetDefault("llm_base_url", "https://api.openai.com/v1")
	v.SetDefault("llm_api_key", "")
	v.SetDefault("llm_model", "")
	v.SetDefault("llm_timeout", 30*time.Second)
	v.SetDefault("llm_max_attempts", 3)
	v.SetDefault("max_file_size", int64(200<<20))
	v.SetDefault("max_rows", 0)
	v.SetDefault("timeout", 5*time.Minute)
	v.SetDefault("output", FormatText)
	v.SetDefault("log_level", "warn")
}

// LoadSettings reads settings through v. An explicit cfgFile must exist;
// otherwise sheetcheck.yaml is looked up in the working directory and
// ~/.sheetcheck and skipped when absent.
func LoadSettings(v *viper.Viper, cfgFile string) (*Settings, error) {
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	defaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		v.SetConfigName("sheetcheck")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".sheetcheck"))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Settings) validate() error {
	var errs []error
	switch s.Output {
	case FormatJSON, FormatYAML, FormatText:
	default:
		errs = append(errs, fmt.Errorf("output %q must be one of: json, yaml, text", s.Output))
	}
	switch s.Resolver {
	case columns.ModeHeader, columns.ModeChat, columns.ModeNone:
	default:
		errs = append(errs, fmt.Errorf("resolver %q must be one of: header, chat, none", s.Resolver))
	}
	if s.MaxFileSize <= 0 {
		errs = append(errs, errors.New("max_file_size must be positive"))
	}
	if s.MaxRows < 0 {
		errs = append(errs, errors.New("max_rows must be non-negative"))
	}
	return errors.Join(errs...)
}

// resolver builds the column resolver the settings describe.
func (s *Settings) resolver() (columns.Resolver, error) {
	return columns.Build(s.Resolver,
		columns.Names{Location: s.LocationColumn, Region: s.RegionColumn},
		columns.ChatConfig{
			BaseURL:     s.LLMBaseURL,
			APIKey:      s.LLMAPIKey,
			Model:       s.LLMModel,
			Timeout:     s.LLMTimeout,
			MaxAttempts: s.LLMMaxAttempts,
		})
}

// service builds a single-slot analysis service.
func (s *Settings) service() (*core.Service, error) {
	r, err := s.resolver()
	if err != nil {
		return nil, err
	}
	return core.NewService(core.Settings{
		MaxFileSize:   s.MaxFileSize,
		MaxRows:       s.MaxRows,
		MaxConcurrent: 1,
		Timeout:       s.Timeout,
	}, r, nil), nil
}
