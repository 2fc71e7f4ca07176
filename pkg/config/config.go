package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	AppName    = "Dictdoy"
	ConfigName = "config.toml"
	EnvPrefix  = "DICTDOY"
)

// AppConfig represents the persistent application configuration.
type AppConfig struct {
	Dictionary DictionaryConfig `toml:"dictionary" mapstructure:"dictionary" json:"dictionary"`
	LLM        LLMConfig        `toml:"llm" mapstructure:"llm" json:"llm"`
	UI         UIConfig         `toml:"ui" mapstructure:"ui" json:"ui"`
	Log        LogConfig        `toml:"log" mapstructure:"log" json:"log"`
}

// DictionaryConfig points at dictionary data files. Empty paths use the
// embedded sample data.
type DictionaryConfig struct {
	CedictPath string `toml:"cedict_path" mapstructure:"cedict_path" json:"cedict_path" validate:"omitempty,file"`
	HSKPath    string `toml:"hsk_path" mapstructure:"hsk_path" json:"hsk_path" validate:"omitempty,file"`
}

// LLMConfig configures the optional model used when the dictionary has no
// entry for a query.
type LLMConfig struct {
	Enabled        bool   `toml:"enabled" mapstructure:"enabled" json:"enabled"`
	BaseURL        string `toml:"base_url" mapstructure:"base_url" json:"base_url" validate:"omitempty,url"`
	APIKey         string `toml:"api_key" mapstructure:"api_key" json:"api_key" validate:"required_if=Enabled true"`
	Model          string `toml:"model" mapstructure:"model" json:"model" validate:"required_if=Enabled true"`
	Prompt         string `toml:"prompt" mapstructure:"prompt" json:"prompt"`
	TimeoutSeconds int    `toml:"timeout_seconds" mapstructure:"timeout_seconds" json:"timeout_seconds" validate:"gte=1,lte=600"`
	MaxRetries     int    `toml:"max_retries" mapstructure:"max_retries" json:"max_retries" validate:"gte=0,lte=10"`
}

type UIConfig struct {
	Width    int    `toml:"width" mapstructure:"width" json:"width" validate:"gte=240"`
	Height   int    `toml:"height" mapstructure:"height" json:"height" validate:"gte=200"`
	FontPath string `toml:"font_path" mapstructure:"font_path" json:"font_path" validate:"omitempty,file"`
}

type LogConfig struct {
	Level string `toml:"level" mapstructure:"level" json:"level" validate:"oneof=trace debug info warn error"`
}

const DefaultPrompt = "You are an English-Chinese dictionary. For the given text answer with at most 5 lines, " +
	"each formatted as: simplified Chinese|pinyin with tone marks|English gloss; English gloss. No other text."

// DefaultConfig returns the default configuration.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		LLM: LLMConfig{
			Enabled:        false,
			BaseURL:        "https://dashscope.aliyuncs.com/compatible-mode/v1",
			APIKey:         os.Getenv("DASHSCOPE_API_KEY"),
			Model:          "qwen-flash",
			Prompt:         DefaultPrompt,
			TimeoutSeconds: 30,
			MaxRetries:     2,
		},
		UI: UIConfig{
			Width:  640,
			Height: 520,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Dir returns the per-user application directory, creating it if needed.
func Dir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}

	appConfigDir := filepath.Join(configDir, AppName)
	if err := os.MkdirAll(appConfigDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config dir: %w", err)
	}

	return appConfigDir, nil
}

// Path returns the full path to the configuration file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigName), nil
}

// Load reads the configuration from the default config file.
func Load() (*AppConfig, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the configuration at path. A missing file yields the
// defaults. DICTDOY_* environment variables override file values, for
// example DICTDOY_LLM_API_KEY.
func LoadFrom(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigType("toml")
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("llm.api_key", EnvPrefix+"_LLM_API_KEY", "DASHSCOPE_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind API key environment variables: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper, d *AppConfig) {
	v.SetDefault("dictionary.cedict_path", d.Dictionary.CedictPath)
	v.SetDefault("dictionary.hsk_path", d.Dictionary.HSKPath)
	v.SetDefault("llm.enabled", d.LLM.Enabled)
	v.SetDefault("llm.base_url", d.LLM.BaseURL)
	v.SetDefault("llm.api_key", d.LLM.APIKey)
	v.SetDefault("llm.model", d.LLM.Model)
	v.SetDefault("llm.prompt", d.LLM.Prompt)
	v.SetDefault("llm.timeout_seconds", d.LLM.TimeoutSeconds)
	v.SetDefault("llm.max_retries", d.LLM.MaxRetries)
	v.SetDefault("ui.width", d.UI.Width)
	v.SetDefault("ui.height", d.UI.Height)
	v.SetDefault("ui.font_path", d.UI.FontPath)
	v.SetDefault("log.level", d.Log.Level)
}

// SaveTo writes the configuration to path.
func SaveTo(path string, cfg *AppConfig) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// 0600: the file may hold an API key
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
