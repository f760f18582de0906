package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/KaramelBytes/hysteria-cli/internal/reactor"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// Reactor analyzer bounds
	MinStep        uint32 `mapstructure:"min_step" yaml:"min_step"`
	MaxStep        uint32 `mapstructure:"max_step" yaml:"max_step"`
	ErrorTolerance uint32 `mapstructure:"error_tolerance" yaml:"error_tolerance"`

	// Default input files when no path argument is given
	LocationsInput string `mapstructure:"locations_input" yaml:"locations_input"`
	ReportsInput   string `mapstructure:"reports_input" yaml:"reports_input"`

	// Run history
	RunsDir    string `mapstructure:"runs_dir" yaml:"runs_dir"`
	RecordRuns bool   `mapstructure:"record_runs" yaml:"record_runs"`
}

const (
	envPrefix = "HYSTERIA"
	dirName   = ".hysteria"
)

// Bounds returns the validated analyzer bounds.
func (c *Global) Bounds() (reactor.Bounds, error) {
	b := reactor.Bounds{MinStep: c.MinStep, MaxStep: c.MaxStep, ErrorTolerance: c.ErrorTolerance}
	if err := b.Validate(); err != nil {
		return reactor.Bounds{}, err
	}
	return b, nil
}

// Dir returns ~/.hysteria.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, dirName), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.hysteria/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// LoadEnvFile loads KEY=VALUE pairs from a dotenv file into the process
// environment without overriding variables that are already set.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. Flags are applied by the caller.
func Load(cfgFile string) (*Global, error) {
	v := newViper()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// an explicit --config that is missing surfaces as a PathError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return decode(v)
}

// Defaults returns the configuration from env and built-in defaults only.
func Defaults() (*Global, error) {
	return decode(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	d := reactor.DefaultBounds()
	v.SetDefault("min_step", d.MinStep)
	v.SetDefault("max_step", d.MaxStep)
	v.SetDefault("error_tolerance", d.ErrorTolerance)
	v.SetDefault("locations_input", "input.txt")
	v.SetDefault("reports_input", "input.txt")
	v.SetDefault("runs_dir", "")
	v.SetDefault("record_runs", false)
	return v
}

func decode(v *viper.Viper) (*Global, error) {
	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	// Resolve runs_dir default: ~/.hysteria/runs
	if c.RunsDir == "" {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		c.RunsDir = filepath.Join(dir, "runs")
	}
	return &c, nil
}
