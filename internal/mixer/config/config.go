package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/rlaaudgjs5638/mixAnalyzer/internal/mixer/domain"
	"github.com/rlaaudgjs5638/mixAnalyzer/shared/computation"
)

// Config is the complete application configuration.
type Config struct {
	Analysis domain.AnalysisConfig `mapstructure:"analysis"`
	Source   SourceConfig          `mapstructure:"source"`
	Store    StoreConfig           `mapstructure:"store"`
	Server   ServerConfig          `mapstructure:"server"`
	Logging  LoggingConfig         `mapstructure:"logging"`
}

// SourceConfig selects where raw batches come from.
type SourceConfig struct {
	Kind string `mapstructure:"kind"` // "file" or "kafka"
	Path string `mapstructure:"path"` // file kind

	Brokers     []string      `mapstructure:"brokers"` // kafka kind
	Topic       string        `mapstructure:"topic"`
	GroupID     string        `mapstructure:"group_id"`
	MaxRecords  int           `mapstructure:"max_records"`
	IdleTimeout time.Duration `mapstructure:"idle_timeout"`
}

// StoreConfig locates the run artifact store.
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads configuration from the given file with environment overrides
// (prefix MIX_ANALYZER). A missing file is not an error: defaults apply,
// which keeps the file-source CLI usable with flags alone.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("MIX_ANALYZER")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if len(cfg.Analysis.Pools) == 0 {
		cfg.Analysis.Pools = domain.DefaultPools()
	}

	if err := cfg.Analysis.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.validateSource(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validateSource() error {
	switch c.Source.Kind {
	case "file":
		// Path may still arrive via CLI flag; checked at use.
		return nil
	case "kafka":
		if len(c.Source.Brokers) == 0 || c.Source.Topic == "" {
			return fmt.Errorf("%w: kafka source needs brokers and topic", domain.ErrInvalidConfig)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown source kind %q", domain.ErrInvalidConfig, c.Source.Kind)
	}
}

// defaultStorePath anchors the artifact store under the module root so the
// CLI and the server agree on a location no matter which directory they were
// started from.
func defaultStorePath() string {
	if root := computation.GetModuleRoot(); root != "" {
		return filepath.Join(root, "data", "mixer-runs")
	}
	return filepath.Join("data", "mixer-runs")
}

func setDefaults(v *viper.Viper) {
	def := domain.DefaultAnalysisConfig()
	v.SetDefault("analysis.max_delay_seconds", def.MaxDelaySeconds)
	v.SetDefault("analysis.score_floor", def.ScoreFloor)
	v.SetDefault("analysis.reuse_min_tx_count", def.ReuseMinTxCount)
	v.SetDefault("analysis.relayer_diversity_threshold", def.RelayerDiversityThreshold)
	v.SetDefault("analysis.workers", def.Workers)
	v.SetDefault("analysis.pool_timeout", time.Duration(0))

	v.SetDefault("source.kind", "file")
	v.SetDefault("source.group_id", "mix-analyzer")
	v.SetDefault("source.max_records", 100_000)
	v.SetDefault("source.idle_timeout", 5*time.Second)

	v.SetDefault("store.path", defaultStorePath())
	v.SetDefault("server.addr", ":8085")
	v.SetDefault("logging.level", "info")
}
