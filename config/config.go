package config

import (
	"errors"
	"fmt"
	"geohash-service/geohash"
	"geohash-service/geoindex"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Log      LogConfig
	Geohash  GeohashConfig
	Index    IndexConfig
	Matching MatchingConfig
	Redis    RedisConfig
}

type ServerConfig struct {
	Addr            string
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type LogConfig struct {
	Level  string
	Format string
}

type GeohashConfig struct {
	// MaxRegionCells caps the limit a caller may request for a region enumeration.
	MaxRegionCells uint `mapstructure:"max_region_cells"`
}

type IndexConfig struct {
	Technique       geoindex.Technique
	Precision       uint
	SearchCellLimit uint `mapstructure:"search_cell_limit"`
}

type MatchingConfig struct {
	Precision uint
}

type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

var Cfg *Config

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("geohash.max_region_cells", 100000)
	v.SetDefault("index.technique", string(geoindex.GeohashingTechnique))
	v.SetDefault("index.precision", 6)
	v.SetDefault("index.search_cell_limit", 4096)
	v.SetDefault("matching.precision", 5)
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", 10*time.Minute)
}

// Load reads config.yaml from the given paths (the working directory and
// ./config when none are given), then applies GEOHASH_* environment overrides.
// A missing config file is not an error.
func Load(paths ...string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{".", "./config"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix("geohash")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects precisions the geohash package cannot serve and unknown index techniques.
func (c *Config) Validate() error {
	if c.Index.Precision > geohash.MaxPrecision {
		return fmt.Errorf("index.precision %d exceeds %d", c.Index.Precision, geohash.MaxPrecision)
	}
	if c.Matching.Precision > geohash.MaxPrecision {
		return fmt.Errorf("matching.precision %d exceeds %d", c.Matching.Precision, geohash.MaxPrecision)
	}
	if c.Geohash.MaxRegionCells == 0 {
		return errors.New("geohash.max_region_cells must be positive")
	}
	if !c.Index.Technique.Valid() {
		return fmt.Errorf("unsupported index.technique %q", c.Index.Technique)
	}
	return nil
}

// InitConfig loads the configuration into Cfg.
func InitConfig() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	Cfg = cfg
	return nil
}
