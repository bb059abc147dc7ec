package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Cache drivers.
const (
	CacheDriverFile   = "file"
	CacheDriverRedis  = "redis"
	CacheDriverValkey = "valkey"
	CacheDriverNone   = "none"
)

// Export formats.
const (
	FormatVTK     = "vtk"
	FormatGeoJSON = "geojson"
	FormatParquet = "parquet"
)

// Config holds the gridprox configuration.
type Config struct {
	HTTP         HTTPConfig         `yaml:"http"`
	Geo          GeoConfig          `yaml:"geo"`
	Geocoder     GeocoderConfig     `yaml:"geocoder"`
	PropertyData PropertyDataConfig `yaml:"property_data"`
	Cache        CacheConfig        `yaml:"cache"`
	Proximity    ProximityConfig    `yaml:"proximity"`
	Export       ExportConfig       `yaml:"export"`
	Logging      LoggingConfig      `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// GeoConfig holds the projection origin in degrees.
type GeoConfig struct {
	OriginLat float64 `yaml:"origin_lat"`
	OriginLon float64 `yaml:"origin_lon"`
}

// GeocoderConfig holds address lookup settings.
type GeocoderConfig struct {
	BaseURL    string `yaml:"base_url"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// PropertyDataConfig holds settings for the suburb and power-line data service.
type PropertyDataConfig struct {
	BaseURL    string `yaml:"base_url"`
	State      string `yaml:"state"`
	Country    string `yaml:"country"`
	Language   string `yaml:"language"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// CacheConfig holds response cache settings.
type CacheConfig struct {
	Driver           string   `yaml:"driver"` // file, redis, valkey, none (default: file)
	Path             string   `yaml:"path"`
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
	TTLHours         int      `yaml:"ttl_hours"`
	KeyPrefix        string   `yaml:"key_prefix"`
	Version          string   `yaml:"version"`
}

// TTL returns the cache entry lifetime.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLHours) * time.Hour
}

// ProximityConfig holds query settings.
type ProximityConfig struct {
	SearchRadiusM    float64 `yaml:"search_radius_m"`
	Workers          int     `yaml:"workers"`
	FetchConcurrency int     `yaml:"fetch_concurrency"`
}

// ExportConfig holds debug scene export settings.
type ExportConfig struct {
	Dir     string   `yaml:"dir"`
	Formats []string `yaml:"formats"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8080
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 60
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Geo.OriginLat == 0 && c.Geo.OriginLon == 0 {
		// Sydney CBD
		c.Geo.OriginLat = -33.88243560003056
		c.Geo.OriginLon = 151.2064118987779
	}
	if c.Geocoder.BaseURL == "" {
		c.Geocoder.BaseURL = "https://geocode.maps.co"
	}
	if c.Geocoder.TimeoutSec <= 0 {
		c.Geocoder.TimeoutSec = 15
	}
	if c.PropertyData.BaseURL == "" {
		c.PropertyData.BaseURL = "https://www.propertydatamap.com.au"
	}
	if c.PropertyData.State == "" {
		c.PropertyData.State = "NSW"
	}
	if c.PropertyData.Country == "" {
		c.PropertyData.Country = "AUS"
	}
	if c.PropertyData.Language == "" {
		c.PropertyData.Language = "ZHS"
	}
	if c.PropertyData.TimeoutSec <= 0 {
		c.PropertyData.TimeoutSec = 30
	}
	if c.Cache.Driver == "" {
		c.Cache.Driver = CacheDriverFile
	}
	if c.Cache.Path == "" {
		c.Cache.Path = ".cache/gridprox.json"
	}
	if c.Cache.ReadinessTimeout <= 0 {
		c.Cache.ReadinessTimeout = 10
	}
	if c.Cache.TTLHours <= 0 {
		c.Cache.TTLHours = 32 * 24
	}
	if c.Cache.KeyPrefix == "" {
		c.Cache.KeyPrefix = "gridprox:"
	}
	if c.Cache.Version == "" {
		c.Cache.Version = "v1"
	}
	if c.Proximity.SearchRadiusM <= 0 {
		c.Proximity.SearchRadiusM = 5000
	}
	if c.Proximity.Workers <= 0 {
		c.Proximity.Workers = 2
	}
	if c.Proximity.FetchConcurrency <= 0 {
		c.Proximity.FetchConcurrency = 4
	}
	if len(c.Export.Formats) == 0 {
		c.Export.Formats = []string{FormatVTK}
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Geo.OriginLat < -90 || c.Geo.OriginLat > 90 {
		return fmt.Errorf("geo.origin_lat must be between -90 and 90, got %v", c.Geo.OriginLat)
	}
	if c.Geo.OriginLon < -180 || c.Geo.OriginLon > 180 {
		return fmt.Errorf("geo.origin_lon must be between -180 and 180, got %v", c.Geo.OriginLon)
	}
	switch c.Cache.Driver {
	case CacheDriverFile:
		if c.Cache.Path == "" {
			return fmt.Errorf("cache.path is required for driver %q", c.Cache.Driver)
		}
	case CacheDriverRedis, CacheDriverValkey:
		if len(c.Cache.Addrs) == 0 {
			return fmt.Errorf("cache.addrs is required for driver %q", c.Cache.Driver)
		}
	case CacheDriverNone:
		// ok
	default:
		return fmt.Errorf(
			"cache.driver must be one of \"file\", \"redis\", \"valkey\", \"none\", got %q",
			c.Cache.Driver,
		)
	}
	for _, f := range c.Export.Formats {
		switch f {
		case FormatVTK, FormatGeoJSON, FormatParquet:
			// ok
		default:
			return fmt.Errorf("export.formats: unknown format %q", f)
		}
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
