// Package config loads and validates the marketpulse configuration file.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/joho/godotenv"
	"github.com/rxtech-lab/market-pulse/internal/version"
	"github.com/rxtech-lab/market-pulse/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Environment variables that override file values.
const (
	EnvDataDir       = "MARKETPULSE_DATA_DIR"
	EnvPolygonAPIKey = "POLYGON_API_KEY"
	EnvLogLevel      = "MARKETPULSE_LOG_LEVEL"
)

// HomeDirName is the directory under the user's home holding config and cache.
const HomeDirName = ".marketpulse"

// Config is the complete runtime configuration.
type Config struct {
	RefreshSeconds    int           `yaml:"refresh_seconds"     json:"refresh_seconds"     default:"60"                 validate:"min=1"                               jsonschema:"title=Refresh Seconds,description=Dashboard refresh interval in seconds,minimum=1,default=60"`
	VIXBull           float64       `yaml:"vix_bull"            json:"vix_bull"            default:"20"                 validate:"gt=0"                                jsonschema:"title=VIX Bull,description=VIX below this value votes BULL,default=20"`
	VIXNeutral        float64       `yaml:"vix_neutral"         json:"vix_neutral"         default:"25"                 validate:"gtefield=VIXBull"                    jsonschema:"title=VIX Neutral,description=VIX at or below this value votes NEUTRAL,default=25"`
	ScoreBull         int           `yaml:"score_bull"          json:"score_bull"          default:"60"                 validate:"min=0,max=100,gtfield=ScoreNeutral"  jsonschema:"title=Score Bull,description=Scores at or above this value are labelled BULL,minimum=0,maximum=100,default=60"`
	ScoreNeutral      int           `yaml:"score_neutral"       json:"score_neutral"       default:"40"                 validate:"min=0,max=100"                       jsonschema:"title=Score Neutral,description=Scores at or above this value are labelled NEUTRAL,minimum=0,maximum=100,default=40"`
	DataDir           string        `yaml:"data_dir"            json:"data_dir"            default:"~/.marketpulse/data" validate:"required"                            jsonschema:"title=Data Directory,description=Directory holding the local CSV and parquet cache"`
	RequestTimeout    time.Duration `yaml:"request_timeout"     json:"request_timeout"     default:"15s"                validate:"gt=0"                                jsonschema:"title=Request Timeout,description=Per-request timeout for remote providers"`
	BroadSymbol       string        `yaml:"broad_symbol"        json:"broad_symbol"        default:"SPY"                validate:"required"                            jsonschema:"title=Broad Symbol,description=Market-cap weighted reference instrument,default=SPY"`
	EqualWeightSymbol string        `yaml:"equal_weight_symbol" json:"equal_weight_symbol" default:"RSP"                validate:"required"                            jsonschema:"title=Equal Weight Symbol,description=Equal-weight reference instrument,default=RSP"`
	VolatilitySymbol  string        `yaml:"volatility_symbol"   json:"volatility_symbol"   default:"^VIX"               validate:"required"                            jsonschema:"title=Volatility Symbol,description=Volatility index symbol,default=^VIX"`
	PolygonAPIKey     string        `yaml:"polygon_api_key"     json:"polygon_api_key"                                                                                     jsonschema:"title=Polygon API Key,description=Enables the Polygon price provider"`
	LogLevel          string        `yaml:"log_level"           json:"log_level"           default:"info"               validate:"oneof=debug info warn error"         jsonschema:"title=Log Level,enum=debug,enum=info,enum=warn,enum=error,default=info"`
	Version           string        `yaml:"version,omitempty"   json:"version,omitempty"                                validate:"omitempty"                           jsonschema:"title=Version,description=marketpulse release this file was written for; major and minor must match the binary"`
	MetricsAddr       string        `yaml:"metrics_addr"        json:"metrics_addr"                                     validate:"omitempty,hostname_port"             jsonschema:"title=Metrics Address,description=Serve Prometheus metrics on this address while the dashboard runs"`
}

var validate = validator.New()

// DurationPattern matches the Go duration strings accepted for request_timeout.
const DurationPattern = `^([0-9]+(\.[0-9]+)?(ns|us|µs|ms|s|m|h))+$`

// DefaultPath returns ~/.marketpulse/config.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(HomeDirName, "config.yaml")
	}

	return filepath.Join(home, HomeDirName, "config.yaml")
}

// Default returns the configuration with every default applied.
func Default() Config {
	var cfg Config
	// Default values are static tags; Set only fails on malformed tags.
	_ = defaults.Set(&cfg)
	cfg.DataDir = ExpandHome(cfg.DataDir)

	return cfg
}

// Load reads the configuration file at path. An empty path means DefaultPath, and a
// missing default file is not an error. A .env file next to the configuration file is
// loaded first without overriding variables that are already set.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	_ = godotenv.Load(filepath.Join(filepath.Dir(path), ".env"))

	var cfg Config
	if err := defaults.Set(&cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to apply defaults", err)
	}

	content, err := os.ReadFile(path)

	switch {
	case err == nil:
		if err := yaml.Unmarshal(content, &cfg); err != nil {
			return Config{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to parse %s", path)
		}
	case os.IsNotExist(err) && !explicit:
	default:
		return Config{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read %s", path)
	}

	cfg.applyEnv()
	cfg.DataDir = ExpandHome(cfg.DataDir)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	if cfg.Version != "" {
		if err := version.CheckCompatibility(version.GetVersion(), cfg.Version); err != nil {
			return Config{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "%s was written for marketpulse %s", path, cfg.Version)
		}
	}

	return cfg, nil
}

func (c *Config) applyEnv() {
	if value := os.Getenv(EnvDataDir); value != "" {
		c.DataDir = value
	}

	if value := os.Getenv(EnvPolygonAPIKey); value != "" {
		c.PolygonAPIKey = value
	}

	if value := os.Getenv(EnvLogLevel); value != "" {
		c.LogLevel = strings.ToLower(value)
	}
}

// Validate checks ranges and threshold ordering.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid configuration", err)
	}

	return nil
}

// RefreshInterval returns RefreshSeconds as a duration.
func (c Config) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshSeconds) * time.Second
}

// YAML renders the configuration with the API key masked.
func (c Config) YAML() (string, error) {
	masked := c
	if masked.PolygonAPIKey != "" {
		masked.PolygonAPIKey = "********"
	}

	out, err := yaml.Marshal(masked)
	if err != nil {
		return "", err
	}

	return string(out), nil
}

// Schema returns the JSON schema of the configuration file.
func Schema() (string, error) {
	reflector := jsonschema.Reflector{
		ExpandedStruct:            true,
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}

	//nolint:exhaustruct // Empty struct is intentional for schema generation
	schema := reflector.Reflect(&Config{})
	// yaml decodes time.Duration only from strings such as "15s".
	if prop, ok := schema.Properties.Get("request_timeout"); ok {
		prop.Type = "string"
		prop.Pattern = DurationPattern
		prop.Default = "15s"
	}

	schema.Title = "marketpulse-config"
	schema.Description = "Configuration schema for marketpulse"

	out, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}

	return string(out), nil
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
