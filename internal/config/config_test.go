package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/rxtech-lab/market-pulse/internal/version"
	"github.com/rxtech-lab/market-pulse/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type ConfigTestSuite struct {
	suite.Suite
	dir string
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (suite *ConfigTestSuite) SetupTest() {
	suite.dir = suite.T().TempDir()
	suite.T().Setenv(EnvDataDir, "")
	suite.T().Setenv(EnvPolygonAPIKey, "")
	suite.T().Setenv(EnvLogLevel, "")
}

func (suite *ConfigTestSuite) write(content string) string {
	path := filepath.Join(suite.dir, "config.yaml")
	suite.Require().NoError(os.WriteFile(path, []byte(content), 0o644))

	return path
}

func (suite *ConfigTestSuite) TestDefaults() {
	cfg := Default()

	suite.Equal(60, cfg.RefreshSeconds)
	suite.Equal(20.0, cfg.VIXBull)
	suite.Equal(25.0, cfg.VIXNeutral)
	suite.Equal(60, cfg.ScoreBull)
	suite.Equal(40, cfg.ScoreNeutral)
	suite.Equal(15*time.Second, cfg.RequestTimeout)
	suite.Equal("SPY", cfg.BroadSymbol)
	suite.Equal("RSP", cfg.EqualWeightSymbol)
	suite.Equal("^VIX", cfg.VolatilitySymbol)
	suite.Equal("info", cfg.LogLevel)
	suite.True(filepath.IsAbs(cfg.DataDir) || cfg.DataDir == "~/.marketpulse/data")
	suite.NoError(cfg.Validate())
}

func (suite *ConfigTestSuite) TestLoadOverridesSomeFields() {
	path := suite.write("vix_bull: 18\nscore_neutral: 35\nrequest_timeout: 5s\ndata_dir: /tmp/pulse\n")

	cfg, err := Load(path)
	suite.Require().NoError(err)
	suite.Equal(18.0, cfg.VIXBull)
	suite.Equal(25.0, cfg.VIXNeutral)
	suite.Equal(35, cfg.ScoreNeutral)
	suite.Equal(60, cfg.ScoreBull)
	suite.Equal(5*time.Second, cfg.RequestTimeout)
	suite.Equal("/tmp/pulse", cfg.DataDir)
}

func (suite *ConfigTestSuite) TestExplicitMissingFile() {
	_, err := Load(filepath.Join(suite.dir, "missing.yaml"))
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func (suite *ConfigTestSuite) TestMalformedYAML() {
	_, err := Load(suite.write("vix_bull: [\n"))
	suite.Require().Error(err)
}

func (suite *ConfigTestSuite) TestScoreThresholdOrdering() {
	_, err := Load(suite.write("score_bull: 40\nscore_neutral: 40\n"))
	suite.Require().Error(err)
	suite.Contains(err.Error(), "ScoreBull")
}

func (suite *ConfigTestSuite) TestVIXThresholdOrdering() {
	_, err := Load(suite.write("vix_bull: 30\nvix_neutral: 25\n"))
	suite.Require().Error(err)
	suite.Contains(err.Error(), "VIXNeutral")

	cfg, err := Load(suite.write("vix_bull: 22\nvix_neutral: 22\n"))
	suite.Require().NoError(err)
	suite.Equal(22.0, cfg.VIXNeutral)
}

func (suite *ConfigTestSuite) TestVersionCompatibility() {
	previous := version.Version
	version.Version = "1.4.2"

	defer func() { version.Version = previous }()

	cfg, err := Load(suite.write("version: 1.4.0\n"))
	suite.Require().NoError(err)
	suite.Equal("1.4.0", cfg.Version)

	_, err = Load(suite.write("version: 2.0.0\n"))
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
	suite.Contains(err.Error(), "major version mismatch")
}

func (suite *ConfigTestSuite) TestInvalidLogLevel() {
	_, err := Load(suite.write("log_level: loud\n"))
	suite.Error(err)
}

func (suite *ConfigTestSuite) TestEnvironmentOverrides() {
	suite.T().Setenv(EnvDataDir, "/data/from/env")
	suite.T().Setenv(EnvPolygonAPIKey, "secret")
	suite.T().Setenv(EnvLogLevel, "DEBUG")

	cfg, err := Load(suite.write("data_dir: /data/from/file\n"))
	suite.Require().NoError(err)
	suite.Equal("/data/from/env", cfg.DataDir)
	suite.Equal("secret", cfg.PolygonAPIKey)
	suite.Equal("debug", cfg.LogLevel)
}

func (suite *ConfigTestSuite) TestDotEnvNextToConfig() {
	suite.Require().NoError(os.Unsetenv(EnvPolygonAPIKey))
	suite.Require().NoError(os.WriteFile(filepath.Join(suite.dir, ".env"), []byte("POLYGON_API_KEY=from-dotenv\n"), 0o644))

	cfg, err := Load(suite.write("refresh_seconds: 30\n"))
	suite.Require().NoError(err)
	suite.Equal("from-dotenv", cfg.PolygonAPIKey)
	suite.Equal(30*time.Second, cfg.RefreshInterval())

	suite.Require().NoError(os.Unsetenv(EnvPolygonAPIKey))
}

func (suite *ConfigTestSuite) TestYAMLMasksAPIKey() {
	cfg := Default()
	cfg.PolygonAPIKey = "secret"

	out, err := cfg.YAML()
	suite.Require().NoError(err)
	suite.NotContains(out, "secret")
	suite.Contains(out, "vix_bull: 20")
	suite.Contains(out, "request_timeout: 15s")
}

func (suite *ConfigTestSuite) TestSchema() {
	schema, err := Schema()
	suite.Require().NoError(err)

	var decoded map[string]any
	suite.Require().NoError(json.Unmarshal([]byte(schema), &decoded))
	suite.Equal("marketpulse-config", decoded["title"])

	properties, ok := decoded["properties"].(map[string]any)
	suite.Require().True(ok)
	suite.Contains(properties, "vix_bull")
	suite.Contains(properties, "score_neutral")

	timeout, ok := properties["request_timeout"].(map[string]any)
	suite.Require().True(ok)
	suite.Equal("string", timeout["type"])
	suite.Equal(DurationPattern, timeout["pattern"])
	suite.Regexp(regexp.MustCompile(DurationPattern), "15s")
	suite.Regexp(regexp.MustCompile(DurationPattern), "1m30s")
	suite.NotRegexp(regexp.MustCompile(DurationPattern), "15000000000")
}

func (suite *ConfigTestSuite) TestRequestTimeoutFromDurationString() {
	path := filepath.Join(suite.T().TempDir(), "config.yaml")
	suite.Require().NoError(os.WriteFile(path, []byte("request_timeout: 1m30s\n"), 0o600))

	cfg, err := Load(path)
	suite.Require().NoError(err)
	suite.Equal(90*time.Second, cfg.RequestTimeout)
}

func (suite *ConfigTestSuite) TestExpandHome() {
	home, err := os.UserHomeDir()
	suite.Require().NoError(err)

	suite.Equal(filepath.Join(home, "data"), ExpandHome("~/data"))
	suite.Equal("/abs/path", ExpandHome("/abs/path"))
}
