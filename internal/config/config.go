// Package config handles application configuration.
package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// Config defines the structure for all application configuration.
type Config struct {
	LogLevel   string         `yaml:"log_level"`
	ModelDir   string         `yaml:"model_dir"`
	UploadDir  string         `yaml:"upload_dir"`
	ModelStore string         `yaml:"model_store"` // "file" or "postgres"
	Server     ServerConfig   `yaml:"server"`
	Training   TrainingConfig `yaml:"training"`
	Database   DatabaseConfig `yaml:"database"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Addr               string `yaml:"addr"`
	MaxUploadMB        int64  `yaml:"max_upload_mb"`
	ReadTimeoutSeconds int    `yaml:"read_timeout_seconds"`
}

// TrainingConfig holds every tunable of the training run. None of these are
// searched over at runtime.
type TrainingConfig struct {
	Seed              int64        `yaml:"seed"`
	TestRatio         float64      `yaml:"test_ratio"`
	CVFolds           int          `yaml:"cv_folds"`
	MinRows           int          `yaml:"min_rows"`
	OutlierZThreshold float64      `yaml:"outlier_z_threshold"`
	SynthesizeSleep   FlexBool     `yaml:"synthesize_sleep"`
	SyntheticSleepMin int          `yaml:"synthetic_sleep_min"`
	SyntheticSleepMax int          `yaml:"synthetic_sleep_max"`
	DecisionTree      TreeConf     `yaml:"decision_tree"`
	RandomForest      ForestConf   `yaml:"random_forest"`
	KNN               NeighborConf `yaml:"knn"`
}

// TreeConf holds decision tree hyperparameters.
type TreeConf struct {
	MaxDepth        int `yaml:"max_depth"`
	MinSamplesSplit int `yaml:"min_samples_split"`
}

// ForestConf holds random forest hyperparameters.
type ForestConf struct {
	Estimators int `yaml:"n_estimators"`
	MaxDepth   int `yaml:"max_depth"`
}

// NeighborConf holds k-nearest-neighbors hyperparameters.
type NeighborConf struct {
	Neighbors int `yaml:"neighbors"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Enabled  FlexBool `yaml:"enabled"`
	Host     string   `yaml:"host"`
	Port     int      `yaml:"port"`
	User     string   `yaml:"user"`
	Password string   `yaml:"-"` // Loaded from env
	Name     string   `yaml:"name"`
	SSLMode  string   `yaml:"sslmode"`
}

// URL builds a postgres connection string.
func (d DatabaseConfig) URL() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:   "/" + d.Name,
	}
	if d.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": {d.SSLMode}}.Encode()
	}
	return u.String()
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		LogLevel:   "info",
		ModelDir:   "models",
		UploadDir:  "uploads",
		ModelStore: "file",
		Server: ServerConfig{
			Addr:               ":5000",
			MaxUploadMB:        16,
			ReadTimeoutSeconds: 30,
		},
		Training: TrainingConfig{
			Seed:              42,
			TestRatio:         0.2,
			CVFolds:           5,
			MinRows:           25,
			OutlierZThreshold: 3,
			SynthesizeSleep:   true,
			SyntheticSleepMin: 6,
			SyntheticSleepMax: 8,
			DecisionTree:      TreeConf{MaxDepth: 10, MinSamplesSplit: 2},
			RandomForest:      ForestConf{Estimators: 100, MaxDepth: 10},
			KNN:               NeighborConf{Neighbors: 5},
		},
		Database: DatabaseConfig{
			Host:    "localhost",
			Port:    5432,
			User:    "fittrack",
			Name:    "fittrack",
			SSLMode: "disable",
		},
	}
}

// LoadConfig loads configuration from the specified YAML file path
// and environment variables. An empty path yields the defaults plus env.
func LoadConfig(configPath string) (*Config, error) {
	cfg := Default()

	if configPath != "" {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", configPath, err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load sensitive data and overrides from environment variables
func applyEnv(cfg *Config) {
	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if dir := os.Getenv("MODEL_DIR"); dir != "" {
		cfg.ModelDir = dir
	}
	if dir := os.Getenv("UPLOAD_DIR"); dir != "" {
		cfg.UploadDir = dir
	}
	if store := os.Getenv("MODEL_STORE"); store != "" {
		cfg.ModelStore = store
	}
	if addr := os.Getenv("SERVER_ADDR"); addr != "" {
		cfg.Server.Addr = addr
	}
	if dbHost := os.Getenv("DB_HOST"); dbHost != "" {
		cfg.Database.Host = dbHost
		cfg.Database.Enabled = true
	}
	if dbPort := os.Getenv("DB_PORT"); dbPort != "" {
		if p, err := strconv.Atoi(dbPort); err == nil {
			cfg.Database.Port = p
		}
	}
	if dbUser := os.Getenv("DB_USER"); dbUser != "" {
		cfg.Database.User = dbUser
	}
	if dbPassword := os.Getenv("DB_PASSWORD"); dbPassword != "" {
		cfg.Database.Password = dbPassword
	}
	if dbName := os.Getenv("DB_NAME"); dbName != "" {
		cfg.Database.Name = dbName
	}
	if sslMode := os.Getenv("DB_SSLMODE"); sslMode != "" {
		cfg.Database.SSLMode = sslMode
	}
}

// Validate reports every invalid value at once.
func (c *Config) Validate() error {
	var err error
	t := c.Training
	if t.TestRatio <= 0 || t.TestRatio >= 1 {
		err = multierr.Append(err, fmt.Errorf("training.test_ratio must be in (0,1), got %v", t.TestRatio))
	}
	if t.CVFolds < 2 {
		err = multierr.Append(err, fmt.Errorf("training.cv_folds must be >= 2, got %d", t.CVFolds))
	}
	if t.MinRows < 1 {
		err = multierr.Append(err, fmt.Errorf("training.min_rows must be positive, got %d", t.MinRows))
	}
	if t.OutlierZThreshold <= 0 {
		err = multierr.Append(err, fmt.Errorf("training.outlier_z_threshold must be positive, got %v", t.OutlierZThreshold))
	}
	if t.SyntheticSleepMin < 0 || t.SyntheticSleepMax < t.SyntheticSleepMin {
		err = multierr.Append(err, fmt.Errorf("training.synthetic_sleep range [%d,%d] is invalid", t.SyntheticSleepMin, t.SyntheticSleepMax))
	}
	if t.DecisionTree.MaxDepth < 1 || t.RandomForest.MaxDepth < 1 {
		err = multierr.Append(err, errors.New("tree max_depth must be >= 1"))
	}
	if t.RandomForest.Estimators < 1 {
		err = multierr.Append(err, fmt.Errorf("training.random_forest.n_estimators must be >= 1, got %d", t.RandomForest.Estimators))
	}
	if t.KNN.Neighbors < 1 {
		err = multierr.Append(err, fmt.Errorf("training.knn.neighbors must be >= 1, got %d", t.KNN.Neighbors))
	}
	switch c.ModelStore {
	case "file", "postgres":
	default:
		err = multierr.Append(err, fmt.Errorf("model_store must be \"file\" or \"postgres\", got %q", c.ModelStore))
	}
	if c.ModelStore == "postgres" && !bool(c.Database.Enabled) {
		err = multierr.Append(err, errors.New("model_store \"postgres\" requires database.enabled"))
	}
	if c.Server.MaxUploadMB <= 0 {
		err = multierr.Append(err, fmt.Errorf("server.max_upload_mb must be positive, got %d", c.Server.MaxUploadMB))
	}
	return err
}
