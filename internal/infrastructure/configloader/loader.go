package configloader

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// ServerConfig holds server-specific configurations.
type ServerConfig struct {
	Port         string `yaml:"port"`
	ReadTimeout  int    `yaml:"readTimeout"`
	WriteTimeout int    `yaml:"writeTimeout"`
	IdleTimeout  int    `yaml:"idleTimeout"`
}

// LoggingConfig holds the configuration for logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // e.g., "debug", "info", "warn", "error"
	File  string `yaml:"file"`
}

// BalanceAPIConfig holds the configuration for the balance service client.
type BalanceAPIConfig struct {
	BaseURL              string `yaml:"baseURL"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
}

// RatesAPIConfig holds the configuration for the spot/historical rate client.
type RatesAPIConfig struct {
	BaseURL                  string `yaml:"baseURL"`
	RequestTimeoutMillis     int64  `yaml:"requestTimeoutMillis"`
	MaxAssetsPerBatchRequest int    `yaml:"maxAssetsPerBatchRequest"`
	CacheTTLMinutes          int    `yaml:"cacheTTLMinutes"`
	CacheCleanupMinutes      int    `yaml:"cacheCleanupMinutes"`
}

// NetworkNodeConfig holds the chain RPC endpoint for one currency.
type NetworkNodeConfig struct {
	CurrencyID string `yaml:"currencyId"` // e.g., "ethereum"
	Name       string `yaml:"name"`
	ChainID    int64  `yaml:"chainID"`
	RPCURL     string `yaml:"rpcURL"`
}

// RPCClientConfig holds configuration for chain RPC clients.
type RPCClientConfig struct {
	CallTimeoutSeconds       int `yaml:"callTimeoutSeconds"`
	ConnectionTimeoutSeconds int `yaml:"connectionTimeoutSeconds"`
	RateLimit                int `yaml:"rateLimit"`
	BurstLimit               int `yaml:"burstLimit"`
}

// PerformanceConfig holds performance-related configurations.
type PerformanceConfig struct {
	MaxConcurrentRoutines int `yaml:"max_concurrent_routines"`
}

// FiatConfig holds fiat valuation settings.
type FiatConfig struct {
	TargetCurrency string `yaml:"targetCurrency"`
}

// AccountTokenConfig declares a token tracked on a configured account.
type AccountTokenConfig struct {
	LedgerID string `yaml:"ledgerId"`
	Ticker   string `yaml:"ticker"`
	Name     string `yaml:"name"`
}

// AccountConfig declares one account known to the directory at startup.
type AccountConfig struct {
	ID             string               `yaml:"id"`
	CurrencyID     string               `yaml:"currencyId"`
	DerivationPath string               `yaml:"derivationPath"`
	Address        string               `yaml:"address"`
	Name           string               `yaml:"name"`
	Ticker         string               `yaml:"ticker"`
	Tokens         []AccountTokenConfig `yaml:"tokens"`
}

// SwaggerConfig holds configuration for Swagger UI.
type SwaggerConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Config is the top-level configuration structure.
type Config struct {
	Server      ServerConfig        `yaml:"server"`
	Logging     LoggingConfig       `yaml:"logging"`
	BalanceAPI  BalanceAPIConfig    `yaml:"balanceAPI"`
	RatesAPI    RatesAPIConfig      `yaml:"ratesAPI"`
	Networks    []NetworkNodeConfig `yaml:"networks"`
	RPCClient   RPCClientConfig     `yaml:"rpcClient"`
	Performance PerformanceConfig   `yaml:"performance"`
	Fiat        FiatConfig          `yaml:"fiat"`
	Accounts    []AccountConfig     `yaml:"accounts"`
	Swagger     SwaggerConfig       `yaml:"swagger"`
}

// Load reads the YAML configuration file from the given path, unmarshals it
// and applies defaults for anything left unset.
func Load(path string) (*Config, error) {
	logrus.Infof("Loading configuration from path: %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
	}

	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}

	if cfg.BalanceAPI.RequestTimeoutMillis <= 0 {
		cfg.BalanceAPI.RequestTimeoutMillis = 10000
		logrus.Infof("BalanceAPI.RequestTimeoutMillis not set, defaulting to %d ms", cfg.BalanceAPI.RequestTimeoutMillis)
	}

	if cfg.RatesAPI.RequestTimeoutMillis <= 0 {
		cfg.RatesAPI.RequestTimeoutMillis = 10000
		logrus.Infof("RatesAPI.RequestTimeoutMillis not set, defaulting to %d ms", cfg.RatesAPI.RequestTimeoutMillis)
	}
	if cfg.RatesAPI.MaxAssetsPerBatchRequest <= 0 {
		cfg.RatesAPI.MaxAssetsPerBatchRequest = 30
		logrus.Infof("RatesAPI.MaxAssetsPerBatchRequest not set, defaulting to %d", cfg.RatesAPI.MaxAssetsPerBatchRequest)
	}
	if cfg.RatesAPI.CacheTTLMinutes <= 0 {
		cfg.RatesAPI.CacheTTLMinutes = 5
	}
	if cfg.RatesAPI.CacheCleanupMinutes <= 0 {
		cfg.RatesAPI.CacheCleanupMinutes = 10
	}

	if cfg.RPCClient.CallTimeoutSeconds <= 0 {
		cfg.RPCClient.CallTimeoutSeconds = 10
	}
	if cfg.RPCClient.ConnectionTimeoutSeconds <= 0 {
		cfg.RPCClient.ConnectionTimeoutSeconds = 10
	}
	if cfg.RPCClient.RateLimit <= 0 {
		cfg.RPCClient.RateLimit = 20
	}
	if cfg.RPCClient.BurstLimit <= 0 {
		cfg.RPCClient.BurstLimit = cfg.RPCClient.RateLimit
	}

	if cfg.Performance.MaxConcurrentRoutines <= 0 {
		cfg.Performance.MaxConcurrentRoutines = 10
		logrus.Infof("Performance.MaxConcurrentRoutines not set, defaulting to %d", cfg.Performance.MaxConcurrentRoutines)
	}

	if cfg.Fiat.TargetCurrency == "" {
		cfg.Fiat.TargetCurrency = "USD"
	}

	for _, network := range cfg.Networks {
		if network.CurrencyID == "" || network.RPCURL == "" {
			logrus.Warnf("Network entry %q is missing currencyId or rpcURL; the RPC fallback for it will fail", network.Name)
		}
	}

	logrus.Info("Configuration loaded successfully.")
	return &cfg, nil
}
