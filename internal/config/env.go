package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/zalando/go-keyring"
	"golang.org/x/term"
)

const keyringService = "domainswipe"

// Config contains all configuration parameters for the application.
// Note: the keystore password is prompted at runtime and stored in memory - use GetWalletPasswordBytes()
type Config struct {
	Port     string `envconfig:"PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	SolanaRPCURL   string `envconfig:"SOLANA_RPC_URL" default:"https://api.devnet.solana.com"`
	SolanaCluster  string `envconfig:"SOLANA_CLUSTER" default:"devnet"`
	MerchantWallet string `envconfig:"MERCHANT_WALLET" default:"5GpyR3My81ghaFANnJuTbK1qNjnhq8yFr8jXVnow39Rn"`

	RPCTimeout          time.Duration `envconfig:"RPC_TIMEOUT" default:"30s"`
	ConnectTimeout      time.Duration `envconfig:"CONNECT_TIMEOUT" default:"60s"`
	SignTimeout         time.Duration `envconfig:"SIGN_TIMEOUT" default:"2m"`
	ConfirmTimeout      time.Duration `envconfig:"CONFIRM_TIMEOUT" default:"60s"`
	ConfirmPollInterval time.Duration `envconfig:"CONFIRM_POLL_INTERVAL" default:"2s"`

	PriceAPIURL          string        `envconfig:"PRICE_API_URL" default:"https://api.coingecko.com/api/v3"`
	PriceRefreshInterval time.Duration `envconfig:"PRICE_REFRESH_INTERVAL" default:"5m"`
	PriceFetchTimeout    time.Duration `envconfig:"PRICE_FETCH_TIMEOUT" default:"10s"`
	FallbackSOLPrice     float64       `envconfig:"FALLBACK_SOL_PRICE" default:"100"`

	StorageDriver string `envconfig:"STORAGE_DRIVER" default:"sqlite"` // sqlite, redis or memory
	StoragePath   string `envconfig:"STORAGE_PATH" default:"./domainswipe.db"`
	RedisURL      string `envconfig:"REDIS_URL" default:"redis://localhost:6379/0"`

	MetricsEnabled bool `envconfig:"METRICS_ENABLED" default:"false"`

	// WalletFilePath points at the .cwt keystore served as the local injected wallet.
	WalletFilePath string `envconfig:"WALLET_FILE_PATH" default:"./wallet.cwt"`

	AppName string `envconfig:"APP_NAME" default:"DomainSwipe"`
	AppURI  string `envconfig:"APP_URI" default:"https://domainswipe.app"`
	AppIcon string `envconfig:"APP_ICON" default:"https://domainswipe.app/icon.png"`
}

// cfg is the global configuration instance
var cfg *Config

// Init loads configuration from environment variables.
// A .env file in the working directory is applied first when present.
func Init() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	c, err := Load()
	if err != nil {
		return err
	}
	cfg = c
	return nil
}

// Load reads the configuration from the environment without touching the global instance.
func Load() (*Config, error) {
	c := &Config{}
	if err := envconfig.Process("", c); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if c.FallbackSOLPrice <= 0 {
		return nil, errors.New("FALLBACK_SOL_PRICE must be positive")
	}
	if c.ConnectTimeout <= 0 || c.SignTimeout <= 0 || c.ConfirmTimeout <= 0 {
		return nil, errors.New("wallet timeouts must be positive")
	}
	switch c.StorageDriver {
	case "sqlite", "redis", "memory":
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	return c, nil
}

// Get returns the global configuration instance.
// Panics if Init() was not called.
func Get() *Config {
	if cfg == nil {
		panic("config not initialized, call Init() first")
	}
	return cfg
}

// GetPort returns port from configuration
func GetPort() string {
	return Get().Port
}

// GetSolanaRPCURL returns Solana RPC URL from configuration
func GetSolanaRPCURL() string {
	return Get().SolanaRPCURL
}

// GetWalletFilePath returns path to .cwt file from configuration
func GetWalletFilePath() string {
	return Get().WalletFilePath
}

var passwordBytes []byte

// PromptForPassword prompts the user for the wallet password in the terminal.
// The password is read without echoing (hidden input) and stored in memory.
// Call this at startup before the server begins handling requests.
func PromptForPassword() error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("stdin is not a terminal: run the app interactively to enter password")
	}
	fmt.Fprint(os.Stderr, "Enter wallet password: ")
	defer fmt.Fprintln(os.Stderr)

	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	if len(raw) == 0 {
		return errors.New("password cannot be empty")
	}

	SetPassword(raw)
	clear(raw)
	return nil
}

// SetPassword stores a copy of the password in memory.
func SetPassword(raw []byte) {
	clear(passwordBytes)
	passwordBytes = make([]byte, len(raw))
	copy(passwordBytes, raw)
}

// LoadPasswordFromKeyring loads the password remembered for the given wallet address.
// Returns false when the OS keyring holds nothing for it.
func LoadPasswordFromKeyring(address string) (bool, error) {
	secret, err := keyring.Get(keyringService, address)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read keyring: %w", err)
	}
	SetPassword([]byte(secret))
	return true, nil
}

// RememberPassword stores the in-memory password in the OS keyring for the given address.
func RememberPassword(address string) error {
	if len(passwordBytes) == 0 {
		return errors.New("password not set")
	}
	if err := keyring.Set(keyringService, address, string(passwordBytes)); err != nil {
		return fmt.Errorf("failed to write keyring: %w", err)
	}
	return nil
}

// GetWalletPasswordBytes returns the password stored in memory.
// Returns an error if the password was not set.
// Caller must zero the returned slice after use for security.
func GetWalletPasswordBytes() ([]byte, error) {
	if len(passwordBytes) == 0 {
		return nil, errors.New("password not set: call PromptForPassword at startup")
	}
	out := make([]byte, len(passwordBytes))
	copy(out, passwordBytes)
	return out, nil
}
