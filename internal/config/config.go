package config

import (
	"errors"
	"fmt"
	"net/netip"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// SeedUser is an account created at startup from SEED_USERS.
type SeedUser struct {
	Username string
	Password string
	Role     string
}

type Config struct {
	Port       string
	JwtSecret  string
	ProfileKey string
	DbURL      string

	TokenTTL         time.Duration
	LoginWindow      time.Duration
	LoginMaxAttempts int
	HashWorkers      int
	BcryptCost       int

	RateLimitPerMinute int

	TLSCertFile string
	TLSKeyFile  string

	LogLevel  string
	LogFormat string

	SeedUsers []SeedUser

	// TrustedProxies are the peers whose X-Forwarded-For/X-Real-IP headers are honoured.
	TrustedProxies []netip.Prefix
}

// TLSEnabled reports whether both a certificate and a key were configured.
func (c *Config) TLSEnabled() bool {
	return c.TLSCertFile != "" && c.TLSKeyFile != ""
}

// Load reads the configuration from a .env file or environment variables and returns a Config struct.
// It returns an error if a required variable is missing or a value cannot be parsed.
// Secret values are never included in the returned error.
func Load() (*Config, error) {
	// Try to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	var errs []error

	cfg := &Config{
		Port:        getEnv("PORT", "3571"),
		JwtSecret:   os.Getenv("JWT_SECRET"),
		ProfileKey:  os.Getenv("PROFILE_ENCRYPTION_KEY"),
		DbURL:       os.Getenv("DATABASE_URL"),
		TLSCertFile: os.Getenv("TLS_CERT_FILE"),
		TLSKeyFile:  os.Getenv("TLS_KEY_FILE"),
		LogLevel:    strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat:   strings.ToLower(getEnv("LOG_FORMAT", "json")),
	}

	if cfg.JwtSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if cfg.ProfileKey == "" {
		errs = append(errs, errors.New("PROFILE_ENCRYPTION_KEY is required"))
	}
	if cfg.JwtSecret != "" && cfg.JwtSecret == cfg.ProfileKey {
		errs = append(errs, errors.New("JWT_SECRET and PROFILE_ENCRYPTION_KEY must differ"))
	}

	var err error
	if cfg.TokenTTL, err = getEnvAsDuration("TOKEN_TTL", time.Hour); err != nil {
		errs = append(errs, err)
	}
	if cfg.LoginWindow, err = getEnvAsDuration("LOGIN_WINDOW", 15*time.Minute); err != nil {
		errs = append(errs, err)
	}
	if cfg.LoginMaxAttempts, err = getEnvAsInt("LOGIN_MAX_ATTEMPTS", 5); err != nil {
		errs = append(errs, err)
	}
	if cfg.HashWorkers, err = getEnvAsInt("HASH_WORKERS", runtime.NumCPU()); err != nil {
		errs = append(errs, err)
	}
	if cfg.BcryptCost, err = getEnvAsInt("BCRYPT_COST", 12); err != nil {
		errs = append(errs, err)
	}
	if cfg.RateLimitPerMinute, err = getEnvAsInt("RATE_LIMIT_PER_MINUTE", 100); err != nil {
		errs = append(errs, err)
	}
	if cfg.SeedUsers, err = parseSeedUsers(os.Getenv("SEED_USERS")); err != nil {
		errs = append(errs, err)
	}
	if cfg.TrustedProxies, err = parseTrustedProxies(os.Getenv("TRUSTED_PROXIES")); err != nil {
		errs = append(errs, err)
	}

	if cfg.TokenTTL <= 0 {
		errs = append(errs, fmt.Errorf("TOKEN_TTL must be positive, got %s", cfg.TokenTTL))
	}
	if cfg.LoginWindow <= 0 {
		errs = append(errs, fmt.Errorf("LOGIN_WINDOW must be positive, got %s", cfg.LoginWindow))
	}
	if cfg.LoginMaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("LOGIN_MAX_ATTEMPTS must be at least 1, got %d", cfg.LoginMaxAttempts))
	}
	if cfg.HashWorkers < 1 {
		errs = append(errs, fmt.Errorf("HASH_WORKERS must be at least 1, got %d", cfg.HashWorkers))
	}
	if (cfg.TLSCertFile == "") != (cfg.TLSKeyFile == "") {
		errs = append(errs, errors.New("TLS_CERT_FILE and TLS_KEY_FILE must be set together"))
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %q", key, v)
	}
	return n, nil
}

func getEnvAsDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration such as 15m: %q", key, v)
	}
	return d, nil
}

// parseSeedUsers reads "user:password:role" entries separated by commas.
func parseSeedUsers(raw string) ([]SeedUser, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	var users []SeedUser
	for i, entry := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(entry), ":", 3)
		if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
			return nil, fmt.Errorf("SEED_USERS entry %d must look like user:password:role", i+1)
		}
		users = append(users, SeedUser{Username: parts[0], Password: parts[1], Role: parts[2]})
	}
	return users, nil
}

// parseTrustedProxies reads comma-separated IPs or CIDR prefixes.
func parseTrustedProxies(raw string) ([]netip.Prefix, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	var prefixes []netip.Prefix
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if strings.Contains(entry, "/") {
			prefix, err := netip.ParsePrefix(entry)
			if err != nil {
				return nil, fmt.Errorf("TRUSTED_PROXIES entry %q is not a valid CIDR", entry)
			}
			prefixes = append(prefixes, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, fmt.Errorf("TRUSTED_PROXIES entry %q is not a valid IP", entry)
		}
		prefixes = append(prefixes, netip.PrefixFrom(addr.Unmap(), addr.Unmap().BitLen()))
	}
	return prefixes, nil
}
