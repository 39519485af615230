// Package config loads the gateway configuration once at process start.
//
// Sources are applied in order: an optional .env file, an optional YAML file,
// then environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

const (
	ServiceAuth     = "auth"
	ServiceProduct  = "product"
	ServiceOrder    = "order"
	ServiceCategory = "category"
	ServiceCoupon   = "coupon"
)

// ServiceNames lists the downstream services in a stable order.
var ServiceNames = []string{ServiceAuth, ServiceProduct, ServiceOrder, ServiceCategory, ServiceCoupon}

type Config struct {
	Port               string    `yaml:"port"`
	Services           Services  `yaml:"services"`
	UpstreamTimeout    Duration  `yaml:"upstreamTimeout"`
	CORSAllowedOrigins []string  `yaml:"corsAllowedOrigins"`
	JWTSecret          string    `yaml:"jwtSecret"`
	RateLimit          RateLimit `yaml:"rateLimit"`
	Log                Log       `yaml:"log"`
	Playground         bool      `yaml:"playground"`
}

type Services struct {
	Auth     string `yaml:"auth"`
	Product  string `yaml:"product"`
	Order    string `yaml:"order"`
	Category string `yaml:"category"`
	Coupon   string `yaml:"coupon"`
}

// URL returns the base URL configured for the named service.
func (s Services) URL(name string) string {
	switch name {
	case ServiceAuth:
		return s.Auth
	case ServiceProduct:
		return s.Product
	case ServiceOrder:
		return s.Order
	case ServiceCategory:
		return s.Category
	case ServiceCoupon:
		return s.Coupon
	}
	return ""
}

type RateLimit struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type Log struct {
	Format    string `yaml:"format"`
	Verbosity int    `yaml:"verbosity"`
}

// Duration accepts Go duration strings ("10s") in YAML.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(b []byte) error {
	var s string
	if err := yaml.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func Default() *Config {
	return &Config{
		Port: "4000",
		Services: Services{
			Auth:     "http://localhost:5001",
			Product:  "http://localhost:5002",
			Order:    "http://localhost:5003",
			Category: "http://localhost:5004",
			Coupon:   "http://localhost:5005",
		},
		UpstreamTimeout:    Duration(10 * time.Second),
		CORSAllowedOrigins: []string{"http://localhost:3000", "http://localhost:3001"},
		RateLimit:          RateLimit{Burst: 20},
		Log:                Log{Format: "text"},
		Playground:         true,
	}
}

// Load builds the configuration. envFile and yamlFile are optional; a missing
// .env file is ignored but a missing YAML file given explicitly is an error.
func Load(envFile, yamlFile string) (*Config, error) {
	if envFile != "" {
		err := godotenv.Load(envFile)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	cfg := Default()

	if yamlFile != "" {
		b, err := os.ReadFile(yamlFile)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		err = yaml.Unmarshal(b, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", yamlFile, err)
		}
	}

	err := applyEnv(cfg, os.LookupEnv)
	if err != nil {
		return nil, err
	}

	err = cfg.Validate()
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

type lookupFunc func(key string) (string, bool)

func applyEnv(cfg *Config, lookup lookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}

	str("PORT", &cfg.Port)
	str("AUTH_SERVICE_URL", &cfg.Services.Auth)
	str("PRODUCT_SERVICE_URL", &cfg.Services.Product)
	str("ORDER_SERVICE_URL", &cfg.Services.Order)
	str("CATEGORY_SERVICE_URL", &cfg.Services.Category)
	str("COUPON_SERVICE_URL", &cfg.Services.Coupon)
	str("JWT_SECRET", &cfg.JWTSecret)
	str("LOG_FORMAT", &cfg.Log.Format)

	if v, ok := lookup("UPSTREAM_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("UPSTREAM_TIMEOUT: %w", err)
		}
		cfg.UpstreamTimeout = Duration(d)
	}
	if v, ok := lookup("CORS_ALLOWED_ORIGINS"); ok && v != "" {
		cfg.CORSAllowedOrigins = splitCSV(v)
	}
	if v, ok := lookup("RATE_LIMIT_RPS"); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("RATE_LIMIT_RPS: %w", err)
		}
		cfg.RateLimit.RPS = f
	}
	if v, ok := lookup("RATE_LIMIT_BURST"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("RATE_LIMIT_BURST: %w", err)
		}
		cfg.RateLimit.Burst = n
	}
	if v, ok := lookup("LOG_VERBOSITY"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("LOG_VERBOSITY: %w", err)
		}
		cfg.Log.Verbosity = n
	}
	if v, ok := lookup("PLAYGROUND"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("PLAYGROUND: %w", err)
		}
		cfg.Playground = b
	}

	return nil
}

func (cfg *Config) Validate() error {
	if cfg.Port == "" {
		return errors.New("port is required")
	}
	for _, name := range ServiceNames {
		raw := cfg.Services.URL(name)
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("%s service url: %w", name, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
			return fmt.Errorf("%s service url must be an absolute http(s) url: %q", name, raw)
		}
	}
	if cfg.UpstreamTimeout <= 0 {
		return errors.New("upstream timeout must be positive")
	}
	if cfg.RateLimit.RPS < 0 || cfg.RateLimit.Burst < 0 {
		return errors.New("rate limit must not be negative")
	}
	return nil
}

// Addr is the listen address derived from Port.
func (cfg *Config) Addr() string {
	return ":" + cfg.Port
}

func splitCSV(s string) []string {
	var out []string
	for _, v := range strings.Split(s, ",") {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
