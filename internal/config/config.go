package config

import (
	"flag"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Значения по умолчанию.
const (
	DefaultBaseURL           = "localhost:7071"
	DefaultHTTPTimeout       = 15 * time.Second
	DefaultUploadConcurrency = 1
	DefaultListenAddr        = "localhost:8090"
	DefaultLogLevel          = "info"
)

type Config struct {
	// Backend
	BaseURL     string        `env:"API_BASE_URL"`
	EnableHTTPS bool          `env:"ENABLE_HTTPS"`
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT"`
	ServerURL   string        `env:"-"`

	// Client-side settings
	ClientDBPath      string   `env:"CLIENT_DB_PATH"`
	SettingsFile      string   `env:"SETTINGS_FILE"`
	UploadConcurrency int      `env:"UPLOAD_CONCURRENCY"`
	DefaultApps       []string `env:"DEFAULT_APPS" envSeparator:","`
	LogLevel          string   `env:"LOG_LEVEL"`

	// Presentation API (ilcli serve)
	ListenAddr string `env:"LISTEN_ADDR"`

	// Export to S3-compatible storage
	S3Endpoint  string `env:"EXPORT_S3_ENDPOINT"`
	S3AccessKey string `env:"EXPORT_S3_ACCESS_KEY"`
	S3SecretKey string `env:"EXPORT_S3_SECRET_KEY"`
	S3Bucket    string `env:"EXPORT_S3_BUCKET"`
	S3UseSSL    bool   `env:"EXPORT_S3_USE_SSL"`

	Version bool `env:"-"` // show client version and exit (flag only)
}

var hostPortRe = regexp.MustCompile(`^[A-Za-z0-9\.\-]+:\d{1,5}$`)

func NewConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	_ = env.Parse(cfg)

	// флаги по умолчанию берут значения из env и переопределяют их, если заданы
	apps := strings.Join(cfg.DefaultApps, ",")
	flag.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "backend address (host:port or full URL)")
	flag.BoolVar(&cfg.EnableHTTPS, "https", cfg.EnableHTTPS, "use https scheme for host:port base URL")
	flag.DurationVar(&cfg.HTTPTimeout, "timeout", cfg.HTTPTimeout, "HTTP timeout for backend calls")
	flag.StringVar(&cfg.ClientDBPath, "client-db", cfg.ClientDBPath, "directory of the local workspace DB")
	flag.StringVar(&cfg.SettingsFile, "settings", cfg.SettingsFile, "path to settings.yaml")
	flag.IntVar(&cfg.UploadConcurrency, "upload-concurrency", cfg.UploadConcurrency, "parallel uploads during sync")
	flag.StringVar(&apps, "apps", apps, "default applications for load (comma separated)")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug|info|warn|error")
	flag.StringVar(&cfg.ListenAddr, "listen", cfg.ListenAddr, "address of the local HTTP API (serve)")
	flag.StringVar(&cfg.S3Endpoint, "s3-endpoint", cfg.S3Endpoint, "S3 endpoint for export")
	flag.StringVar(&cfg.S3Bucket, "s3-bucket", cfg.S3Bucket, "S3 bucket for export")
	flag.BoolVar(&cfg.Version, "version", cfg.Version, "Show client version and exit")

	flag.Parse()

	cfg.DefaultApps = SplitList(apps)
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	c.ServerURL = ServerURL(c.BaseURL, c.EnableHTTPS)
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = DefaultHTTPTimeout
	}
	if c.UploadConcurrency < 1 {
		c.UploadConcurrency = DefaultUploadConcurrency
	}
	if c.ListenAddr == "" {
		c.ListenAddr = DefaultListenAddr
	}
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.DefaultApps == nil {
		c.DefaultApps = []string{}
	}
}

// ServerURL builds the backend URL. A full http(s) URL is used as is (without the
// trailing slash); host:port gets a scheme; anything else falls back to the default.
func ServerURL(base string, https bool) string {
	base = strings.TrimSpace(base)
	if strings.HasPrefix(base, "http://") || strings.HasPrefix(base, "https://") {
		if u, err := url.Parse(base); err == nil && u.Host != "" {
			return strings.TrimRight(base, "/")
		}
		base = ""
	}
	if !hostPortRe.MatchString(base) {
		base = DefaultBaseURL
	}
	if https {
		return "https://" + base
	}
	return "http://" + base
}

// SplitList splits a comma separated list, dropping blanks.
func SplitList(s string) []string {
	out := []string{}
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
