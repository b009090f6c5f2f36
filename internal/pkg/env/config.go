package env

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// values holds the variables read from the .env file. The process environment
// serves as a fallback so containerized runs need no file at all for
// overrides.
var values map[string]string

// SetupEnvFile loads the nearest .env file. The extra relative paths cover
// tools started from cmd/ subdirectories. No file at all is startup-fatal.
func SetupEnvFile() {
	for _, path := range []string{".env", "../../.env", "../../../.env"} {
		if parsed, err := godotenv.Read(path); err == nil {
			values = parsed
			return
		}
	}

	panic("No .env file found in any of the expected locations")
}

// GetEnv returns the configured value for key, or def when it is set nowhere.
func GetEnv(key, def string) string {
	if val, ok := values[key]; ok {
		return val
	}
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// Config holds the startup configuration. It is resolved once during boot and
// treated as read-only afterwards.
type Config struct {
	BackendURL     string `validate:"required,url"`
	BackendSiteURL string `validate:"required,url"`
	PublicSiteURL  string `validate:"required,url"`
	DeploymentID   string `validate:"required"`

	StorageEndpoint  string `validate:"required,url"`
	StorageBucket    string `validate:"required"`
	StorageRegion    string `validate:"required"`
	StorageAccessKey string `validate:"required"`
	StorageSecretKey string `validate:"required"`
}

const (
	backendURLSuffix     = ".cloud"
	backendSiteURLSuffix = ".site"
)

// LoadConfig reads the configuration from the environment and validates it.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		BackendURL:     GetEnv("BACKEND_URL", ""),
		BackendSiteURL: GetEnv("BACKEND_SITE_URL", ""),
		PublicSiteURL:  GetEnv("PUBLIC_SITE_URL", ""),
		DeploymentID:   GetEnv("DEPLOYMENT_ID", ""),

		StorageEndpoint:  GetEnv("S3_ENDPOINT", ""),
		StorageBucket:    GetEnv("S3_BUCKET", ""),
		StorageRegion:    GetEnv("S3_REGION", "us-east-1"),
		StorageAccessKey: GetEnv("S3_ACCESS_KEY_ID", ""),
		StorageSecretKey: GetEnv("S3_SECRET_ACCESS_KEY", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// MustLoadConfig is LoadConfig for the boot path: any problem is fatal.
func MustLoadConfig() *Config {
	cfg, err := LoadConfig()
	if err != nil {
		panic(fmt.Sprintf("invalid configuration: %v", err))
	}
	return cfg
}

// Validate checks field shape plus the backend URL pairing rule: both URLs
// must point at the same deployment and differ only in their fixed suffix.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return err
	}

	if !strings.HasSuffix(c.BackendURL, backendURLSuffix) {
		return fmt.Errorf("BACKEND_URL must end in %q", backendURLSuffix)
	}
	if !strings.HasSuffix(c.BackendSiteURL, backendSiteURLSuffix) {
		return fmt.Errorf("BACKEND_SITE_URL must end in %q", backendSiteURLSuffix)
	}
	base := strings.TrimSuffix(c.BackendURL, backendURLSuffix)
	site := strings.TrimSuffix(c.BackendSiteURL, backendSiteURLSuffix)
	if base != site {
		return fmt.Errorf("BACKEND_URL and BACKEND_SITE_URL must share a common prefix, got %q and %q", c.BackendURL, c.BackendSiteURL)
	}

	return nil
}
