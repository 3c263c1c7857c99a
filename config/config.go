package config

import (
	"bytes"
	"fmt"

	"github.com/juanpablosotoc/zartex/internal/types"
	"github.com/spf13/viper"
)

// RenditionSize is one named resize bound. The order of Config.ImageSizes
// is the order renditions are produced and stored in.
type RenditionSize struct {
	Label     string `mapstructure:"label"`
	MaxWidth  int    `mapstructure:"max_width"`
	MaxHeight int    `mapstructure:"max_height"`
}

// RequiredSizeLabels are the rendition labels every committed image record
// stores a URL for. Config.ImageSizes must cover all of them.
var RequiredSizeLabels = []string{"small", "medium", "large"}

type Options struct {
	AllowedIPAddresses []string `mapstructure:"allowed_ip_addresses"`
	DefaultUserAgent   string   `mapstructure:"default_user_agent"`
	EnableHealth       bool     `mapstructure:"enable_health"`
	EnableStats        bool     `mapstructure:"enable_stats"`
}

type Config struct {
	Debug       bool
	Port        int
	DatabaseDSN string `mapstructure:"database_dsn"`

	// SecretKey signs access tokens. When empty, JWTSecretName is resolved
	// through Secrets Manager at startup instead.
	SecretKey       string `mapstructure:"secret_key"`
	JWTSecretName   string `mapstructure:"jwt_secret_name"`
	TokenTTLMinutes int    `mapstructure:"token_ttl_minutes"`

	AWSRegion  string `mapstructure:"aws_region"`
	BucketName string `mapstructure:"bucket_name"`
	QueueURL   string `mapstructure:"queue_url"`
	AuditTable string `mapstructure:"audit_table"`

	// Static credentials and base endpoint for S3-compatible backends
	// (MinIO in development). All empty in production, where the default
	// credential chain applies.
	AWSAccessKeyID     string `mapstructure:"aws_access_key_id"`
	AWSSecretAccessKey string `mapstructure:"aws_secret_access_key"`
	S3BaseEndpoint     string `mapstructure:"s3_base_endpoint"`

	MaxFileSize        int64           `mapstructure:"max_file_size"`
	MaxImageDimension  int             `mapstructure:"max_image_dimension"`
	AllowedExtensions  []string        `mapstructure:"allowed_extensions"`
	ImageSizes         []RenditionSize `mapstructure:"image_sizes"`
	BlobTimeoutSeconds int             `mapstructure:"blob_timeout_seconds"`

	AllowedHeaders []string `mapstructure:"allowed_headers"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	Options        *Options
}

func DefaultConfig() *Config {
	return &Config{
		Port:              DefaultPort,
		TokenTTLMinutes:   DefaultTokenTTLMinutes,
		MaxFileSize:       DefaultMaxFileSize,
		MaxImageDimension: DefaultMaxImageDimension,
		AllowedExtensions: []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".heic", ".heif"},
		ImageSizes: []RenditionSize{
			{Label: "small", MaxWidth: 300, MaxHeight: 300},
			{Label: "medium", MaxWidth: 600, MaxHeight: 600},
			{Label: "large", MaxWidth: 1200, MaxHeight: 1200},
		},
		BlobTimeoutSeconds: DefaultBlobCallTimeoutSeconds,
		Options: &Options{
			DefaultUserAgent: fmt.Sprint(DefaultUserAgent, "/", "0.1.0"),
		},
	}
}

// Validate rejects configurations that cannot serve traffic. These are
// fatal at startup, never per-request.
func (c *Config) Validate() error {
	if c.AWSRegion == "" {
		return types.ConfigurationError("aws_region not set")
	}
	if c.BucketName == "" {
		return types.ConfigurationError("bucket_name not set")
	}
	if c.DatabaseDSN == "" {
		return types.ConfigurationError("database_dsn not set")
	}
	if c.SecretKey == "" && c.JWTSecretName == "" {
		return types.ConfigurationError("neither secret_key nor jwt_secret_name set")
	}
	if len(c.ImageSizes) == 0 {
		return types.ConfigurationError("image_sizes is empty")
	}
	labels := make(map[string]bool, len(c.ImageSizes))
	for _, size := range c.ImageSizes {
		labels[size.Label] = true
	}
	for _, required := range RequiredSizeLabels {
		if !labels[required] {
			return types.ConfigurationError(fmt.Sprintf("image_sizes missing the %q rendition", required))
		}
	}
	return nil
}

func load(content string, isPath bool) (*Config, error) {
	config := &Config{}

	defaultConfig := DefaultConfig()

	viper.SetDefault("options", defaultConfig.Options)
	viper.SetDefault("port", defaultConfig.Port)
	viper.SetDefault("token_ttl_minutes", defaultConfig.TokenTTLMinutes)
	viper.SetDefault("max_file_size", defaultConfig.MaxFileSize)
	viper.SetDefault("max_image_dimension", defaultConfig.MaxImageDimension)
	viper.SetDefault("allowed_extensions", defaultConfig.AllowedExtensions)
	viper.SetDefault("image_sizes", defaultConfig.ImageSizes)
	viper.SetDefault("blob_timeout_seconds", defaultConfig.BlobTimeoutSeconds)
	viper.SetEnvPrefix("zartex")
	viper.AutomaticEnv()

	var err error

	if isPath {
		viper.SetConfigFile(content)
		err = viper.ReadInConfig()
		if err != nil {
			return nil, err
		}
	} else {
		viper.SetConfigType("json")
		err = viper.ReadConfig(bytes.NewBuffer([]byte(content)))
		if err != nil {
			return nil, err
		}
	}

	err = viper.Unmarshal(&config)
	if err != nil {
		return nil, err
	}

	return config, nil
}

// Load reads configuration from the file at path, overlaid with
// ZARTEX_-prefixed environment variables.
func Load(path string) (*Config, error) {
	return load(path, true)
}

// LoadJSON parses configuration from a raw JSON document. Used in tests.
func LoadJSON(content string) (*Config, error) {
	return load(content, false)
}
