package config

const (
	// DefaultPort is the default port of the application server
	DefaultPort = 4001

	// DefaultMaxFileSize caps uploaded image payloads (10 MiB)
	DefaultMaxFileSize = 10 * 1024 * 1024

	// DefaultMaxImageDimension caps decoded width/height in pixels
	DefaultMaxImageDimension = 5000

	// DefaultTokenTTLMinutes is the lifetime of issued access tokens
	DefaultTokenTTLMinutes = 60

	// DefaultBlobCallTimeoutSeconds bounds each object-store call
	DefaultBlobCallTimeoutSeconds = 30

	// DefaultUserAgent is the default user-agent header
	DefaultUserAgent = "zartex"
)
