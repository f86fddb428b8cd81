package storage

// Config holds configuration for the storage provider.
type Config struct {
	// Endpoint is the URL of the storage service.
	Endpoint string `mapstructure:"endpoint" default:"localhost:9000"`
	// AccessKey is the access key ID for authentication.
	AccessKey string `mapstructure:"access_key" default:""`
	// SecretKey is the secret access key for authentication.
	SecretKey string `mapstructure:"secret_key" default:""`
	// UseSSL indicates whether to use SSL/TLS for connections.
	UseSSL bool `mapstructure:"use_ssl" default:"false"`
	// Bucket is the name of the bucket to store objects in.
	Bucket string `mapstructure:"bucket" default:""`
	// Region is the location of the bucket (e.g., oss-cn-hangzhou).
	Region string `mapstructure:"region" default:""`
	// RootPath is an optional key prefix applied to every object.
	RootPath string `mapstructure:"root_path" default:""`
	// Host is an optional custom domain used to build public URLs.
	Host string `mapstructure:"host" default:""`
	// TimeoutSeconds is the connection timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}
