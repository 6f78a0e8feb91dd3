// Package config handles configuration for the albumdb server,
// including defaults, JSON overlay, and command-line flags, plus the
// encrypted cluster-secret store.
package config

import "time"

// Config holds runtime settings for the albumdb persistence layer.
//
// Collection names are explicit configuration rather than scattered
// constants so deployments can shard or rename collections without code
// changes. Post collections have no entry here: they are created per
// channel and named by the channel document.
type Config struct {
	SecretPath string
	Database   string

	AuthCollection     string
	MediaCollection    string
	ChannelCollection  string
	ProfileCollection  string
	RelationCollection string
	AlbumCollection    string

	SecretKey                   string
	AccessTokenValidityDuration time.Duration

	// OperationTimeout bounds every cluster round trip (connect, insert,
	// queries). Exceeding it surfaces as ErrorTimeout.
	OperationTimeout time.Duration

	S3RootUser     string
	S3RootPassword string
	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
}

// LoadDefaults populates Config with development defaults.
// NOTE: SecretKey and the S3 credentials are insecure for production and
// should be overridden.
func (c *Config) LoadDefaults() {
	c.SecretPath = "mdb_cluster.json"
	c.Database = "album"
	c.AuthCollection = "authentication"
	c.MediaCollection = "media"
	c.ChannelCollection = "channels"
	c.ProfileCollection = "profiles"
	c.RelationCollection = "relationship"
	c.AlbumCollection = "album"
	c.SecretKey = "secretKey"
	c.AccessTokenValidityDuration = 15 * time.Minute
	c.OperationTimeout = 10 * time.Second
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = "album-media"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
