package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/zalbum/albumdb/internal/flagx"
)

// JsonConfig is an intermediate DTO used only for reading JSON configuration
// files. Durations are plain integers (minutes or seconds) so the file stays
// editable by hand. After unmarshalling, its fields are copied into the
// runtime Config struct.
type JsonConfig struct {
	SecretPath string `json:"secret_path"`
	Database   string `json:"database"`

	AuthCollection     string `json:"auth_collection"`
	MediaCollection    string `json:"media_collection"`
	ChannelCollection  string `json:"channel_collection"`
	ProfileCollection  string `json:"profile_collection"`
	RelationCollection string `json:"relation_collection"`
	AlbumCollection    string `json:"album_collection"`

	SecretKey                  string `json:"secret_key"`
	AccessTokenValidityMinutes int    `json:"access_token_validity_minutes"`
	OperationTimeoutSeconds    int    `json:"operation_timeout_seconds"`

	S3RootUser     string `json:"s3_root_user"`
	S3RootPassword string `json:"s3_root_password"`
	S3Bucket       string `json:"s3_bucket"`
	S3Region       string `json:"s3_region"`
	S3BaseEndpoint string `json:"s3_base_endpoint"`
}

// parseJson loads configuration values from the JSON file named by the
// -c or -config command-line flags into the provided Config. If no flag is
// set, nothing is loaded. Empty or zero JSON fields leave the current value
// untouched so the file only has to name what it overrides.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setIfNotEmpty(&config.SecretPath, c.SecretPath)
	setIfNotEmpty(&config.Database, c.Database)
	setIfNotEmpty(&config.AuthCollection, c.AuthCollection)
	setIfNotEmpty(&config.MediaCollection, c.MediaCollection)
	setIfNotEmpty(&config.ChannelCollection, c.ChannelCollection)
	setIfNotEmpty(&config.ProfileCollection, c.ProfileCollection)
	setIfNotEmpty(&config.RelationCollection, c.RelationCollection)
	setIfNotEmpty(&config.AlbumCollection, c.AlbumCollection)
	setIfNotEmpty(&config.SecretKey, c.SecretKey)
	if c.AccessTokenValidityMinutes > 0 {
		config.AccessTokenValidityDuration = time.Duration(c.AccessTokenValidityMinutes) * time.Minute
	}
	if c.OperationTimeoutSeconds > 0 {
		config.OperationTimeout = time.Duration(c.OperationTimeoutSeconds) * time.Second
	}
	setIfNotEmpty(&config.S3RootUser, c.S3RootUser)
	setIfNotEmpty(&config.S3RootPassword, c.S3RootPassword)
	setIfNotEmpty(&config.S3Bucket, c.S3Bucket)
	setIfNotEmpty(&config.S3Region, c.S3Region)
	setIfNotEmpty(&config.S3BaseEndpoint, c.S3BaseEndpoint)
}

func setIfNotEmpty(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
