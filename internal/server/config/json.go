package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/healthkeeper/internal/flagx"
	"github.com/dmitrijs2005/healthkeeper/internal/timex"
)

// JsonConfig is the on-disk shape of the JSON configuration file. Durations
// accept strings such as "24h" as well as integer nanoseconds. Fields left
// out of the file keep their previous value.
type JsonConfig struct {
	HTTPAddr        *string         `json:"http_addr"`
	GRPCAddr        *string         `json:"grpc_addr"`
	DataDir         *string         `json:"data_dir"`
	UploadDir       *string         `json:"upload_dir"`
	Storage         *string         `json:"storage"`
	DatabaseDSN     *string         `json:"database_dsn"`
	Blob            *string         `json:"blob"`
	SecretKey       *string         `json:"secret_key"`
	SessionValidity *timex.Duration `json:"session_validity"`
	MaxUploadSize   *int64          `json:"max_upload_size"`
	SecureCookie    *bool           `json:"secure_cookie"`
	LoginRate       *float64        `json:"login_rate"`
	LoginBurst      *int            `json:"login_burst"`
	LogLevel        *string         `json:"log_level"`
	S3RootUser      *string         `json:"s3_root_user"`
	S3RootPassword  *string         `json:"s3_root_password"`
	S3Bucket        *string         `json:"s3_bucket"`
	S3Region        *string         `json:"s3_region"`
	S3BaseEndpoint  *string         `json:"s3_base_endpoint"`
	S3Prefix        *string         `json:"s3_prefix"`
}

// parseJson overlays the file named by -c or -config onto config. Without
// either flag nothing is loaded.
func parseJson(config *Config, args []string) error {
	jsonConfigFile := flagx.ConfigFileFlag(args)
	if jsonConfigFile == "" {
		return nil
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		return err
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return err
	}

	set(&config.HTTPAddr, c.HTTPAddr)
	set(&config.GRPCAddr, c.GRPCAddr)
	set(&config.DataDir, c.DataDir)
	set(&config.UploadDir, c.UploadDir)
	set(&config.Storage, c.Storage)
	set(&config.DatabaseDSN, c.DatabaseDSN)
	set(&config.Blob, c.Blob)
	set(&config.SecretKey, c.SecretKey)
	if c.SessionValidity != nil {
		config.SessionValidity = c.SessionValidity.Duration
	}
	set(&config.MaxUploadSize, c.MaxUploadSize)
	set(&config.SecureCookie, c.SecureCookie)
	set(&config.LoginRate, c.LoginRate)
	set(&config.LoginBurst, c.LoginBurst)
	set(&config.LogLevel, c.LogLevel)
	set(&config.S3RootUser, c.S3RootUser)
	set(&config.S3RootPassword, c.S3RootPassword)
	set(&config.S3Bucket, c.S3Bucket)
	set(&config.S3Region, c.S3Region)
	set(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	set(&config.S3Prefix, c.S3Prefix)

	return nil
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
