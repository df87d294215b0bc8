package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/healthkeeper/internal/flagx"
	"github.com/joho/godotenv"
)

const envPrefix = "HEALTHKEEPER_"

// parseEnv reads HEALTHKEEPER_* variables. A .env file (or the one named by
// -env) is loaded first when it exists; variables already present in the
// process environment win over the file.
func parseEnv(c *Config, args []string) error {
	envFile := flagx.EnvFileFlag(args, ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", envFile, err)
	}

	var errs []error
	str := func(name string, dst *string) {
		if v, ok := os.LookupEnv(envPrefix + name); ok {
			*dst = v
		}
	}
	dur := func(name string, dst *time.Duration) {
		if v, ok := os.LookupEnv(envPrefix + name); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", envPrefix, name, err))
				return
			}
			*dst = d
		}
	}

	str("HTTP_ADDR", &c.HTTPAddr)
	str("GRPC_ADDR", &c.GRPCAddr)
	str("DATA_DIR", &c.DataDir)
	str("UPLOAD_DIR", &c.UploadDir)
	str("STORAGE", &c.Storage)
	str("DATABASE_DSN", &c.DatabaseDSN)
	str("BLOB", &c.Blob)
	str("SECRET_KEY", &c.SecretKey)
	dur("SESSION_VALIDITY", &c.SessionValidity)
	str("LOG_LEVEL", &c.LogLevel)
	str("S3_ROOT_USER", &c.S3RootUser)
	str("S3_ROOT_PASSWORD", &c.S3RootPassword)
	str("S3_BUCKET", &c.S3Bucket)
	str("S3_REGION", &c.S3Region)
	str("S3_BASE_ENDPOINT", &c.S3BaseEndpoint)
	str("S3_PREFIX", &c.S3Prefix)

	if v, ok := os.LookupEnv(envPrefix + "MAX_UPLOAD_SIZE"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sMAX_UPLOAD_SIZE: %w", envPrefix, err))
		} else {
			c.MaxUploadSize = n
		}
	}
	if v, ok := os.LookupEnv(envPrefix + "SECURE_COOKIE"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sSECURE_COOKIE: %w", envPrefix, err))
		} else {
			c.SecureCookie = b
		}
	}

	return errors.Join(errs...)
}
