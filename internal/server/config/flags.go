package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/healthkeeper/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-a string            HTTP bind address (e.g. ":5000")
//	-g string            gRPC bind address (e.g. ":50051")
//	-data string         data directory for the json storage
//	-uploads string      upload directory for local blobs
//	-storage string      json | postgres
//	-d string            PostgreSQL DSN
//	-blob string         local | s3
//	-s string            session signing key
//	-t duration          session validity (e.g. "24h")
//	-max-upload int      upload size limit in bytes
//	-secure-cookie       mark the session cookie Secure
//	-login-rate float    login attempts per second per client
//	-login-burst int     login burst per client
//	-log-level string    debug | info | warn | error
//	-s3-user, -s3-password, -s3-bucket, -s3-region, -s3-endpoint, -s3-prefix
//
// Arguments not listed here are filtered out with flagx.FilterArgs so that
// -c/-config and -env do not trip the parser.
func parseFlags(config *Config, args []string) error {
	names := []string{
		"a", "g", "data", "uploads", "storage", "d", "blob", "s", "t",
		"max-upload", "secure-cookie", "login-rate", "login-burst", "log-level",
		"s3-user", "s3-password", "s3-bucket", "s3-region", "s3-endpoint", "s3-prefix",
	}
	allowed := make([]string, 0, len(names))
	for _, n := range names {
		allowed = append(allowed, "-"+n)
	}
	args = flagx.FilterArgs(args, allowed)

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "HTTP address and port")
	fs.StringVar(&config.GRPCAddr, "g", config.GRPCAddr, "gRPC address and port")
	fs.StringVar(&config.DataDir, "data", config.DataDir, "data directory")
	fs.StringVar(&config.UploadDir, "uploads", config.UploadDir, "upload directory")
	fs.StringVar(&config.Storage, "storage", config.Storage, "storage backend (json|postgres)")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.Blob, "blob", config.Blob, "blob backend (local|s3)")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.DurationVar(&config.SessionValidity, "t", config.SessionValidity, "session validity")
	fs.Int64Var(&config.MaxUploadSize, "max-upload", config.MaxUploadSize, "max upload size in bytes")
	fs.BoolVar(&config.SecureCookie, "secure-cookie", config.SecureCookie, "secure session cookie")
	fs.Float64Var(&config.LoginRate, "login-rate", config.LoginRate, "login attempts per second")
	fs.IntVar(&config.LoginBurst, "login-burst", config.LoginBurst, "login burst")
	fs.StringVar(&config.LogLevel, "log-level", config.LogLevel, "log level")

	fs.StringVar(&config.S3RootUser, "s3-user", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "s3-password", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "s3-bucket", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "s3-region", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "s3-endpoint", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.S3Prefix, "s3-prefix", config.S3Prefix, "S3 key prefix")

	return fs.Parse(args)
}
