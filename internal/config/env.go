package config

import (
	"os"
	"time"
)

// parseEnv overlays Config fields from environment variables. Variables that
// are unset or empty leave the current value untouched. Duration variables
// accept time.ParseDuration syntax ("15m", "240h"); malformed values panic.
//
// Supported variables:
//
//	ADDRESS                  HTTP bind address
//	DATABASE_DSN             PostgreSQL DSN
//	CORS_ORIGIN              allowed CORS origin
//	ACCESS_TOKEN_SECRET      access token HMAC secret
//	REFRESH_TOKEN_SECRET     refresh token HMAC secret
//	ACCESS_TOKEN_EXPIRY      access token lifetime
//	REFRESH_TOKEN_EXPIRY     refresh token lifetime
//	S3_ROOT_USER             S3 credentials
//	S3_ROOT_PASSWORD         S3 credentials
//	S3_BUCKET                S3 bucket name
//	S3_REGION                S3 region
//	S3_BASE_ENDPOINT         S3 endpoint (e.g. a MinIO address)
func parseEnv(config *Config) {
	setString := func(dst *string, name string) {
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}
	setDuration := func(dst *time.Duration, name string) {
		if v := os.Getenv(name); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				panic(err)
			}
			*dst = d
		}
	}

	setString(&config.EndpointAddrHTTP, "ADDRESS")
	setString(&config.DatabaseDSN, "DATABASE_DSN")
	setString(&config.CORSOrigin, "CORS_ORIGIN")
	setString(&config.AccessTokenSecret, "ACCESS_TOKEN_SECRET")
	setString(&config.RefreshTokenSecret, "REFRESH_TOKEN_SECRET")
	setDuration(&config.AccessTokenValidityDuration, "ACCESS_TOKEN_EXPIRY")
	setDuration(&config.RefreshTokenValidityDuration, "REFRESH_TOKEN_EXPIRY")
	setString(&config.S3RootUser, "S3_ROOT_USER")
	setString(&config.S3RootPassword, "S3_ROOT_PASSWORD")
	setString(&config.S3Bucket, "S3_BUCKET")
	setString(&config.S3Region, "S3_REGION")
	setString(&config.S3BaseEndpoint, "S3_BASE_ENDPOINT")
}
