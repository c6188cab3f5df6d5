// Package config manages application configuration for the Feast API.
//
// The config package loads and validates configuration from environment
// variables, optionally layered over a TOML file. All configuration is
// centralized here to provide a single source of truth.
//
// # Configuration Loading
//
// Configuration is loaded with defaults, then an optional TOML file, then
// environment variables:
//
//	cfg, err := config.Load()
//
// Set CONFIG_FILE to the path of a TOML file to load file-based settings.
// Environment variables always win over the file.
//
// # Configuration Groups
//
// Configuration is organized into logical groups:
//
//   - ServerConfig: HTTP server settings (port, timeouts, CORS origins)
//   - DatabaseConfig: SurrealDB connection settings
//   - JWTConfig: JWT signing and validation settings
//   - RateLimitConfig: request rate limiting settings
//
// # Environment Variables
//
// Key environment variables:
//
//	SERVER_PORT          - HTTP server port (default: 8080)
//	SERVER_ENV           - development, production, or test
//	DB_HOST, DB_PORT     - SurrealDB address
//	DB_NAMESPACE, DB_DATABASE
//	DB_USER, DB_PASSWORD
//	JWT_PRIVATE_KEY_PATH - RSA private key for signing
//	JWT_PUBLIC_KEY_PATH  - RSA public key for validation
//	JWT_EXPIRATION_MINS  - access token lifetime in minutes
//	RATE_LIMIT_RATE      - requests per window
//	CONFIG_FILE          - optional TOML configuration file
package config
