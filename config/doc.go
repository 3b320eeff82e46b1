// Package config loads service configuration with Viper.
//
// A service's config.yml is looked up under cmd/<service>/, then config/ and
// the working directory. A .env file next to it is loaded with godotenv, and
// environment variables override both (SERVER_PORT maps to server.port).
package config
