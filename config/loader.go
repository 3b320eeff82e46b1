package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// FileSystem abstracts file lookups so resolution can be tested without disk.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

// OSFileSystem implements FileSystem on the real filesystem.
type OSFileSystem struct{}

func (OSFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (OSFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

// LoaderConfig holds the filesystem and optional explicit file paths.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string
	EnvFile    string
}

// LoaderOption is a functional option for LoadConfig.
type LoaderOption func(*LoaderConfig)

// WithFileSystem sets a custom filesystem for the loader.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// ResolvedFiles contains the config and env file paths picked for a service.
type ResolvedFiles struct {
	ConfigFile string
	EnvFile    string
}

// Resolve finds config.yml and .env for serviceName, preferring explicit paths.
func Resolve(serviceName string, lc LoaderConfig) ResolvedFiles {
	files := ResolvedFiles{ConfigFile: lc.ConfigFile, EnvFile: lc.EnvFile}
	if files.ConfigFile == "" {
		files.ConfigFile = firstExisting(lc.FileSystem, configCandidates(serviceName))
	}
	if files.EnvFile == "" {
		files.EnvFile = firstExisting(lc.FileSystem, envCandidates(serviceName))
	}
	return files
}

func configCandidates(serviceName string) []string {
	var paths []string
	for _, prefix := range []string{".", "..", "../.."} {
		paths = append(paths, fmt.Sprintf("%s/cmd/%s/config.yml", prefix, serviceName))
	}
	return append(paths, "./config/config.yml", "./config.yml")
}

func envCandidates(serviceName string) []string {
	var paths []string
	for _, name := range []string{".env." + serviceName, ".env"} {
		for _, dir := range []string{"./cmd/" + serviceName, ".", ".."} {
			paths = append(paths, dir+"/"+name)
		}
	}
	return paths
}

func firstExisting(fs FileSystem, paths []string) string {
	for _, p := range paths {
		if fs.Exists(p) {
			return p
		}
	}
	return ""
}

// LoadConfig loads configuration for a service into cfg.
//
// Sources, lowest precedence first: the YAML file, the .env file, the
// process environment. SESSION_CODE_LENGTH overrides session.code_length.
func LoadConfig(serviceName string, cfg interface{}, opts ...LoaderOption) error {
	lc := LoaderConfig{FileSystem: OSFileSystem{}}
	for _, opt := range opts {
		opt(&lc)
	}
	files := Resolve(serviceName, lc)

	v := viper.New()
	if files.ConfigFile != "" && lc.FileSystem.Exists(files.ConfigFile) {
		v.SetConfigFile(files.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", files.ConfigFile, err)
		}
	}

	if files.EnvFile != "" && lc.FileSystem.Exists(files.EnvFile) {
		if err := lc.FileSystem.LoadEnv(files.EnvFile); err != nil {
			return fmt.Errorf("load env file %s: %w", files.EnvFile, err)
		}
	}
	bindEnv(v, os.Environ())

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unmarshal config for service %s: %w", serviceName, err)
	}
	return nil
}

// bindEnv maps every KEY=value pair onto each nested key it could address.
func bindEnv(v *viper.Viper, environ []string) {
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			continue
		}
		for _, variant := range envKeyVariants(key) {
			v.Set(variant, value)
		}
	}
}

// envKeyVariants expands SERVER_CORS_ALLOWED_ORIGINS into
// server_cors_allowed_origins, server.cors_allowed_origins,
// server.cors.allowed_origins and server.cors.allowed.origins.
func envKeyVariants(envKey string) []string {
	parts := strings.Split(strings.ToLower(envKey), "_")
	variants := []string{strings.Join(parts, "_")}
	for i := 1; i < len(parts); i++ {
		variants = append(variants, strings.Join(parts[:i], ".")+"."+strings.Join(parts[i:], "_"))
	}
	return variants
}
