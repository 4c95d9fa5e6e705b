package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/matzehuels/harnesskit/pkg/upload"
)

// apiKeyEnv holds the upload API key.
const apiKeyEnv = "HARNESSKIT_API_KEY"

// Config is the optional config file. Command-line flags override it.
//
//	[upload]
//	api_url = "https://splice-cad.com"
//	public = false
//
//	[store]
//	backend = "sqlite"
//	dsn = "/var/lib/harnesskit/documents.db"
//
//	[server]
//	addr = ":8080"
type Config struct {
	Upload UploadConfig `toml:"upload"`
	Store  StoreConfig  `toml:"store"`
	Server ServerConfig `toml:"server"`
}

// UploadConfig configures the upload command.
type UploadConfig struct {
	APIURL string `toml:"api_url"`
	Public bool   `toml:"public"`
}

// StoreConfig selects the document store backend. DSN is a file path for
// sqlite, a redis:// URL for redis and a mongodb:// URI for mongo. Dir is
// the directory of the file backend.
type StoreConfig struct {
	Backend string `toml:"backend"`
	DSN     string `toml:"dsn"`
	Dir     string `toml:"dir"`
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// DefaultConfig returns the settings used without a config file.
func DefaultConfig() Config {
	return Config{
		Upload: UploadConfig{APIURL: upload.DefaultBaseURL},
		Store:  StoreConfig{Backend: backendFile},
		Server: ServerConfig{Addr: ":8080"},
	}
}

// LoadConfig reads the TOML file at path over the defaults. A missing file
// yields the defaults unless required is set. Unknown keys are rejected.
func LoadConfig(path string, required bool) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// loadEnv loads path into the process environment if it exists. Variables
// already set are kept.
func loadEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// resolveAPIKey prefers the flag value over the environment.
func resolveAPIKey(flag string) string {
	if flag != "" {
		return flag
	}
	return os.Getenv(apiKeyEnv)
}
