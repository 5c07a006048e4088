package cli

import (
	"os"
	"path/filepath"
	"strings"
)

// Config carries the global CLI settings, resolved from flags and the
// BOATRACE_* environment
type Config struct {
	ServerURL string
	Token     string
	TokenFile string
	Output    string
	Verbose   bool
}

func DefaultConfig() *Config {
	return &Config{
		ServerURL: envOr("BOATRACE_SERVER", "http://localhost:8080"),
		Token:     os.Getenv("BOATRACE_TOKEN"),
		TokenFile: envOr("BOATRACE_TOKEN_FILE", defaultTokenFile()),
		Output:    "text",
	}
}

// LoadToken reads the saved token unless one was given explicitly.
// A missing token file just means the user is not logged in.
func (c *Config) LoadToken() error {
	if c.Token != "" {
		return nil
	}

	data, err := os.ReadFile(c.TokenFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	c.Token = strings.TrimSpace(string(data))
	return nil
}

// SaveToken writes the token to the token file, readable only by the user
func (c *Config) SaveToken(token string) error {
	c.Token = token

	if err := os.MkdirAll(filepath.Dir(c.TokenFile), 0700); err != nil {
		return err
	}
	return os.WriteFile(c.TokenFile, []byte(token), 0600)
}

func defaultTokenFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".boatrace/token"
	}
	return filepath.Join(home, ".boatrace", "token")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
