// Package config loads the run configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// ErrMissingToken is returned when neither GH_TOKEN nor GITHUB_TOKEN is set.
var ErrMissingToken = errors.New("missing GH_TOKEN in environment variables")

// Config is the container for app configuration
type Config struct {
	// Token - GitHub bearer token
	Token string `envconfig:"GH_TOKEN"`

	// FallbackToken - used when GH_TOKEN is empty, matching the GitHub Actions default
	FallbackToken string `envconfig:"GITHUB_TOKEN"`

	// MainRepo - owner/name of the repository whose stars are counted
	MainRepo string `envconfig:"MAIN_REPO" default:"nishuR31/nishuR31"`

	// StateFile - path of the JSON pet state
	StateFile string `envconfig:"WUWU_STATE_FILE" default:"data/wuwu.json"`

	// ReadmeFile - path of the generated Markdown document
	ReadmeFile string `envconfig:"WUWU_README_FILE" default:"README.md"`

	// AssetsDir - directory holding <mood>.svg images
	AssetsDir string `envconfig:"WUWU_ASSETS_DIR" default:"assets"`

	// GithubAPIURL - GitHub Enterprise base URL; empty targets api.github.com
	GithubAPIURL string `envconfig:"GITHUB_API_URL" default:""`

	// HTTPTimeout - timeout for each GitHub API call
	HTTPTimeout time.Duration `envconfig:"WUWU_HTTP_TIMEOUT" default:"30s"`
}

// Load reads dotenvPath when it exists, then the process environment.
// Variables already set in the environment win over the file.
func Load(dotenvPath string) (*Config, error) {
	if dotenvPath != "" {
		if err := godotenv.Load(dotenvPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", dotenvPath, err)
		}
	}
	var conf Config
	if err := envconfig.Process("", &conf); err != nil {
		return nil, fmt.Errorf("couldn't parse config: %w", err)
	}
	return &conf, nil
}

// GitHubToken returns the bearer token, or ErrMissingToken.
func (c *Config) GitHubToken() (string, error) {
	switch {
	case c.Token != "":
		return c.Token, nil
	case c.FallbackToken != "":
		return c.FallbackToken, nil
	}
	return "", ErrMissingToken
}
