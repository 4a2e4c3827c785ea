package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/commitfit/pkg/models"
)

// Config represents the application configuration
type Config struct {
	Backend struct {
		URL       string `koanf:"url"`
		Endpoints struct {
			Gather        string `koanf:"gather"`
			FitBass       string `koanf:"fit_bass"`
			FitInnovation string `koanf:"fit_innovation"`
		} `koanf:"endpoints"`
	} `koanf:"backend"`

	UI struct {
		Port int `koanf:"port"`
	} `koanf:"ui"`

	Operations struct {
		// DiscardStale drops a completion that belongs to an older trigger of the
		// same operation. When false, the last response to arrive wins.
		DiscardStale bool `koanf:"discard_stale"`
	} `koanf:"operations"`

	Logging struct {
		Level  string `koanf:"level"`
		Format string `koanf:"format"`
	} `koanf:"logging"`
}

// Endpoint returns the configured backend path for an operation.
func (c *Config) Endpoint(kind models.OperationKind) string {
	switch kind {
	case models.OperationGather:
		return c.Backend.Endpoints.Gather
	case models.OperationFitBass:
		return c.Backend.Endpoints.FitBass
	case models.OperationFitInnovation:
		return c.Backend.Endpoints.FitInnovation
	}
	return ""
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"backend.url":                      "http://localhost:5000",
		"backend.endpoints.gather":         "/run_github_gather",
		"backend.endpoints.fit_bass":       "/run_bass_model",
		"backend.endpoints.fit_innovation": "/run_innovation_model",
		"ui.port":                          8081,
		"operations.discard_stale":         true,
		"logging.level":                    "info",
		"logging.format":                   "console",
	}
}

// LoadConfig loads the configuration from a file
func LoadConfig(configPath string) (*Config, error) {
	var k = koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("error loading defaults: %w", err)
	}

	// An explicit path must exist; otherwise try the default locations
	if configPath != "" && configPath != DefaultPath {
		if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
			return nil, fmt.Errorf("error loading config: %w", err)
		}
	} else {
		defaultPaths := []string{"./" + DefaultPath, "$HOME/.commitfit.toml"}
		for _, path := range defaultPaths {
			path = os.ExpandEnv(path)
			if _, err := os.Stat(path); err == nil {
				if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
					return nil, fmt.Errorf("error loading config %s: %w", path, err)
				}
				break
			}
		}
	}

	// COMMITFIT_BACKEND_URL -> backend.url; double underscore keeps a literal underscore
	// (COMMITFIT_OPERATIONS_DISCARD__STALE -> operations.discard_stale)
	if err := k.Load(env.Provider("COMMITFIT_", ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("error loading environment: %w", err)
	}

	var config Config
	if err := k.Unmarshal("", &config); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	return &config, nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, "COMMITFIT_"))
	s = strings.ReplaceAll(s, "__", "\x00")
	s = strings.ReplaceAll(s, "_", ".")
	return strings.ReplaceAll(s, "\x00", "_")
}

// DefaultPath is the configuration file looked up in the working directory.
const DefaultPath = "commitfit.toml"

// InitConfig initializes a new configuration file
func InitConfig(configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("configuration file already exists at %s", configPath)
	}

	sampleConfig := `# commitfit configuration

[backend]
url = "http://localhost:5000"

[backend.endpoints]
gather = "/run_github_gather"
fit_bass = "/run_bass_model"
fit_innovation = "/run_innovation_model"

[ui]
port = 8081

[operations]
# drop responses that belong to an older click of the same button
discard_stale = true

[logging]
level = "info"
format = "console"
`

	return os.WriteFile(configPath, []byte(sampleConfig), 0644)
}

// Validate validates the configuration
func Validate(config *Config) error {
	if config.Backend.URL == "" {
		return fmt.Errorf("backend url is required")
	}

	u, err := url.Parse(config.Backend.URL)
	if err != nil {
		return fmt.Errorf("invalid backend url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("backend url must use http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("backend url %q has no host", config.Backend.URL)
	}

	for _, kind := range models.AllOperations() {
		if config.Endpoint(kind) == "" {
			return fmt.Errorf("endpoint for %s is required", kind)
		}
	}

	if config.UI.Port <= 0 || config.UI.Port > 65535 {
		return fmt.Errorf("ui port %d out of range", config.UI.Port)
	}

	switch config.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging format must be console or json, got %q", config.Logging.Format)
	}

	return nil
}
