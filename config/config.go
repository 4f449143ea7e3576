// Package config loads the optional configuration file that describes the service under test:
// where it lives, which routes it exposes, and which optional behaviors it supports.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/launchdarkly/posts-api-contract-tests/framework"
	"github.com/launchdarkly/posts-api-contract-tests/framework/harness"
	"github.com/launchdarkly/posts-api-contract-tests/servicedef"

	"github.com/go-playground/validator/v10"
)

const (
	DefaultBaseURL            = "http://localhost:3000"
	DefaultStatusQueryTimeout = time.Second * 10
	DefaultMockSeedPosts      = 100
	DefaultMockTokenTTL       = time.Hour
)

var validate = validator.New()

// Config is the full set of settings that can be provided in a YAML or JSON file. Anything that is
// omitted from the file keeps the value from Default.
type Config struct {
	BaseURL            string     `json:"baseUrl" validate:"required,url"`
	StatusPath         string     `json:"statusPath" validate:"omitempty,startswith=/"`
	StatusQueryTimeout Duration   `json:"statusQueryTimeout" validate:"gte=0"`
	RequestTimeout     Duration   `json:"requestTimeout" validate:"gte=0"`
	Routes             Routes     `json:"routes"`
	Capabilities       []string   `json:"capabilities" validate:"dive,oneof=pagination protected-routes auth"`
	Mock               MockConfig `json:"mock"`
}

// Routes are the paths of the service's endpoints, relative to the base URL.
type Routes struct {
	Register string `json:"register" validate:"required,startswith=/"`
	Login    string `json:"login" validate:"required,startswith=/"`
	Posts    string `json:"posts" validate:"required,startswith=/"`

	// ProtectedPrefix is prepended to Posts for routes that require an access token to write.
	ProtectedPrefix string `json:"protectedPrefix" validate:"required,startswith=/"`
}

// ProtectedPosts returns the path of the token-guarded posts collection.
func (r Routes) ProtectedPosts() string {
	return r.ProtectedPrefix + r.Posts
}

// MockConfig applies only when the built-in mock service is used.
type MockConfig struct {
	Port        int      `json:"port" validate:"gte=0,lte=65535"`
	SeedPosts   int      `json:"seedPosts" validate:"gte=0"`
	TokenSecret string   `json:"tokenSecret"`
	TokenTTL    Duration `json:"tokenTTL" validate:"gte=0"`
}

// Duration is a time.Duration that is written in config files as a string such as "30s". A
// plain number is taken as milliseconds.
type Duration time.Duration

func (d Duration) String() string {
	return time.Duration(d).String()
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		return nil
	case float64:
		*d = Duration(time.Duration(v) * time.Millisecond)
		return nil
	case string:
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", v, err)
		}
		*d = Duration(parsed)
		return nil
	default:
		return fmt.Errorf("invalid duration: %s", string(data))
	}
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		BaseURL:            DefaultBaseURL,
		StatusPath:         servicedef.DefaultPostsPath,
		StatusQueryTimeout: Duration(DefaultStatusQueryTimeout),
		RequestTimeout:     Duration(harness.DefaultRequestTimeout),
		Routes: Routes{
			Register:        servicedef.DefaultRegisterPath,
			Login:           servicedef.DefaultLoginPath,
			Posts:           servicedef.DefaultPostsPath,
			ProtectedPrefix: servicedef.DefaultProtectedPrefix,
		},
		Capabilities: servicedef.AllCapabilities(),
		Mock: MockConfig{
			SeedPosts: DefaultMockSeedPosts,
			TokenTTL:  Duration(DefaultMockTokenTTL),
		},
	}
}

// Load reads a YAML or JSON file on top of the defaults and validates the result.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	cfg := Default()
	cfg.Capabilities = nil
	if err := ParseJSONOrYAML(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.Capabilities == nil {
		cfg.Capabilities = servicedef.AllCapabilities()
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every field against its constraints and reports all problems at once.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err
	}
	problems := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		if fe.Param() == "" {
			problems = append(problems, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
		} else {
			problems = append(problems, fmt.Sprintf("%s failed %q (%s)", fe.Namespace(), fe.Tag(), fe.Param()))
		}
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
}

// CapabilitySet returns the configured capabilities in the form used by the test framework.
func (c Config) CapabilitySet() framework.Capabilities {
	return framework.Capabilities(c.Capabilities)
}

// HarnessConfig returns the parameters for connecting to the service described by c.
func (c Config) HarnessConfig() harness.TestHarnessConfig {
	return harness.TestHarnessConfig{
		BaseURL:            c.BaseURL,
		StatusPath:         c.StatusPath,
		StatusQueryTimeout: time.Duration(c.StatusQueryTimeout),
		RequestTimeout:     time.Duration(c.RequestTimeout),
	}
}
