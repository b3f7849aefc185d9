package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/AmmannChristian/go-pandago/apierr"
)

// Environment selects the host family the SDK talks to.
type Environment string

// Recognized environments.
const (
	Sandbox    Environment = "sandbox"
	Production Environment = "production"
)

// Defaults applied by New.
const (
	DefaultCountry     = "sg"
	DefaultEnvironment = Sandbox
	DefaultTimeout     = 30 * time.Second
)

// Token service hosts, also used as assertion audiences.
const (
	sandboxSTSHost    = "https://sts-st.deliveryhero.io"
	productionSTSHost = "https://sts.deliveryhero.io"
	tokenPath         = "/oauth2/token"

	sandboxAPIHost    = "https://pandago-api-sandbox.deliveryhero.io"
	productionAPIHost = "https://pandago-api-apse.deliveryhero.io"
	apiVersionPath    = "/api/v1"
)

// Options are the raw settings accepted by New.
type Options struct {
	// ClientID is the vendor-issued client identifier; it becomes iss and sub of the assertion.
	ClientID string `validate:"required"`
	// KeyID identifies the public key registered for the client (JWT header kid).
	KeyID string `validate:"required"`
	// Scope is the requested scope pattern, e.g. "pandago.api.sg.*".
	Scope string `validate:"required"`
	// PrivateKey is the PEM-encoded RSA private key used to sign assertions.
	PrivateKey string `validate:"required"`
	// Country is the lowercase country code of the API tenant. Default: "sg".
	Country string
	// Environment is "sandbox" or "production". Unknown values fall back to sandbox.
	Environment string
	// TimeoutSeconds bounds every HTTP call. Default: 30.
	TimeoutSeconds int `validate:"omitempty,gte=1"`
}

// Config is the immutable SDK configuration. It is safe to share between goroutines.
type Config struct {
	clientID    string
	keyID       string
	scope       string
	privateKey  string
	country     string
	environment Environment
	timeout     time.Duration
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// New validates opts, applies defaults and returns a Config. Missing required settings are
// reported as *apierr.ConfigurationError.
func New(opts Options) (*Config, error) {
	opts.ClientID = strings.TrimSpace(opts.ClientID)
	opts.KeyID = strings.TrimSpace(opts.KeyID)
	opts.Scope = strings.TrimSpace(opts.Scope)
	opts.PrivateKey = strings.TrimSpace(opts.PrivateKey)

	if err := validate.Struct(opts); err != nil {
		return nil, toConfigurationError(err)
	}

	cfg := &Config{
		clientID:    opts.ClientID,
		keyID:       opts.KeyID,
		scope:       opts.Scope,
		privateKey:  opts.PrivateKey,
		country:     strings.ToLower(strings.TrimSpace(opts.Country)),
		environment: parseEnvironment(opts.Environment),
		timeout:     time.Duration(opts.TimeoutSeconds) * time.Second,
	}
	if cfg.country == "" {
		cfg.country = DefaultCountry
	}
	if cfg.timeout == 0 {
		cfg.timeout = DefaultTimeout
	}

	return cfg, nil
}

func parseEnvironment(s string) Environment {
	switch Environment(strings.ToLower(strings.TrimSpace(s))) {
	case Production:
		return Production
	default:
		return DefaultEnvironment
	}
}

var fieldNames = map[string]string{
	"ClientID":       "client_id",
	"KeyID":          "key_id",
	"Scope":          "scope",
	"PrivateKey":     "private_key",
	"TimeoutSeconds": "timeout",
}

func toConfigurationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apierr.NewConfigurationError("", err.Error(), err)
	}

	fe := verrs[0]
	field := fieldNames[fe.Field()]
	switch fe.Tag() {
	case "required":
		return apierr.NewConfigurationError(field, "is required", err)
	case "gte":
		return apierr.NewConfigurationError(field, fmt.Sprintf("must be at least %s", fe.Param()), err)
	default:
		return apierr.NewConfigurationError(field, fmt.Sprintf("failed %q validation", fe.Tag()), err)
	}
}

// ClientID returns the client identifier.
func (c *Config) ClientID() string { return c.clientID }

// KeyID returns the key identifier used as the assertion kid.
func (c *Config) KeyID() string { return c.keyID }

// Scope returns the requested scope.
func (c *Config) Scope() string { return c.scope }

// PrivateKey returns the PEM-encoded private key.
func (c *Config) PrivateKey() string { return c.privateKey }

// Country returns the lowercase country code.
func (c *Config) Country() string { return c.country }

// Environment returns the selected environment.
func (c *Config) Environment() Environment { return c.environment }

// Timeout returns the per-request timeout.
func (c *Config) Timeout() time.Duration { return c.timeout }

// IsProduction reports whether the production environment is selected.
func (c *Config) IsProduction() bool { return c.environment == Production }

// Audience returns the token service host expected as the assertion aud.
func (c *Config) Audience() string {
	if c.IsProduction() {
		return productionSTSHost
	}
	return sandboxSTSHost
}

// AuthURL returns the token endpoint.
func (c *Config) AuthURL() string {
	return c.Audience() + tokenPath
}

// APIBaseURL returns the resource API root for the configured country and environment,
// e.g. https://pandago-api-sandbox.deliveryhero.io/sg/api/v1.
func (c *Config) APIBaseURL() string {
	host := sandboxAPIHost
	if c.IsProduction() {
		host = productionAPIHost
	}
	return host + "/" + c.country + apiVersionPath
}
