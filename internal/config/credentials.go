package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"

	"github.com/tracefit/activity-metrics-api/internal/constants"
)

// Credential sources, in resolution order.
const (
	SourceConnectionURL = "connection_url"
	SourceEnvironment   = "environment"
	SourceSecretsFile   = "secrets_file"
	SourceKeysFile      = "keys_file"
)

// Credentials holds the database connection parameters resolved from one of
// the supported sources. The same PG* key set is accepted everywhere so a
// deployment can move between the hosted platform, CI, and a laptop without
// renaming anything.
type Credentials struct {
	Host           string `json:"PGHOST" toml:"PGHOST"`
	Port           int    `json:"-" toml:"-"`
	Database       string `json:"PGDATABASE" toml:"PGDATABASE"`
	User           string `json:"PGUSER" toml:"PGUSER"`
	Password       string `json:"PGPASSWORD" toml:"PGPASSWORD"`
	SSLMode        string `json:"PGSSLMODE" toml:"PGSSLMODE" validate:"sslmode"`
	ChannelBinding string `json:"PGCHANNELBINDING" toml:"PGCHANNELBINDING"`

	// URL is a full connection URL. When set it is passed to the driver
	// verbatim and the individual fields above are ignored.
	URL string `json:"CONNECTION_URL" toml:"CONNECTION_URL"`

	// Source records which source the credentials came from, for logging
	// and error messages.
	Source string `json:"-" toml:"-"`
}

// ResolveCredentials resolves database credentials using the documented
// precedence:
//
//  1. CONNECTION_URL environment variable (full URL passthrough).
//  2. PG* environment variables. A .env file loaded at startup lands here.
//  3. The TOML secrets file (SECRETS_FILE, default .streamlit/secrets.toml),
//     the platform-mounted secrets store equivalent.
//  4. The fallback JSON keys file (PGKEYS_FILE, default neondb_keys.json),
//     kept for local development only.
//
// The first source that defines a host (or URL) wins outright; sources are
// not merged, so a partially filled source surfaces as a validation error
// naming it rather than silently borrowing fields from the next one.
func ResolveCredentials() (*Credentials, error) {
	if url := os.Getenv(constants.EnvConnectionURL); url != "" {
		return &Credentials{URL: url, Source: SourceConnectionURL}, nil
	}

	if os.Getenv(constants.EnvPGHost) != "" {
		return credentialsFromEnv(), nil
	}

	secretsPath := os.Getenv(constants.EnvSecretsFile)
	if secretsPath == "" {
		secretsPath = constants.DefaultSecretsFile
	}
	if _, err := os.Stat(secretsPath); err == nil {
		creds, err := credentialsFromSecretsFile(secretsPath)
		if err != nil {
			return nil, err
		}
		return creds, nil
	}

	keysPath := os.Getenv(constants.EnvFallbackKeys)
	if keysPath == "" {
		keysPath = constants.DefaultFallbackKeysFile
	}
	if _, err := os.Stat(keysPath); err == nil {
		creds, err := credentialsFromKeysFile(keysPath)
		if err != nil {
			return nil, err
		}
		return creds, nil
	}

	return nil, fmt.Errorf(
		"no database credentials found: checked %s, %s, secrets file %s and keys file %s",
		constants.EnvConnectionURL, constants.EnvPGHost, secretsPath, keysPath,
	)
}

// credentialsFromEnv builds credentials from the PG* environment variables.
func credentialsFromEnv() *Credentials {
	return &Credentials{
		Host:           os.Getenv(constants.EnvPGHost),
		Port:           parsePort(os.Getenv(constants.EnvPGPort)),
		Database:       os.Getenv(constants.EnvPGDatabase),
		User:           os.Getenv(constants.EnvPGUser),
		Password:       os.Getenv(constants.EnvPGPassword),
		SSLMode:        os.Getenv(constants.EnvPGSSLMode),
		ChannelBinding: os.Getenv(constants.EnvPGChannelBind),
		Source:         SourceEnvironment,
	}
}

// credentialsFromSecretsFile reads PG* keys from a TOML secrets file.
// Flat top-level keys are expected, matching the hosted platform's
// secrets format.
func credentialsFromSecretsFile(path string) (*Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading secrets file %s: %w", path, err)
	}

	var raw struct {
		Credentials
		Port string `toml:"PGPORT"`
	}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("error parsing secrets file %s: %w", path, err)
	}

	creds := raw.Credentials
	creds.Port = parsePort(raw.Port)
	creds.Source = SourceSecretsFile

	log.Debug().Str("path", path).Msg("Credentials loaded from secrets file")
	return &creds, nil
}

// credentialsFromKeysFile reads credentials from the fallback JSON keys
// file. Both the canonical PG* keys and the older lowercase keys
// (host, port, dbname, user, password, sslmode) are accepted.
func credentialsFromKeysFile(path string) (*Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading keys file %s: %w", path, err)
	}

	var keys map[string]interface{}
	if err := json.Unmarshal(data, &keys); err != nil {
		return nil, fmt.Errorf("error parsing keys file %s: %w", path, err)
	}

	pick := func(names ...string) string {
		for _, name := range names {
			if v, ok := keys[name]; ok {
				switch val := v.(type) {
				case string:
					if val != "" {
						return val
					}
				case float64:
					return strconv.Itoa(int(val))
				}
			}
		}
		return ""
	}

	creds := &Credentials{
		Host:           pick("PGHOST", "host"),
		Port:           parsePort(pick("PGPORT", "port")),
		Database:       pick("PGDATABASE", "database", "dbname"),
		User:           pick("PGUSER", "user"),
		Password:       pick("PGPASSWORD", "password"),
		SSLMode:        pick("PGSSLMODE", "sslmode"),
		ChannelBinding: pick("PGCHANNELBINDING", "channel_binding"),
		URL:            pick("CONNECTION_URL"),
		Source:         SourceKeysFile,
	}

	log.Debug().Str("path", path).Msg("Credentials loaded from keys file")
	return creds, nil
}

// Validate checks that the credentials are usable.
func (c *Credentials) Validate() error {
	if c.URL != "" {
		return nil
	}
	if c.Host == "" {
		return fmt.Errorf("database host must be set (source: %s)", c.Source)
	}
	if c.User == "" {
		return fmt.Errorf("database user must be set (source: %s)", c.Source)
	}
	if c.Database == "" {
		return fmt.Errorf("database name must be set (source: %s)", c.Source)
	}
	if c.SSLMode != "" {
		valid := false
		for _, mode := range constants.ValidSSLModes {
			if strings.EqualFold(c.SSLMode, mode) {
				valid = true
				break
			}
		}
		if !valid {
			return fmt.Errorf("invalid sslmode %q (source: %s)", c.SSLMode, c.Source)
		}
	}
	return nil
}

// DSN returns the connection string to hand to the database driver.
//
// When a CONNECTION_URL was provided it is returned as-is, including any
// channel_binding parameter it carries. Otherwise a keyword/value DSN is
// built; channel_binding is omitted there because lib/pq has no keyword
// for it and negotiates SCRAM without it.
func (c *Credentials) DSN() string {
	if c.URL != "" {
		return c.URL
	}

	port := c.Port
	if port == 0 {
		port = constants.DefaultDBPort
	}

	parts := []string{
		"host=" + escapeDSNValue(c.Host),
		fmt.Sprintf("port=%d", port),
		"dbname=" + escapeDSNValue(c.Database),
		"user=" + escapeDSNValue(c.User),
		fmt.Sprintf("connect_timeout=%d", int(constants.DefaultConnectTimeout.Seconds())),
	}
	if c.Password != "" {
		parts = append(parts, "password="+escapeDSNValue(c.Password))
	}
	if c.SSLMode != "" {
		parts = append(parts, "sslmode="+escapeDSNValue(c.SSLMode))
	}

	return strings.Join(parts, " ")
}

// Redacted returns a loggable description of the credentials with the
// password and URL userinfo masked.
func (c *Credentials) Redacted() string {
	if c.URL != "" {
		return fmt.Sprintf("url=%s source=%s", constants.LogRedactedValue, c.Source)
	}
	return fmt.Sprintf("host=%s port=%d dbname=%s user=%s password=%s source=%s",
		c.Host, c.Port, c.Database, c.User, constants.LogRedactedValue, c.Source)
}

// parsePort converts a port string to an int, falling back to the
// PostgreSQL default for empty or invalid values.
func parsePort(raw string) int {
	if raw == "" {
		return constants.DefaultDBPort
	}
	port, err := strconv.Atoi(raw)
	if err != nil || port <= 0 {
		return constants.DefaultDBPort
	}
	return port
}

// escapeDSNValue quotes a keyword/value DSN value when it contains
// characters the driver would otherwise split on.
func escapeDSNValue(v string) string {
	if v == "" {
		return "''"
	}
	if !strings.ContainsAny(v, " '\\") {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}
