package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
)

// selfAudioPath is where the static file server exposes audio clips.
const selfAudioPath = "/static/audio"

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535 (got %d)", c.Server.Port)
	}

	if err := c.Dictionary.validate(c.Database); err != nil {
		return fmt.Errorf("dictionary: %w", err)
	}

	if c.Audio.BaseURL == "" {
		c.Audio.BaseURL = c.Server.SelfURL() + selfAudioPath
	}
	if err := c.Audio.validate(); err != nil {
		return fmt.Errorf("audio: %w", err)
	}

	return nil
}

// SelfURL is the base URL under which this process can reach its own HTTP
// server. A wildcard listen host maps to the loopback address.
func (s ServerConfig) SelfURL() string {
	host := s.Host
	switch host {
	case "", "0.0.0.0", "::", "[::]":
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, strconv.Itoa(s.Port))
}

func (d *DictionaryConfig) validate(db DatabaseConfig) error {
	d.Source = strings.ToLower(strings.TrimSpace(d.Source))

	switch d.Source {
	case SourceHTTP:
		if d.URL == "" {
			return fmt.Errorf("url is required for source %q", SourceHTTP)
		}
		u, err := url.Parse(d.URL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("url must be absolute (got %q)", d.URL)
		}
	case SourceFile:
		if d.Path == "" {
			return fmt.Errorf("path is required for source %q", SourceFile)
		}
	case SourcePostgres:
		if db.DSN == "" {
			return fmt.Errorf("database.dsn is required for source %q", SourcePostgres)
		}
	default:
		return fmt.Errorf("unknown source %q (want http, file or postgres)", d.Source)
	}

	if d.FetchTimeout <= 0 {
		return fmt.Errorf("fetch_timeout must be > 0 (got %v)", d.FetchTimeout)
	}

	return nil
}

func (a *AudioConfig) validate() error {
	u, err := url.Parse(a.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("base_url must be absolute (got %q)", a.BaseURL)
	}
	if a.MaxConcurrency <= 0 {
		return fmt.Errorf("max_concurrency must be > 0 (got %d)", a.MaxConcurrency)
	}

	exts, err := ParseExtensions(a.ExtensionsRaw)
	if err != nil {
		return fmt.Errorf("extensions: %w", err)
	}
	a.Extensions = exts

	return nil
}

// ParseExtensions parses a comma-separated list of file extensions
// (e.g. ".m4a,.mp3"). Every extension must start with a dot. An empty
// string is an error: the probe needs at least one candidate.
func ParseExtensions(raw string) ([]string, error) {
	parts := strings.Split(raw, ",")
	exts := make([]string, 0, len(parts))

	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !strings.HasPrefix(p, ".") || len(p) == 1 {
			return nil, fmt.Errorf("invalid extension %q", p)
		}
		exts = append(exts, p)
	}

	if len(exts) == 0 {
		return nil, fmt.Errorf("at least one extension is required")
	}

	return exts, nil
}
