package cli

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Environment fallbacks for flags left at their zero value.
const (
	EnvManifest    = "LATTICE_MANIFEST"
	EnvResolvers   = "LATTICE_RESOLVERS"
	EnvSessionsDir = "LATTICE_SESSIONS_DIR"
	EnvRedisURL    = "LATTICE_REDIS_URL"
	EnvSessionTTL  = "LATTICE_SESSION_TTL"
	EnvLogLevel    = "LATTICE_LOG_LEVEL"
	EnvLogJSON     = "LATTICE_LOG_JSON"
	EnvDebug       = "LATTICE_DEBUG"
	EnvStoreKey    = "LATTICE_STORE_KEY"
	EnvStoreOldKey = "LATTICE_STORE_FALLBACK_KEYS"
	EnvMask        = "LATTICE_MASK"
)

// DefaultManifest is looked up in the working directory when no manifest is given.
const DefaultManifest = "lattice.yaml"

// DefaultResolvers is looked up next to the manifest when no resolver config is given.
const DefaultResolvers = "resolvers.yaml"

// Options contains everything needed to assemble an App.
type Options struct {
	Manifest    string
	Resolvers   string
	SessionsDir string
	RedisURL    string
	SessionTTL  time.Duration
	GracePeriod time.Duration
	LogLevel    string
	LogJSON     bool
	Debug       bool
	Name        string

	// StoreKey enables encryption at rest (base64, 32 bytes decoded).
	StoreKey string
	// FallbackKeys decrypt sessions sealed with rotated keys.
	FallbackKeys []string
	// Mask lists patterns of node ids whose values are masked when stored.
	Mask []string
}

// WithEnv returns a copy of o where empty fields are filled from LATTICE_* variables.
func (o Options) WithEnv() Options {
	str := func(dst *string, key string) {
		if *dst == "" {
			*dst = os.Getenv(key)
		}
	}
	str(&o.Manifest, EnvManifest)
	str(&o.Resolvers, EnvResolvers)
	str(&o.SessionsDir, EnvSessionsDir)
	str(&o.RedisURL, EnvRedisURL)
	str(&o.LogLevel, EnvLogLevel)
	str(&o.StoreKey, EnvStoreKey)

	if o.SessionTTL == 0 {
		if d, err := time.ParseDuration(os.Getenv(EnvSessionTTL)); err == nil {
			o.SessionTTL = d
		}
	}
	if !o.LogJSON {
		o.LogJSON, _ = strconv.ParseBool(os.Getenv(EnvLogJSON))
	}
	if !o.Debug {
		o.Debug, _ = strconv.ParseBool(os.Getenv(EnvDebug))
	}
	if len(o.FallbackKeys) == 0 {
		o.FallbackKeys = splitList(os.Getenv(EnvStoreOldKey))
	}
	if len(o.Mask) == 0 {
		o.Mask = splitList(os.Getenv(EnvMask))
	}
	return o
}

// manifestPath falls back to DefaultManifest.
func (o Options) manifestPath() string {
	if o.Manifest == "" {
		return DefaultManifest
	}
	return o.Manifest
}

// resolversPath prefers an explicit config, then a resolvers.yaml beside the manifest.
// An empty result means no process resolvers.
func (o Options) resolversPath() string {
	if o.Resolvers != "" {
		return o.Resolvers
	}
	candidate := filepath.Join(filepath.Dir(o.manifestPath()), DefaultResolvers)
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return ""
}

func decodeKey(s string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("store key is not valid base64: %w", err)
	}
	return key, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
