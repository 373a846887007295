package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	defaultHost         = "0.0.0.0"
	defaultPort         = 8081
	defaultFrontendDir  = "frontend/dist"
	defaultMetadataFile = "gamelan.yaml"
)

// Config is the environment-driven service configuration
type Config struct {
	Host  string
	Port  int
	Debug bool

	// DeepgramAPIKey authenticates against the synthesis provider; the
	// process refuses to start without it
	DeepgramAPIKey string

	// SessionSecret signs session tokens. When SESSION_SECRET is unset a
	// random per-process secret is generated instead: outstanding tokens
	// die on restart, and horizontally scaled deployments need an explicit
	// shared secret. Deployment constraint, not a bug.
	SessionSecret string

	// RequireNonce gates session issuance on page-load nonces. Enabled
	// exactly when SESSION_SECRET was configured externally.
	RequireNonce bool

	// RedisURL, when set, switches the nonce store and the event publisher
	// to Redis so multiple instances stay coherent
	RedisURL string

	FrontendDir  string
	MetadataFile string
}

// Load reads configuration from the environment. A .env file is loaded
// first when present, without overriding variables already set.
func Load() (*Config, error) {
	_ = godotenv.Load()

	apiKey := os.Getenv("DEEPGRAM_API_KEY")
	if apiKey == "" {
		return nil, errors.New("DEEPGRAM_API_KEY environment variable is required, " +
			"get your API key at https://console.deepgram.com")
	}

	secret := os.Getenv("SESSION_SECRET")
	requireNonce := secret != ""
	if secret == "" {
		generated, err := generateSecret()
		if err != nil {
			return nil, err
		}
		secret = generated
	}

	port := defaultPort
	if raw := os.Getenv("PORT"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT value %q: %w", raw, err)
		}
		port = parsed
	}

	host := os.Getenv("HOST")
	if host == "" {
		host = defaultHost
	}

	frontendDir := os.Getenv("FRONTEND_DIR")
	if frontendDir == "" {
		frontendDir = defaultFrontendDir
	}

	metadataFile := os.Getenv("METADATA_FILE")
	if metadataFile == "" {
		metadataFile = defaultMetadataFile
	}

	return &Config{
		Host:           host,
		Port:           port,
		Debug:          os.Getenv("DEBUG") == "1",
		DeepgramAPIKey: apiKey,
		SessionSecret:  secret,
		RequireNonce:   requireNonce,
		RedisURL:       os.Getenv("REDIS_URL"),
		FrontendDir:    frontendDir,
		MetadataFile:   metadataFile,
	}, nil
}

// Addr returns the listen address
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func generateSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate session secret: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
