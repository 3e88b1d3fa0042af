// Package config resolves runtime configuration from the environment.
// Missing credentials are surfaced as configuration state the front end can
// gate on, never as a start failure.
package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Agent AgentConfig
	Audio AudioConfig
}

type AgentConfig struct {
	ID         string
	APIKey     string
	APIBaseURL string
	WSBaseURL  string
}

type AudioConfig struct {
	Backend    string
	BufferSize int
}

const (
	BackendPortAudio = "portaudio"
	BackendMiniaudio = "miniaudio"
)

// Load resolves configuration from environment variables and sensible
// defaults. It never fails: absent credentials are reported through
// MissingCredentials instead.
func Load() Config {
	cfg := Config{
		Agent: AgentConfig{
			ID:         strings.TrimSpace(os.Getenv("AGENT_ID")),
			APIKey:     strings.TrimSpace(os.Getenv("ELEVENLABS_API_KEY")),
			APIBaseURL: envOrDefault("ELEVENLABS_API_BASE", "https://api.elevenlabs.io/v1"),
			WSBaseURL:  envOrDefault("ELEVENLABS_WS_BASE", "wss://api.elevenlabs.io/v1"),
		},
		Audio: AudioConfig{
			Backend:    envOrDefault("AUDIO_BACKEND", BackendPortAudio),
			BufferSize: envOrDefaultInt("AUDIO_BUFFER_SIZE", 2048),
		},
	}

	if cfg.Audio.Backend != BackendPortAudio && cfg.Audio.Backend != BackendMiniaudio {
		cfg.Audio.Backend = BackendPortAudio
	}
	if cfg.Audio.BufferSize <= 0 {
		cfg.Audio.BufferSize = 2048
	}

	return cfg
}

// MissingCredentials names the required values that are absent or empty.
func (c Config) MissingCredentials() []string {
	var missing []string
	if c.Agent.ID == "" {
		missing = append(missing, "AGENT_ID")
	}
	if c.Agent.APIKey == "" {
		missing = append(missing, "ELEVENLABS_API_KEY")
	}
	return missing
}

func (c Config) HasCredentials() bool {
	return len(c.MissingCredentials()) == 0
}

func envOrDefault(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func envOrDefaultInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
