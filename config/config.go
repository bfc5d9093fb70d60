package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Device  DeviceConfig  `yaml:"device"`
	Button  ButtonConfig  `yaml:"button"`
	Backend BackendConfig `yaml:"backend"`
	Probe   ProbeConfig   `yaml:"probe"`
	TTS     TTSConfig     `yaml:"tts"`
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
}

type DeviceConfig struct {
	// DebounceDelay is the quiet period after a press before the click count
	// is finalized. Shorter values feel snappier but risk splitting one
	// intended multi-click into two.
	DebounceDelay string `yaml:"debounce_delay" env:"DEBOUNCE_DELAY"`
	// SafeMax is the highest click count handled by regular actions.
	// SafeMax+1 is the diagnostic slot, anything above that shuts down.
	SafeMax int `yaml:"safe_max"`
	// Language is the espeak-ng voice used for the offline fallback path.
	Language  string `yaml:"language"`
	AssetsDir string `yaml:"assets_dir" env:"ASSETS_DIR"`
	CacheDir  string `yaml:"cache_dir" env:"AUDIO_CACHE_DIR"`
	LEDPath   string `yaml:"led_path" env:"LED_PATH"`
}

type ButtonConfig struct {
	Source   string `yaml:"source"` // http | stdin
	HTTPAddr string `yaml:"http_addr"`
}

type BackendConfig struct {
	BaseURL           string `yaml:"base_url" env:"API_BASE_URL"`
	APIKey            string `yaml:"api_key" env:"API_KEY"`
	SynthesisTimeout  string `yaml:"synthesis_timeout"`
	NextActionTimeout string `yaml:"next_action_timeout"`
	HealthTimeout     string `yaml:"health_timeout"`
}

type ProbeConfig struct {
	Addr    string `yaml:"addr"`
	Timeout string `yaml:"timeout"`
}

// TTSConfig carries the fixed voice/format identifiers. They are part of the
// audio cache key, so changing them invalidates cached clips.
type TTSConfig struct {
	Voice  string `yaml:"voice" env:"TTS_VOICE_ID"`
	Format string `yaml:"format" env:"TTS_OUTPUT_FORMAT"`
}

type ServerConfig struct {
	Addr     string          `yaml:"addr"`
	CacheDir string          `yaml:"cache_dir" env:"SERVER_AUDIO_CACHE_DIR"`
	Google   GoogleTTSConfig `yaml:"google"`
}

type GoogleTTSConfig struct {
	Language     string  `yaml:"language" env:"GOOGLE_TTS_LANGUAGE"`
	Voice        string  `yaml:"voice" env:"GOOGLE_TTS_VOICE"`
	SpeakingRate float64 `yaml:"speaking_rate"`
	SampleRate   int     `yaml:"sample_rate"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL"`
	Format string `yaml:"format"`
}

// Load reads the yaml config file, expands ${VAR} references, applies
// defaults and lets environment variables override individual fields.
// A .env file in the working directory is honored first.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("applying environment overrides: %w", err)
	}

	cfg.setDefaults()

	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.Device.DebounceDelay == "" {
		c.Device.DebounceDelay = "500ms"
	}
	if c.Device.SafeMax == 0 {
		c.Device.SafeMax = 5
	}
	if c.Device.Language == "" {
		c.Device.Language = "de"
	}
	if c.Device.AssetsDir == "" {
		c.Device.AssetsDir = "./assets/de-DE"
	}
	if c.Device.CacheDir == "" {
		c.Device.CacheDir = "./cache/audio"
	}
	if c.Button.Source == "" {
		c.Button.Source = "http"
	}
	if c.Button.HTTPAddr == "" {
		c.Button.HTTPAddr = ":8090"
	}
	if c.Backend.SynthesisTimeout == "" {
		c.Backend.SynthesisTimeout = "15s"
	}
	if c.Backend.NextActionTimeout == "" {
		c.Backend.NextActionTimeout = "60s"
	}
	if c.Backend.HealthTimeout == "" {
		c.Backend.HealthTimeout = "5s"
	}
	if c.Probe.Addr == "" {
		c.Probe.Addr = "8.8.8.8:53"
	}
	if c.Probe.Timeout == "" {
		c.Probe.Timeout = "3s"
	}
	if c.TTS.Voice == "" {
		c.TTS.Voice = "Vicki"
	}
	if c.TTS.Format == "" {
		c.TTS.Format = "mp3"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.CacheDir == "" {
		c.Server.CacheDir = "./cache/server-audio"
	}
	if c.Server.Google.Language == "" {
		c.Server.Google.Language = "de-DE"
	}
	if c.Server.Google.Voice == "" {
		c.Server.Google.Voice = "de-DE-Standard-A"
	}
	if c.Server.Google.SpeakingRate == 0 {
		c.Server.Google.SpeakingRate = 1.0
	}
	if c.Server.Google.SampleRate == 0 {
		c.Server.Google.SampleRate = 24000
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Debounce returns the parsed debounce delay.
func (c DeviceConfig) Debounce() time.Duration {
	return durationOr(c.DebounceDelay, 500*time.Millisecond)
}

func (c BackendConfig) SynthesisTimeoutValue() time.Duration {
	return durationOr(c.SynthesisTimeout, 15*time.Second)
}

func (c BackendConfig) NextActionTimeoutValue() time.Duration {
	return durationOr(c.NextActionTimeout, 60*time.Second)
}

func (c BackendConfig) HealthTimeoutValue() time.Duration {
	return durationOr(c.HealthTimeout, 5*time.Second)
}

func (c ProbeConfig) TimeoutValue() time.Duration {
	return durationOr(c.Timeout, 3*time.Second)
}

func durationOr(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
