package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Provider modes.
const (
	ModeLive     = "live"
	ModeStub     = "stub"
	ModeDisabled = "disabled"
)

// DefaultProviderTimeout bounds a single upstream call.
const DefaultProviderTimeout = 15 * time.Second

// ProviderConfig is the per-provider section of the providers file.
type ProviderConfig struct {
	Mode    string        `yaml:"mode" validate:"omitempty,oneof=live stub disabled"`
	APIKey  string        `yaml:"api_key"`
	BaseURL string        `yaml:"base_url" validate:"omitempty,url"`
	Timeout time.Duration `yaml:"timeout" validate:"gte=0"`
}

// EffectiveMode returns the mode, defaulting to live.
func (p ProviderConfig) EffectiveMode() string {
	if p.Mode == "" {
		return ModeLive
	}
	return p.Mode
}

// EffectiveTimeout returns the timeout, defaulting to DefaultProviderTimeout.
func (p ProviderConfig) EffectiveTimeout() time.Duration {
	if p.Timeout <= 0 {
		return DefaultProviderTimeout
	}
	return p.Timeout
}

// ProvidersConfig selects and configures each evidence provider.
type ProvidersConfig struct {
	IPQS       ProviderConfig `yaml:"ipqs"`
	Numverify  ProviderConfig `yaml:"numverify"`
	Spam       ProviderConfig `yaml:"spam"`
	FraudForum ProviderConfig `yaml:"fraud_forum"`
	Social     ProviderConfig `yaml:"social"`
	Telegram   ProviderConfig `yaml:"telegram"`
	WhatsApp   ProviderConfig `yaml:"whatsapp"`
}

// DefaultProviders runs every provider live with default timeouts.
func DefaultProviders() ProvidersConfig {
	live := ProviderConfig{Mode: ModeLive, Timeout: DefaultProviderTimeout}
	return ProvidersConfig{
		IPQS:       live,
		Numverify:  live,
		Spam:       live,
		FraudForum: live,
		Social:     live,
		Telegram:   live,
		WhatsApp:   live,
	}
}

// LoadProviders reads a YAML providers file. Sections missing from the file
// keep their defaults.
func LoadProviders(path string) (ProvidersConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ProvidersConfig{}, fmt.Errorf("read providers file: %w", err)
	}
	return ParseProviders(data)
}

// ParseProviders decodes and validates providers YAML.
func ParseProviders(data []byte) (ProvidersConfig, error) {
	cfg := DefaultProviders()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return ProvidersConfig{}, fmt.Errorf("parse providers yaml: %w", err)
	}
	if err := configValidate.Struct(cfg); err != nil {
		return ProvidersConfig{}, fmt.Errorf("invalid providers file: %w", err)
	}
	return cfg, nil
}

// ProvidersFromEnv loads path when set, otherwise the defaults, then takes
// API keys from IPQS_API_KEY and NUMVERIFY_API_KEY when present.
func ProvidersFromEnv(path string) (ProvidersConfig, error) {
	cfg := DefaultProviders()
	if path != "" {
		loaded, err := LoadProviders(path)
		if err != nil {
			return ProvidersConfig{}, err
		}
		cfg = loaded
	}
	cfg.applyEnvKeys(os.Getenv("IPQS_API_KEY"), os.Getenv("NUMVERIFY_API_KEY"))
	return cfg, nil
}

// applyEnvKeys lets credentials come from the environment instead of the file.
func (p *ProvidersConfig) applyEnvKeys(ipqsKey, numverifyKey string) {
	if ipqsKey != "" {
		p.IPQS.APIKey = ipqsKey
	}
	if numverifyKey != "" {
		p.Numverify.APIKey = numverifyKey
	}
}
