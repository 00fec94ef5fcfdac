package policy

import (
	"encoding/json"
	"fmt"
	"os"
	"sync/atomic"
)

// Store holds the active policy snapshot. Reload swaps the snapshot atomically
// so in-flight decisions keep observing a single consistent Config.
type Store struct {
	current atomic.Pointer[Config]
	path    string
}

// NewStore builds a store around an already-validated config. The path is
// remembered for later reloads; it may be empty when running on defaults only.
func NewStore(cfg *Config, path string) *Store {
	s := &Store{path: path}
	s.current.Store(cfg)
	return s
}

// Load reads a policy file and overlays it on the built-in defaults. A missing
// file yields the defaults; a file that exists but cannot be parsed is an
// error, because the engine must never run on a silently-degraded policy.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read policy file %s: %w", path, err)
	}

	var overlay struct {
		RestrictedCategories []string          `json:"restricted_categories"`
		HighRiskCategories   []string          `json:"high_risk_categories"`
		MediumRiskCategories []string          `json:"medium_risk_categories"`
		BusinessDomains      []string          `json:"business_domains"`
		ConfidenceThreshold  *float64          `json:"confidence_threshold"`
		WarningMessages      map[string]string `json:"warning_messages"`
	}
	if err := json.Unmarshal(data, &overlay); err != nil {
		return nil, fmt.Errorf("parse policy file %s: %w", path, err)
	}

	if overlay.RestrictedCategories != nil {
		cfg.RestrictedCategories = overlay.RestrictedCategories
	}
	if overlay.HighRiskCategories != nil {
		cfg.HighRiskCategories = overlay.HighRiskCategories
	}
	if overlay.MediumRiskCategories != nil {
		cfg.MediumRiskCategories = overlay.MediumRiskCategories
	}
	if overlay.BusinessDomains != nil {
		cfg.BusinessDomains = overlay.BusinessDomains
	}
	if overlay.ConfidenceThreshold != nil {
		t := *overlay.ConfidenceThreshold
		if t < 0 || t > 1 {
			return nil, fmt.Errorf("policy file %s: confidence_threshold %v out of [0,1]", path, t)
		}
		cfg.ConfidenceThreshold = t
	}
	for cat, msg := range overlay.WarningMessages {
		cfg.WarningMessages[cat] = msg
	}

	if len(cfg.RestrictedCategories) == 0 {
		return nil, fmt.Errorf("policy file %s: restricted_categories must not be empty", path)
	}

	return cfg, nil
}

// Current returns the active snapshot. Callers must treat it as read-only.
func (s *Store) Current() *Config {
	return s.current.Load()
}

// Reload re-reads the policy file and swaps the snapshot. On error the previous
// snapshot stays active.
func (s *Store) Reload() error {
	cfg, err := Load(s.path)
	if err != nil {
		return err
	}
	s.current.Store(cfg)
	return nil
}
