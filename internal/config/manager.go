package config

import (
	"os"
	"sync"

	"gopkg.in/yaml.v2"
)

// VerticalOverrides holds per-vertical config overrides (sts_bunkering,
// purchase, second_hand_disposal, warehousing) layered on top of the global
// config — e.g. a vertical that needs a longer upstream timeout or a
// shorter cache TTL.
type VerticalOverrides struct {
	Verticals map[string]Config `yaml:"verticals"`
}

// Manager resolves the effective config for a given screening vertical.
type Manager struct {
	globalConfig *Config
	overrides    map[string]Config
	mu           sync.RWMutex
}

// NewManager loads the master config and the optional per-vertical
// overrides file. A missing overrides file is not an error: verticals then
// simply run with the global config.
func NewManager(masterPath, overridesPath string) (*Manager, error) {
	master, err := LoadConfig(masterPath)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(overridesPath)
	if err != nil {
		if os.IsNotExist(err) {
			return &Manager{globalConfig: master, overrides: make(map[string]Config)}, nil
		}
		return nil, err
	}
	defer f.Close()

	var vo VerticalOverrides
	if err := yaml.NewDecoder(f).Decode(&vo); err != nil {
		return nil, err
	}

	return &Manager{
		globalConfig: master,
		overrides:    vo.Verticals,
	}, nil
}

// Get returns the effective config for a vertical, merging that vertical's
// overrides on top of the global config.
func (m *Manager) Get(vertical string) *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	effective := *m.globalConfig

	override, ok := m.overrides[vertical]
	if !ok {
		return &effective
	}

	if override.Cache.TTLSeconds != 0 {
		effective.Cache = override.Cache
	}
	if override.CircuitBreaker.MaxRequests != 0 || override.CircuitBreaker.TimeoutSec != 0 {
		effective.CircuitBreaker = override.CircuitBreaker
	}
	if override.IntelligenceA.BaseURL != "" {
		effective.IntelligenceA = override.IntelligenceA
	}
	if override.IntelligenceB.BaseURL != "" {
		effective.IntelligenceB = override.IntelligenceB
	}

	return &effective
}
