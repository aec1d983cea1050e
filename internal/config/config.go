package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// VerifierRules controls the semantic integrity pipeline. Enabled toggles
// the whole pipeline; with it off every transaction verifies clean, which
// is the baseline the semantic exchange is compared against.
type VerifierRules struct {
	Enabled             bool    `yaml:"enabled"`
	VarianceLimit       float64 `yaml:"variance_limit" validate:"gt=0"`
	ExtremeLimit        float64 `yaml:"extreme_limit" validate:"gt=0"`
	ActivationThreshold float64 `yaml:"activation_threshold" validate:"gte=0"`
	SimilarityThreshold float64 `yaml:"similarity_threshold" validate:"gte=-1,lte=1"`
	ReferenceComponent  float64 `yaml:"reference_component"`
}

// CorruptionRules shape the payload corruption adversarial nodes apply
// before digesting.
type CorruptionRules struct {
	Probability        float64 `yaml:"probability" validate:"gte=0,lte=1"`
	ScaleSpread        float64 `yaml:"scale_spread" validate:"gte=0"`
	ExtremeProbability float64 `yaml:"extreme_probability" validate:"gte=0,lte=1"`
	ExtremeLow         float64 `yaml:"extreme_low"`
	ExtremeHigh        float64 `yaml:"extreme_high"`
}

type SimConfig struct {
	Nodes                int     `yaml:"nodes" validate:"gt=1"`
	Rounds               int     `yaml:"rounds" validate:"gt=0"`
	Seed                 uint64  `yaml:"seed"`
	AdversarialFraction  float64 `yaml:"adversarial_fraction" validate:"gte=0,lte=1"`
	OriginationProb      float64 `yaml:"origination_prob" validate:"gte=0,lte=1"`
	TickInterval         float64 `yaml:"tick_interval" validate:"gt=0"`
	MaxTransactionAge    float64 `yaml:"max_transaction_age" validate:"gt=0"`
	SweepInterval        float64 `yaml:"sweep_interval" validate:"gt=0"`
	EstimatedNetworkSize int     `yaml:"estimated_network_size" validate:"gt=0"`
	BFTFraction          float64 `yaml:"bft_fraction" validate:"gt=0,lte=1"`
	Dimension            int     `yaml:"dimension" validate:"gt=0"`
	LogLevel             string  `yaml:"log_level"`

	Verifier   VerifierRules   `yaml:"verifier"`
	Corruption CorruptionRules `yaml:"corruption"`
}

type DomainProfile struct {
	Name      string  `yaml:"name" validate:"required"`
	BaseDelay float64 `yaml:"base_delay" validate:"gte=0"`
	Weight    float64 `yaml:"weight" validate:"gt=0"`
}

type MultiDomainConfig struct {
	Domains         int     `yaml:"domains" validate:"gt=0"`
	Vehicles        int     `yaml:"vehicles" validate:"gt=0"`
	RSUMin          int     `yaml:"rsu_min" validate:"gt=0"`
	RSUMax          int     `yaml:"rsu_max" validate:"gt=0"`
	Duration        float64 `yaml:"duration" validate:"gt=0"`
	TickInterval    float64 `yaml:"tick_interval" validate:"gt=0"`
	EventProb       float64 `yaml:"event_prob" validate:"gte=0,lte=1"`
	CrossDomainProb float64 `yaml:"cross_domain_prob" validate:"gte=0,lte=1"`
	SyncInterval    float64 `yaml:"sync_interval" validate:"gt=0"`
	SemanticSync    bool    `yaml:"semantic_sync"`
	DelayJitter     float64 `yaml:"delay_jitter" validate:"gte=0"`
	SyncTimeLow     float64 `yaml:"sync_time_low" validate:"gte=0"`
	SyncTimeHigh    float64 `yaml:"sync_time_high" validate:"gte=0"`
	MessageKB       float64 `yaml:"message_kb" validate:"gt=0"`
	Phases          int     `yaml:"phases" validate:"gt=0"`
	SAEInputDim     int     `yaml:"sae_input_dim" validate:"gt=0"`
	SAELatentDim    int     `yaml:"sae_latent_dim" validate:"gt=0"`
	Dimension       int     `yaml:"dimension" validate:"gt=0"`
	BFTFraction     float64 `yaml:"bft_fraction" validate:"gt=0,lte=1"`
	MaxTxAge        float64 `yaml:"max_transaction_age" validate:"gt=0"`
	Seed            uint64  `yaml:"seed"`
	LogLevel        string  `yaml:"log_level"`

	Verifier VerifierRules   `yaml:"verifier"`
	Profiles []DomainProfile `yaml:"profiles" validate:"min=1,dive"`
}

func defaultVerifierRules() VerifierRules {
	return VerifierRules{
		Enabled:             true,
		VarianceLimit:       2.0,
		ExtremeLimit:        5.0,
		ActivationThreshold: 0.8,
		SimilarityThreshold: 0.2,
		ReferenceComponent:  0.5,
	}
}

// DefaultSimConfig returns the single-domain defaults used when no config
// file is given.
func DefaultSimConfig() *SimConfig {
	return &SimConfig{
		Nodes:                100,
		Rounds:               50,
		Seed:                 1,
		AdversarialFraction:  0.1,
		OriginationProb:      0.1,
		TickInterval:         0.001,
		MaxTransactionAge:    10.0,
		SweepInterval:        5.0,
		EstimatedNetworkSize: 50,
		BFTFraction:          0.67,
		Dimension:            10,
		LogLevel:             "info",
		Verifier:             defaultVerifierRules(),
		Corruption: CorruptionRules{
			Probability:        0.8,
			ScaleSpread:        0.5,
			ExtremeProbability: 0.5,
			ExtremeLow:         -10.0,
			ExtremeHigh:        10.0,
		},
	}
}

func DefaultMultiDomainConfig() *MultiDomainConfig {
	return &MultiDomainConfig{
		Domains:         3,
		Vehicles:        300,
		RSUMin:          3,
		RSUMax:          5,
		Duration:        120.0,
		TickInterval:    0.01,
		EventProb:       0.1,
		CrossDomainProb: 0.3,
		SyncInterval:    30.0,
		SemanticSync:    true,
		DelayJitter:     0.5,
		SyncTimeLow:     0.1,
		SyncTimeHigh:    0.3,
		MessageKB:       2.0,
		Phases:          3,
		SAEInputDim:     10,
		SAELatentDim:    8,
		Dimension:       10,
		BFTFraction:     0.67,
		MaxTxAge:        10.0,
		Seed:            1,
		LogLevel:        "info",
		Verifier:        defaultVerifierRules(),
		Profiles: []DomainProfile{
			{Name: "urban", BaseDelay: 0.5, Weight: 0.40},
			{Name: "interurban", BaseDelay: 1.0, Weight: 0.35},
			{Name: "rural", BaseDelay: 1.5, Weight: 0.25},
		},
	}
}

// LoadSimConfig reads the simulation config. An empty path means defaults.
func LoadSimConfig(path string) (*SimConfig, error) {
	cfg := DefaultSimConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func LoadMultiDomainConfig(path string) (*MultiDomainConfig, error) {
	cfg := DefaultMultiDomainConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *SimConfig) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("sim config: %w", err)
	}
	return nil
}

func (c *MultiDomainConfig) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("multidomain config: %w", err)
	}
	if c.RSUMax < c.RSUMin {
		return fmt.Errorf("multidomain config: rsu_max %d below rsu_min %d", c.RSUMax, c.RSUMin)
	}
	if c.SAELatentDim >= c.SAEInputDim {
		return fmt.Errorf("multidomain config: sae_latent_dim %d must compress sae_input_dim %d", c.SAELatentDim, c.SAEInputDim)
	}
	if c.SAEInputDim != c.Dimension {
		return fmt.Errorf("multidomain config: sae_input_dim %d must match dimension %d", c.SAEInputDim, c.Dimension)
	}
	if c.SyncTimeHigh < c.SyncTimeLow {
		return fmt.Errorf("multidomain config: sync_time_high %f below sync_time_low %f", c.SyncTimeHigh, c.SyncTimeLow)
	}
	return nil
}

// Profile returns the profile for the i-th domain, cycling when more
// domains are configured than profiles.
func (c *MultiDomainConfig) Profile(i int) DomainProfile {
	p := c.Profiles[i%len(c.Profiles)]
	if i >= len(c.Profiles) {
		p.Name = fmt.Sprintf("%s-%d", p.Name, i/len(c.Profiles)+1)
	}
	return p
}
