package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds every tunable the engine reads: risk thresholds, position
// sizing parameters, composite scoring weights, and ledger settings.
// It is loaded once at startup and passed to each component explicitly;
// nothing reads it from a package-level variable.
type Config struct {
	Risk    RiskConfig    `json:"risk_management" yaml:"risk_management"`
	Sizing  SizingConfig  `json:"position_sizing" yaml:"position_sizing"`
	Scoring ScoringConfig `json:"composite_scoring" yaml:"composite_scoring"`
	Ledger  LedgerConfig  `json:"ledger" yaml:"ledger"`
}

// RiskConfig contains the risk-policy parameters. The stop-loss and
// daily-loss thresholds are negative fractions (e.g. -0.15 = down 15%);
// everything else is a fraction in [0,1].
type RiskConfig struct {
	MaxPositionPct      float64 `json:"max_position_pct" yaml:"max_position_pct"`
	TotalDeploymentCap  float64 `json:"total_deployment_cap" yaml:"total_deployment_cap"`
	StopLossPct         float64 `json:"stop_loss_pct" yaml:"stop_loss_pct"`
	DailyLossHaltPct    float64 `json:"daily_loss_halt_pct" yaml:"daily_loss_halt_pct"`
	MaxSectorPct        float64 `json:"max_sector_pct" yaml:"max_sector_pct"`
	PortfolioHeatHigh   float64 `json:"portfolio_heat_high" yaml:"portfolio_heat_high"`
	PortfolioHeatMedium float64 `json:"portfolio_heat_medium" yaml:"portfolio_heat_medium"`
}

// SizingConfig contains position sizing parameters.
type SizingConfig struct {
	MaxPositionPct float64 `json:"max_position_pct" yaml:"max_position_pct"`
	MinPosition    float64 `json:"min_position" yaml:"min_position"`
}

// ScoringConfig carries the composite weights keyed by signal name
// (technical, sentiment, volume, fundamental, news, fund_flow). The
// weights need not sum to exactly 1.
type ScoringConfig struct {
	Weights map[string]float64 `json:"weights" yaml:"weights"`
}

// LedgerConfig contains persistence settings.
type LedgerConfig struct {
	DBPath      string  `json:"db_path" yaml:"db_path"`
	InitialCash float64 `json:"initial_cash" yaml:"initial_cash"`
}

// LoadFromFile loads configuration from a file (YAML or JSON). Missing
// keys keep their Default() values.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension).
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Risk.MaxPositionPct <= 0 || c.Risk.MaxPositionPct > 1 {
		return fmt.Errorf("risk_management.max_position_pct must be in (0,1]")
	}
	if c.Risk.TotalDeploymentCap <= 0 || c.Risk.TotalDeploymentCap > 1 {
		return fmt.Errorf("risk_management.total_deployment_cap must be in (0,1]")
	}
	if c.Risk.StopLossPct >= 0 {
		return fmt.Errorf("risk_management.stop_loss_pct must be negative")
	}
	if c.Risk.DailyLossHaltPct >= 0 {
		return fmt.Errorf("risk_management.daily_loss_halt_pct must be negative")
	}
	if c.Risk.MaxSectorPct <= 0 || c.Risk.MaxSectorPct > 1 {
		return fmt.Errorf("risk_management.max_sector_pct must be in (0,1]")
	}
	if c.Risk.PortfolioHeatMedium <= 0 || c.Risk.PortfolioHeatHigh <= c.Risk.PortfolioHeatMedium {
		return fmt.Errorf("risk_management portfolio heat thresholds must satisfy 0 < medium < high")
	}
	if c.Sizing.MaxPositionPct <= 0 || c.Sizing.MaxPositionPct > 1 {
		return fmt.Errorf("position_sizing.max_position_pct must be in (0,1]")
	}
	if c.Sizing.MinPosition < 0 {
		return fmt.Errorf("position_sizing.min_position must not be negative")
	}
	if c.Ledger.DBPath == "" {
		return fmt.Errorf("ledger.db_path is required")
	}
	for name, w := range c.Scoring.Weights {
		if w < 0 || w > 1 {
			return fmt.Errorf("composite_scoring.weights.%s must be in [0,1]", name)
		}
	}
	return nil
}

// Default returns a configuration with the documented fallback values.
func Default() *Config {
	return &Config{
		Risk: RiskConfig{
			MaxPositionPct:      0.15,
			TotalDeploymentCap:  0.50,
			StopLossPct:         -0.15,
			DailyLossHaltPct:    -0.05,
			MaxSectorPct:        0.40,
			PortfolioHeatHigh:   0.15,
			PortfolioHeatMedium: 0.08,
		},
		Sizing: SizingConfig{
			MaxPositionPct: 0.20,
			MinPosition:    5000,
		},
		Scoring: ScoringConfig{
			Weights: map[string]float64{
				"technical":   0.25,
				"sentiment":   0.15,
				"volume":      0.10,
				"fundamental": 0.30,
				"news":        0.10,
				"fund_flow":   0.10,
			},
		},
		Ledger: LedgerConfig{
			DBPath:      "./advisor.sqlite",
			InitialCash: 100000,
		},
	}
}
