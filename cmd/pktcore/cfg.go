package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/clicknet/pktcore/common/logging"
	"github.com/clicknet/pktcore/pkg/devicetag"
	"github.com/clicknet/pktcore/pkg/stage"
)

// StageConfig names one configured stage instance in the pipeline.
type StageConfig struct {
	Name   string       `yaml:"name"`
	Kind   string       `yaml:"kind"` // "tcpcheck" or "udpcheck"
	Config stage.Config `yaml:"config"`
}

// UnmarshalYAML decodes a stage entry on top of stage.DefaultConfig, so
// flags the YAML leaves out keep their default values.
func (s *StageConfig) UnmarshalYAML(value *yaml.Node) error {
	type plain StageConfig
	p := plain{Config: stage.DefaultConfig()}
	if err := value.Decode(&p); err != nil {
		return err
	}
	*s = StageConfig(p)
	return nil
}

// Config is the root pktcore run configuration.
type Config struct {
	Logging     logging.Config   `yaml:"logging"`
	Stages      []StageConfig    `yaml:"stages"`
	DeviceTags  []devicetag.Rule `yaml:"device_tags"`
	MetricsAddr string           `yaml:"metrics_addr"`
	Input       string           `yaml:"input"` // pcap or pcap.gz path; empty means synthesize
	Synthetic   SyntheticConfig  `yaml:"synthetic"`
}

// SyntheticConfig controls the built-in packet generator used when Input is
// empty.
type SyntheticConfig struct {
	Count      int    `yaml:"count"`
	Protocol   string `yaml:"protocol"` // "tcp" or "udp"
	PayloadLen int    `yaml:"payload_len"`
}

// DefaultConfig returns the configuration used when no file is loaded.
func DefaultConfig() *Config {
	return &Config{
		Stages: []StageConfig{
			{Name: "tcp0", Kind: "tcpcheck", Config: stage.DefaultConfig()},
			{Name: "udp0", Kind: "udpcheck", Config: stage.DefaultConfig()},
		},
		Synthetic: SyntheticConfig{Count: 16, Protocol: "tcp", PayloadLen: 32},
	}
}

// LoadConfig reads and parses a YAML config file at path, falling back to
// DefaultConfig's field values for anything left unset.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(buf, cfg); err != nil {
		return nil, fmt.Errorf("failed to deserialize config: %w", err)
	}
	return cfg, nil
}
