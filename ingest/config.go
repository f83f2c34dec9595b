package ingest

import (
	"os"

	"gopkg.in/yaml.v3"
)

// FileConfig is the YAML configuration shared by the ingest CLI and the
// read API server.
type FileConfig struct {
	DB string `yaml:"db"`
	// DefaultTZ localizes naive input timestamps (IANA name).
	DefaultTZ string `yaml:"default_tz"`
	BatchSize int    `yaml:"batch_size"`
	Debug     bool   `yaml:"debug"`

	// ListenAddr is only used by the API server.
	ListenAddr string `yaml:"listen_addr"`
}

func LoadConfig(path string) (*FileConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg FileConfig
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
