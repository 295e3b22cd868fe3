package ai

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DetectorConfig describes the detection model. It is read from YAML:
//
//	input_size: 640
//	nms_threshold: 0.45
//	labels: [ore carrier, bulk cargo carrier, ...]
type DetectorConfig struct {
	InputSize    int      `yaml:"input_size"`
	NMSThreshold float64  `yaml:"nms_threshold"`
	Labels       []string `yaml:"labels"`
}

// DefaultDetectorConfig matches the six-class ship model.
func DefaultDetectorConfig() DetectorConfig {
	return DetectorConfig{
		InputSize:    640,
		NMSThreshold: 0.45,
		Labels: []string{
			"ore carrier",
			"bulk cargo carrier",
			"general cargo ship",
			"container ship",
			"fishing boat",
			"passenger ship",
		},
	}
}

// LoadDetectorConfig reads path and fills missing fields from the defaults.
// A missing file yields the defaults.
func LoadDetectorConfig(path string) (DetectorConfig, error) {
	cfg := DefaultDetectorConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read detector config: %w", err)
	}

	var fromFile DetectorConfig
	if err := yaml.Unmarshal(data, &fromFile); err != nil {
		return cfg, fmt.Errorf("failed to parse detector config %s: %w", path, err)
	}

	if fromFile.InputSize > 0 {
		cfg.InputSize = fromFile.InputSize
	}
	if fromFile.NMSThreshold > 0 {
		cfg.NMSThreshold = fromFile.NMSThreshold
	}
	if len(fromFile.Labels) > 0 {
		cfg.Labels = fromFile.Labels
	}
	return cfg, nil
}

// Label returns the class name, or unknown_<id> outside the label list.
func (c DetectorConfig) Label(classID int) string {
	if classID >= 0 && classID < len(c.Labels) {
		return c.Labels[classID]
	}
	return fmt.Sprintf("unknown_%d", classID)
}
