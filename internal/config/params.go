package config

import (
	"fmt"
	"os"

	"github.com/kodustech/kody-finetune/domain/tuning"
	"gopkg.in/yaml.v3"
)

// LoadThresholdsFile reads tuning-parameter overrides from a YAML file.
// A missing file is not an error; it returns zero overrides.
func LoadThresholdsFile(path string) (ThresholdOverrides, error) {
	if path == "" {
		return ThresholdOverrides{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ThresholdOverrides{}, nil
		}
		return ThresholdOverrides{}, fmt.Errorf("read thresholds file: %w", err)
	}

	var overrides ThresholdOverrides
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return ThresholdOverrides{}, fmt.Errorf("parse thresholds file %s: %w", path, err)
	}

	return overrides, nil
}

// ResolveThresholds builds the effective tuning.Thresholds for the config:
// defaults, then file values, then explicit overrides. Zero values are
// treated as "not set" and out-of-range values are ignored by the domain
// setters.
func (c AppConfig) ResolveThresholds() (tuning.Thresholds, error) {
	fromFile, err := LoadThresholdsFile(c.thresholdsFile)
	if err != nil {
		return tuning.Thresholds{}, err
	}

	t := applyOverrides(tuning.NewThresholds(), fromFile)
	return applyOverrides(t, c.thresholds), nil
}

func applyOverrides(t tuning.Thresholds, o ThresholdOverrides) tuning.Thresholds {
	if o.Positive != 0 {
		t = t.WithPositive(o.Positive)
	}
	if o.Negative != 0 {
		t = t.WithNegative(o.Negative)
	}
	if o.ClusterMatch != 0 {
		t = t.WithClusterMatch(o.ClusterMatch)
	}
	if o.MaxClusters != 0 {
		t = t.WithMaxClusters(o.MaxClusters)
	}
	if o.ClusterDivisor != 0 {
		t = t.WithClusterDivisor(o.ClusterDivisor)
	}
	if o.Iterations != 0 {
		t = t.WithIterations(o.Iterations)
	}
	return t
}
