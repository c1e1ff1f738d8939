package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed fallback_schedules.yaml
var defaultSchedulesYAML []byte

// FallbackSchedule is one entry of the canned schedule catalogue.
type FallbackSchedule struct {
	Name            string   `yaml:"name"`
	ExpectedClockIn string   `yaml:"expected_clock_in"`
	Holidays        []string `yaml:"holidays"`
}

type scheduleCatalogue struct {
	Schedules []FallbackSchedule `yaml:"schedules"`
}

// LoadFallbackSchedules reads the catalogue from path, or the embedded default when path is empty.
func LoadFallbackSchedules(path string) ([]FallbackSchedule, error) {
	data := defaultSchedulesYAML
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read schedules file: %w", err)
		}
		data = raw
	}
	return ParseFallbackSchedules(data)
}

func ParseFallbackSchedules(data []byte) ([]FallbackSchedule, error) {
	var catalogue scheduleCatalogue
	if err := yaml.Unmarshal(data, &catalogue); err != nil {
		return nil, fmt.Errorf("parse schedules: %w", err)
	}
	if len(catalogue.Schedules) == 0 {
		return nil, fmt.Errorf("schedule catalogue is empty")
	}
	for i, s := range catalogue.Schedules {
		if s.ExpectedClockIn == "" {
			return nil, fmt.Errorf("schedule %d (%s): expected_clock_in is required", i, s.Name)
		}
	}
	return catalogue.Schedules, nil
}
