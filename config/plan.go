package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"poimap-scraper/models"
)

// Plan is the YAML search plan: every locality is crossed with the category
// to form the harvest work units.
type Plan struct {
	Category   string   `yaml:"category"`
	Localities []string `yaml:"localities"`
}

// LoadPlan reads and validates the plan file.
func LoadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("plan: read %q: %w", path, err)
	}

	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("plan: parse %q: %w", path, err)
	}

	if strings.TrimSpace(p.Category) == "" {
		return nil, fmt.Errorf("plan: category is required")
	}
	if len(p.Localities) == 0 {
		return nil, fmt.Errorf("plan: at least one locality is required")
	}

	return &p, nil
}

// Units expands the plan into the full work-unit list.
func (p *Plan) Units() []models.Unit {
	units := make([]models.Unit, 0, len(p.Localities))
	for _, loc := range p.Localities {
		loc = strings.TrimSpace(loc)
		if loc == "" {
			continue
		}
		units = append(units, models.Unit{Locality: loc, Category: strings.TrimSpace(p.Category)})
	}
	return units
}
