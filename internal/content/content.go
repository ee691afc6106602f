// Package content loads the portfolio's static data: profile, skills,
// projects, experience and education.
package content

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed portfolio.yaml
var defaultPortfolio []byte

type Portfolio struct {
	Profile    Profile      `yaml:"profile"`
	Skills     []Skill      `yaml:"skills"`
	Projects   []Project    `yaml:"projects"`
	Experience []Experience `yaml:"experience"`
	Education  []Education  `yaml:"education"`
}

type Profile struct {
	Name     string   `yaml:"name"`
	Roles    []string `yaml:"roles"`
	Tagline  string   `yaml:"tagline"`
	About    string   `yaml:"about"`
	Email    string   `yaml:"email"`
	Phone    string   `yaml:"phone"`
	Location string   `yaml:"location"`
	MapURL   string   `yaml:"map_url"`
	GitHub   string   `yaml:"github"`
	LinkedIn string   `yaml:"linkedin"`
	Resume   string   `yaml:"resume"`
}

type Skill struct {
	Name        string `yaml:"name"`
	Level       int    `yaml:"level"`
	Description string `yaml:"description"`
}

type Project struct {
	ID              int      `yaml:"id"`
	Title           string   `yaml:"title"`
	Description     string   `yaml:"description"`
	LongDescription string   `yaml:"long_description"`
	Image           string   `yaml:"image"`
	Technologies    []string `yaml:"technologies"`
	Features        []string `yaml:"features"`
	LiveDemo        string   `yaml:"live_demo"`
	GitHub          string   `yaml:"github"`
}

type Experience struct {
	Title       string   `yaml:"title"`
	Company     string   `yaml:"company"`
	Period      string   `yaml:"period"`
	Description []string `yaml:"description"`
}

type Education struct {
	Degree      string `yaml:"degree"`
	Institution string `yaml:"institution"`
	Period      string `yaml:"period"`
	Description string `yaml:"description"`
}

// Default returns the embedded portfolio.
func Default() (*Portfolio, error) {
	return Parse(defaultPortfolio)
}

// Load reads the portfolio at path, or the embedded one when path is empty.
func Load(path string) (*Portfolio, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML portfolio document.
func Parse(data []byte) (*Portfolio, error) {
	var p Portfolio
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse content: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks the fields the page cannot render without.
func (p *Portfolio) Validate() error {
	if p.Profile.Name == "" {
		return errors.New("content: profile.name is required")
	}
	for _, s := range p.Skills {
		if s.Level < 0 || s.Level > 100 {
			return fmt.Errorf("content: skill %q level %d out of range 0-100", s.Name, s.Level)
		}
	}
	for _, pr := range p.Projects {
		if pr.Title == "" {
			return fmt.Errorf("content: project %d has no title", pr.ID)
		}
	}
	return nil
}
