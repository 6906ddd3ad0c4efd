// Package site holds the static marketing content rendered by the web pages.
package site

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed content.yaml
var defaultContent []byte

// Link is a labelled navigation target
type Link struct {
	Label string `yaml:"label"`
	Path  string `yaml:"path"`
}

// Stat is a headline figure on the home page
type Stat struct {
	Value string `yaml:"value"`
	Label string `yaml:"label"`
}

// Feature is a product feature on the home page
type Feature struct {
	Icon        string `yaml:"icon"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// Tier is a pricing plan
type Tier struct {
	Name     string   `yaml:"name"`
	Price    string   `yaml:"price"`
	Features []string `yaml:"features"`
}

// Monthly reports whether the price is a monthly amount rather than "Custom"
func (t Tier) Monthly() bool {
	return t.Price != "Custom"
}

// Home is the home page copy
type Home struct {
	Headline       string    `yaml:"headline"`
	HeadlineAccent string    `yaml:"headline_accent"`
	Lead           string    `yaml:"lead"`
	Stats          []Stat    `yaml:"stats"`
	FeaturesTitle  string    `yaml:"features_title"`
	FeaturesLead   string    `yaml:"features_lead"`
	Features       []Feature `yaml:"features"`
	CTATitle       string    `yaml:"cta_title"`
	CTAAccent      string    `yaml:"cta_accent"`
	CTALead        string    `yaml:"cta_lead"`
}

// Pricing is the pricing page copy
type Pricing struct {
	Title string `yaml:"title"`
	Lead  string `yaml:"lead"`
	Tiers []Tier `yaml:"tiers"`
}

// Content is everything the static pages render
type Content struct {
	Name        string  `yaml:"name"`
	Nav         []Link  `yaml:"nav"`
	FooterLinks []Link  `yaml:"footer_links"`
	Home        Home    `yaml:"home"`
	Pricing     Pricing `yaml:"pricing"`
}

// Load parses site content from YAML
func Load(data []byte) (*Content, error) {
	var c Content
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse site content: %w", err)
	}
	if c.Name == "" {
		return nil, fmt.Errorf("site content has no name")
	}
	return &c, nil
}

// Default returns the embedded site content
func Default() (*Content, error) {
	return Load(defaultContent)
}
