package site

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed content.yaml
var defaultContent []byte

// Content is the copy rendered by the public pages.
type Content struct {
	Company     string         `yaml:"company"`
	Product     string         `yaml:"product"`
	Tagline     string         `yaml:"tagline"`
	Description string         `yaml:"description"`
	OGImage     string         `yaml:"ogImage"`
	Hero        Hero           `yaml:"hero"`
	Features    []Feature      `yaml:"features"`
	Story       Story          `yaml:"story"`
	Team        Team           `yaml:"team"`
	Pricing     PricingContent `yaml:"pricing"`
}

// Hero is the landing page header.
type Hero struct {
	Title    string `yaml:"title"`
	Subtitle string `yaml:"subtitle"`
	CTA      string `yaml:"cta"`
}

// Feature is one landing page feature card.
type Feature struct {
	Title string `yaml:"title"`
	Body  string `yaml:"body"`
}

// Story is the scroll-story page.
type Story struct {
	Title    string    `yaml:"title"`
	Chapters []Chapter `yaml:"chapters"`
}

// Chapter is one section of the story page.
type Chapter struct {
	Heading string `yaml:"heading"`
	Body    string `yaml:"body"`
}

// Team lists the people behind the product.
type Team struct {
	Title   string   `yaml:"title"`
	Members []Member `yaml:"members"`
}

// Member is one person on the team page.
type Member struct {
	Name string `yaml:"name"`
	Role string `yaml:"role"`
	Bio  string `yaml:"bio"`
}

// PricingContent is the copy around the experiment price.
type PricingContent struct {
	Title  string   `yaml:"title"`
	Period string   `yaml:"period"`
	Plan   string   `yaml:"plan"`
	Perks  []string `yaml:"perks"`
	CTA    string   `yaml:"cta"`
}

// LoadContent reads content from path, or the embedded default when path is
// empty.
func LoadContent(path string) (Content, error) {
	data := defaultContent
	if path = strings.TrimSpace(path); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Content{}, fmt.Errorf("read content %s: %w", path, err)
		}
		data = raw
	}
	return ParseContent(data)
}

// ParseContent decodes a YAML content document.
func ParseContent(data []byte) (Content, error) {
	var content Content
	if err := yaml.Unmarshal(data, &content); err != nil {
		return Content{}, fmt.Errorf("decode content: %w", err)
	}
	if strings.TrimSpace(content.Product) == "" {
		return Content{}, fmt.Errorf("content product name is required")
	}
	if strings.TrimSpace(content.Hero.Title) == "" {
		return Content{}, fmt.Errorf("content hero title is required")
	}
	return content, nil
}
