// Package catalog defines the set of optional image-customization
// features offered on the build form. The set is loaded from a YAML file
// so that new features can be offered without a code change.
package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Feature is a single selectable customization offered on the form.
type Feature struct {
	// Token is the short identifier passed to the build pipeline.
	Token string `yaml:"token"`
	// Name is the human-readable label shown on the form.
	Name string `yaml:"name"`
	// Description is optional help text.
	Description string `yaml:"description,omitempty"`
	// Packages are the distribution packages the feature installs.
	// Defaults to the token itself when empty.
	Packages []string `yaml:"packages,omitempty"`
}

// Catalog holds the offered features in form display order.
type Catalog struct {
	Features []Feature `yaml:"features"`

	tokens map[string]bool
}

// Default returns the built-in feature set used when no catalog file is
// configured.
func Default() *Catalog {
	c := &Catalog{
		Features: []Feature{
			{Token: "libreoffice", Name: "LibreOffice", Description: "Office suite"},
			{Token: "vlc", Name: "VLC", Description: "Media player"},
			{Token: "gimp", Name: "GIMP", Description: "Image editor"},
			{Token: "inkscape", Name: "Inkscape", Description: "Vector graphics editor"},
			{Token: "firefox", Name: "Firefox", Description: "Web browser"},
			{Token: "games", Name: "Games", Description: "Selection of small games",
				Packages: []string{"gnome-games", "aisleriot"}},
		},
	}
	c.index()
	return c
}

// Load reads a catalog from a YAML file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	if len(c.Features) == 0 {
		return nil, fmt.Errorf("catalog %s defines no features", path)
	}
	for i, f := range c.Features {
		if f.Token == "" {
			return nil, fmt.Errorf("catalog %s: feature %d has no token", path, i)
		}
	}

	c.index()
	return &c, nil
}

func (c *Catalog) index() {
	c.tokens = make(map[string]bool, len(c.Features))
	for _, f := range c.Features {
		c.tokens[f.Token] = true
	}
}

// Valid reports whether token is an offered feature.
func (c *Catalog) Valid(token string) bool {
	return c.tokens[token]
}

// Filter returns the subset of tokens that are offered features,
// preserving submission order and dropping duplicates.
func (c *Catalog) Filter(tokens []string) []string {
	seen := make(map[string]bool, len(tokens))
	var out []string
	for _, tok := range tokens {
		if c.tokens[tok] && !seen[tok] {
			out = append(out, tok)
			seen[tok] = true
		}
	}
	return out
}

// Recipe resolves the given feature tokens to the package list the
// build pipeline installs. Unknown tokens are skipped; the result is
// never nil so an empty selection encodes as an empty list.
func (c *Catalog) Recipe(tokens []string) []string {
	recipe := []string{}
	seen := make(map[string]bool)
	for _, tok := range tokens {
		if !c.tokens[tok] {
			continue
		}
		for _, f := range c.Features {
			if f.Token != tok {
				continue
			}
			pkgs := f.Packages
			if len(pkgs) == 0 {
				pkgs = []string{f.Token}
			}
			for _, p := range pkgs {
				if !seen[p] {
					recipe = append(recipe, p)
					seen[p] = true
				}
			}
		}
	}
	return recipe
}
