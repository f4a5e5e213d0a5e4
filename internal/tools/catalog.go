// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package tools implements the tool catalog, intent detection, parameter
// collection, and execution against the studio backend.
package tools

import (
	"fmt"
)

// =============================================================================
// PARAMETER TYPES
// =============================================================================

// ParamType distinguishes free-text parameters from enumerated choices.
type ParamType string

const (
	ParamText   ParamType = "text"
	ParamSelect ParamType = "select"
)

// Parameter describes one input a tool needs before it can run.
type Parameter struct {
	Name        string
	Label       string
	Type        ParamType
	Placeholder string
	Options     []string
	Required    bool
}

// =============================================================================
// TOOL TYPE
// =============================================================================

// Tool is a named external capability invocable from chat. Slug names the
// backend endpoint (/tools/{slug}).
type Tool struct {
	Name        string
	Slug        string
	Description string
	Parameters  []Parameter
}

// RequiredParameters returns the parameters that must be present before
// execution, in declaration order.
func (t *Tool) RequiredParameters() []Parameter {
	var required []Parameter
	for _, p := range t.Parameters {
		if p.Required {
			required = append(required, p)
		}
	}
	return required
}

// HasAllRequired reports whether params covers every required parameter
// with a non-empty value.
func (t *Tool) HasAllRequired(params map[string]string) bool {
	return len(t.MissingParameters(params)) == 0
}

// MissingParameters returns required parameters absent from params,
// in declaration order.
func (t *Tool) MissingParameters(params map[string]string) []Parameter {
	var missing []Parameter
	for _, p := range t.RequiredParameters() {
		if params[p.Name] == "" {
			missing = append(missing, p)
		}
	}
	return missing
}

// RequestDescription synthesizes the user-facing message describing an
// invocation, appended to the thread before the network call.
func (t *Tool) RequestDescription(params map[string]string) string {
	switch t.Slug {
	case SlugWebsiteScanner:
		return "Analyze website: " + params["url"]
	case SlugExecutivePersona:
		return fmt.Sprintf("Create an executive persona for %s in %s", params["role"], params["industry"])
	case SlugBrandFoundation:
		return fmt.Sprintf("Build a brand foundation for %s (%s)", params["company"], params["industry"])
	case SlugICPBuilder:
		return fmt.Sprintf("Build an ideal customer profile for %s in the %s market", params["product"], params["market"])
	default:
		return "Run " + t.Name
	}
}

// =============================================================================
// CATALOG
// =============================================================================

// Backend endpoint slugs.
const (
	SlugWebsiteScanner   = "website-scanner"
	SlugExecutivePersona = "executive-persona"
	SlugBrandFoundation  = "brand-foundation"
	SlugICPBuilder       = "icp-builder"
)

// Catalog is the static registry of invocable tools.
type Catalog struct {
	tools  []*Tool
	byName map[string]*Tool
}

// NewCatalog builds the default catalog. Registration order is the
// detector's priority order.
func NewCatalog() *Catalog {
	c := &Catalog{byName: make(map[string]*Tool)}

	c.register(&Tool{
		Name:        "Website Intelligence",
		Slug:        SlugWebsiteScanner,
		Description: "Scans a website and reports structure, categories, and outbound links.",
		Parameters: []Parameter{
			{Name: "url", Label: "Website URL", Type: ParamText, Placeholder: "https://example.com", Required: true},
		},
	})

	c.register(&Tool{
		Name:        "Executive Persona",
		Slug:        SlugExecutivePersona,
		Description: "Builds a detailed persona for an executive role in a given industry.",
		Parameters: []Parameter{
			{Name: "role", Label: "Executive role", Type: ParamText, Placeholder: "CMO", Required: true},
			{Name: "industry", Label: "Industry", Type: ParamText, Placeholder: "logistics", Required: true},
		},
	})

	c.register(&Tool{
		Name:        "Brand Foundation",
		Slug:        SlugBrandFoundation,
		Description: "Generates positioning, voice, and messaging pillars for a company.",
		Parameters: []Parameter{
			{Name: "company", Label: "Company name", Type: ParamText, Placeholder: "Acme Corp", Required: true},
			{Name: "industry", Label: "Industry", Type: ParamSelect, Options: []string{
				"SaaS", "E-commerce", "Professional services", "Manufacturing", "Healthcare", "Other",
			}, Required: true},
		},
	})

	c.register(&Tool{
		Name:        "ICP Builder",
		Slug:        SlugICPBuilder,
		Description: "Builds an ideal customer profile for a product in a target market.",
		Parameters: []Parameter{
			{Name: "product", Label: "Product or service", Type: ParamText, Placeholder: "analytics platform", Required: true},
			{Name: "market", Label: "Target market", Type: ParamSelect, Options: []string{
				"SMB", "Mid-market", "Enterprise",
			}, Required: true},
		},
	})

	return c
}

func (c *Catalog) register(t *Tool) {
	c.tools = append(c.tools, t)
	c.byName[t.Name] = t
}

// Get looks a tool up by name.
func (c *Catalog) Get(name string) (*Tool, bool) {
	t, ok := c.byName[name]
	return t, ok
}

// All returns the tools in registration order.
func (c *Catalog) All() []*Tool {
	return c.tools
}
