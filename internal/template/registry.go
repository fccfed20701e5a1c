package template

import "fmt"

// Registry holds all known statement templates. Only the TD template is
// built in today; Register exists so future issuer templates plug in
// without touching the parsers.
type Registry struct {
	templates []*Template
}

// NewRegistry creates a registry with all built-in templates.
func NewRegistry() (*Registry, error) {
	td, err := LoadEmbedded()
	if err != nil {
		return nil, err
	}
	return &Registry{templates: []*Template{td}}, nil
}

// Register adds a custom template (for extensibility).
func (r *Registry) Register(t *Template) {
	r.templates = append(r.templates, t)
}

// Find returns the template with the given name.
func (r *Registry) Find(name string) (*Template, error) {
	for _, t := range r.templates {
		if t.Name() == name {
			return t, nil
		}
	}
	return nil, fmt.Errorf("no template named %q (known: %v)", name, r.ListTemplates())
}

// Detect identifies the issuer template from raw statement lines by
// counting detection-phrase hits. The best-scoring template wins; a zero
// score across the board is an error rather than a guess.
func (r *Registry) Detect(lines []string) (*Template, error) {
	var best *Template
	bestScore := 0
	for _, t := range r.templates {
		if score := t.DetectScore(lines); score > bestScore {
			best, bestScore = t, score
		}
	}
	if best == nil {
		return nil, fmt.Errorf("no template matched the document (known: %v)", r.ListTemplates())
	}
	return best, nil
}

// ListTemplates returns the names of all registered templates.
func (r *Registry) ListTemplates() []string {
	names := make([]string, len(r.templates))
	for i, t := range r.templates {
		names[i] = t.Name()
	}
	return names
}
