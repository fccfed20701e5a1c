// Package pipeline wires the parsing stages together: normalizer, region
// classifier, region parsers, assembler, validator. One call consumes one
// document's line stream and returns one immutable statement or one typed
// error. The pipeline holds no per-call state, performs no I/O, and is
// safe for concurrent independent invocations.
package pipeline

import (
	"fmt"

	"github.com/rumor-ml/commons.systems/ccparse/internal/assemble"
	"github.com/rumor-ml/commons.systems/ccparse/internal/classify"
	"github.com/rumor-ml/commons.systems/ccparse/internal/domain"
	"github.com/rumor-ml/commons.systems/ccparse/internal/extractor"
	"github.com/rumor-ml/commons.systems/ccparse/internal/normalize"
	"github.com/rumor-ml/commons.systems/ccparse/internal/template"
)

// Pipeline parses statement documents against the templates in its
// registry.
type Pipeline struct {
	registry *template.Registry
}

// New creates a pipeline over the given template registry.
func New(registry *template.Registry) *Pipeline {
	return &Pipeline{registry: registry}
}

// Parse runs the pure transformation over already-extracted pages:
// normalize, classify, parse regions, assemble, validate.
func (p *Pipeline) Parse(pages []normalize.Page, tmpl *template.Template) (*domain.Statement, error) {
	lines := normalize.Normalize(pages, tmpl)
	buffers := classify.Classify(lines, tmpl)
	return assemble.Statement(buffers, tmpl)
}

// ParseFile extracts the text layer of the document at path and parses it.
// With templateName empty the issuer template is detected from the raw
// lines; otherwise the named template is used. Document loading happens
// once, up front; the extractor releases the file handle before parsing
// begins.
func (p *Pipeline) ParseFile(path, templateName string) (*domain.Statement, error) {
	pages, err := extractor.ExtractPages(path)
	if err != nil {
		return nil, fmt.Errorf("failed to extract text from %s: %w", path, err)
	}
	return p.ParsePages(pages, templateName)
}

// ParsePages parses extracted pages, detecting the template when
// templateName is empty.
func (p *Pipeline) ParsePages(pages []normalize.Page, templateName string) (*domain.Statement, error) {
	var tmpl *template.Template
	var err error
	if templateName == "" {
		tmpl, err = p.registry.Detect(rawTexts(pages))
	} else {
		tmpl, err = p.registry.Find(templateName)
	}
	if err != nil {
		return nil, err
	}
	return p.Parse(pages, tmpl)
}

func rawTexts(pages []normalize.Page) []string {
	var lines []string
	for _, page := range pages {
		lines = append(lines, page.Lines...)
	}
	return lines
}
