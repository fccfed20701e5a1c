// Package template provides the pluggable pattern table that adapts the
// parsing pipeline to one statement layout: region markers for the line
// classifier, boilerplate patterns for the normalizer, and field anchors
// for the region parsers. Templates load from YAML; the TD rewards-card
// template ships embedded.
package template

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed td.yaml
var embeddedTD []byte

// Region identifies one of the logical sections of a statement.
type Region string

const (
	RegionHeader         Region = "header"
	RegionBalanceSummary Region = "balance_summary"
	RegionTransactions   Region = "transactions"
	RegionRewards        Region = "rewards"
	RegionTrailer        Region = "trailer"
	RegionUnknown        Region = "unknown"
)

var validRegions = map[Region]struct{}{
	RegionHeader: {}, RegionBalanceSummary: {}, RegionTransactions: {},
	RegionRewards: {}, RegionTrailer: {}, RegionUnknown: {},
}

// ValidRegion checks if r names a known region.
func ValidRegion(r Region) bool {
	_, ok := validRegions[r]
	return ok
}

// MatchType defines how a marker phrase is matched against a line.
type MatchType string

const (
	// MatchTypeExact requires the phrase to equal the whole line.
	MatchTypeExact MatchType = "exact"
	// MatchTypePrefix requires the line to start with the phrase.
	MatchTypePrefix MatchType = "prefix"
)

// Marker is one anchor phrase that transitions the classifier into a
// region. The marker line itself is consumed, never buffered.
type Marker struct {
	Phrase string    `yaml:"phrase"`
	Match  MatchType `yaml:"match"`
	Region Region    `yaml:"region"`
}

// Matches reports whether line triggers this marker.
func (m *Marker) Matches(line string) bool {
	switch m.Match {
	case MatchTypeExact:
		return line == m.Phrase
	case MatchTypePrefix:
		return strings.HasPrefix(line, m.Phrase)
	}
	return false
}

// metadataAnchors holds the raw YAML patterns for the header fields.
type metadataAnchors struct {
	EntityName        string `yaml:"entity_name"`
	PrimaryCardholder string `yaml:"primary_cardholder"`
	AccountSuffix     string `yaml:"account_suffix"`
	BillingPeriod     string `yaml:"billing_period"`
}

// balanceAnchors holds the raw YAML label patterns for the eight monetary
// fields of the balance summary.
type balanceAnchors struct {
	PreviousBalance string `yaml:"previous_balance"`
	Purchases       string `yaml:"purchases"`
	Credits         string `yaml:"credits"`
	Fees            string `yaml:"fees"`
	Interest        string `yaml:"interest"`
	NewBalance      string `yaml:"new_balance"`
	AvailableCredit string `yaml:"available_credit"`
	MinimumPayment  string `yaml:"minimum_payment"`
}

// templateYAML is the top-level YAML structure.
type templateYAML struct {
	Name        string          `yaml:"name"`
	Detect      []string        `yaml:"detect"`
	Markers     []Marker        `yaml:"markers"`
	Boilerplate []string        `yaml:"boilerplate"`
	Metadata    metadataAnchors `yaml:"metadata"`
	Balance     balanceAnchors  `yaml:"balance"`
	Rewards     struct {
		Points string `yaml:"points"`
	} `yaml:"rewards"`
}

// Template is a validated, compiled pattern table for one statement
// layout. Create instances with New, LoadEmbedded or LoadFromFile.
type Template struct {
	name        string
	detect      []string
	markers     []Marker
	boilerplate []*regexp.Regexp

	entityName        *regexp.Regexp
	primaryCardholder *regexp.Regexp
	accountSuffix     *regexp.Regexp
	billingPeriod     *regexp.Regexp

	balance map[string]*regexp.Regexp
	points  *regexp.Regexp
}

// Name returns the template identifier (e.g. "td").
func (t *Template) Name() string { return t.name }

// Markers returns a copy of the ordered marker list.
func (t *Template) Markers() []Marker {
	return append([]Marker(nil), t.markers...)
}

// IsBoilerplate reports whether line matches any of the template's
// repeated per-page boilerplate patterns (column headers, page footers).
func (t *Template) IsBoilerplate(line string) bool {
	for _, re := range t.boilerplate {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// EntityName matches the entity name anchor; ok is false when the line
// does not carry the field.
func (t *Template) EntityName(line string) (value string, ok bool) {
	return firstGroup(t.entityName, line)
}

// PrimaryCardholder matches the cardholder anchor.
func (t *Template) PrimaryCardholder(line string) (value string, ok bool) {
	return firstGroup(t.primaryCardholder, line)
}

// AccountSuffix matches the account suffix anchor.
func (t *Template) AccountSuffix(line string) (value string, ok bool) {
	return firstGroup(t.accountSuffix, line)
}

// BillingPeriod matches the billing period anchor, returning the raw start
// and end date text.
func (t *Template) BillingPeriod(line string) (start, end string, ok bool) {
	m := t.billingPeriod.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}
	return strings.TrimSpace(m[1]), strings.TrimSpace(m[2]), true
}

// BalanceLabel reports which balance field, if any, the line is labeled
// with. Field keys follow the YAML anchors (previous_balance, purchases,
// credits, fees, interest, new_balance, available_credit, minimum_payment).
func (t *Template) BalanceLabel(line string) (field string, ok bool) {
	for _, key := range balanceFieldOrder {
		if t.balance[key].MatchString(line) {
			return key, true
		}
	}
	return "", false
}

// PointsLine reports whether line carries the rewards points balance.
func (t *Template) PointsLine(line string) bool {
	return t.points.MatchString(line)
}

// DetectScore counts how many of the template's detection phrases occur in
// the supplied lines. Used by the Registry to identify the issuer.
func (t *Template) DetectScore(lines []string) int {
	score := 0
	for _, phrase := range t.detect {
		for _, line := range lines {
			if strings.Contains(line, phrase) {
				score++
				break
			}
		}
	}
	return score
}

// balanceFieldOrder fixes the label probe order. Longer, more specific
// labels come before shorter ones so "Previous Balance" never falls
// through to "New Balance" style prefixes.
var balanceFieldOrder = []string{
	"previous_balance",
	"new_balance",
	"minimum_payment",
	"available_credit",
	"purchases",
	"credits",
	"fees",
	"interest",
}

func firstGroup(re *regexp.Regexp, line string) (string, bool) {
	m := re.FindStringSubmatch(line)
	if m == nil || len(m) < 2 {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// New creates a validated template from YAML data.
func New(data []byte) (*Template, error) {
	var raw templateYAML
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse template YAML (check syntax, indentation, and field names): %w", err)
	}

	if strings.TrimSpace(raw.Name) == "" {
		return nil, fmt.Errorf("template name cannot be empty")
	}
	if len(raw.Markers) == 0 {
		return nil, fmt.Errorf("template %q: at least one region marker is required", raw.Name)
	}

	for i, m := range raw.Markers {
		if strings.TrimSpace(m.Phrase) == "" {
			return nil, fmt.Errorf("template %q: marker %d: phrase cannot be empty", raw.Name, i)
		}
		if m.Match != MatchTypeExact && m.Match != MatchTypePrefix {
			return nil, fmt.Errorf("template %q: marker %d (%s): invalid match %q (must be 'exact' or 'prefix')", raw.Name, i, m.Phrase, m.Match)
		}
		if !ValidRegion(m.Region) || m.Region == RegionUnknown {
			return nil, fmt.Errorf("template %q: marker %d (%s): invalid region %q", raw.Name, i, m.Phrase, m.Region)
		}
	}

	tmpl := &Template{
		name:    raw.Name,
		detect:  append([]string(nil), raw.Detect...),
		markers: append([]Marker(nil), raw.Markers...),
		balance: make(map[string]*regexp.Regexp, len(balanceFieldOrder)),
	}

	for i, pattern := range raw.Boilerplate {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("template %q: boilerplate %d: %w", raw.Name, i, err)
		}
		tmpl.boilerplate = append(tmpl.boilerplate, re)
	}

	var err error
	if tmpl.entityName, err = compileAnchor(raw.Name, "metadata.entity_name", raw.Metadata.EntityName, 1); err != nil {
		return nil, err
	}
	if tmpl.primaryCardholder, err = compileAnchor(raw.Name, "metadata.primary_cardholder", raw.Metadata.PrimaryCardholder, 1); err != nil {
		return nil, err
	}
	if tmpl.accountSuffix, err = compileAnchor(raw.Name, "metadata.account_suffix", raw.Metadata.AccountSuffix, 1); err != nil {
		return nil, err
	}
	if tmpl.billingPeriod, err = compileAnchor(raw.Name, "metadata.billing_period", raw.Metadata.BillingPeriod, 2); err != nil {
		return nil, err
	}

	balancePatterns := map[string]string{
		"previous_balance": raw.Balance.PreviousBalance,
		"purchases":        raw.Balance.Purchases,
		"credits":          raw.Balance.Credits,
		"fees":             raw.Balance.Fees,
		"interest":         raw.Balance.Interest,
		"new_balance":      raw.Balance.NewBalance,
		"available_credit": raw.Balance.AvailableCredit,
		"minimum_payment":  raw.Balance.MinimumPayment,
	}
	for _, key := range balanceFieldOrder {
		if tmpl.balance[key], err = compileAnchor(raw.Name, "balance."+key, balancePatterns[key], 0); err != nil {
			return nil, err
		}
	}

	if tmpl.points, err = compileAnchor(raw.Name, "rewards.points", raw.Rewards.Points, 0); err != nil {
		return nil, err
	}

	return tmpl, nil
}

// compileAnchor compiles a mandatory anchor pattern, checking it carries
// at least the required number of capture groups.
func compileAnchor(templateName, anchorName, pattern string, groups int) (*regexp.Regexp, error) {
	if strings.TrimSpace(pattern) == "" {
		return nil, fmt.Errorf("template %q: anchor %s cannot be empty", templateName, anchorName)
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("template %q: anchor %s: %w", templateName, anchorName, err)
	}
	if re.NumSubexp() < groups {
		return nil, fmt.Errorf("template %q: anchor %s needs %d capture group(s), has %d", templateName, anchorName, groups, re.NumSubexp())
	}
	return re, nil
}

// LoadEmbedded loads the embedded TD template.
func LoadEmbedded() (*Template, error) {
	tmpl, err := New(embeddedTD)
	if err != nil {
		return nil, fmt.Errorf("failed to load embedded template (possible binary corruption): %w", err)
	}
	return tmpl, nil
}

// LoadFromFile loads a template from a filesystem path.
func LoadFromFile(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template file %s: %w", path, err)
	}
	tmpl, err := New(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load template from %s: %w", path, err)
	}
	return tmpl, nil
}
