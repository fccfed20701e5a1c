package parse

import (
	"time"

	"github.com/rumor-ml/commons.systems/ccparse/internal/domain"
	"github.com/rumor-ml/commons.systems/ccparse/internal/template"
)

// Metadata holds the identity fields extracted from the header region.
type Metadata struct {
	EntityName         string
	PrimaryCardholder  string
	AccountSuffix      string
	BillingPeriodStart time.Time
	BillingPeriodEnd   time.Time
}

// ParseMetadata extracts the five mandatory header fields from the header
// buffer using the template's label anchors. The first line matching an
// anchor wins; a field no line carries is a FieldIntegrityError naming it.
func ParseMetadata(lines []string, tmpl *template.Template) (*Metadata, error) {
	meta := &Metadata{}
	var periodStartRaw, periodEndRaw, periodLine string

	for _, line := range lines {
		if meta.EntityName == "" {
			if v, ok := tmpl.EntityName(line); ok {
				meta.EntityName = v
			}
		}
		if meta.PrimaryCardholder == "" {
			if v, ok := tmpl.PrimaryCardholder(line); ok {
				meta.PrimaryCardholder = v
			}
		}
		if meta.AccountSuffix == "" {
			if v, ok := tmpl.AccountSuffix(line); ok {
				meta.AccountSuffix = v
			}
		}
		if periodStartRaw == "" {
			if start, end, ok := tmpl.BillingPeriod(line); ok {
				periodStartRaw, periodEndRaw, periodLine = start, end, line
			}
		}
	}

	region := string(template.RegionHeader)
	if meta.EntityName == "" {
		return nil, &domain.FieldIntegrityError{Field: "entity_name", Region: region}
	}
	if meta.PrimaryCardholder == "" {
		return nil, &domain.FieldIntegrityError{Field: "primary_cardholder", Region: region}
	}
	if meta.AccountSuffix == "" {
		return nil, &domain.FieldIntegrityError{Field: "account_suffix", Region: region}
	}
	if periodStartRaw == "" {
		return nil, &domain.FieldIntegrityError{Field: "billing_period", Region: region}
	}

	start, err := parseBillingDate(periodStartRaw)
	if err != nil {
		return nil, &domain.FieldIntegrityError{Field: "billing_period_start", Region: region, Line: periodLine}
	}
	end, err := parseBillingDate(periodEndRaw)
	if err != nil {
		return nil, &domain.FieldIntegrityError{Field: "billing_period_end", Region: region, Line: periodLine}
	}
	meta.BillingPeriodStart = start
	meta.BillingPeriodEnd = end

	return meta, nil
}
