package parse

import (
	"strconv"
	"strings"

	"github.com/rumor-ml/commons.systems/ccparse/internal/domain"
	"github.com/rumor-ml/commons.systems/ccparse/internal/template"
)

// ParseRewards extracts the current points balance from the rewards
// buffer. A structurally absent region (no lines at all) means the card
// carries no rewards program and defaults to zero. A present region whose
// points line is missing or unparseable is an integrity error, never a
// silent zero.
func ParseRewards(lines []string, tmpl *template.Template) (int, error) {
	if len(lines) == 0 {
		return 0, nil
	}

	region := string(template.RegionRewards)
	for _, line := range lines {
		if !tmpl.PointsLine(line) {
			continue
		}
		// The balance is the rightmost integer token on the line.
		tokens := strings.Fields(line)
		for i := len(tokens) - 1; i >= 0; i-- {
			raw := strings.ReplaceAll(tokens[i], ",", "")
			points, err := strconv.Atoi(raw)
			if err != nil {
				continue
			}
			if points < 0 {
				return 0, &domain.FieldIntegrityError{Field: "current_points", Region: region, Line: line}
			}
			return points, nil
		}
		return 0, &domain.FieldIntegrityError{Field: "current_points", Region: region, Line: line}
	}

	return 0, &domain.FieldIntegrityError{Field: "current_points", Region: region}
}
