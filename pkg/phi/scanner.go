package phi

import (
	"time"
	"unicode"

	"github.com/ry86pkqf74-rgb/researchflow-production-sub005/pkg/domain"
	"github.com/ry86pkqf74-rgb/researchflow-production-sub005/pkg/evidencehash"
)

// categoriesPreferringRedaction always redact once confidence is high enough.
var categoriesPreferringRedaction = map[domain.PHICategory]bool{
	domain.CategorySSN:     true,
	domain.CategoryMRN:     true,
	domain.CategoryName:    true,
	domain.CategoryAddress: true,
	domain.CategoryPhone:   true,
}

// Scan detects PHI in content. Pure function of its inputs: identical
// content yields identical findings (category, span, confidence) on every
// call. The returned result has no scan id; the caller assigns one.
func Scan(content string, ctx domain.ScanContext) domain.ScanResult {
	var findings []domain.PHIFinding
	for _, p := range patterns {
		for _, span := range p.Expr.FindAllStringIndex(content, -1) {
			match := content[span[0]:span[1]]
			conf := confidence(p.BaseConfidence, match)
			findings = append(findings, domain.PHIFinding{
				Category:      p.Category,
				Confidence:    conf,
				Start:         span[0],
				End:           span[1],
				Action:        suggestedAction(p.Category, conf),
				HIPAACitation: p.HIPAACitation,
				Evidence:      evidencehash.FingerprintMatch(match),
			})
		}
	}

	counts := map[domain.PHICategory]int{}
	for _, f := range findings {
		counts[f.Category]++
	}
	level := domain.AggregateRisk(findings)
	return domain.ScanResult{
		Context:          ctx,
		ContentLength:    len(content),
		Findings:         findings,
		RiskLevel:        level,
		RequiresOverride: domain.RequiresOverride(ctx, level),
		CategoryCounts:   counts,
		ScannedAt:        time.Now().UTC(),
	}
}

func confidence(base float64, match string) float64 {
	conf := base
	if len(match) > 5 {
		conf += 0.10
	}
	if len(match) > 10 {
		conf += 0.05
	}
	if hasDigit(match) && hasLetter(match) {
		conf += 0.05
	}
	if conf > 0.99 {
		conf = 0.99
	}
	return conf
}

func suggestedAction(cat domain.PHICategory, conf float64) domain.SuggestedAction {
	switch {
	case categoriesPreferringRedaction[cat] && conf >= 0.8:
		return domain.ActionRedact
	case conf >= 0.7:
		return domain.ActionReview
	default:
		return domain.ActionRemove
	}
}

func hasDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
