package domain

// criticalCategories are the identifier classes that escalate risk fastest.
var criticalCategories = map[PHICategory]bool{
	CategorySSN:     true,
	CategoryMRN:     true,
	CategoryName:    true,
	CategoryAddress: true,
}

// AggregateRisk reduces a finding set to a risk level. Pure function of the
// finding multiset: ordering never changes the result.
func AggregateRisk(findings []PHIFinding) RiskLevel {
	if len(findings) == 0 {
		return RiskNone
	}
	highConf := 0
	critical := 0
	for _, f := range findings {
		if f.Confidence >= 0.85 {
			highConf++
		}
		if criticalCategories[f.Category] {
			critical++
		}
	}
	switch {
	case highConf >= 5, critical >= 2 && len(findings) >= 3:
		return RiskHigh
	case len(findings) >= 3, highConf >= 2:
		return RiskMedium
	default:
		return RiskLow
	}
}

// RequiresOverride is true only for export-context scans with findings.
// Upload scans are informational; exports are gated.
func RequiresOverride(ctx ScanContext, level RiskLevel) bool {
	return ctx == ContextExport && level != RiskNone
}
