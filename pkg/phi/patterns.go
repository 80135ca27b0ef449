package phi

import (
	"regexp"

	"github.com/ry86pkqf74-rgb/researchflow-production-sub005/pkg/domain"
)

// Pattern is one immutable detector definition. The compiled expression is
// stateless; every scan enumerates matches from scratch, so no match state
// survives between calls.
type Pattern struct {
	Category       domain.PHICategory
	Expr           *regexp.Regexp
	BaseConfidence float64
	HIPAACitation  string
}

// patterns is the ordered catalog. Citations reference the HIPAA Safe Harbor
// identifier list, 45 CFR 164.514(b)(2)(i).
var patterns = []Pattern{
	{domain.CategorySSN, regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`), 0.95, "45 CFR 164.514(b)(2)(i)(G)"},
	{domain.CategoryMRN, regexp.MustCompile(`\b(?i:mrn)[:#\s]*\d{6,10}\b`), 0.90, "45 CFR 164.514(b)(2)(i)(H)"},
	{domain.CategoryDate, regexp.MustCompile(`\b(?:0?[1-9]|1[0-2])[/-](?:0?[1-9]|[12]\d|3[01])[/-](?:19|20)\d{2}\b`), 0.70, "45 CFR 164.514(b)(2)(i)(C)"},
	{domain.CategoryPhone, regexp.MustCompile(`\b(?:\+?1[-.\s]?)?\(?\d{3}\)?[-.\s]\d{3}[-.\s]\d{4}\b`), 0.80, "45 CFR 164.514(b)(2)(i)(D)"},
	{domain.CategoryEmail, regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`), 0.90, "45 CFR 164.514(b)(2)(i)(F)"},
	{domain.CategoryName, regexp.MustCompile(`\b(?:Dr|Mr|Mrs|Ms)\.\s+[A-Z][a-z]+(?:\s+[A-Z][a-z]+)?`), 0.60, "45 CFR 164.514(b)(2)(i)(A)"},
	{domain.CategoryAddress, regexp.MustCompile(`\b\d{1,5}\s+[A-Z][a-z]+\s+(?:Street|St|Avenue|Ave|Road|Rd|Boulevard|Blvd|Lane|Ln|Drive|Dr|Court|Ct)\b`), 0.70, "45 CFR 164.514(b)(2)(i)(B)"},
	{domain.CategoryZip, regexp.MustCompile(`\b\d{5}(?:-\d{4})?\b`), 0.50, "45 CFR 164.514(b)(2)(i)(B)"},
	{domain.CategoryIP, regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`), 0.85, "45 CFR 164.514(b)(2)(i)(O)"},
	{domain.CategoryURL, regexp.MustCompile(`\bhttps?://\S+`), 0.60, "45 CFR 164.514(b)(2)(i)(N)"},
	{domain.CategoryAccount, regexp.MustCompile(`\b(?i:acct|account)[:#\s]*\d{6,12}\b`), 0.75, "45 CFR 164.514(b)(2)(i)(J)"},
	{domain.CategoryLicense, regexp.MustCompile(`\b(?i:license|lic)[:#\s]*[A-Z0-9]{5,12}\b`), 0.70, "45 CFR 164.514(b)(2)(i)(K)"},
	{domain.CategoryDevice, regexp.MustCompile(`\b(?i:serial|device)[:#\s]*[A-Z0-9][A-Z0-9-]{5,19}\b`), 0.70, "45 CFR 164.514(b)(2)(i)(M)"},
	{domain.CategoryAgeOver89, regexp.MustCompile(`\b(?:9\d|1[0-4]\d)\s*(?:years?[\s-]*old|y/?o)\b`), 0.80, "45 CFR 164.514(b)(2)(i)(C)"},
}

// Patterns returns the catalog in detection order.
func Patterns() []Pattern {
	out := make([]Pattern, len(patterns))
	copy(out, patterns)
	return out
}
