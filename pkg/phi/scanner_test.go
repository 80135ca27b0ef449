package phi

import (
	"strings"
	"testing"

	"github.com/ry86pkqf74-rgb/researchflow-production-sub005/pkg/domain"
)

func TestScanSSNAndEmailScenario(t *testing.T) {
	content := "SSN 123-45-6789, contact jane@example.com"
	res := Scan(content, domain.ContextExport)

	if len(res.Findings) != 2 {
		t.Fatalf("expected exactly 2 findings, got %d: %+v", len(res.Findings), res.Findings)
	}
	var ssn, email *domain.PHIFinding
	for i := range res.Findings {
		switch res.Findings[i].Category {
		case domain.CategorySSN:
			ssn = &res.Findings[i]
		case domain.CategoryEmail:
			email = &res.Findings[i]
		}
	}
	if ssn == nil || email == nil {
		t.Fatalf("expected one ssn and one email finding: %+v", res.Findings)
	}
	if ssn.Confidence < 0.85 {
		t.Fatalf("ssn confidence %f should be >= 0.85", ssn.Confidence)
	}
	if res.RiskLevel != domain.RiskLow && res.RiskLevel != domain.RiskMedium {
		t.Fatalf("risk should be low or medium, got %s", res.RiskLevel)
	}
	if !res.RequiresOverride {
		t.Fatal("export scan with findings must require an override")
	}
}

func TestScanDeterministic(t *testing.T) {
	content := "Patient Mr. Smith, MRN: 12345678, called from 555-867-5309 on 01/15/2024. Lives at 42 Main Street, 90210."
	first := Scan(content, domain.ContextUpload)
	second := Scan(content, domain.ContextUpload)

	if len(first.Findings) != len(second.Findings) {
		t.Fatalf("finding count differs across identical scans: %d vs %d", len(first.Findings), len(second.Findings))
	}
	for i := range first.Findings {
		a, b := first.Findings[i], second.Findings[i]
		if a.Category != b.Category || a.Start != b.Start || a.End != b.End || a.Confidence != b.Confidence {
			t.Fatalf("finding %d differs across scans: %+v vs %+v", i, a, b)
		}
	}
	if first.RiskLevel != second.RiskLevel {
		t.Fatalf("risk differs across identical scans: %s vs %s", first.RiskLevel, second.RiskLevel)
	}
}

func TestEvidenceNeverContainsRawMatch(t *testing.T) {
	content := "SSN 123-45-6789 MRN: 99887766 jane.doe@hospital.org 10.0.0.15"
	res := Scan(content, domain.ContextExport)
	if len(res.Findings) == 0 {
		t.Fatal("expected findings")
	}
	for _, f := range res.Findings {
		raw := content[f.Start:f.End]
		if strings.Contains(f.Evidence, raw) {
			t.Fatalf("evidence %q leaks raw match %q", f.Evidence, raw)
		}
		if !strings.HasPrefix(f.Evidence, "sha256:") {
			t.Fatalf("evidence %q is not a fingerprint", f.Evidence)
		}
	}
}

func TestUploadContextNeverRequiresOverride(t *testing.T) {
	content := "SSN 123-45-6789, SSN 987-65-4321, MRN: 11223344, Dr. Jones, 12 Oak Avenue"
	res := Scan(content, domain.ContextUpload)
	if len(res.Findings) == 0 {
		t.Fatal("expected findings")
	}
	if res.RequiresOverride {
		t.Fatal("upload scans must never require an override")
	}
	if res.RiskLevel == domain.RiskNone {
		t.Fatal("findings should not aggregate to risk none")
	}
}

func TestCleanContent(t *testing.T) {
	res := Scan("the quick brown fox jumps over the lazy dog", domain.ContextExport)
	if len(res.Findings) != 0 {
		t.Fatalf("expected no findings, got %+v", res.Findings)
	}
	if res.RiskLevel != domain.RiskNone || res.RequiresOverride {
		t.Fatalf("clean export should be risk none with no override, got %+v", res)
	}
}

func TestConfidenceFormula(t *testing.T) {
	// 123-45-6789: len 11 (>5 and >10), digits only: 0.95 + 0.10 + 0.05 capped at 0.99.
	res := Scan("123-45-6789", domain.ContextUpload)
	if len(res.Findings) != 1 {
		t.Fatalf("expected one finding, got %+v", res.Findings)
	}
	if got := res.Findings[0].Confidence; got != 0.99 {
		t.Fatalf("ssn confidence = %f, want capped 0.99", got)
	}
}

func TestSuggestedActions(t *testing.T) {
	// SSN is in the redaction category set and scores >= 0.8.
	res := Scan("123-45-6789", domain.ContextUpload)
	if res.Findings[0].Action != domain.ActionRedact {
		t.Fatalf("ssn should suggest redact, got %s", res.Findings[0].Action)
	}

	// A bare zip scores 0.50 + 0: below 0.7 suggests remove.
	res = Scan("90210", domain.ContextUpload)
	if len(res.Findings) != 1 || res.Findings[0].Category != domain.CategoryZip {
		t.Fatalf("expected one zip finding, got %+v", res.Findings)
	}
	if res.Findings[0].Action != domain.ActionRemove {
		t.Fatalf("low-confidence zip should suggest remove, got %s", res.Findings[0].Action)
	}
}

func TestCategoryCounts(t *testing.T) {
	res := Scan("a@b.io c@d.io 123-45-6789", domain.ContextUpload)
	if res.CategoryCounts[domain.CategoryEmail] != 2 {
		t.Fatalf("expected 2 email findings, got %d", res.CategoryCounts[domain.CategoryEmail])
	}
	if res.CategoryCounts[domain.CategorySSN] != 1 {
		t.Fatalf("expected 1 ssn finding, got %d", res.CategoryCounts[domain.CategorySSN])
	}
}
