package domain

import "time"

type ScanContext string

const (
	ContextUpload ScanContext = "upload"
	ContextExport ScanContext = "export"
)

type PHICategory string

const (
	CategorySSN       PHICategory = "ssn"
	CategoryMRN       PHICategory = "mrn"
	CategoryDate      PHICategory = "dob/date"
	CategoryPhone     PHICategory = "phone"
	CategoryEmail     PHICategory = "email"
	CategoryName      PHICategory = "name"
	CategoryAddress   PHICategory = "address"
	CategoryZip       PHICategory = "geographic/zip"
	CategoryIP        PHICategory = "ip"
	CategoryURL       PHICategory = "url"
	CategoryAccount   PHICategory = "account"
	CategoryLicense   PHICategory = "license"
	CategoryDevice    PHICategory = "device"
	CategoryAgeOver89 PHICategory = "age-over-89"
	CategoryOther     PHICategory = "other"
)

type SuggestedAction string

const (
	ActionRedact SuggestedAction = "redact"
	ActionReview SuggestedAction = "review"
	ActionRemove SuggestedAction = "remove"
)

// PHIFinding is one detected identifier. Evidence is always a one-way
// fingerprint of the match plus its length, never the raw matched text.
type PHIFinding struct {
	Category      PHICategory     `json:"category"`
	Confidence    float64         `json:"confidence"`
	Start         int             `json:"start"`
	End           int             `json:"end"`
	Action        SuggestedAction `json:"action"`
	HIPAACitation string          `json:"hipaaCitation"`
	Evidence      string          `json:"evidence"`
}

type RiskLevel string

const (
	RiskNone   RiskLevel = "none"
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

type ScanResult struct {
	ScanID           string              `json:"scanId"`
	Context          ScanContext         `json:"context"`
	ContentLength    int                 `json:"contentLength"`
	Findings         []PHIFinding        `json:"findings"`
	RiskLevel        RiskLevel           `json:"riskLevel"`
	RequiresOverride bool                `json:"requiresOverride"`
	CategoryCounts   map[PHICategory]int `json:"categoryCounts"`
	ScannedAt        time.Time           `json:"scannedAt"`
}

// OverrideRecord is the outcome of an override authorization attempt against
// a scan. Rejections are recorded results, not errors.
type OverrideRecord struct {
	AuditID       string     `json:"auditId"`
	ScanID        string     `json:"scanId"`
	Justification string     `json:"justification"`
	ApproverRole  string     `json:"approverRole"`
	Approved      bool       `json:"approved"`
	ExpiresAt     *time.Time `json:"expiresAt,omitempty"`
	Conditions    []string   `json:"conditions,omitempty"`
	Used          bool       `json:"used"`
	DecidedAt     time.Time  `json:"decidedAt"`
}

// Expired reports whether the override window has passed at the given
// instant. Expiry is data checked at read time; nothing schedules it.
func (o OverrideRecord) Expired(now time.Time) bool {
	return o.ExpiresAt != nil && !now.Before(*o.ExpiresAt)
}

// OverrideConditions is the fixed post-approval condition list attached to
// every approved override.
var OverrideConditions = []string{
	"Export must be logged",
	"Data must be encrypted in transit",
	"Recipient must have a signed data-use agreement",
	"Approval window is single-use",
}
