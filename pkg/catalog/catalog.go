package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ry86pkqf74-rgb/researchflow-production-sub005/pkg/domain"
)

// Default is the built-in authoring pipeline: ten ordered stages mapping
// onto the lifecycle states they advance the session into.
func Default() *domain.Catalog {
	return domain.NewCatalog([]domain.StageDefinition{
		{StageID: 1, Name: "Topic Declaration", Phase: domain.PhaseDefinition, RequiredState: domain.StateDraft},
		{StageID: 2, Name: "Protocol Specification", Phase: domain.PhaseDefinition, RequiredState: domain.StateSpecDefined, AIEnabled: true},
		{StageID: 3, Name: "Data Extraction", Phase: domain.PhaseData, RequiredState: domain.StateExtractionComplete, AIEnabled: true, AttestationRequired: true},
		{StageID: 4, Name: "Quality Review", Phase: domain.PhaseData, RequiredState: domain.StateQAPassed, AttestationRequired: true},
		{StageID: 5, Name: "Record Linkage", Phase: domain.PhaseData, RequiredState: domain.StateLinked, AttestationRequired: true},
		{StageID: 6, Name: "Analysis Planning", Phase: domain.PhaseAnalysis, RequiredState: domain.StateAnalysisReady, AIEnabled: true},
		{StageID: 7, Name: "Statistical Analysis", Phase: domain.PhaseAnalysis, RequiredState: domain.StateInAnalysis, AIEnabled: true},
		{StageID: 8, Name: "Results Drafting", Phase: domain.PhaseAnalysis, RequiredState: domain.StateAnalysisComplete, AIEnabled: true},
		{StageID: 9, Name: "Manuscript Freeze", Phase: domain.PhasePublication, RequiredState: domain.StateFrozen, AttestationRequired: true},
		{StageID: 10, Name: "Archive Export", Phase: domain.PhasePublication, RequiredState: domain.StateArchived, AttestationRequired: true, PHIGated: true},
	})
}

type file struct {
	Stages []domain.StageDefinition `yaml:"stages"`
}

// LoadFile reads a stage catalog from a YAML file. Each stage must carry a
// positive id and a valid lifecycle state; ids must be unique.
func LoadFile(path string) (*domain.Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var f file
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(f.Stages) == 0 {
		return nil, fmt.Errorf("catalog %s defines no stages", path)
	}
	seen := map[int]bool{}
	for _, s := range f.Stages {
		if s.StageID <= 0 {
			return nil, fmt.Errorf("stage %q has invalid id %d", s.Name, s.StageID)
		}
		if seen[s.StageID] {
			return nil, fmt.Errorf("duplicate stage id %d", s.StageID)
		}
		seen[s.StageID] = true
		if !domain.ValidState(s.RequiredState) {
			return nil, fmt.Errorf("stage %d references unknown lifecycle state %q", s.StageID, s.RequiredState)
		}
	}
	return domain.NewCatalog(f.Stages), nil
}

// Load returns the catalog from STAGE_CATALOG_FILE when set, else Default.
func Load() (*domain.Catalog, error) {
	if path := os.Getenv("STAGE_CATALOG_FILE"); path != "" {
		return LoadFile(path)
	}
	return Default(), nil
}
