package content

import (
	"errors"
	"fmt"

	"github.com/example/certtutor/internal/retention"
	"github.com/example/certtutor/pkg/models"
)

// Certification levels covered by the syllabus
const (
	LevelFoundation   = "foundation"
	LevelPractitioner = "practitioner"
)

// Syllabus part identifiers
const (
	PartIntroduction = "part0_introduction"
	PartADM          = "part1_adm"
	PartTechniques   = "part2_adm_techniques"
	PartApplyingADM  = "part3_applying_adm"
	PartContent      = "part4_architecture_content"
	PartGovernance   = "part5_capability_governance"
)

// Part is one part of the certification syllabus: an ordered group of
// concepts with prerequisite parts that should be studied first.
type Part struct {
	ID            string
	Name          string
	Level         string
	Prerequisites []string
	Concepts      []models.Concept
}

func concept(id, name, summary, partID string) models.Concept {
	return models.Concept{ID: id, Name: name, Summary: summary, PartID: partID, Level: LevelFoundation}
}

// Catalog returns the built-in TOGAF Foundation syllabus. Imported workbooks
// (internal/excel) can extend or override it in the concept store.
func Catalog() []Part {
	return []Part{
		{
			ID:    PartIntroduction,
			Name:  "Introduction and Core Concepts",
			Level: LevelFoundation,
			Concepts: []models.Concept{
				concept("togaf_framework", "TOGAF Framework", "Purpose and structure of the TOGAF standard", PartIntroduction),
				concept("enterprise_architecture", "Enterprise Architecture", "Discipline of designing enterprises across business and IT", PartIntroduction),
				concept("architecture_domains", "Architecture Domains", "Business, Data, Application and Technology architecture", PartIntroduction),
				concept("architecture_abstraction", "Architecture Abstraction Levels", "Contextual, conceptual, logical and physical abstraction", PartIntroduction),
				concept("core_definitions", "Core Definitions", "Terms the rest of the standard builds on", PartIntroduction),
			},
		},
		{
			ID:            PartADM,
			Name:          "Architecture Development Method",
			Level:         LevelFoundation,
			Prerequisites: []string{PartIntroduction},
			Concepts: []models.Concept{
				concept("adm_overview", "ADM Overview", "The iterative method cycle and its phase structure", PartADM),
				concept("preliminary_phase", "Preliminary Phase", "Preparing the enterprise for architecture work", PartADM),
				concept("adm_phase_a_vision", "Phase A: Architecture Vision", "Scoping and approving the architecture initiative", PartADM),
				concept("adm_phase_b_business", "Phase B: Business Architecture", "Developing the business architecture baseline and target", PartADM),
				concept("adm_phase_c_data", "Phase C: Data Architecture", "Developing the data architecture", PartADM),
				concept("adm_phase_c_application", "Phase C: Application Architecture", "Developing the application architecture", PartADM),
				concept("adm_phase_d_technology", "Phase D: Technology Architecture", "Developing the technology architecture", PartADM),
				concept("adm_phase_e_opportunities", "Phase E: Opportunities and Solutions", "Identifying delivery vehicles and work packages", PartADM),
				concept("adm_phase_f_migration", "Phase F: Migration Planning", "Finalizing the implementation and migration plan", PartADM),
				concept("adm_phase_g_governance", "Phase G: Implementation Governance", "Architectural oversight of the implementation", PartADM),
				concept("adm_phase_h_change", "Phase H: Architecture Change Management", "Managing changes to the new architecture", PartADM),
				concept("adm_requirements_mgmt", "Requirements Management", "Managing requirements across the ADM cycle", PartADM),
			},
		},
		{
			ID:            PartTechniques,
			Name:          "ADM Techniques",
			Level:         LevelFoundation,
			Prerequisites: []string{PartIntroduction, PartADM},
			Concepts: []models.Concept{
				concept("architecture_principles", "Architecture Principles", "Enduring rules that inform architecture work", PartTechniques),
				concept("stakeholder_management", "Stakeholder Management", "Identifying and engaging stakeholders", PartTechniques),
				concept("gap_analysis", "Gap Analysis", "Comparing baseline and target architectures", PartTechniques),
				concept("migration_planning_techniques", "Migration Planning Techniques", "Techniques for sequencing transition work", PartTechniques),
				concept("readiness_assessment", "Business Transformation Readiness", "Assessing readiness for business transformation", PartTechniques),
				concept("risk_management", "Risk Management", "Identifying and mitigating transformation risk", PartTechniques),
			},
		},
		{
			ID:            PartApplyingADM,
			Name:          "Applying the ADM",
			Level:         LevelFoundation,
			Prerequisites: []string{PartADM, PartTechniques},
			Concepts: []models.Concept{
				concept("adm_iteration", "Applying Iteration to the ADM", "Iteration cycles within and across phases", PartApplyingADM),
				concept("architecture_landscape", "Architecture Landscape", "Applying the ADM at different landscape levels", PartApplyingADM),
				concept("architecture_partitioning", "Architecture Partitioning", "Dividing architectures to manage complexity", PartApplyingADM),
			},
		},
		{
			ID:            PartContent,
			Name:          "Architecture Content",
			Level:         LevelFoundation,
			Prerequisites: []string{PartIntroduction, PartADM},
			Concepts: []models.Concept{
				concept("content_framework", "Content Framework and Metamodel", "Structuring architectural work products", PartContent),
				concept("architecture_artifacts", "Architectural Artifacts", "Catalogs, matrices and diagrams", PartContent),
				concept("architecture_deliverables", "Architecture Deliverables", "Contractually specified outputs of architecture work", PartContent),
				concept("building_blocks", "Building Blocks", "Architecture and solution building blocks", PartContent),
				concept("enterprise_continuum", "Enterprise Continuum", "Classifying assets from generic to specific", PartContent),
				concept("architecture_repository", "Architecture Repository", "Holding area for architecture assets", PartContent),
			},
		},
		{
			ID:            PartGovernance,
			Name:          "EA Capability and Governance",
			Level:         LevelFoundation,
			Prerequisites: []string{PartIntroduction, PartADM},
			Concepts: []models.Concept{
				concept("architecture_capability", "Establishing an Architecture Capability", "Standing up the EA practice", PartGovernance),
				concept("architecture_governance", "Architecture Governance", "Controls over architecture development and use", PartGovernance),
				concept("architecture_board", "Architecture Board", "Decision body for architecture governance", PartGovernance),
				concept("architecture_contracts", "Architecture Contracts", "Agreements between partners on architecture delivery", PartGovernance),
				concept("architecture_compliance", "Architecture Compliance", "Reviewing implementations against the architecture", PartGovernance),
			},
		},
	}
}

// FindPart returns the catalog part with the given id
func FindPart(partID string) (*Part, bool) {
	for _, part := range Catalog() {
		if part.ID == partID {
			p := part
			return &p, true
		}
	}
	return nil, false
}

// FindConcept returns the catalog concept with the given id
func FindConcept(conceptID string) (*models.Concept, bool) {
	for _, part := range Catalog() {
		for _, c := range part.Concepts {
			if c.ID == conceptID {
				concept := c
				return &concept, true
			}
		}
	}
	return nil, false
}

// Enroll starts retention tracking for every concept in a syllabus part.
// Concepts the user already tracks are skipped. Returns the number of
// concepts initialized.
func Enroll(scheduler *retention.Scheduler, userID, partID string) (int, error) {
	part, ok := FindPart(partID)
	if !ok {
		return 0, fmt.Errorf("unknown syllabus part: %s", partID)
	}

	initialized := 0
	for _, c := range part.Concepts {
		_, err := scheduler.InitializeConcept(userID, c.ID)
		if err != nil {
			if errors.Is(err, retention.ErrAlreadyExists) {
				continue
			}
			return initialized, fmt.Errorf("failed to enroll concept %s: %w", c.ID, err)
		}
		initialized++
	}
	return initialized, nil
}
