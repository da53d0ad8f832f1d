package domain

// Stage is how far a Selection has progressed through the cascade
type Stage int

const (
	StageUnselected Stage = iota
	StageTypeSelected
	StageCompanySelected
	StageVersionSelected
)

func (s Stage) String() string {
	switch s {
	case StageTypeSelected:
		return "type_selected"
	case StageCompanySelected:
		return "company_selected"
	case StageVersionSelected:
		return "version_selected"
	}
	return "unselected"
}

// Selection is the user's current cascading filter state. A later stage is
// only meaningful while every earlier stage is set; the With* methods keep
// that true by clearing downstream stages whenever an upstream one changes.
type Selection struct {
	Type    ProductType `json:"type"`
	Company string      `json:"company"`
	Version string      `json:"version"`
}

// WithType selects a product type and resets company and version
func (s Selection) WithType(t ProductType) Selection {
	return Selection{Type: t}
}

// WithCompany selects a company and resets version
func (s Selection) WithCompany(company string) Selection {
	return Selection{Type: s.Type, Company: company}
}

// WithVersion selects a product version
func (s Selection) WithVersion(version string) Selection {
	s.Version = version
	return s
}

// Stage reports the deepest contiguous stage that is set
func (s Selection) Stage() Stage {
	switch {
	case s.Type == "":
		return StageUnselected
	case s.Company == "":
		return StageTypeSelected
	case s.Version == "":
		return StageCompanySelected
	}
	return StageVersionSelected
}
