package models

// CompanyResearch is the body of GET /companies/research.
type CompanyResearch struct {
	Name         string   `json:"name"`
	Industry     string   `json:"industry"`
	Size         string   `json:"size"`
	Headquarters string   `json:"headquarters"`
	Summary      string   `json:"summary"`
	TechStack    []string `json:"tech_stack"`
	OpenRoles    []Job    `json:"open_roles"`
	Tips         []string `json:"interview_tips"`
}
