package api

// Services groups one adapter per backend resource over a shared Client.
type Services struct {
	Auth          *AuthService
	Posts         *PostService
	Jobs          *JobService
	Notifications *NotificationService
	Learning      *LearningService
	Resume        *ResumeService
	Scorecards    *ScorecardService
	Admin         *AdminService
	Companies     *CompanyService
}

// NewServices builds every adapter on c.
func NewServices(c *Client) *Services {
	return &Services{
		Auth:          &AuthService{c: c},
		Posts:         &PostService{c: c},
		Jobs:          &JobService{c: c},
		Notifications: &NotificationService{c: c},
		Learning:      &LearningService{c: c},
		Resume:        &ResumeService{c: c},
		Scorecards:    &ScorecardService{c: c},
		Admin:         &AdminService{c: c},
		Companies:     &CompanyService{c: c},
	}
}
