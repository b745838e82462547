package entities

type SubmissionStatus string

const (
	SubmissionPending    SubmissionStatus = "pending"
	SubmissionProcessing SubmissionStatus = "processing"
	SubmissionCompleted  SubmissionStatus = "completed"
	SubmissionInvalid    SubmissionStatus = "invalid"
)

// Submission is a contact form submitted from the site.
type Submission struct {
	Model
	CompanyName  string           `gorm:"size:255;not null" json:"company_name"`
	UserName     string           `gorm:"size:255;not null" json:"user_name"`
	Phone        string           `gorm:"size:64;not null" json:"phone"`
	CompanyTypes StringList       `gorm:"type:text" json:"company_types"`
	SourceURL    string           `gorm:"size:2048" json:"source_url"`
	Status       SubmissionStatus `gorm:"size:20;default:'pending';index" json:"status"`
	Notes        string           `gorm:"type:text" json:"notes,omitempty"`
}

func (Submission) TableName() string {
	return "form_submissions"
}

// WithIdentity returns a copy carrying the given identity.
func (s Submission) WithIdentity(m Model) Submission {
	s.Model = m
	return s
}
