package entities

type CaseStatus string

const (
	CaseActive   CaseStatus = "active"
	CaseInactive CaseStatus = "inactive"
)

// Case is a customer success story.
type Case struct {
	Model
	CompanyName string     `gorm:"size:255;not null" json:"company_name"`
	CompanyLogo string     `gorm:"size:2048" json:"company_logo"`
	Industry    string     `gorm:"size:100" json:"industry"`
	Description string     `gorm:"type:text" json:"description"`
	Results     string     `gorm:"type:text" json:"results"`
	Metrics     JSONObject `gorm:"type:text" json:"metrics"`
	IsFeatured  bool       `gorm:"default:false;index" json:"is_featured"`
	SortOrder   int        `gorm:"default:0;index" json:"sort_order"`
	Status      CaseStatus `gorm:"size:20;default:'active';index" json:"status"`
}

func (Case) TableName() string {
	return "customer_cases"
}

// WithIdentity returns a copy carrying the given identity.
func (c Case) WithIdentity(m Model) Case {
	c.Model = m
	return c
}
