package entities

// CaseConfiguration is a banner/showcase slot configured for the case pages.
type CaseConfiguration struct {
	Model
	Title       string `gorm:"size:255;not null" json:"title"`
	Subtitle    string `gorm:"size:255" json:"subtitle,omitempty"`
	Description string `gorm:"type:text" json:"description,omitempty"`
	CompanyName string `gorm:"size:255" json:"company_name"`
	CompanyLogo string `gorm:"size:2048" json:"company_logo"`
	StockCode   string `gorm:"size:32" json:"stock_code,omitempty"`
	ImageURL    string `gorm:"size:2048" json:"image_url,omitempty"`
	LinkURL     string `gorm:"size:2048" json:"link_url,omitempty"`
	IsActive    bool   `gorm:"index" json:"is_active"`
	SortOrder   int    `gorm:"default:0;index" json:"sort_order"`
}

func (CaseConfiguration) TableName() string {
	return "case_configurations"
}

// WithIdentity returns a copy carrying the given identity.
func (c CaseConfiguration) WithIdentity(m Model) CaseConfiguration {
	c.Model = m
	return c
}
