package lowcode

// Record is the identity block every platform record carries. Its fields are
// omitted from request bodies when empty.
type Record struct {
	ID         string `json:"id,omitempty"`
	CreateTime string `json:"createTime,omitempty"`
	UpdateTime string `json:"updateTime,omitempty"`
}

// Meta returns the identity block.
func (r Record) Meta() Record {
	return r
}

// Submission is a form submission as stored by the platform.
type Submission struct {
	Record
	CompanyName  string `json:"companyName"`
	UserName     string `json:"userName"`
	Phone        string `json:"phone"`
	CompanyTypes string `json:"companyTypes"` // comma separated
	SourceURL    string `json:"sourceUrl"`
	Status       string `json:"status"`
	Notes        string `json:"notes"`
}

// Article is a news article as stored by the platform.
type Article struct {
	Record
	Title       string `json:"title"`
	Category    string `json:"category"`
	PublishTime string `json:"publishTime"`
	ImageURL    string `json:"imageUrl"`
	Summary     string `json:"summary"`
	Content     string `json:"content"`
	Views       int    `json:"views"`
	IsFeatured  bool   `json:"isFeatured"`
}

// Case is a customer case as stored by the platform.
type Case struct {
	Record
	CompanyName string `json:"companyName"`
	CompanyLogo string `json:"companyLogo"`
	Industry    string `json:"industry"`
	Description string `json:"description"`
	Results     string `json:"results"`
	Metrics     string `json:"metrics"` // JSON object
	IsFeatured  bool   `json:"isFeatured"`
	SortOrder   int    `json:"sortOrder"`
	Status      string `json:"status"`
}

// CaseConfiguration is a case configuration as stored by the platform.
type CaseConfiguration struct {
	Record
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle"`
	Description string `json:"description"`
	CompanyName string `json:"companyName"`
	CompanyLogo string `json:"companyLogo"`
	StockCode   string `json:"stockCode"`
	ImageURL    string `json:"imageUrl"`
	LinkURL     string `json:"linkUrl"`
	IsActive    bool   `json:"isActive"`
	SortOrder   int    `json:"sortOrder"`
}

// SystemConfig is a platform configuration entry.
type SystemConfig struct {
	Record
	ConfigKey   string `json:"configKey"`
	ConfigValue string `json:"configValue"`
	ConfigName  string `json:"configName"`
	Description string `json:"description,omitempty"`
}
