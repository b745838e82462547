package entities

// Article is a news article.
type Article struct {
	Model
	Title       string `gorm:"size:512;not null" json:"title"`
	Category    string `gorm:"size:100;index" json:"category"`
	PublishTime string `gorm:"size:32;index" json:"publish_time"` // ISO 8601, sorts lexically
	ImageURL    string `gorm:"size:2048" json:"image_url,omitempty"`
	Summary     string `gorm:"type:text" json:"summary,omitempty"`
	Content     string `gorm:"type:text" json:"content,omitempty"`
	Views       int    `gorm:"default:0" json:"views"`
	IsFeatured  bool   `gorm:"default:false;index" json:"is_featured"`
}

func (Article) TableName() string {
	return "news_articles"
}

// WithIdentity returns a copy carrying the given identity.
func (a Article) WithIdentity(m Model) Article {
	a.Model = m
	return a
}
