package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/dataadapter/internal/backend"
	"github.com/mrlokans/dataadapter/internal/convert"
	"github.com/mrlokans/dataadapter/internal/database"
	"github.com/mrlokans/dataadapter/internal/entities"
	"github.com/mrlokans/dataadapter/internal/lowcode"
)

type (
	SubmissionService        = Service[entities.Submission, lowcode.Submission]
	ArticleService           = Service[entities.Article, lowcode.Article]
	CaseService              = Service[entities.Case, lowcode.Case]
	CaseConfigurationService = Service[entities.CaseConfiguration, lowcode.CaseConfiguration]
)

// Now is the clock used for time-relative stats. Tests may replace it.
var Now = time.Now

var SubmissionDescriptor = Descriptor[entities.Submission, lowcode.Submission]{
	Name:        "submission",
	Fields:      convert.SubmissionFields,
	Endpoints:   RestEndpoints("/form/submission", false, true),
	DefaultSort: Sort{Column: "created_at", Desc: true},
	Stats:       submissionStats,
	ToTarget:    convert.SubmissionToTarget,
	ToSource:    convert.SubmissionToSource,
}

var ArticleDescriptor = Descriptor[entities.Article, lowcode.Article]{
	Name:        "article",
	Fields:      convert.ArticleFields,
	Endpoints:   RestEndpoints("/news/article", true, true),
	DefaultSort: Sort{Column: "publish_time", Desc: true},
	Featured: &FeaturedQuery{
		Filters:      []database.Filter{database.Eq("is_featured", true)},
		Sort:         Sort{Column: "publish_time", Desc: true},
		DefaultLimit: 5,
	},
	Stats:    articleStats,
	ToTarget: convert.ArticleToTarget,
	ToSource: convert.ArticleToSource,
}

var CaseDescriptor = Descriptor[entities.Case, lowcode.Case]{
	Name:        "case",
	Fields:      convert.CaseFields,
	Endpoints:   RestEndpoints("/customer/case", true, true),
	DefaultSort: Sort{Column: "sort_order"},
	Featured: &FeaturedQuery{
		Filters: []database.Filter{
			database.Eq("is_featured", true),
			database.Eq("status", entities.CaseActive),
		},
		Sort:         Sort{Column: "sort_order"},
		DefaultLimit: 6,
	},
	Stats:    caseStats,
	ToTarget: convert.CaseToTarget,
	ToSource: convert.CaseToSource,
}

var CaseConfigurationDescriptor = Descriptor[entities.CaseConfiguration, lowcode.CaseConfiguration]{
	Name:        "case_configuration",
	Fields:      convert.CaseConfigurationFields,
	Endpoints:   RestEndpoints("/case/config", false, false),
	DefaultSort: Sort{Column: "sort_order"},
	ToTarget:    convert.CaseConfigurationToTarget,
	ToSource:    convert.CaseConfigurationToSource,
}

// Catalog holds the facade of every entity plus files.
type Catalog struct {
	Submissions        *SubmissionService
	Articles           *ArticleService
	Cases              *CaseService
	CaseConfigurations *CaseConfigurationService
	Files              *FileService
}

// NewCatalog builds every facade over the shared drivers. db or client may be
// nil, in which case calls routed to that backend fail with a config error.
func NewCatalog(selector *backend.Selector, db *gorm.DB, client *lowcode.Client, files *FileService) *Catalog {
	return &Catalog{
		Submissions:        NewService(SubmissionDescriptor, selector, tableOf[entities.Submission](db), client),
		Articles:           NewService(ArticleDescriptor, selector, tableOf[entities.Article](db), client),
		Cases:              NewService(CaseDescriptor, selector, tableOf[entities.Case](db), client),
		CaseConfigurations: NewService(CaseConfigurationDescriptor, selector, tableOf[entities.CaseConfiguration](db), client),
		Files:              files,
	}
}

// SetObserver installs o on every facade.
func (c *Catalog) SetObserver(o CallObserver) {
	c.Submissions.SetObserver(o)
	c.Articles.SetObserver(o)
	c.Cases.SetObserver(o)
	c.CaseConfigurations.SetObserver(o)
	if c.Files != nil {
		c.Files.SetObserver(o)
	}
}

func tableOf[E any](db *gorm.DB) *database.Table[E] {
	if db == nil {
		return nil
	}
	return database.NewTable[E](db)
}

func submissionStats(ctx context.Context, table *database.Table[entities.Submission]) (Stats, error) {
	return countStats(ctx, table, map[string][]database.Filter{
		"total":      nil,
		"pending":    {database.Eq("status", entities.SubmissionPending)},
		"processing": {database.Eq("status", entities.SubmissionProcessing)},
		"completed":  {database.Eq("status", entities.SubmissionCompleted)},
		"invalid":    {database.Eq("status", entities.SubmissionInvalid)},
	})
}

// articleStats counts an article as published once its publish time has
// passed; every other article is a draft.
func articleStats(ctx context.Context, table *database.Table[entities.Article]) (Stats, error) {
	now := Now().UTC().Format(time.RFC3339)
	stats, err := countStats(ctx, table, map[string][]database.Filter{
		"total":    nil,
		"featured": {database.Eq("is_featured", true)},
		"published": {
			{Column: "publish_time", Op: database.OpLte, Value: now},
			{Column: "publish_time", Op: database.OpGt, Value: ""},
		},
	})
	if err != nil {
		return nil, err
	}
	stats["draft"] = stats["total"] - stats["published"]
	return stats, nil
}

func caseStats(ctx context.Context, table *database.Table[entities.Case]) (Stats, error) {
	return countStats(ctx, table, map[string][]database.Filter{
		"total":    nil,
		"featured": {database.Eq("is_featured", true)},
		"active":   {database.Eq("status", entities.CaseActive)},
		"inactive": {database.Eq("status", entities.CaseInactive)},
	})
}

func countStats[E any](ctx context.Context, table *database.Table[E], counters map[string][]database.Filter) (Stats, error) {
	stats := make(Stats, len(counters))
	for name, filters := range counters {
		n, err := table.Count(ctx, filters...)
		if err != nil {
			return nil, err
		}
		stats[name] = n
	}
	return stats, nil
}
