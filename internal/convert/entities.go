package convert

import (
	"github.com/mrlokans/dataadapter/internal/entities"
	"github.com/mrlokans/dataadapter/internal/lowcode"
)

var SubmissionFields = Fields{
	{"company_name", "companyName"},
	{"user_name", "userName"},
	{"phone", "phone"},
	{"company_types", "companyTypes"},
	{"source_url", "sourceUrl"},
	{"status", "status"},
	{"notes", "notes"},
}

func SubmissionToTarget(s entities.Submission) (lowcode.Submission, error) {
	return lowcode.Submission{
		CompanyName:  s.CompanyName,
		UserName:     s.UserName,
		Phone:        s.Phone,
		CompanyTypes: JoinList(s.CompanyTypes),
		SourceURL:    s.SourceURL,
		Status:       string(s.Status),
		Notes:        s.Notes,
	}, nil
}

func SubmissionToSource(t lowcode.Submission) (entities.Submission, error) {
	return entities.Submission{
		CompanyName:  t.CompanyName,
		UserName:     t.UserName,
		Phone:        t.Phone,
		CompanyTypes: SplitList(t.CompanyTypes),
		SourceURL:    t.SourceURL,
		Status:       entities.SubmissionStatus(t.Status),
		Notes:        t.Notes,
	}, nil
}

var ArticleFields = Fields{
	{"title", "title"},
	{"category", "category"},
	{"publish_time", "publishTime"},
	{"image_url", "imageUrl"},
	{"summary", "summary"},
	{"content", "content"},
	{"views", "views"},
	{"is_featured", "isFeatured"},
}

func ArticleToTarget(a entities.Article) (lowcode.Article, error) {
	return lowcode.Article{
		Title:       a.Title,
		Category:    a.Category,
		PublishTime: a.PublishTime,
		ImageURL:    a.ImageURL,
		Summary:     a.Summary,
		Content:     a.Content,
		Views:       a.Views,
		IsFeatured:  a.IsFeatured,
	}, nil
}

func ArticleToSource(t lowcode.Article) (entities.Article, error) {
	return entities.Article{
		Title:       t.Title,
		Category:    t.Category,
		PublishTime: t.PublishTime,
		ImageURL:    t.ImageURL,
		Summary:     t.Summary,
		Content:     t.Content,
		Views:       t.Views,
		IsFeatured:  t.IsFeatured,
	}, nil
}

var CaseFields = Fields{
	{"company_name", "companyName"},
	{"company_logo", "companyLogo"},
	{"industry", "industry"},
	{"description", "description"},
	{"results", "results"},
	{"metrics", "metrics"},
	{"is_featured", "isFeatured"},
	{"sort_order", "sortOrder"},
	{"status", "status"},
}

func CaseToTarget(c entities.Case) (lowcode.Case, error) {
	metrics, err := EncodeObject("metrics", c.Metrics)
	if err != nil {
		return lowcode.Case{}, err
	}
	return lowcode.Case{
		CompanyName: c.CompanyName,
		CompanyLogo: c.CompanyLogo,
		Industry:    c.Industry,
		Description: c.Description,
		Results:     c.Results,
		Metrics:     metrics,
		IsFeatured:  c.IsFeatured,
		SortOrder:   c.SortOrder,
		Status:      string(c.Status),
	}, nil
}

func CaseToSource(t lowcode.Case) (entities.Case, error) {
	metrics, err := DecodeObject("metrics", t.Metrics)
	if err != nil {
		return entities.Case{}, err
	}
	return entities.Case{
		CompanyName: t.CompanyName,
		CompanyLogo: t.CompanyLogo,
		Industry:    t.Industry,
		Description: t.Description,
		Results:     t.Results,
		Metrics:     metrics,
		IsFeatured:  t.IsFeatured,
		SortOrder:   t.SortOrder,
		Status:      entities.CaseStatus(t.Status),
	}, nil
}

var CaseConfigurationFields = Fields{
	{"title", "title"},
	{"subtitle", "subtitle"},
	{"description", "description"},
	{"company_name", "companyName"},
	{"company_logo", "companyLogo"},
	{"stock_code", "stockCode"},
	{"image_url", "imageUrl"},
	{"link_url", "linkUrl"},
	{"is_active", "isActive"},
	{"sort_order", "sortOrder"},
}

func CaseConfigurationToTarget(c entities.CaseConfiguration) (lowcode.CaseConfiguration, error) {
	return lowcode.CaseConfiguration{
		Title:       c.Title,
		Subtitle:    c.Subtitle,
		Description: c.Description,
		CompanyName: c.CompanyName,
		CompanyLogo: c.CompanyLogo,
		StockCode:   c.StockCode,
		ImageURL:    c.ImageURL,
		LinkURL:     c.LinkURL,
		IsActive:    c.IsActive,
		SortOrder:   c.SortOrder,
	}, nil
}

func CaseConfigurationToSource(t lowcode.CaseConfiguration) (entities.CaseConfiguration, error) {
	return entities.CaseConfiguration{
		Title:       t.Title,
		Subtitle:    t.Subtitle,
		Description: t.Description,
		CompanyName: t.CompanyName,
		CompanyLogo: t.CompanyLogo,
		StockCode:   t.StockCode,
		ImageURL:    t.ImageURL,
		LinkURL:     t.LinkURL,
		IsActive:    t.IsActive,
		SortOrder:   t.SortOrder,
	}, nil
}
