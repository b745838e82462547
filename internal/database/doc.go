// Package database provides the BaaS-side table API for the application.
//
// # Architecture
//
//	database/
//	├── database.go  # Connection setup and migrations
//	└── table.go     # Generic row API: count, find, first, insert, update, delete
//
// # Usage
//
//	db, err := database.NewDatabase("./adapter.db", "warn")
//	articles := database.NewTable[entities.Article](db.DB)
//
//	rows, err := articles.Find(ctx, database.Query{
//		Filters: []database.Filter{database.Eq("is_featured", true)},
//		OrderBy: "publish_time",
//		Desc:    true,
//		Limit:   5,
//	})
//
// Column names passed to Filter, Query.OrderBy and Table.Update must come
// from the entity field tables; they are interpolated into SQL.
package database
