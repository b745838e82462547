package convert

import (
	"strings"
	"time"

	"github.com/mrlokans/dataadapter/internal/entities"
	"github.com/mrlokans/dataadapter/internal/lowcode"
)

// PlatformTimeLayout is the layout the platform uses for createTime/updateTime.
const PlatformTimeLayout = "2006-01-02 15:04:05"

// ParseTime parses a platform timestamp. Unparseable values yield the zero time.
func ParseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	if t, err := time.ParseInLocation(PlatformTimeLayout, s, time.Local); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return time.Time{}
}

// FormatTime renders a timestamp the way the platform does; zero stays "".
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(PlatformTimeLayout)
}

// Identity maps the platform identity block to the BaaS one.
func Identity(r lowcode.Record) entities.Model {
	return entities.Model{
		ID:        r.ID,
		CreatedAt: ParseTime(r.CreateTime),
		UpdatedAt: ParseTime(r.UpdateTime),
	}
}

// Record maps the BaaS identity block to the platform one.
func Record(m entities.Model) lowcode.Record {
	return lowcode.Record{
		ID:         m.ID,
		CreateTime: FormatTime(m.CreatedAt),
		UpdateTime: FormatTime(m.UpdatedAt),
	}
}
