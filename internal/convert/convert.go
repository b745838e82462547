// Package convert maps records between the BaaS (snake_case, native values)
// and the low-code platform (camelCase, stringified values) shapes.
//
// Identity fields (id, created_at/updated_at ⇄ createTime/updateTime) are
// backend-assigned and never part of conversion input.
package convert

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/mrlokans/dataadapter/internal/apperr"
	"github.com/mrlokans/dataadapter/internal/entities"
)

// Field pairs the BaaS column name with the platform property name.
type Field struct {
	Source string
	Target string
}

// Fields is the business-field table of one entity.
type Fields []Field

// TargetFor returns the platform name for a source or target field name.
func (fs Fields) TargetFor(name string) (string, bool) {
	for _, f := range fs {
		if f.Source == name || f.Target == name {
			return f.Target, true
		}
	}
	return "", false
}

// SourceFor returns the column name for a source or target field name.
func (fs Fields) SourceFor(name string) (string, bool) {
	for _, f := range fs {
		if f.Source == name || f.Target == name {
			return f.Source, true
		}
	}
	return "", false
}

// SourceNames returns every column name in table order.
func (fs Fields) SourceNames() []string {
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = f.Source
	}
	return out
}

const listSeparator = ","

// JoinList renders a list as a comma-joined string; empty lists become "".
func JoinList(list []string) string {
	return strings.Join(list, listSeparator)
}

// SplitList parses a comma-joined string, dropping empty segments. "" yields
// an empty, non-nil list.
func SplitList(s string) entities.StringList {
	out := entities.StringList{}
	for _, part := range strings.Split(s, listSeparator) {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// EncodeObject renders an object as a JSON string; nil or empty objects become "".
func EncodeObject(field string, obj entities.JSONObject) (string, error) {
	if len(obj) == 0 {
		return "", nil
	}
	b, err := json.Marshal(map[string]any(obj))
	if err != nil {
		return "", &apperr.DataError{Field: field, Err: err}
	}
	return string(b), nil
}

// DecodeObject parses a JSON object string. "" yields nil; anything that is
// not a JSON object is a *apperr.DataError.
func DecodeObject(field, s string) (entities.JSONObject, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(s), &obj); err != nil {
		return nil, &apperr.DataError{Field: field, Value: s, Err: err}
	}
	if obj == nil {
		return nil, &apperr.DataError{Field: field, Value: s, Err: errors.New("expected a JSON object")}
	}
	return obj, nil
}
