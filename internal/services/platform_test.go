package services

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
)

type platformRequest struct {
	Method  string
	Path    string
	RawPath string // escaped form of Path as sent on the wire
	Query   url.Values
	Body    map[string]any
	Token   string
}

// fakePlatform is an in-memory stand-in for the low-code REST platform.
type fakePlatform struct {
	mu       sync.Mutex
	records  map[string][]map[string]any // route prefix -> records
	requests []platformRequest
	nextID   int
	server   *httptest.Server
	// fail forces the next response to be a platform-level failure
	fail *struct {
		code    int
		message string
	}
}

func newFakePlatform(t *testing.T) *fakePlatform {
	t.Helper()
	p := &fakePlatform{records: map[string][]map[string]any{}}
	p.server = httptest.NewServer(p)
	t.Cleanup(p.server.Close)
	return p
}

func (p *fakePlatform) seed(prefix string, records ...map[string]any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, r := range records {
		if _, ok := r["id"]; !ok {
			p.nextID++
			r["id"] = fmt.Sprintf("lc-%d", p.nextID)
		}
		p.records[prefix] = append(p.records[prefix], r)
	}
}

func (p *fakePlatform) failNext(code int, message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fail = &struct {
		code    int
		message string
	}{code, message}
}

func (p *fakePlatform) last() platformRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.requests[len(p.requests)-1]
}

func (p *fakePlatform) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	defer p.mu.Unlock()

	req := platformRequest{
		Method:  r.Method,
		Path:    r.URL.Path,
		RawPath: r.URL.EscapedPath(),
		Query:   r.URL.Query(),
		Token:   r.Header.Get("X-Access-Token"),
	}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") && r.Body != nil {
		raw, _ := io.ReadAll(r.Body)
		if len(raw) > 0 {
			_ = json.Unmarshal(raw, &req.Body)
		}
	}
	p.requests = append(p.requests, req)

	if p.fail != nil {
		f := p.fail
		p.fail = nil
		writePlatform(w, false, f.code, f.message, nil)
		return
	}

	path := r.URL.Path
	switch {
	case path == "/sys/common/upload":
		p.upload(w, r)
	case strings.HasPrefix(path, "/sys/common/deleteFile/"):
		writePlatform(w, true, 200, "删除成功", nil)
	case strings.HasSuffix(path, "/list"):
		p.list(w, strings.TrimSuffix(path, "/list"), req.Query)
	case strings.Contains(path, "/queryById/"):
		prefix, id, _ := strings.Cut(path, "/queryById/")
		if i := p.index(prefix, id); i >= 0 {
			writePlatform(w, true, 200, "查询成功", p.records[prefix][i])
			return
		}
		writePlatform(w, false, 404, "未找到对应数据", nil)
	case strings.HasSuffix(path, "/add"):
		prefix := strings.TrimSuffix(path, "/add")
		p.nextID++
		rec := req.Body
		rec["id"] = fmt.Sprintf("lc-%d", p.nextID)
		rec["createTime"] = "2024-03-01 10:00:00"
		p.records[prefix] = append(p.records[prefix], rec)
		writePlatform(w, true, 200, "添加成功！", rec)
	case strings.Contains(path, "/edit/"):
		prefix, id, _ := strings.Cut(path, "/edit/")
		i := p.index(prefix, id)
		if i < 0 {
			writePlatform(w, false, 404, "未找到对应数据", nil)
			return
		}
		for k, v := range req.Body {
			p.records[prefix][i][k] = v
		}
		p.records[prefix][i]["updateTime"] = "2024-03-02 10:00:00"
		writePlatform(w, true, 200, "编辑成功!", "编辑成功!")
	case strings.Contains(path, "/delete/"):
		prefix, id, _ := strings.Cut(path, "/delete/")
		i := p.index(prefix, id)
		if i < 0 {
			writePlatform(w, false, 404, "未找到对应数据", nil)
			return
		}
		p.records[prefix] = append(p.records[prefix][:i], p.records[prefix][i+1:]...)
		writePlatform(w, true, 200, "删除成功!", nil)
	case strings.HasSuffix(path, "/deleteBatch"):
		prefix := strings.TrimSuffix(path, "/deleteBatch")
		ids, _ := req.Body["ids"].([]any)
		for _, id := range ids {
			if i := p.index(prefix, fmt.Sprint(id)); i >= 0 {
				p.records[prefix] = append(p.records[prefix][:i], p.records[prefix][i+1:]...)
			}
		}
		writePlatform(w, true, 200, "批量删除成功!", nil)
	case strings.HasSuffix(path, "/featured"):
		prefix := strings.TrimSuffix(path, "/featured")
		limit, _ := strconv.Atoi(req.Query.Get("limit"))
		out := []map[string]any{}
		for _, rec := range p.records[prefix] {
			if rec["isFeatured"] == true && (limit <= 0 || len(out) < limit) {
				out = append(out, rec)
			}
		}
		writePlatform(w, true, 200, "", out)
	case strings.HasSuffix(path, "/stats"):
		prefix := strings.TrimSuffix(path, "/stats")
		writePlatform(w, true, 200, "", map[string]int{"total": len(p.records[prefix])})
	default:
		http.NotFound(w, r)
	}
}

func (p *fakePlatform) index(prefix, id string) int {
	for i, rec := range p.records[prefix] {
		if rec["id"] == id {
			return i
		}
	}
	return -1
}

func (p *fakePlatform) list(w http.ResponseWriter, prefix string, q url.Values) {
	records := append([]map[string]any(nil), p.records[prefix]...)
	if column := q.Get("column"); column != "" {
		sort.SliceStable(records, func(i, j int) bool {
			less := fmt.Sprint(records[i][column]) < fmt.Sprint(records[j][column])
			if q.Get("order") == "desc" {
				return !less
			}
			return less
		})
	}
	pageNo, _ := strconv.Atoi(q.Get("pageNo"))
	pageSize, _ := strconv.Atoi(q.Get("pageSize"))
	if pageNo < 1 {
		pageNo = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	start := (pageNo - 1) * pageSize
	end := start + pageSize
	if start > len(records) {
		start = len(records)
	}
	if end > len(records) {
		end = len(records)
	}
	writePlatform(w, true, 200, "", map[string]any{
		"records": records[start:end],
		"total":   len(records),
		"size":    pageSize,
		"current": pageNo,
		"pages":   (len(records) + pageSize - 1) / pageSize,
	})
}

func (p *fakePlatform) upload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()
	data, _ := io.ReadAll(file)
	writePlatform(w, true, 200, "上传成功", map[string]any{
		"id":         "file-1",
		"fileName":   header.Filename,
		"fileUrl":    "http://files.example.com/" + header.Filename,
		"fileSize":   len(data),
		"fileType":   header.Header.Get("Content-Type"),
		"createTime": "2024-03-01 10:00:00",
	})
}

func writePlatform(w http.ResponseWriter, success bool, code int, message string, result any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success":   success,
		"message":   message,
		"code":      code,
		"result":    result,
		"timestamp": 1700000000000,
	})
}
