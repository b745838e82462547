package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/mrlokans/dataadapter/internal/apperr"
	"github.com/mrlokans/dataadapter/internal/backend"
	"github.com/mrlokans/dataadapter/internal/entities"
	"github.com/mrlokans/dataadapter/internal/envelope"
	"github.com/mrlokans/dataadapter/internal/lowcode"
	"github.com/mrlokans/dataadapter/internal/storage"
)

const fileTimeLayout = "2006-01-02T15:04:05.000Z07:00"

// Upload is a file handed to FileService.Upload.
type Upload struct {
	Name        string
	ContentType string
	Content     io.Reader
}

// FileService stores uploaded files in the bucket or on the platform.
type FileService struct {
	selector *backend.Selector
	bucket   storage.Bucket
	client   *lowcode.Client
	observer CallObserver
	now      func() time.Time
}

func NewFileService(selector *backend.Selector, bucket storage.Bucket, client *lowcode.Client) *FileService {
	return &FileService{
		selector: selector,
		bucket:   bucket,
		client:   client,
		observer: nopObserver{},
		now:      time.Now,
	}
}

// SetClock replaces the clock used for object keys and create times.
func (f *FileService) SetClock(now func() time.Time) {
	f.now = now
}

func (f *FileService) SetObserver(o CallObserver) {
	if o == nil {
		o = nopObserver{}
	}
	f.observer = o
}

func (f *FileService) call() caller {
	return caller{
		entity:   "file",
		selector: f.selector,
		observer: f.observer,
		source:   f.bucket != nil,
		target:   f.client != nil,
	}
}

// Upload stores a file and describes it.
func (f *FileService) Upload(ctx context.Context, file Upload) *envelope.Response[entities.FileRecord] {
	if file.Content == nil {
		file.Content = strings.NewReader("")
	}
	return dispatch(ctx, f.call(), "upload",
		func(ctx context.Context) *envelope.Response[entities.FileRecord] { return f.uploadSource(ctx, file) },
		func(ctx context.Context) *envelope.Response[entities.FileRecord] { return f.uploadTarget(ctx, file) },
	)
}

// Delete removes a stored file. On the BaaS side id is the object key.
func (f *FileService) Delete(ctx context.Context, id string) *envelope.Response[any] {
	return dispatch(ctx, f.call(), "delete",
		func(ctx context.Context) *envelope.Response[any] { return f.deleteSource(ctx, id) },
		func(ctx context.Context) *envelope.Response[any] { return f.deleteTarget(ctx, id) },
	)
}

func (f *FileService) uploadSource(ctx context.Context, file Upload) *envelope.Response[entities.FileRecord] {
	name, err := baseName(file.Name)
	if err != nil {
		return envelope.Fail[entities.FileRecord](err)
	}
	now := f.now()
	key := fmt.Sprintf("%d-%s", now.UnixMilli(), name)

	obj, err := f.bucket.Upload(ctx, key, file.ContentType, file.Content)
	if err != nil {
		return envelope.Fail[entities.FileRecord](err)
	}
	return envelope.OK(entities.FileRecord{
		ID:         obj.Key,
		FileName:   name,
		FileURL:    obj.URL,
		FileSize:   obj.Size,
		FileType:   file.ContentType,
		CreateTime: now.UTC().Format(fileTimeLayout),
	})
}

func (f *FileService) uploadTarget(ctx context.Context, file Upload) *envelope.Response[entities.FileRecord] {
	name, err := baseName(file.Name)
	if err != nil {
		return envelope.Fail[entities.FileRecord](err)
	}
	var resp envelope.Response[json.RawMessage]
	if err := f.client.Upload(ctx, lowcode.UploadEndpoint, name, file.ContentType, file.Content, &resp); err != nil {
		return envelope.Fail[entities.FileRecord](err)
	}
	if !resp.Success {
		return envelope.Forward[json.RawMessage, entities.FileRecord](&resp)
	}
	record, err := decodeFileRecord(resp.Result, resp.Message)
	if err != nil {
		return envelope.Fail[entities.FileRecord](err)
	}
	if record.FileName == "" {
		record.FileName = name
	}
	if record.FileType == "" {
		record.FileType = file.ContentType
	}
	return envelope.Map(&resp, record)
}

// decodeFileRecord accepts a full record, a bare stored path, or (when the
// result is empty) the stored path carried in the message.
func decodeFileRecord(raw json.RawMessage, message string) (entities.FileRecord, error) {
	record, ok, err := decodeRecord[entities.FileRecord](raw)
	if err != nil || ok {
		return record, err
	}
	var stored string
	if err := json.Unmarshal(raw, &stored); err != nil || stored == "" {
		stored = message
	}
	return entities.FileRecord{ID: stored, FileURL: stored}, nil
}

func (f *FileService) deleteSource(ctx context.Context, id string) *envelope.Response[any] {
	if err := validID(id); err != nil {
		return envelope.Fail[any](err)
	}
	if err := f.bucket.Delete(ctx, id); err != nil {
		return envelope.Fail[any](err)
	}
	return envelope.OK[any](nil)
}

func (f *FileService) deleteTarget(ctx context.Context, id string) *envelope.Response[any] {
	key, err := pathKey(id)
	if err != nil {
		return envelope.Fail[any](err)
	}
	var resp envelope.Response[any]
	if err := f.client.Delete(ctx, lowcode.DeleteFileEndpoint+key, &resp); err != nil {
		return envelope.Fail[any](err)
	}
	return &resp
}

func baseName(name string) (string, error) {
	name = path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	if name == "" || name == "." || name == "/" {
		return "", fmt.Errorf("%w: file name is required", apperr.ErrInvalidInput)
	}
	return name, nil
}
