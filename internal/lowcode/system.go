package lowcode

import (
	"context"

	"github.com/mrlokans/dataadapter/internal/envelope"
)

const (
	systemConfigListEndpoint = "/sys/config/list"

	// UploadEndpoint receives multipart file uploads.
	UploadEndpoint = "/sys/common/upload"
	// DeleteFileEndpoint removes an uploaded file; the file id is appended.
	DeleteFileEndpoint = "/sys/common/deleteFile/"
)

// SystemConfigs lists platform configuration entries.
func (c *Client) SystemConfigs(ctx context.Context, params envelope.PageParams) (*envelope.Response[envelope.PageResult[SystemConfig]], error) {
	var resp envelope.Response[envelope.PageResult[SystemConfig]]
	if err := c.Get(ctx, systemConfigListEndpoint, params.Query(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
