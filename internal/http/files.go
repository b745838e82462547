package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/dataadapter/internal/lowcode"
	"github.com/mrlokans/dataadapter/internal/services"
)

type FilesController struct {
	files *services.FileService
}

func NewFilesController(files *services.FileService) *FilesController {
	return &FilesController{files: files}
}

// Upload accepts a multipart form with the file under field "file".
func (h *FilesController) Upload(c *gin.Context) {
	header, err := c.FormFile(lowcode.UploadField)
	if err != nil {
		respondBadRequest(c, "multipart field \"file\" is required")
		return
	}
	f, err := header.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer f.Close()

	contentType := header.Header.Get("Content-Type")
	respond(c, h.files.Upload(c.Request.Context(), services.Upload{
		Name:        header.Filename,
		ContentType: contentType,
		Content:     f,
	}))
}

// Delete removes a file. The id may contain slashes (bucket keys).
func (h *FilesController) Delete(c *gin.Context) {
	id := c.Param("id")
	if len(id) > 0 && id[0] == '/' {
		id = id[1:]
	}
	respond(c, h.files.Delete(c.Request.Context(), id))
}
