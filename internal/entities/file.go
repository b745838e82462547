package entities

// FileRecord describes an uploaded file. Both backends report it in this shape.
type FileRecord struct {
	ID         string `json:"id"`
	FileName   string `json:"fileName"`
	FileURL    string `json:"fileUrl"`
	FileSize   int64  `json:"fileSize"`
	FileType   string `json:"fileType"`
	CreateTime string `json:"createTime"`
}
