package dto

// MediaUploadDTO 内联图片上传结果
type MediaUploadDTO struct {
	URL      string `json:"url"`
	Mime     string `json:"mime"`
	Size     int    `json:"size"`
	Original string `json:"original"`
}
