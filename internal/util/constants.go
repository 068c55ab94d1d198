package util

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

// 文件上传相关常量
const (
	MimeVideo = "video/"
	MimeImage = "image/"
)

const (
	ThumbnailWidth      = 640
	MaxThumbnailBytes   = 10 << 20
	MaxVideoBytes       = 2 << 30
	DefaultPassingScore = 70
	MaxNoteLength       = 20000
)

var (
	AllowedVideoExtensions = []string{".mp4", ".mov", ".avi", ".mkv", ".wmv", ".flv", ".webm"}
	AllowedImageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}
)
