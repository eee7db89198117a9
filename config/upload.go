package config

// Upload limits for submitted image files
type UploadConfig struct {
	MaxFileSize       int64    // Maximum accepted file size in bytes
	AllowedExtensions []string // Lowercase extensions accepted for uploads
}

var DefaultUploadConfig = UploadConfig{
	MaxFileSize:       5 * 1024 * 1024,
	AllowedExtensions: []string{".jpg", ".jpeg", ".png"},
}
