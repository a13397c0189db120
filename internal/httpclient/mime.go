package httpclient

import (
	"path/filepath"
	"strings"
)

// mimeByExt mirrors original_source/http/mimetype.rs's extension table:
// inference for multipart parts and implicit file bodies that omit a
// content type.
var mimeByExt = map[string]string{
	".json": "application/json",
	".xml":  "application/xml",
	".html": "text/html",
	".htm":  "text/html",
	".txt":  "text/plain",
	".csv":  "text/csv",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".svg":  "image/svg+xml",
	".pdf":  "application/pdf",
	".zip":  "application/zip",
	".gz":   "application/gzip",
	".tar":  "application/x-tar",
	".css":  "text/css",
	".js":   "application/javascript",
	".bin":  "application/octet-stream",
}

// InferContentType returns the MIME type for path's extension, falling
// back to application/octet-stream for an unknown or missing extension.
func InferContentType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ct, ok := mimeByExt[ext]; ok {
		return ct
	}
	return "application/octet-stream"
}
