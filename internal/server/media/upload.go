// Package media stores avatar images in S3-compatible object storage and
// validates uploads before they reach the core flows.
package media

import "github.com/avolkov/accountsvc/internal/common"

// MaxUploadSize limits avatar uploads to 5MB.
const MaxUploadSize = 5 * 1024 * 1024

var allowedMimeTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/jpg":  {},
	"image/png":  {},
	"image/gif":  {},
	"image/webp": {},
}

// Upload is an in-memory file received at the API boundary.
type Upload struct {
	Data     []byte
	MimeType string
	Size     int64
}

// Validate checks size and mime type once, before the upload is handed to
// the flows. Size is taken from the declared header; Data length wins when
// they disagree.
func (u *Upload) Validate() error {
	size := u.Size
	if int64(len(u.Data)) > size {
		size = int64(len(u.Data))
	}
	if size > MaxUploadSize {
		return common.ErrFileTooLarge
	}
	if _, ok := allowedMimeTypes[u.MimeType]; !ok {
		return common.ErrUnsupportedFile
	}
	return nil
}
