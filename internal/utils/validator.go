package utils

import "mime/multipart"

// ValidateUpload rejects empty and oversized uploads. The provider
// assigns the media kind from the bytes, so content types are not
// restricted here.
func ValidateUpload(h *multipart.FileHeader, maxBytes int64) error {
	if h.Size == 0 {
		return ErrEmptyFile
	}
	if maxBytes > 0 && h.Size > maxBytes {
		return ErrFileTooLarge
	}
	return nil
}
