package imagestore

import "errors"

var (
	ErrImageNotFound   = errors.New("image not found")
	ErrEmptyPayload    = errors.New("image payload is empty")
	ErrFileTooLarge    = errors.New("file exceeds maximum allowed size")
	ErrInvalidMimeType = errors.New("image type is not allowed")
	ErrStoreNotReady   = errors.New("image store is not configured")
)
