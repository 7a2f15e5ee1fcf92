package image

import "errors"

var (
	ErrObjectNotFound = errors.New("object not found")
	ErrBucketNotFound = errors.New("bucket not found")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrInternal       = errors.New("internal error")

	ErrFileTooLarge       = errors.New("file exceeds the maximum allowed size")
	ErrMimeTypeNotAllowed = errors.New("file type is not allowed")
)
