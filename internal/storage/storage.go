package storage

import "errors"

var (
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("storage unavailable")
)

var (
	ErrUserExists   = errors.New("user already exists")
	ErrUserNotFound = errors.New("user not found")
)

var (
	ErrObjectNotFound   = errors.New("object not found")
	ErrSlotExpired      = errors.New("upload slot expired or already used")
	ErrInvalidSignature = errors.New("invalid upload signature")
	ErrFileTooLarge     = errors.New("file size exceeds limit")
	ErrInvalidFileType  = errors.New("invalid file type")
)
