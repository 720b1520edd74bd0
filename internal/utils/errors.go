package utils

import "errors"

var (
	ErrEmptyFile    = errors.New("empty file")
	ErrFileTooLarge = errors.New("file too large")
	ErrNotFound     = errors.New("content not found")
)
