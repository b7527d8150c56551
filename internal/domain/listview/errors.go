package listview

import "errors"

var (
	ErrViewNotFound     = errors.New("view not found")
	ErrViewClosed       = errors.New("view is closed")
	ErrInvalidViewMode  = errors.New("view mode must be table or compact-list")
	ErrNoPendingDelete  = errors.New("no delete is awaiting confirmation")
	ErrInvalidPageParam = errors.New("page must be a positive integer")
)
