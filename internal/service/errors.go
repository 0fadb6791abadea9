package service

import "errors"

// 业务层错误，Handler 用 errors.Is 判断后映射为 HTTP 行为
var (
	ErrNotFound             = errors.New("not found")
	ErrPermissionDenied     = errors.New("no permission")
	ErrSelfVote             = errors.New("cannot vote on your own post")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrRegistrationFailed   = errors.New("registration failed: username or email already exists")
	ErrInternalServer       = errors.New("internal server error")
)
