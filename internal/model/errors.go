// File: internal/model/errors.go
package model

import "errors"

// 資料層錯誤分類，所有 repository 操作只回傳這幾種錯誤
var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrUserNotFound         = errors.New("user not found")
	ErrUserAlreadyExists    = errors.New("user already exists")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrStorage              = errors.New("storage failure")
)
