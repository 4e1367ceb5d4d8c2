package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound 表示记录不存在，API 层映射为 404。
var ErrNotFound = errors.New("record not found")

// ValidationError 表示请求字段缺失或非法，API 层映射为 400。
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing or invalid fields: %s", strings.Join(e.Fields, ", "))
}

// Invalid 构造带字段列表的校验错误。
func Invalid(fields ...string) error {
	return &ValidationError{Fields: fields}
}

// AsValidation 提取校验错误，便于 API 层判断状态码。
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
