// Package apperror 分析流程的错误分类
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// 错误码
const (
	CodeMissingRequiredField = "MISSING_REQUIRED_FIELD" // 行缺少箱号，整行丢弃
	CodeUnparseableDate      = "UNPARSEABLE_DATE"       // 按无记录处理
	CodeUnparseableNumber    = "UNPARSEABLE_NUMBER"     // 按 0 处理
	CodeEmptyInputSet        = "EMPTY_INPUT_SET"        // 聚合输入为空，返回空表
	CodeSupplierLoadFailure  = "SUPPLIER_LOAD_FAILURE"  // 单个供应商加载失败，不影响其他
	CodeNoInputData          = "NO_INPUT_DATA"          // 全部输入缺失，唯一的硬失败
	CodeInvalidConfig        = "INVALID_CONFIG"
)

// Error 带错误码的错误
type Error struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
	Err     error          `json:"-"`
}

// Error 实现 error
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap 支持 errors.Is/As
func (e *Error) Unwrap() error {
	return e.Err
}

// Is 按错误码比较
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// WithDetail 附加上下文
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause 设置底层错误
func (e *Error) WithCause(err error) *Error {
	e.Err = err
	return e
}

// 用于 errors.Is 的哨兵
var (
	ErrMissingRequiredField = &Error{Code: CodeMissingRequiredField}
	ErrUnparseableDate      = &Error{Code: CodeUnparseableDate}
	ErrUnparseableNumber    = &Error{Code: CodeUnparseableNumber}
	ErrEmptyInputSet        = &Error{Code: CodeEmptyInputSet}
	ErrSupplierLoadFailure  = &Error{Code: CodeSupplierLoadFailure}
	ErrNoInputData          = &Error{Code: CodeNoInputData}
	ErrInvalidConfig        = &Error{Code: CodeInvalidConfig}
)

// NewMissingRequiredField 行缺少必填字段
func NewMissingRequiredField(field string, row int) *Error {
	return &Error{
		Code:    CodeMissingRequiredField,
		Message: fmt.Sprintf("row %d: missing %s", row, field),
		Details: map[string]any{"field": field, "row": row},
	}
}

// NewUnparseableDate 日期无法解析
func NewUnparseableDate(column, value string, row int) *Error {
	return &Error{
		Code:    CodeUnparseableDate,
		Message: fmt.Sprintf("row %d: unparseable date %q in %s", row, value, column),
		Details: map[string]any{"column": column, "value": value, "row": row},
	}
}

// NewUnparseableNumber 数字无法解析
func NewUnparseableNumber(column, value string, row int) *Error {
	return &Error{
		Code:    CodeUnparseableNumber,
		Message: fmt.Sprintf("row %d: unparseable number %q in %s", row, value, column),
		Details: map[string]any{"column": column, "value": value, "row": row},
	}
}

// NewEmptyInputSet 聚合步骤没有可用行
func NewEmptyInputSet(step string) *Error {
	return &Error{
		Code:    CodeEmptyInputSet,
		Message: fmt.Sprintf("%s: no usable rows", step),
		Details: map[string]any{"step": step},
	}
}

// NewSupplierLoadFailure 供应商数据加载失败
func NewSupplierLoadFailure(supplier string, err error) *Error {
	return &Error{
		Code:    CodeSupplierLoadFailure,
		Message: fmt.Sprintf("load %s failed", supplier),
		Details: map[string]any{"supplier": supplier},
		Err:     err,
	}
}

// NewNoInputData 没有任何输入数据
func NewNoInputData() *Error {
	return &Error{
		Code:    CodeNoInputData,
		Message: "no movement or on-hand data could be loaded; no reports produced",
	}
}

// NewInvalidConfig 配置错误
func NewInvalidConfig(message string) *Error {
	return &Error{
		Code:    CodeInvalidConfig,
		Message: message,
	}
}

// As 从错误链中取出 *Error
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// HTTPStatus 错误对应的 HTTP 状态码
func HTTPStatus(err error) int {
	e, ok := As(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch e.Code {
	case CodeInvalidConfig:
		return http.StatusBadRequest
	case CodeNoInputData:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
