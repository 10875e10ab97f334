package util

import (
	"errors"
	"io"
	"net/http"

	"github.com/goccy/go-json"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func write(w io.Writer, resp Response) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

func Success(w io.Writer, data interface{}) error {
	return write(w, Response{
		Code:    http.StatusOK,
		Message: "success",
		Data:    data,
	})
}

func Error(w io.Writer, code int, message string) error {
	return write(w, Response{
		Code:    code,
		Message: message,
	})
}

func BadRequest(w io.Writer, message string) error {
	return Error(w, http.StatusBadRequest, message)
}

func InternalServerError(w io.Writer) error {
	return Error(w, http.StatusInternalServerError, "Internal server error")
}

// StatusFor 将领域错误映射为响应码
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrStudentNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrInvalidSeason),
		errors.Is(err, ErrInvalidEffort),
		errors.Is(err, ErrMalformedPrerequisite):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// WriteError 输出错误响应，内部错误不暴露细节，由调用方记录日志
func WriteError(w io.Writer, err error) error {
	code := StatusFor(err)
	switch code {
	case http.StatusNotFound:
		return Error(w, http.StatusNotFound, err.Error())
	case http.StatusInternalServerError:
		return InternalServerError(w)
	default:
		return BadRequest(w, err.Error())
	}
}
