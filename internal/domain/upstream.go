package domain

import (
	"errors"
	"fmt"
)

// FailureKind - класс отказа внешнего сервиса
type FailureKind string

const (
	// FailureRateLimited - сервис ответил 429
	FailureRateLimited FailureKind = "rate_limited"
	// FailureEndpoint - любой другой неуспешный HTTP статус
	FailureEndpoint FailureKind = "endpoint"
	// FailureTransport - таймаут или сетевая ошибка
	FailureTransport FailureKind = "transport"
)

// UpstreamError - ошибка обращения к внешнему сервису (геокодер, сервис запросов)
type UpstreamError struct {
	Service    string
	Endpoint   string
	Kind       FailureKind
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	switch e.Kind {
	case FailureTransport:
		return fmt.Sprintf("%s %s: transport failure: %v", e.Service, e.Endpoint, e.Err)
	default:
		return fmt.Sprintf("%s %s: %s (status %d)", e.Service, e.Endpoint, e.Kind, e.StatusCode)
	}
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// IsRateLimited проверяет, что в цепочке ошибок есть отказ по лимиту запросов
func IsRateLimited(err error) bool {
	var upErr *UpstreamError
	return errors.As(err, &upErr) && upErr.Kind == FailureRateLimited
}
