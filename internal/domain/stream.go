package domain

import "github.com/google/uuid"

// Stream names
const (
	StreamSearchRequest = "stream:infra:search:request"
	StreamSearchDone    = "stream:infra:search:done"
)

// SearchRequestEvent - входящее событие на выполнение поиска
type SearchRequestEvent struct {
	RequestID uuid.UUID `json:"request_id"`
	Query     string    `json:"query"`
}

// SearchDoneEvent - результат выполнения поиска
type SearchDoneEvent struct {
	RequestID uuid.UUID     `json:"request_id"`
	Result    *SearchResult `json:"result,omitempty"`
	Error     string        `json:"error,omitempty"`
	Code      string        `json:"code,omitempty"`
}

// Failed - завершился ли поиск ошибкой
func (e *SearchDoneEvent) Failed() bool {
	return e.Error != ""
}

// StreamMessage - сообщение из Redis Stream
type StreamMessage struct {
	ID   string
	Data string
}
