package tracking

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/levalleyjack/slugtistics/pkg/messaging"
	"github.com/levalleyjack/slugtistics/pkg/types"
)

type RabbitTracking struct {
	broker *messaging.Broker
}

func NewRabbitTracking(url string) (*RabbitTracking, error) {
	broker, err := messaging.Connect(url)
	if err != nil {
		return nil, err
	}
	return &RabbitTracking{broker: broker}, nil
}

func (t *RabbitTracking) Close() error {
	return t.broker.Close()
}

func (t *RabbitTracking) send(data any) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := t.broker.PublishEvent(ctx, data); err != nil {
		log.Printf("Error sending tracking event: %v", err)
	}
}

type BaseEvent struct {
	EventId   string `json:"event_id"`
	SessionId string `json:"session_id"`
	Event     uint16 `json:"event"`
}

func baseEvent(kind uint16, sessionId string) *BaseEvent {
	return &BaseEvent{
		EventId:   uuid.New().String(),
		SessionId: sessionId,
		Event:     kind,
	}
}

type SessionEvent struct {
	*BaseEvent
	UserAgent string `json:"user_agent,omitempty"`
	Ip        string `json:"ip,omitempty"`
	Language  string `json:"language,omitempty"`
}

func (t *RabbitTracking) TrackSession(sessionId string, r *http.Request) {
	ip := r.Header.Get("X-Real-Ip")
	if ip == "" {
		ip = r.Header.Get("X-Forwarded-For")
	}
	if ip == "" {
		ip = r.RemoteAddr
	}
	t.send(SessionEvent{
		BaseEvent: baseEvent(0, sessionId),
		UserAgent: r.UserAgent(),
		Ip:        ip,
		Language:  r.Header.Get("Accept-Language"),
	})
}

type SearchEvent struct {
	*BaseEvent
	Query       string               `json:"query"`
	Filters     *types.FilterOptions `json:"filters,omitempty"`
	ResultCount int                  `json:"noi"`
}

func (t *RabbitTracking) TrackSearch(sessionId string, query string, filters *types.FilterOptions, resultCount int) {
	t.send(SearchEvent{
		BaseEvent:   baseEvent(1, sessionId),
		Query:       query,
		Filters:     filters,
		ResultCount: resultCount,
	})
}

type SelectEvent struct {
	*BaseEvent
	CourseId string             `json:"course_id"`
	Origin   types.SelectOrigin `json:"origin"`
}

func (t *RabbitTracking) TrackSelect(sessionId string, courseId string, origin types.SelectOrigin) {
	t.send(SelectEvent{
		BaseEvent: baseEvent(2, sessionId),
		CourseId:  courseId,
		Origin:    origin,
	})
}
