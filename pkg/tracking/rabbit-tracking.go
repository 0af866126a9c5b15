package tracking

import (
	"log"
	"net/http"

	"github.com/devxstore/storefront/pkg/common"
	"github.com/devxstore/storefront/pkg/messaging"
	"github.com/devxstore/storefront/pkg/types"
	amqp "github.com/rabbitmq/amqp091-go"
)

// RabbitTracking publishes storefront events to the global tracking topic.
// Events are queued and published from a background goroutine so a slow or
// lost broker never stalls request handling.
type RabbitTracking struct {
	store      string
	connection *amqp.Connection
	queue      *common.QueueHandler[any]
}

func NewRabbitTracking(url, store string) (*RabbitTracking, error) {
	ret := RabbitTracking{
		store: store,
	}
	if err := ret.connect(url); err != nil {
		return nil, err
	}
	ret.queue = common.NewQueueHandler(ret.publish, 64)
	return &ret, nil
}

func (t *RabbitTracking) connect(url string) error {
	conn, err := amqp.Dial(url)
	if err != nil {
		return err
	}
	t.connection = conn
	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()
	return messaging.DefineTopic(ch, "global", messaging.TopicTracking)
}

func (t *RabbitTracking) Close() error {
	t.queue.Close()
	return t.connection.Close()
}

func (t *RabbitTracking) publish(events []any) {
	for _, data := range events {
		if err := messaging.SendChange(t.connection, "global", messaging.TopicTracking, data); err != nil {
			log.Printf("Error sending tracking event: %v", err)
		}
	}
}

const (
	eventSession = iota
	eventSearch
	eventAddToCart
	eventFavorite
	eventLogin
)

type BaseEvent struct {
	SessionId int    `json:"session_id"`
	Store     string `json:"store,omitempty"`
	Event     uint16 `json:"event"`
}

type Session struct {
	*BaseEvent
	UserAgent string `json:"user_agent,omitempty"`
	Ip        string `json:"ip,omitempty"`
	Language  string `json:"language,omitempty"`
}

func (t *RabbitTracking) TrackSession(sessionId int, r *http.Request) {
	ip := r.Header.Get("X-Real-Ip")
	if ip == "" {
		ip = r.Header.Get("X-Forwarded-For")
	}
	if ip == "" {
		ip = r.RemoteAddr
	}

	t.queue.Add(Session{
		BaseEvent: &BaseEvent{Event: eventSession, SessionId: sessionId, Store: t.store},
		Language:  r.Header.Get("Accept-Language"),
		UserAgent: r.UserAgent(),
		Ip:        ip,
	})
}

type SearchEventData struct {
	*types.ProductQuery
	*BaseEvent
	NumberOfResults int    `json:"noi"`
	Referer         string `json:"referer,omitempty"`
}

func (t *RabbitTracking) TrackSearch(sessionId int, query *types.ProductQuery, resultLen int, r *http.Request) {
	t.queue.Add(&SearchEventData{
		BaseEvent:       &BaseEvent{Event: eventSearch, SessionId: sessionId, Store: t.store},
		ProductQuery:    query,
		NumberOfResults: resultLen,
		Referer:         r.Header.Get("Referer"),
	})
}

type CartEvent struct {
	*BaseEvent
	Item     uint `json:"item"`
	Quantity uint `json:"quantity"`
}

func (t *RabbitTracking) TrackAddToCart(sessionId int, productId uint, quantity uint) {
	t.queue.Add(&CartEvent{
		BaseEvent: &BaseEvent{Event: eventAddToCart, SessionId: sessionId, Store: t.store},
		Item:      productId,
		Quantity:  quantity,
	})
}

type FavoriteEvent struct {
	*BaseEvent
	Item   uint `json:"item"`
	Active bool `json:"active"`
}

func (t *RabbitTracking) TrackFavorite(sessionId int, productId uint, active bool) {
	t.queue.Add(&FavoriteEvent{
		BaseEvent: &BaseEvent{Event: eventFavorite, SessionId: sessionId, Store: t.store},
		Item:      productId,
		Active:    active,
	})
}

type LoginEvent struct {
	*BaseEvent
	Username string `json:"username"`
}

func (t *RabbitTracking) TrackLogin(sessionId int, username string) {
	t.queue.Add(&LoginEvent{
		BaseEvent: &BaseEvent{Event: eventLogin, SessionId: sessionId, Store: t.store},
		Username:  username,
	})
}
