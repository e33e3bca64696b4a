package push

import (
	"errors"
	"time"
)

// Topics published to subscribers.
const (
	TopicNewEvent       = "NEW_EVENT"
	TopicBalanceUpdated = "BALANCE_UPDATED"
	TopicLatestBlock    = "LATEST_BLOCK"
	TopicAuctionStatus  = "AUCTION_STATUS_TASK"
	TopicStatusUpdated  = "status-updated"
)

// ErrUnknownSubscriber is returned by SendTo when the subscriber is gone.
var ErrUnknownSubscriber = errors.New("unknown subscriber")

// Message is the frame written to subscribers.
type Message struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Subscriber identifies a connected push client.
type Subscriber struct {
	ID          string
	ConnectedAt time.Time
}

// Publisher fans messages out to push subscribers.
type Publisher interface {
	// Broadcast sends the payload under topic to every connected subscriber.
	Broadcast(topic string, payload any)

	// SendTo sends the payload under topic to a single subscriber.
	SendTo(subscriberID, topic string, payload any) error

	// Subscribers delivers every newly connected subscriber.
	Subscribers() <-chan Subscriber
}
