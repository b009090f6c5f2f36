package realtime

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

// Topic names are query identities: subscribers of a topic receive the full
// refreshed result set of that query whenever an underlying record changes.
const (
	TopicPosts = "posts"

	commentsTopicPrefix = "comments:"
	presenceTopicPrefix = "presence:"
)

// TopicComments returns the topic carrying the comment list of a post.
func TopicComments(postUUID string) string {
	return commentsTopicPrefix + postUUID
}

// TopicPresence returns the topic carrying the viewer roster of a post.
func TopicPresence(postUUID string) string {
	return presenceTopicPrefix + postUUID
}

// IsKnownTopic reports whether topic belongs to one of the served namespaces.
// Subscription requests for anything else are dropped.
func IsKnownTopic(topic string) bool {
	if topic == TopicPosts {
		return true
	}
	if strings.HasPrefix(topic, commentsTopicPrefix) && len(topic) > len(commentsTopicPrefix) {
		return true
	}
	return isPresenceTopic(topic)
}

// Message is the wire envelope pushed to subscribers.
type Message struct {
	Type  string          `json:"type"` // "snapshot" or "presence"
	Topic string          `json:"topic"`
	Data  json.RawMessage `json:"data"`
}

// PresenceMember is one entry of a post's viewer roster.
type PresenceMember struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
}

// Client is one connected subscriber. The transport pumps live in the
// controller; the hub only ever touches the Send channel.
type Client struct {
	ID       string
	UserID   uint
	Username string
	Send     chan []byte

	topics map[string]bool // owned by the hub goroutine
}

// NewClient creates a subscriber handle with a buffered send channel.
func NewClient(userID uint, username string) *Client {
	return &Client{
		ID:       uuid.New().String(),
		UserID:   userID,
		Username: username,
		Send:     make(chan []byte, 256),
		topics:   make(map[string]bool),
	}
}

type subscription struct {
	client *Client
	topic  string
}

type publication struct {
	topic   string
	payload []byte
}

// Hub fans query snapshots out to subscribed clients. All maps are owned by
// the Run goroutine; callers communicate through channels only.
type Hub struct {
	register    chan *Client
	unregister  chan *Client
	subscribe   chan subscription
	unsubscribe chan subscription
	publish     chan publication

	clients   map[*Client]bool
	topics    map[string]map[*Client]bool
	snapshots map[string][]byte
}

// NewHub creates a hub and starts its run loop.
func NewHub() *Hub {
	h := &Hub{
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		subscribe:   make(chan subscription),
		unsubscribe: make(chan subscription),
		publish:     make(chan publication, 16),
		clients:     make(map[*Client]bool),
		topics:      make(map[string]map[*Client]bool),
		snapshots:   make(map[string][]byte),
	}

	go h.Run()

	return h
}

// Register adds a client to the hub.
func (h *Hub) Register(c *Client) {
	h.register <- c
}

// Unregister removes a client and all its subscriptions.
func (h *Hub) Unregister(c *Client) {
	h.unregister <- c
}

// Subscribe attaches the client to a topic. The current snapshot, if any, is
// delivered immediately.
func (h *Hub) Subscribe(c *Client, topic string) {
	h.subscribe <- subscription{client: c, topic: topic}
}

// Unsubscribe detaches the client from a topic.
func (h *Hub) Unsubscribe(c *Client, topic string) {
	h.unsubscribe <- subscription{client: c, topic: topic}
}

// Publish pushes the full refreshed result set of a query to its topic. The
// snapshot is retained so late subscribers receive the latest state on join.
func (h *Hub) Publish(topic string, data interface{}) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(Message{Type: "snapshot", Topic: topic, Data: raw})
	if err != nil {
		return err
	}
	h.publish <- publication{topic: topic, payload: payload}
	return nil
}

// Run processes hub events. Started by NewHub; runs for the process lifetime.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true

		case client := <-h.unregister:
			h.removeClient(client)

		case sub := <-h.subscribe:
			h.addSubscription(sub)

		case sub := <-h.unsubscribe:
			h.removeSubscription(sub)

		case pub := <-h.publish:
			h.snapshots[pub.topic] = pub.payload
			h.broadcast(pub.topic, pub.payload)
		}
	}
}

func (h *Hub) addSubscription(sub subscription) {
	if !h.clients[sub.client] {
		return
	}
	if h.topics[sub.topic] == nil {
		h.topics[sub.topic] = make(map[*Client]bool)
	}
	h.topics[sub.topic][sub.client] = true
	sub.client.topics[sub.topic] = true

	if isPresenceTopic(sub.topic) {
		h.broadcastRoster(sub.topic)
		return
	}
	if snapshot, ok := h.snapshots[sub.topic]; ok {
		h.send(sub.client, snapshot)
	}
}

func (h *Hub) removeSubscription(sub subscription) {
	if subscribers, ok := h.topics[sub.topic]; ok {
		delete(subscribers, sub.client)
		if len(subscribers) == 0 {
			delete(h.topics, sub.topic)
		}
	}
	delete(sub.client.topics, sub.topic)

	if isPresenceTopic(sub.topic) {
		h.broadcastRoster(sub.topic)
	}
}

func (h *Hub) removeClient(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.Send)

	for topic := range client.topics {
		if subscribers, ok := h.topics[topic]; ok {
			delete(subscribers, client)
			if len(subscribers) == 0 {
				delete(h.topics, topic)
			}
		}
		if isPresenceTopic(topic) {
			h.broadcastRoster(topic)
		}
	}
}

// broadcastRoster pushes the deduplicated viewer roster of a presence topic to
// all of its subscribers.
func (h *Hub) broadcastRoster(topic string) {
	seen := make(map[uint]bool)
	roster := make([]PresenceMember, 0)
	for client := range h.topics[topic] {
		if client.UserID == 0 || seen[client.UserID] {
			continue
		}
		seen[client.UserID] = true
		roster = append(roster, PresenceMember{UserID: client.UserID, Username: client.Username})
	}
	sort.Slice(roster, func(i, j int) bool { return roster[i].UserID < roster[j].UserID })

	raw, err := json.Marshal(roster)
	if err != nil {
		log.Errorf("failed to marshal presence roster for %s: %v", topic, err)
		return
	}
	payload, err := json.Marshal(Message{Type: "presence", Topic: topic, Data: raw})
	if err != nil {
		log.Errorf("failed to marshal presence message for %s: %v", topic, err)
		return
	}
	h.broadcast(topic, payload)
}

// broadcast fans payload out to a topic's subscribers. Clients that cannot
// keep up are dropped only after the loop: removing one mid-iteration would
// rebroadcast a fresh roster that the remaining sends then overwrite with the
// stale payload.
func (h *Hub) broadcast(topic string, payload []byte) {
	var doomed []*Client
	for client := range h.topics[topic] {
		select {
		case client.Send <- payload:
		default:
			doomed = append(doomed, client)
		}
	}
	for _, client := range doomed {
		h.removeClient(client)
	}
}

// send delivers without blocking the run loop; a client that cannot keep up
// is dropped.
func (h *Hub) send(client *Client, payload []byte) {
	select {
	case client.Send <- payload:
	default:
		h.removeClient(client)
	}
}

func isPresenceTopic(topic string) bool {
	return len(topic) > len(presenceTopicPrefix) && topic[:len(presenceTopicPrefix)] == presenceTopicPrefix
}
