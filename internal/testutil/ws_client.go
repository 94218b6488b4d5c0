package testutil

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/jmin/block-battle/internal/websocket"
	gorillaWS "github.com/gorilla/websocket"
)

// WSClient is a test WebSocket client
type WSClient struct {
	t        *testing.T
	conn     *gorillaWS.Conn
	messages chan *websocket.Message
	errors   chan error
	done     chan struct{}
	mu       sync.Mutex
}

// NewWSClient creates a new WebSocket test client
func NewWSClient(t *testing.T, url string) *WSClient {
	t.Helper()

	dialer := gorillaWS.DefaultDialer
	dialer.HandshakeTimeout = 5 * time.Second

	conn, _, err := dialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("failed to connect to websocket: %v", err)
	}

	client := &WSClient{
		t:        t,
		conn:     conn,
		messages: make(chan *websocket.Message, 100),
		errors:   make(chan error, 10),
		done:     make(chan struct{}),
	}

	go client.readPump()

	t.Cleanup(func() {
		client.Close()
	})

	return client
}

// readPump reads messages from the WebSocket connection
func (c *WSClient) readPump() {
	defer close(c.messages)
	for {
		select {
		case <-c.done:
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				select {
				case <-c.done:
					return
				case c.errors <- err:
				}
				return
			}

			var msg websocket.Message
			if err := json.Unmarshal(data, &msg); err != nil {
				c.errors <- err
				continue
			}

			select {
			case c.messages <- &msg:
			case <-c.done:
				return
			}
		}
	}
}

// Close closes the WebSocket connection gracefully
func (c *WSClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	select {
	case <-c.done:
		return
	default:
		close(c.done)
		c.conn.WriteMessage(gorillaWS.CloseMessage, gorillaWS.FormatCloseMessage(gorillaWS.CloseNormalClosure, ""))
		c.conn.Close()
	}
}

func (c *WSClient) send(msgType websocket.MessageType, payload interface{}) {
	c.t.Helper()

	msg, err := websocket.NewMessage(msgType, payload)
	if err != nil {
		c.t.Fatalf("failed to build message: %v", err)
	}

	data, err := json.Marshal(msg)
	if err != nil {
		c.t.Fatalf("failed to marshal message: %v", err)
	}

	c.mu.Lock()
	err = c.conn.WriteMessage(gorillaWS.TextMessage, data)
	c.mu.Unlock()

	if err != nil {
		c.t.Fatalf("failed to send message: %v", err)
	}
}

// JoinChannel subscribes this connection to a room's broadcast channel
func (c *WSClient) JoinChannel(roomID string) {
	c.send(websocket.MessageTypeJoinChannel, websocket.JoinChannelPayload{RoomID: roomID})
}

// LeaveChannel unsubscribes this connection from a room's broadcast channel
func (c *WSClient) LeaveChannel(roomID string) {
	c.send(websocket.MessageTypeLeaveChannel, websocket.LeaveChannelPayload{RoomID: roomID})
}

// ExpectMessage waits for a message of the specified type, skipping others
func (c *WSClient) ExpectMessage(msgType websocket.MessageType, timeout time.Duration) *websocket.Message {
	c.t.Helper()

	deadline := time.After(timeout)
	for {
		select {
		case msg := <-c.messages:
			if msg == nil {
				c.t.Fatalf("connection closed while waiting for %s", msgType)
			}
			if msg.Type == msgType {
				return msg
			}
		case err := <-c.errors:
			c.t.Fatalf("error while waiting for %s: %v", msgType, err)
		case <-deadline:
			c.t.Fatalf("timeout waiting for message type %s", msgType)
		}
	}
}

// ExpectConnected waits for and decodes the CONNECTED greeting
func (c *WSClient) ExpectConnected(timeout time.Duration) *websocket.ConnectedPayload {
	c.t.Helper()

	msg := c.ExpectMessage(websocket.MessageTypeConnected, timeout)

	var payload websocket.ConnectedPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		c.t.Fatalf("failed to decode connected payload: %v", err)
	}

	return &payload
}

// ExpectMatchStarted waits for and decodes a MATCH_STARTED message
func (c *WSClient) ExpectMatchStarted(timeout time.Duration) *websocket.MatchStartedPayload {
	c.t.Helper()

	msg := c.ExpectMessage(websocket.MessageTypeMatchStarted, timeout)

	var payload websocket.MatchStartedPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		c.t.Fatalf("failed to decode match started payload: %v", err)
	}

	return &payload
}

// ExpectScoreUpdated waits for and decodes a SCORE_UPDATED message
func (c *WSClient) ExpectScoreUpdated(timeout time.Duration) *websocket.ScoreUpdatedPayload {
	c.t.Helper()

	msg := c.ExpectMessage(websocket.MessageTypeScoreUpdated, timeout)

	var payload websocket.ScoreUpdatedPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		c.t.Fatalf("failed to decode score updated payload: %v", err)
	}

	return &payload
}

// ExpectMatchEnded waits for and decodes a MATCH_ENDED message
func (c *WSClient) ExpectMatchEnded(timeout time.Duration) *websocket.MatchEndedPayload {
	c.t.Helper()

	msg := c.ExpectMessage(websocket.MessageTypeMatchEnded, timeout)

	var payload websocket.MatchEndedPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		c.t.Fatalf("failed to decode match ended payload: %v", err)
	}

	return &payload
}

// ExpectNoMessage verifies no messages are received within timeout
func (c *WSClient) ExpectNoMessage(timeout time.Duration) {
	c.t.Helper()

	select {
	case msg := <-c.messages:
		if msg != nil {
			c.t.Fatalf("unexpected message received: %s", msg.Type)
		}
	case <-time.After(timeout):
	}
}
