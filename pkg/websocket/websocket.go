package websocketPkg

import (
	"EllaBooking/internal/api/assistant"
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type IWebsocket interface {
	// ReadFrame blocks until the server sends the next transcript frame.
	ReadFrame() (*assistant.StreamFrame, error)
	Send(text string) error
	Close() error
}

type webSocketClient struct {
	conn         *websocket.Conn
	mu           sync.Mutex
	pingInterval time.Duration
	writeTimeout time.Duration
	done         chan struct{}
	closeOnce    sync.Once
}

// TranscriptURL maps an API base such as http://localhost:3000 to the
// WebSocket endpoint of a session.
func TranscriptURL(baseURL, sessionID string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}

	switch u.Scheme {
	case "http", "ws", "":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}

	u.Path = strings.TrimRight(u.Path, "/") + "/api/v1/assistant/sessions/" + url.PathEscape(sessionID) + "/ws"
	return u.String(), nil
}

func Dial(ctx context.Context, wsURL string) (IWebsocket, error) {
	dialer := *websocket.DefaultDialer
	dialer.HandshakeTimeout = 10 * time.Second

	conn, _, err := dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", wsURL, err)
	}

	c := &webSocketClient{
		conn:         conn,
		pingInterval: 30 * time.Second,
		writeTimeout: 5 * time.Second,
		done:         make(chan struct{}),
	}

	conn.SetPingHandler(func(appData string) error {
		c.mu.Lock()
		defer c.mu.Unlock()
		_ = conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(c.writeTimeout))
		return nil
	})

	go c.keepAlive()

	return c, nil
}

func (c *webSocketClient) ReadFrame() (*assistant.StreamFrame, error) {
	_, data, err := c.conn.ReadMessage()
	if err != nil {
		return nil, err
	}

	var frame assistant.StreamFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		return nil, fmt.Errorf("malformed frame: %w", err)
	}
	return &frame, nil
}

func (c *webSocketClient) Send(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, []byte(text))
}

func (c *webSocketClient) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)

		c.mu.Lock()
		_ = c.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(c.writeTimeout),
		)
		c.mu.Unlock()

		err = c.conn.Close()
	})
	return err
}

func (c *webSocketClient) keepAlive() {
	ticker := time.NewTicker(c.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.mu.Lock()
			err := c.conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(c.writeTimeout))
			c.mu.Unlock()
			if err != nil {
				return
			}
		}
	}
}
