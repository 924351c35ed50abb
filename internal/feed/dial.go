package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/ariefcatur/go-kiosk-orders/internal/orders"
	"github.com/gorilla/websocket"
)

// Conn is the kiosk side of the live channel, opened once per screen.
// Reconnection is left to the caller.
type Conn struct {
	ws   *websocket.Conn
	out  chan orders.Envelope
	done chan struct{}
	once sync.Once
}

// URLFor turns the API base URL into the websocket feed URL.
func URLFor(apiURL string) string {
	u := strings.TrimRight(apiURL, "/")
	switch {
	case strings.HasPrefix(u, "https://"):
		u = "wss://" + strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		u = "ws://" + strings.TrimPrefix(u, "http://")
	}
	return u + "/ws"
}

func Dial(ctx context.Context, url string, header http.Header) (*Conn, error) {
	d := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	ws, _, err := d.DialContext(ctx, url, header)
	if err != nil {
		return nil, fmt.Errorf("dial feed %s: %w", url, err)
	}
	c := &Conn{ws: ws, out: make(chan orders.Envelope, 64), done: make(chan struct{})}
	go c.readLoop()
	return c, nil
}

// Envelopes is closed when the connection ends.
func (c *Conn) Envelopes() <-chan orders.Envelope { return c.out }

func (c *Conn) readLoop() {
	defer close(c.out)
	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			return
		}
		var env orders.Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			continue
		}
		select {
		case c.out <- env:
		case <-c.done:
			return
		}
	}
}

func (c *Conn) Close() error {
	var err error
	c.once.Do(func() {
		close(c.done)
		_ = c.ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
		err = c.ws.Close()
	})
	return err
}

// Watch runs f over c until ctx ends or the server hangs up, then closes both.
func Watch[T any](ctx context.Context, c *Conn, f *Feed[T]) error {
	defer c.Close()
	defer f.Close()
	return f.Run(ctx, c.Envelopes())
}
