package channel

import (
	"sync"

	"github.com/H4ZEY86/Opure-Nexus-sub003/pkg/logx"
	"github.com/gorilla/websocket"

	"go.uber.org/zap"
)

// Client is one websocket connection, keyed by the authenticated
// player id. A reconnecting player replaces their previous client.
type Client struct {
	Id         string
	Connection *websocket.Conn
	Message    chan []byte
	// To keep track of closed channel
	IsClosed bool
	mutex    sync.Mutex
}

// Different scenarios for 'close of closed channel'
// 1) If user opens duplicate tab and close the first one

func (client *Client) Kick() {
	// We are using mutex to make sure IsClosed value is evaluated correctly
	// when reading its value at the same time.
	// https://go101.org/article/channel-closing.html
	client.mutex.Lock()

	defer client.mutex.Unlock()

	if !client.IsClosed {
		close(client.Message)
		client.IsClosed = true
	}

	if client.Connection != nil {
		err := client.Connection.Close()

		if err != nil {
			logx.Logger.Error(
				err.Error(),
				zap.String("desc", "could not close client connection"),
				zap.String("clientId", client.Id),
			)
		}
	}
}

// enqueue hands a frame to the write pump without blocking. Frames are
// dropped when the buffer is full; the periodic room resync corrects
// clients that fell behind.
func (client *Client) enqueue(message []byte) {
	client.mutex.Lock()
	defer client.mutex.Unlock()

	if client.IsClosed {
		return
	}

	select {
	case client.Message <- message:
	default:
		logx.Logger.Warn(
			"client send buffer full, dropping frame",
			zap.String("clientId", client.Id),
		)
	}
}

func (client *Client) Write() {
	defer client.Kick()

	for {
		message, ok := <-client.Message

		if !ok {
			break
		}

		err := client.Connection.WriteMessage(websocket.TextMessage, message)

		if err != nil {
			logx.Logger.Error(
				err.Error(),
				zap.String("desc", "could not write client message"),
				zap.String("clientId", client.Id),
			)
		}
	}
}

// Read pumps inbound frames into the hub's message handler until the
// connection drops.
func Read(client *Client, hub *Hub) {
	defer func() {
		client.Kick()
		hub.unregister(client)
	}()

	for {
		_, message, err := client.Connection.ReadMessage()

		if err != nil {
			break
		}

		if hub.OnMessage != nil {
			hub.OnMessage(client.Id, message)
		}
	}
}
