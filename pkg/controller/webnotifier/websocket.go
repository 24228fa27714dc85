/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package webnotifier

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"nhooyr.io/websocket"

	"github.com/hyperledger/aries-presentproof-go/pkg/controller/internal/cmdutil"
	"github.com/hyperledger/aries-presentproof-go/pkg/controller/rest"
)

// WSNotifier pushes topic messages to every connected WebSocket client.
// Clients only listen, a data frame sent by a client closes its connection.
type WSNotifier struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
	handler rest.Handler
}

// NewWSNotifier returns a notifier accepting WebSocket clients on path.
func NewWSNotifier(path string) *WSNotifier {
	n := &WSNotifier{clients: make(map[*websocket.Conn]struct{})}
	n.handler = cmdutil.NewHTTPHandler(path, http.MethodGet, n.accept)

	return n
}

// Notify writes the topic message to each client. A client failing the write is closed and dropped,
// the failure itself is only logged.
func (n *WSNotifier) Notify(topic string, message []byte) error {
	if topic == "" {
		return errors.New(emptyTopicErrMsg)
	}

	if len(message) == 0 {
		return errors.New(emptyMessageErrMsg)
	}

	topicMsg, err := PrepareTopicMessage(topic, message)
	if err != nil {
		return fmt.Errorf(failedToCreateErrMsg, err)
	}

	for _, conn := range n.snapshot() {
		if err := write(conn, topicMsg); err != nil {
			logger.Warnf("websocket notification on topic %s failed: %v", topic, err)

			n.drop(conn, websocket.StatusGoingAway, "write failed")
		}
	}

	return nil
}

// GetRESTHandlers returns the websocket upgrade endpoint.
func (n *WSNotifier) GetRESTHandlers() []rest.Handler {
	return []rest.Handler{n.handler}
}

func write(conn *websocket.Conn, message []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), notificationSendTimeout)
	defer cancel()

	return conn.Write(ctx, websocket.MessageText, message)
}

func (n *WSNotifier) accept(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		logger.Infof("failed to upgrade the websocket notification connection : %v", err)
		return
	}

	n.mu.Lock()
	n.clients[conn] = struct{}{}
	n.mu.Unlock()

	logger.Debugf("websocket notification client connected from %s", r.RemoteAddr)

	// CloseRead discards client frames, its context ends once the connection is closed.
	<-conn.CloseRead(context.Background()).Done()

	n.drop(conn, websocket.StatusNormalClosure, "")
}

func (n *WSNotifier) snapshot() []*websocket.Conn {
	n.mu.Lock()
	defer n.mu.Unlock()

	conns := make([]*websocket.Conn, 0, len(n.clients))
	for c := range n.clients {
		conns = append(conns, c)
	}

	return conns
}

func (n *WSNotifier) drop(conn *websocket.Conn, code websocket.StatusCode, reason string) {
	n.mu.Lock()
	_, ok := n.clients[conn]
	delete(n.clients, conn)
	n.mu.Unlock()

	if !ok {
		return
	}

	if err := conn.Close(code, reason); err != nil {
		logger.Debugf("closing websocket notification client failed: %v", err)
	}

	logger.Debugf("websocket notification client dropped")
}

func (n *WSNotifier) clientCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()

	return len(n.clients)
}
