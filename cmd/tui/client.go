package main

import (
	"encoding/gob"
	"fmt"
	"net/url"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
	"github.com/zucenko/territory/model"
)

// Client is one websocket connection to a territory server. Send is not
// safe for concurrent use.
type Client struct {
	conn     *websocket.Conn
	Messages chan model.ServerMessage
	err      error
}

func Dial(addr string) (*Client, error) {
	u := url.URL{Scheme: "ws", Host: addr, Path: "/play"}
	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", u.String(), err)
	}
	c := &Client{
		conn:     conn,
		Messages: make(chan model.ServerMessage, 16),
	}
	go c.loopRead()
	return c, nil
}

func (c *Client) Send(cm model.ClientMessage) error {
	w, err := c.conn.NextWriter(websocket.BinaryMessage)
	if err != nil {
		return err
	}
	if err := gob.NewEncoder(w).Encode(cm); err != nil {
		return err
	}
	return w.Close()
}

// loopRead closes Messages when the connection ends; Err tells why.
func (c *Client) loopRead() {
	defer close(c.Messages)
	for {
		_, r, err := c.conn.NextReader()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				c.err = err
			}
			return
		}
		sm := model.ServerMessage{}
		if err := gob.NewDecoder(r).Decode(&sm); err != nil {
			c.err = fmt.Errorf("decode: %w", err)
			return
		}
		c.Messages <- sm
	}
}

// Err is valid once Messages is closed.
func (c *Client) Err() error {
	return c.err
}

func (c *Client) Close() {
	err := c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	if err != nil {
		log.Debugf("close: %v", err)
	}
	c.conn.Close()
}
