// Copyright (c) 2021 the tmi-go developers
// released under the MIT license

package tmi

import (
	"bufio"
	"bytes"
	"crypto/tls"
	"net"
	"unicode/utf8"

	"github.com/gorilla/websocket"

	"github.com/ergochat/tmi-go/tmi/irc"
)

const maxReadQBytes = irc.MaxlenTagData + irc.MaxlenBody + 1024

var crlf = []byte{'\r', '\n'}

// Conn abstracts away the distinction between a regular net.Conn (which
// includes both raw TCP and TLS) and a websocket. It doesn't expose Read
// and Write because websockets are message-oriented, not stream-oriented.
// The runner depends on the transport solely through this interface; an
// in-memory implementation works just as well as a socket.
type Conn interface {
	// WriteLine writes one complete framed line, including its CRLF.
	WriteLine([]byte) error
	// ReadLine returns the next line with its terminator stripped, or an
	// error (io.EOF at a clean end of stream).
	ReadLine() (line []byte, err error)

	Close() error
}

// StreamConn is a Conn over a regular stream connection.
type StreamConn struct {
	conn   net.Conn
	reader *bufio.Reader
}

func NewStreamConn(conn net.Conn) *StreamConn {
	return &StreamConn{
		conn: conn,
	}
}

func (cc *StreamConn) WriteLine(buf []byte) (err error) {
	_, err = cc.conn.Write(buf)
	return
}

func (cc *StreamConn) ReadLine() (line []byte, err error) {
	if cc.reader == nil {
		cc.reader = bufio.NewReaderSize(cc.conn, maxReadQBytes)
	}

	var isPrefix bool
	line, isPrefix, err = cc.reader.ReadLine()
	if isPrefix {
		// the line overflowed the read buffer: we have lost framing
		return nil, errReadQ
	}
	line = bytes.TrimSuffix(line, crlf)
	return
}

func (cc *StreamConn) Close() (err error) {
	return cc.conn.Close()
}

// WSConn is a Conn over a websocket; Twitch serves the same protocol at
// wss://irc-ws.chat.twitch.tv, one line per text message.
type WSConn struct {
	conn *websocket.Conn
}

func NewWSConn(conn *websocket.Conn) WSConn {
	return WSConn{conn: conn}
}

func (wc WSConn) WriteLine(buf []byte) (err error) {
	buf = bytes.TrimSuffix(buf, crlf)
	// there's not much we can do about this;
	// silently drop the message
	if !utf8.Valid(buf) {
		return nil
	}
	return wc.conn.WriteMessage(websocket.TextMessage, buf)
}

func (wc WSConn) ReadLine() (line []byte, err error) {
	for {
		var messageType int
		messageType, line, err = wc.conn.ReadMessage()
		// on empty message or non-text message, try again, block if necessary
		if err != nil || (messageType == websocket.TextMessage && len(line) != 0) {
			return
		}
	}
}

func (wc WSConn) Close() (err error) {
	return wc.conn.Close()
}

// Dial opens a plain or TLS stream transport. TLS configuration beyond
// the stock dialer is the caller's business; hand the resulting net.Conn
// to NewStreamConn instead.
func Dial(address string, useTLS bool) (Conn, error) {
	var conn net.Conn
	var err error
	if useTLS {
		conn, err = tls.Dial("tcp", address, nil)
	} else {
		conn, err = net.Dial("tcp", address)
	}
	if err != nil {
		return nil, err
	}
	return NewStreamConn(conn), nil
}

// DialWebsocket opens a websocket transport to a ws:// or wss:// URL.
func DialWebsocket(url string) (Conn, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, err
	}
	return NewWSConn(conn), nil
}

func dialConfig(config *Config) (Conn, error) {
	if config.Server.Websocket {
		return DialWebsocket(config.Server.Address)
	}
	return Dial(config.Server.Address, config.Server.TLS)
}
