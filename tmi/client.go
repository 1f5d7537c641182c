// Copyright (c) 2021 the tmi-go developers
// released under the MIT license

// Package tmi implements a client connection to the Twitch chat service
// (TMI), layering capability negotiation, keepalive, rate limiting, and
// ordered event dispatch over the wire codec in tmi/irc and the typed
// message model in tmi/twitch.
package tmi

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/ergochat/tmi-go/tmi/caps"
	"github.com/ergochat/tmi-go/tmi/irc"
	"github.com/ergochat/tmi-go/tmi/logger"
	"github.com/ergochat/tmi-go/tmi/ratelimit"
	"github.com/ergochat/tmi-go/tmi/twitch"
	"github.com/ergochat/tmi-go/tmi/utils"
)

// ConnectionState is the lifecycle phase of a Client. It only ever moves
// forward; a Client is single-use and a reconnect means a new Client.
type ConnectionState uint

const (
	// StateConnecting means the transport is not established yet.
	StateConnecting ConnectionState = iota
	// StateNegotiating means registration is sent and capability
	// acknowledgements are outstanding.
	StateNegotiating
	// StateReady means commands are accepted and events flow.
	StateReady
	// StateClosing means a deliberate shutdown is in progress.
	StateClosing
	// StateClosed is the terminal state of a deliberate shutdown.
	StateClosed
	// StateFailed is the terminal state of an abnormal shutdown; Err()
	// reports the cause.
	StateFailed
)

func (state ConnectionState) String() string {
	switch state {
	case StateConnecting:
		return "connecting"
	case StateNegotiating:
		return "negotiating"
	case StateReady:
		return "ready"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Client is one connection to the chat service. Create it with NewClient,
// start it with Connect or Run, consume events from C, and issue commands
// with Say, Join, Part, SendRaw, or Submit. All methods are safe for
// concurrent use.
type Client struct {
	config *Config
	logger *logger.Manager

	conn    Conn
	limiter *ratelimit.Limiter

	// tierSems queue concurrent senders of the same tier in arrival order,
	// so that a burst of Say calls goes out in issuance order.
	tierSems [2]utils.Semaphore
	// writeMutex serializes the final write to the transport. Keepalive
	// replies take it directly, ahead of any sender still waiting on the
	// limiter.
	writeMutex sync.Mutex

	requestedCaps *caps.Set
	ackedCaps     *caps.Set

	stateMutex   sync.Mutex // tier 1; guards the fields below
	state        ConnectionState
	fatalErr     error
	pendingCaps  map[caps.Capability]bool
	lastActivity time.Time

	negotiated     chan struct{}
	negotiatedOnce sync.Once

	messages  chan twitch.Event
	done      chan struct{}
	closeOnce sync.Once
}

// NewClient builds a Client from a postprocessed Config. It does not touch
// the network.
func NewClient(config *Config) (*Client, error) {
	logManager, err := logger.NewManager(config.Logging)
	if err != nil {
		return nil, err
	}

	client := &Client{
		config:        config,
		logger:        logManager,
		limiter:       ratelimit.NewLimiter(config.RateLimits.Default, config.RateLimits.Join),
		requestedCaps: caps.NewSet(config.Caps...),
		ackedCaps:     caps.NewSet(),
		pendingCaps:   make(map[caps.Capability]bool),
		negotiated:    make(chan struct{}),
		messages:      make(chan twitch.Event, config.Dispatch.QueueSize),
		done:          make(chan struct{}),
		state:         StateConnecting,
	}
	for i := range client.tierSems {
		client.tierSems[i].Initialize(1)
	}
	return client, nil
}

// Connect dials the configured server and runs the connection, returning
// once the client is Ready (or has failed).
func (client *Client) Connect(ctx context.Context) error {
	conn, err := dialConfig(client.config)
	if err != nil {
		client.shutdown(StateFailed, err)
		return err
	}
	return client.Run(ctx, conn)
}

// Run drives an already established transport through registration and
// into the steady state. It returns once the client is Ready; the read
// loop keeps running in the background until disconnect.
func (client *Client) Run(ctx context.Context, conn Conn) error {
	client.conn = conn

	if err := client.register(); err != nil {
		client.shutdown(StateFailed, err)
		return err
	}
	client.setState(StateNegotiating)

	go client.readLoop()

	// every requested capability must be acked or nakked before Ready;
	// a stalled negotiation times out into Ready rather than wedging
	timer := time.NewTimer(client.config.NegotiationTimeout)
	defer timer.Stop()
	select {
	case <-client.negotiated:
	case <-timer.C:
		client.logger.Warning("caps", "negotiation timed out, proceeding without outstanding caps")
	case <-ctx.Done():
		client.shutdown(StateFailed, ctx.Err())
		return ctx.Err()
	case <-client.done:
		return client.Err()
	}

	client.setState(StateReady)
	client.logger.Info("tmi", "connection ready", "nick", client.config.Nick, "caps", client.ackedCaps.String())
	return nil
}

// register writes the capability request and the login lines. These go out
// before Ready and are exempt from rate limiting.
func (client *Client) register() error {
	requested := client.requestedCaps.List()

	client.stateMutex.Lock()
	for _, capab := range requested {
		client.pendingCaps[capab] = true
	}
	pending := len(client.pendingCaps)
	client.stateMutex.Unlock()

	if pending == 0 {
		client.finishNegotiation()
	} else {
		capReq := irc.MakeMessage(nil, "", "CAP", "REQ", client.requestedCaps.String())
		capReq.ForceTrailing()
		if err := client.writeDirect(capReq); err != nil {
			return err
		}
	}

	if client.config.Pass != "" {
		if err := client.writeDirect(irc.MakeMessage(nil, "", "PASS", client.config.Pass)); err != nil {
			return err
		}
	}
	return client.writeDirect(irc.MakeMessage(nil, "", "NICK", client.config.Nick))
}

// readLoop owns the inbound side: decode, convert, react, dispatch.
// It runs until the transport fails or is closed, then tears down.
func (client *Client) readLoop() {
	defer close(client.messages)

	for {
		lineBytes, err := client.conn.ReadLine()
		if err != nil {
			if client.State() >= StateClosing {
				client.shutdown(StateClosed, nil)
			} else {
				client.logger.Error("tmi", "connection lost", err.Error())
				client.shutdown(StateFailed, err)
			}
			return
		}

		msg, err := irc.ParseLine(string(lineBytes))
		if err != nil {
			if err == irc.ErrLineTooLong {
				// framing is compromised; nothing after this line can be
				// trusted to start at a line boundary
				client.logger.Error("tmi", "oversized line from server")
				client.shutdown(StateFailed, err)
				return
			}
			// an isolated bad line doesn't poison the connection
			client.logger.Debug("tmi", "dropping malformed line", err.Error())
			continue
		}
		client.touchActivity()

		event := twitch.ParseMessage(msg)
		client.observe(event)
		client.dispatch(event)

		if _, ok := event.(*twitch.Reconnect); ok {
			// the server asked us to go away; the event has already been
			// delivered so the subscriber can arrange a new connection
			client.logger.Info("tmi", "server requested reconnect")
			client.Close()
		}
	}
}

// observe performs the client's own protocol duties for an inbound event
// before it is dispatched to the subscriber.
func (client *Client) observe(event twitch.Event) {
	switch e := event.(type) {
	case *twitch.Ping:
		client.sendPong(e.Token)
	case *twitch.CapAck:
		client.handleCapAnswer(e.Caps, true)
	case *twitch.CapNak:
		client.handleCapAnswer(e.Caps, false)
	case *twitch.Unknown:
		if e.Err != nil {
			client.logger.Debug("tmi", "passing through unconverted message", e.Err.Error())
		}
	}
}

func (client *Client) handleCapAnswer(names []string, acked bool) {
	client.stateMutex.Lock()
	for _, name := range names {
		capab := caps.Capability(name)
		if acked {
			client.ackedCaps.Enable(capab)
		}
		delete(client.pendingCaps, capab)
	}
	remaining := len(client.pendingCaps)
	client.stateMutex.Unlock()

	if acked {
		client.logger.Debug("caps", "acked", strings.Join(names, " "))
	} else {
		client.logger.Warning("caps", "rejected", strings.Join(names, " "))
	}
	if remaining == 0 {
		client.finishNegotiation()
	}
}

func (client *Client) finishNegotiation() {
	client.negotiatedOnce.Do(func() {
		close(client.negotiated)
	})
}

// sendPong answers a server keepalive. It takes the write mutex directly,
// bypassing both the tier queues and the limiter, so the reply cannot be
// delayed behind rate-limited traffic.
func (client *Client) sendPong(token string) {
	msg := irc.MakeMessage(nil, "", "PONG")
	if token != "" {
		msg = irc.MakeMessage(nil, "", "PONG", token)
		msg.ForceTrailing()
	}
	if err := client.writeDirect(msg); err != nil {
		client.logger.Error("tmi", "cannot send PONG", err.Error())
	}
}

// writeDirect encodes and writes a message under the write mutex alone,
// with no rate limiting. Registration and keepalive use it.
func (client *Client) writeDirect(msg irc.Message) error {
	lineBytes, err := msg.LineBytes()
	if err != nil {
		return err
	}
	client.writeMutex.Lock()
	defer client.writeMutex.Unlock()
	return client.conn.WriteLine(lineBytes)
}

// dispatch hands an event to the subscriber, honoring the configured
// overflow policy.
func (client *Client) dispatch(event twitch.Event) {
	if client.config.Dispatch.Policy == DispatchDropOldest {
		for {
			select {
			case client.messages <- event:
				return
			default:
			}
			select {
			case dropped := <-client.messages:
				client.logger.Warning("dispatch", "queue full, dropping oldest event", dropped.IRC().Command)
			default:
			}
		}
	}

	// block: backpressure stalls the read loop (and eventually the peer)
	// until the subscriber catches up
	select {
	case client.messages <- event:
	case <-client.done:
	}
}

// C returns the inbound event stream. Events arrive in wire order; the
// channel is closed when the connection ends, so a subscriber can simply
// range over it.
func (client *Client) C() <-chan twitch.Event {
	return client.messages
}

// Close shuts the connection down deliberately. It waits for an in-flight
// write to finish, then releases the transport. Closing an already closed
// client is a no-op.
func (client *Client) Close() error {
	client.stateMutex.Lock()
	if client.state >= StateClosing {
		client.stateMutex.Unlock()
		return nil
	}
	client.state = StateClosing
	client.stateMutex.Unlock()

	// hold the write mutex while releasing the transport, so an in-flight
	// write always completes before the connection goes away
	client.writeMutex.Lock()
	client.shutdown(StateClosed, nil)
	client.writeMutex.Unlock()
	return nil
}

// shutdown moves the client into a terminal state and releases the
// transport. It is idempotent; the first caller's state and error win.
func (client *Client) shutdown(state ConnectionState, err error) {
	client.stateMutex.Lock()
	if client.state != StateClosed && client.state != StateFailed {
		client.state = state
		client.fatalErr = err
	}
	client.stateMutex.Unlock()

	client.finishNegotiation()
	client.closeOnce.Do(func() {
		close(client.done)
		if client.conn != nil {
			client.conn.Close()
		}
	})
}

func (client *Client) setState(state ConnectionState) {
	client.stateMutex.Lock()
	defer client.stateMutex.Unlock()
	if client.state < StateClosing {
		client.state = state
	}
}

func (client *Client) touchActivity() {
	client.stateMutex.Lock()
	client.lastActivity = time.Now()
	client.stateMutex.Unlock()
}
