// Copyright (c) 2021 the tmi-go developers
// released under the MIT license

package tmi

import (
	"time"

	"github.com/ergochat/tmi-go/tmi/caps"
)

// State returns the current lifecycle phase.
func (client *Client) State() ConnectionState {
	client.stateMutex.Lock()
	defer client.stateMutex.Unlock()
	return client.state
}

// Err returns the error that ended the connection, or nil if the client is
// still running or was closed deliberately.
func (client *Client) Err() error {
	client.stateMutex.Lock()
	defer client.stateMutex.Unlock()
	return client.fatalErr
}

// HasCap reports whether the server acknowledged the given capability.
func (client *Client) HasCap(capab caps.Capability) bool {
	return client.ackedCaps.Has(capab)
}

// AckedCaps returns the capabilities the server acknowledged during
// negotiation.
func (client *Client) AckedCaps() []caps.Capability {
	return client.ackedCaps.List()
}

// Nick returns the login nick in use, which may be a generated justinfan
// nick for anonymous sessions.
func (client *Client) Nick() string {
	return client.config.Nick
}

// LastActivity returns the time of the last successfully decoded inbound
// line, for idle monitoring.
func (client *Client) LastActivity() time.Time {
	client.stateMutex.Lock()
	defer client.stateMutex.Unlock()
	return client.lastActivity
}
