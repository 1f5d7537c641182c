// Copyright (c) 2021 the tmi-go developers
// released under the MIT license

package tmi

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ergochat/tmi-go/tmi/irc"
	"github.com/ergochat/tmi-go/tmi/ratelimit"
)

// Say sends a chat message to a channel. It blocks until the message is
// written, the rate limiter's wait outlives ctx, or the connection closes.
func (client *Client) Say(ctx context.Context, channel, message string) error {
	msg := irc.MakeMessage(nil, "", "PRIVMSG", hashChannel(channel), message)
	msg.ForceTrailing()
	return client.send(ctx, ratelimit.TierDefault, msg)
}

// Reply sends a chat message as a threaded reply to the message with the
// given id.
func (client *Client) Reply(ctx context.Context, channel, parentMsgID, message string) error {
	tags := irc.Tags{{Name: "reply-parent-msg-id", Value: parentMsgID}}
	msg := irc.MakeMessage(tags, "", "PRIVMSG", hashChannel(channel), message)
	msg.ForceTrailing()
	return client.send(ctx, ratelimit.TierDefault, msg)
}

// Whisper sends a private message to another user. Whispers are carried
// as a /w command to the jtv channel and spend from the default tier;
// Twitch applies further account-level restrictions on top.
func (client *Client) Whisper(ctx context.Context, target, message string) error {
	msg := irc.MakeMessage(nil, "", "PRIVMSG", "#jtv", fmt.Sprintf("/w %s %s", target, message))
	msg.ForceTrailing()
	return client.send(ctx, ratelimit.TierDefault, msg)
}

// Join enters one or more channels. Each call spends a single token from
// the join tier regardless of how many channels it names.
func (client *Client) Join(ctx context.Context, channels ...string) error {
	if len(channels) == 0 {
		return nil
	}
	hashed := make([]string, len(channels))
	for i, channel := range channels {
		hashed[i] = hashChannel(channel)
	}
	msg := irc.MakeMessage(nil, "", "JOIN", strings.Join(hashed, ","))
	return client.send(ctx, ratelimit.TierJoin, msg)
}

// Part leaves a channel.
func (client *Client) Part(ctx context.Context, channel string) error {
	msg := irc.MakeMessage(nil, "", "PART", hashChannel(channel))
	return client.send(ctx, ratelimit.TierJoin, msg)
}

// SendRaw sends an arbitrary message on the default tier. The caller is
// responsible for the command's semantics; the line is still validated and
// framed by the codec.
func (client *Client) SendRaw(ctx context.Context, msg irc.Message) error {
	return client.send(ctx, tierFor(msg.Command), msg)
}

// Submit attempts to send a message without blocking. If the relevant
// bucket is empty it returns a *RateLimitError carrying the wait after
// which a retry could succeed.
func (client *Client) Submit(msg irc.Message) error {
	lineBytes, err := msg.LineBytes()
	if err != nil {
		return err
	}
	if err := client.writableState(); err != nil {
		return err
	}

	tier := tierFor(msg.Command)
	sem := &client.tierSems[tier]
	if !sem.TryAcquire() {
		// a blocking sender is already queued ahead of us
		return &RateLimitError{Tier: tier, RetryAfter: 0}
	}
	defer sem.Release()

	if granted, retryAfter := client.limiter.TryAcquire(tier); !granted {
		return &RateLimitError{Tier: tier, RetryAfter: retryAfter}
	}
	return client.write(lineBytes)
}

// send is the blocking write path shared by all commands: queue behind
// earlier senders of the same tier, wait for a token, then write.
func (client *Client) send(ctx context.Context, tier ratelimit.Tier, msg irc.Message) error {
	lineBytes, err := msg.LineBytes()
	if err != nil {
		return err
	}
	if err := client.writableState(); err != nil {
		return err
	}

	sendCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-client.done:
			cancel()
		case <-sendCtx.Done():
		}
	}()

	sem := &client.tierSems[tier]
	if !sem.AcquireWithContext(sendCtx) {
		return client.sendErr(ctx, tier)
	}
	defer sem.Release()

	if err := client.limiter.Acquire(sendCtx, tier); err != nil {
		return client.sendErr(ctx, tier)
	}
	return client.write(lineBytes)
}

// sendErr translates an interrupted wait into the caller-facing error:
// closure wins over cancellation, and a deadline spent waiting on the
// limiter is reported as a rate limit denial.
func (client *Client) sendErr(ctx context.Context, tier ratelimit.Tier) error {
	select {
	case <-client.done:
		return ErrClosed
	default:
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		// report a fresh retry hint; RetryAfter does not spend a token, so
		// the abandoned send takes nothing away from the next sender
		return &RateLimitError{Tier: tier, RetryAfter: client.limiter.RetryAfter(tier)}
	}
	return ctx.Err()
}

// write performs the final serialized write. A transport error here ends
// the connection.
func (client *Client) write(lineBytes []byte) error {
	select {
	case <-client.done:
		return ErrClosed
	default:
	}

	client.writeMutex.Lock()
	defer client.writeMutex.Unlock()
	if err := client.conn.WriteLine(lineBytes); err != nil {
		client.logger.Error("tmi", "write failed", err.Error())
		client.shutdown(StateFailed, err)
		return err
	}
	return nil
}

// writableState rejects commands issued outside the Ready state.
func (client *Client) writableState() error {
	switch client.State() {
	case StateReady:
		return nil
	case StateClosing, StateClosed, StateFailed:
		return ErrClosed
	default:
		return ErrNotReady
	}
}

func tierFor(command string) ratelimit.Tier {
	switch strings.ToUpper(command) {
	case "JOIN", "PART":
		return ratelimit.TierJoin
	default:
		return ratelimit.TierDefault
	}
}

func hashChannel(channel string) string {
	if strings.HasPrefix(channel, "#") {
		return channel
	}
	return "#" + channel
}
