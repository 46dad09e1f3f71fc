// This file is part of https://github.com/emu3270/tn3270/
// Copyright 2026 by the tn3270 authors, licensed under the MIT license.
// See LICENSE in the project root for license information.

package tn3270

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// State is the connection state of a Client.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateNegotiating
	StateReady
	StateSending
	StateReceiving

	// StateFailed is terminal for the current connection: the transport
	// failed and the caller must Disconnect and Connect again.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateNegotiating:
		return "negotiating"
	case StateReady:
		return "ready"
	case StateSending:
		return "sending"
	case StateReceiving:
		return "receiving"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("unknown state %d", int(s))
	}
}

// DefaultTerminalType is the model string announced during negotiation
// when ClientOpts.TerminalType is empty: a 24x80 model 2 with extended
// data stream support.
const DefaultTerminalType = "IBM-3278-2-E"

// ClientOpts carries the optional settings for NewClientOpts. The zero
// value selects the engine defaults.
type ClientOpts struct {
	// Codepage for data-stream translation. Nil uses the global default
	// (CP1047 unless changed with SetCodepage).
	Codepage Codepage

	// TerminalType is the terminal model string reported to the host.
	// Empty uses DefaultTerminalType.
	TerminalType string

	// Logger receives connection and protocol trace events. The zero
	// Logger discards everything.
	Logger zerolog.Logger
}

// Client is the tn3270 connection state machine for one session: it
// owns the transport, drives telnet negotiation, frames outbound
// commands, and reassembles inbound records.
//
// A Client is not internally synchronized. One goroutine drives a given
// Client at a time; independent Clients are fully independent.
type Client struct {
	host     string
	port     int
	cp       Codepage
	termtype string
	log      zerolog.Logger

	state State
	conn  net.Conn
}

// NewClient returns a disconnected client for host:port with default
// options.
func NewClient(host string, port int) *Client {
	return NewClientOpts(host, port, ClientOpts{})
}

// NewClientOpts returns a disconnected client for host:port.
func NewClientOpts(host string, port int, opts ClientOpts) *Client {
	termtype := opts.TerminalType
	if termtype == "" {
		termtype = DefaultTerminalType
	}
	logger := opts.Logger.With().
		Str("host", host).Int("port", port).Logger()
	return &Client{
		host:     host,
		port:     port,
		cp:       opts.Codepage,
		termtype: termtype,
		log:      logger,
		state:    StateDisconnected,
	}
}

// State returns the current connection state.
func (c *Client) State() State {
	return c.state
}

// Codepage returns the codepage this client translates with.
func (c *Client) Codepage() Codepage {
	if c.cp == nil {
		return defaultCodepage
	}
	return c.cp
}

// Connect opens the transport and negotiates the tn3270 telnet options.
// timeout bounds the whole sequence: dial plus negotiation. Fails with
// ErrInvalidState unless the client is Disconnected, ErrTimeout if the
// deadline elapses, ErrConnectionFailed if the transport cannot be
// established, and ErrProtocol (state Failed) if the host refuses the
// required options.
func (c *Client) Connect(timeout time.Duration) error {
	if c.state != StateDisconnected {
		return fmt.Errorf("connect while %s: %w", c.state, ErrInvalidState)
	}

	deadline := time.Now().Add(timeout)
	addr := net.JoinHostPort(c.host, strconv.Itoa(c.port))

	c.state = StateConnecting
	c.log.Debug().Str("addr", addr).Msg("dialing")
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		c.state = StateDisconnected
		if nerr, ok := err.(net.Error); ok && nerr.Timeout() {
			return fmt.Errorf("dial %s: %w", addr, ErrTimeout)
		}
		return fmt.Errorf("dial %s: %v: %w", addr, err, ErrConnectionFailed)
	}
	c.conn = conn

	c.state = StateNegotiating
	c.log.Debug().Str("termtype", c.termtype).Msg("negotiating telnet options")
	if err := negotiateTelnet(conn, c.termtype, deadline, c.log); err != nil {
		c.fail()
		if nerr, ok := err.(net.Error); ok && nerr.Timeout() {
			return fmt.Errorf("negotiate: %w", ErrTimeout)
		}
		return fmt.Errorf("negotiate: %v: %w", err, ErrProtocol)
	}

	c.state = StateReady
	c.log.Info().Msg("session established")
	return nil
}

// Disconnect closes the transport and returns the client to
// Disconnected from any state. Idempotent: disconnecting a disconnected
// client is a no-op, not an error. Screen and field data owned by the
// caller are untouched.
func (c *Client) Disconnect() error {
	if c.conn != nil {
		// Released exactly once, on every exit path.
		if err := c.conn.Close(); err != nil {
			c.log.Debug().Err(err).Msg("close on disconnect")
		}
		c.conn = nil
		c.log.Info().Msg("disconnected")
	}
	c.state = StateDisconnected
	return nil
}

// SendCommand frames payload as one telnet record (IAC escaping plus
// the EOR marker) and writes it to the host. Valid only in the Ready
// state. A transport write error is fatal: the client moves to Failed
// and the caller must reconnect.
func (c *Client) SendCommand(payload []byte) error {
	if c.state != StateReady {
		return fmt.Errorf("send while %s: %w", c.state, ErrInvalidState)
	}

	c.state = StateSending
	err := telnetWriteRecord(c.conn, payload)
	if err != nil {
		c.log.Error().Err(err).Msg("write failed")
		c.fail()
		return fmt.Errorf("send: %v: %w", err, ErrConnectionFailed)
	}
	c.state = StateReady
	c.log.Trace().Int("bytes", len(payload)).Msg("record sent")
	return nil
}

// ReadResponse blocks until one complete EOR-delimited record arrives,
// reassembling it across however many partial reads the transport
// delivers. Valid only in the Ready state.
//
// timeout > 0 bounds the whole read; expiry fails with ErrTimeout and
// leaves the client Ready, so a timed-out read may simply be retried.
// timeout <= 0 blocks until data or transport failure. Transport
// failure (including the host closing the connection) is fatal: the
// client moves to Failed.
func (c *Client) ReadResponse(timeout time.Duration) ([]byte, error) {
	if c.state != StateReady {
		return nil, fmt.Errorf("read while %s: %w", c.state, ErrInvalidState)
	}

	if timeout > 0 {
		if err := c.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
			c.fail()
			return nil, fmt.Errorf("read: %v: %w", err, ErrConnectionFailed)
		}
		defer c.conn.SetReadDeadline(time.Time{})
	}

	c.state = StateReceiving
	record, err := telnetReadRecord(c.conn, c.log)
	if err != nil {
		if nerr, ok := err.(net.Error); ok && nerr.Timeout() {
			// Recoverable: the record simply hasn't arrived yet.
			c.state = StateReady
			return nil, fmt.Errorf("read: %w", ErrTimeout)
		}
		c.log.Error().Err(err).Msg("read failed")
		c.fail()
		return nil, fmt.Errorf("read: %v: %w", err, ErrConnectionFailed)
	}

	c.state = StateReady
	c.log.Trace().Int("bytes", len(record)).Msg("record received")
	return record, nil
}

// ReadScreen reads one host record and applies it to screen and fields
// as a 3270 write data stream. A parse failure leaves the client Ready;
// the session remains usable.
func (c *Client) ReadScreen(timeout time.Duration, screen *Screen, fields *FieldManager) error {
	record, err := c.ReadResponse(timeout)
	if err != nil {
		return err
	}
	return ApplyHostWrite(record, screen, fields, c.Codepage())
}

// SendAID builds and sends the read-modified transmission for an
// attention key: convenience for BuildAID followed by SendCommand.
func (c *Client) SendAID(aid AID, cursor Address, fields []ModifiedField) error {
	payload, err := BuildAID(c.Codepage(), aid, cursor, fields)
	if err != nil {
		return err
	}
	c.log.Debug().Stringer("aid", aid).Msg("sending attention key")
	return c.SendCommand(payload)
}

// fail closes the transport and marks the connection Failed. The caller
// must Disconnect before connecting again.
func (c *Client) fail() {
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	c.state = StateFailed
}
