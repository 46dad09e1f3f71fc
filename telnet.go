// This file is part of https://github.com/emu3270/tn3270/
// Copyright 2026 by the tn3270 authors, licensed under the MIT license.
// See LICENSE in the project root for license information.

package tn3270

import (
	"bytes"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/rs/zerolog"
)

const (
	se   = 240 // 0xf0
	sb   = 250 // 0xfa
	will = 251 // 0xfb
	wont = 252 // 0xfc
	do   = 253 // 0xfd
	dont = 254 // 0xfe
	iac  = 255 // 0xff

	// Options

	binaryOption = 0

	eorOption = 25  // 0x19
	eor       = 239 // 0xef

	terminalType     = 24 // 0x18
	terminalTypeIs   = 0
	terminalTypeSend = 1
)

// ErrNegotiation indicates the host did not negotiate the telnet
// options required for tn3270 (terminal type, binary, end-of-record).
var ErrNegotiation = errors.New("couldn't negotiate telnet options for tn3270")

// negotiateTelnet performs the terminal side of tn3270 option
// negotiation on a fresh connection: the host asks DO TERMINAL-TYPE, we
// answer WILL and supply termtype when the host's SEND subnegotiation
// arrives, then both sides agree to BINARY and END-OF-RECORD. Returns
// once all three options are established in both directions, or fails
// when deadline passes or the host refuses an option.
func negotiateTelnet(conn net.Conn, termtype string, deadline time.Time, log zerolog.Logger) error {
	defer conn.SetReadDeadline(time.Time{})
	if err := conn.SetReadDeadline(deadline); err != nil {
		return err
	}

	// Option state, from our point of view: "they" flags are host WILL
	// confirmations, "we" flags are host DO requests we agreed to.
	var weBinary, weEOR, theyBinary, theyEOR, sentType bool

	// The host drives; announcing our intentions up front shortens the
	// exchange with hosts that wait for the terminal.
	log.Trace().Msg("announcing WILL TERMINAL-TYPE, DO/WILL BINARY, DO/WILL EOR")
	if _, err := conn.Write([]byte{
		iac, will, terminalType,
		iac, do, binaryOption, iac, will, binaryOption,
		iac, do, eorOption, iac, will, eorOption,
	}); err != nil {
		return err
	}
	weBinary, weEOR = true, true

	buf := make([]byte, 1)
	readByte := func() (byte, error) {
		for {
			n, err := conn.Read(buf)
			if err != nil {
				return 0, err
			}
			if n == 1 {
				return buf[0], nil
			}
		}
	}

	for !(weBinary && weEOR && theyBinary && theyEOR && sentType) {
		b, err := readByte()
		if err != nil {
			return err
		}
		if b != iac {
			// Hosts should not send data before negotiation
			// completes; skip anything that arrives early.
			continue
		}
		cmd, err := readByte()
		if err != nil {
			return err
		}

		switch cmd {
		case do, dont, will, wont:
			opt, err := readByte()
			if err != nil {
				return err
			}
			log.Trace().Uint8("cmd", cmd).Uint8("opt", opt).
				Msg("host negotiation command")
			switch {
			case cmd == do:
				switch opt {
				case terminalType, binaryOption, eorOption:
					// Already announced WILL for all three.
				default:
					log.Trace().Uint8("opt", opt).Msg("refusing unknown option")
					if _, err := conn.Write([]byte{iac, wont, opt}); err != nil {
						return err
					}
				}
			case cmd == will:
				switch opt {
				case binaryOption:
					theyBinary = true
				case eorOption:
					theyEOR = true
				default:
					log.Trace().Uint8("opt", opt).Msg("declining unknown option")
					if _, err := conn.Write([]byte{iac, dont, opt}); err != nil {
						return err
					}
				}
			case cmd == dont || cmd == wont:
				if opt == binaryOption || opt == eorOption ||
					opt == terminalType {
					return fmt.Errorf("host refused option %d: %w",
						opt, ErrNegotiation)
				}
			}

		case sb:
			var sub []byte
			for {
				b, err := readByte()
				if err != nil {
					return err
				}
				if b == iac {
					b2, err := readByte()
					if err != nil {
						return err
					}
					if b2 == se {
						break
					}
					sub = append(sub, b2)
					continue
				}
				sub = append(sub, b)
			}
			if len(sub) >= 2 && sub[0] == terminalType &&
				sub[1] == terminalTypeSend {
				log.Debug().Str("termtype", termtype).
					Msg("sending terminal type")
				reply := []byte{iac, sb, terminalType, terminalTypeIs}
				reply = append(reply, []byte(termtype)...)
				reply = append(reply, iac, se)
				if _, err := conn.Write(reply); err != nil {
					return err
				}
				sentType = true
			}

		default:
			// NOP, GA, and friends: ignore.
		}
	}

	log.Debug().Msg("telnet options established")
	return nil
}

// telnetRead returns the next byte of data from the connection c,
// filtering out all telnet commands. If passEOR is true, telnetRead
// returns upon encountering the telnet End of Record command, setting
// isEor to true; the value of b is then meaningless and valid is false.
// When valid is true, b is a real data byte read from the connection.
func telnetRead(c net.Conn, passEOR bool, log zerolog.Logger) (b byte, valid, isEor bool, err error) {
	const (
		normal = iota
		command
		subneg
	)

	buf := make([]byte, 1)
	state := normal

	for {
		bn, berr := c.Read(buf)

		// When there are no bytes to process and we received an error,
		// we are done no matter what state we're in.
		if bn == 0 && berr != nil {
			return 0, false, false, berr
		}

		// If we received 0 bytes but no error, we'll just read again.
		if bn == 0 {
			continue
		}

		switch state {
		case normal:
			if buf[0] == iac {
				state = command
			} else {
				return buf[0], true, false, berr
			}
		case command:
			if buf[0] == 0xff {
				// Escaped 0xff data byte.
				return 0xff, true, false, nil
			} else if buf[0] == sb {
				log.Trace().Msg("consuming mid-session subnegotiation")
				state = subneg
			} else if passEOR && buf[0] == eor {
				return 0, false, true, nil
			} else if buf[0] == do || buf[0] == dont ||
				buf[0] == will || buf[0] == wont {
				// Mid-session renegotiation attempt: consume the option
				// byte along with the command.
				state = normal
				opt, _, _, err := telnetReadRaw(c)
				if err != nil {
					return 0, false, false, err
				}
				log.Trace().Uint8("cmd", buf[0]).Uint8("opt", opt).
					Msg("ignoring mid-session negotiation command")
			} else {
				log.Trace().Uint8("cmd", buf[0]).Msg("ignoring telnet command")
				state = normal
			}
		case subneg:
			if buf[0] == se {
				state = normal
			}
			// Otherwise remain in subnegotiation consuming bytes.
		}
	}
}

// telnetReadRaw reads a single raw byte, used to consume the option
// byte of a mid-session negotiation command.
func telnetReadRaw(c net.Conn) (byte, bool, bool, error) {
	buf := make([]byte, 1)
	for {
		n, err := c.Read(buf)
		if err != nil {
			return 0, false, false, err
		}
		if n == 1 {
			return buf[0], true, false, nil
		}
	}
}

// telnetReadRecord accumulates data bytes until the telnet End of
// Record marker, reassembling a message regardless of how the transport
// fragments it. A short read is not an error; only transport failure or
// deadline expiry terminates the record early.
func telnetReadRecord(c net.Conn, log zerolog.Logger) ([]byte, error) {
	var record bytes.Buffer
	for {
		b, valid, isEor, err := telnetRead(c, true, log)
		if err != nil {
			return nil, err
		}
		if isEor {
			return record.Bytes(), nil
		}
		if valid {
			record.WriteByte(b)
		}
	}
}

// telnetWriteRecord writes payload as one telnet record: 0xff data
// bytes are escaped as IAC IAC and the IAC EOR marker is appended.
func telnetWriteRecord(c net.Conn, payload []byte) error {
	framed := make([]byte, 0, len(payload)+2)
	for _, b := range payload {
		if b == iac {
			framed = append(framed, iac, iac)
			continue
		}
		framed = append(framed, b)
	}
	framed = append(framed, iac, eor)
	_, err := c.Write(framed)
	return err
}
