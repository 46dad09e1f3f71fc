// This file is part of https://github.com/emu3270/tn3270/
// Copyright 2026 by the tn3270 authors, licensed under the MIT license.
// See LICENSE in the project root for license information.

package tn3270

import (
	"bytes"
	"errors"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// startHost runs script against the first connection to a loopback
// listener and returns the address to dial. The script's connection is
// closed when it returns.
func startHost(t *testing.T, script func(t *testing.T, conn net.Conn)) (string, int) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		script(t, conn)
	}()

	addr := ln.Addr().(*net.TCPAddr)
	return addr.IP.String(), addr.Port
}

// hostNegotiate performs the host side of tn3270 option negotiation:
// agree to binary and end-of-record, ask for the terminal type, and
// consume the client's replies through the terminal-type
// subnegotiation.
func hostNegotiate(t *testing.T, conn net.Conn) {
	t.Helper()
	_, err := conn.Write([]byte{
		iac, will, binaryOption,
		iac, will, eorOption,
		iac, sb, terminalType, terminalTypeSend, iac, se,
	})
	if err != nil {
		t.Error(err)
		return
	}

	// The client's final negotiation message is the terminal-type
	// subnegotiation, terminated by IAC SE.
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	defer conn.SetReadDeadline(time.Time{})
	var seen []byte
	buf := make([]byte, 1)
	for {
		if _, err := conn.Read(buf); err != nil {
			t.Errorf("host negotiation read: %v", err)
			return
		}
		seen = append(seen, buf[0])
		if len(seen) >= 2 && seen[len(seen)-2] == iac && seen[len(seen)-1] == se {
			break
		}
	}
	if !bytes.Contains(seen, []byte("IBM-3278-2-E")) {
		t.Errorf("client did not announce terminal type: % 02x", seen)
	}
}

// hostReadRecord consumes bytes until IAC EOR and returns the unescaped
// payload.
func hostReadRecord(t *testing.T, conn net.Conn) []byte {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	defer conn.SetReadDeadline(time.Time{})
	var payload []byte
	buf := make([]byte, 1)
	for {
		if _, err := conn.Read(buf); err != nil {
			t.Errorf("host record read: %v", err)
			return nil
		}
		if buf[0] != iac {
			payload = append(payload, buf[0])
			continue
		}
		if _, err := conn.Read(buf); err != nil {
			t.Errorf("host record read: %v", err)
			return nil
		}
		if buf[0] == eor {
			return payload
		}
		if buf[0] == iac {
			payload = append(payload, iac)
		}
	}
}

func connectedClient(t *testing.T, script func(t *testing.T, conn net.Conn)) *Client {
	t.Helper()
	host, port := startHost(t, script)
	client := NewClient(host, port)
	if err := client.Connect(5 * time.Second); err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { client.Disconnect() })
	return client
}

func TestSendWhileDisconnected(t *testing.T) {
	client := NewClient("example.com", 23)
	err := client.SendCommand([]byte{byte(AIDEnter)})
	if !errors.Is(err, ErrInvalidState) {
		t.Errorf("expected invalid state, got %v", err)
	}
	if _, err := client.ReadResponse(time.Second); !errors.Is(err, ErrInvalidState) {
		t.Errorf("expected invalid state, got %v", err)
	}
}

func TestDisconnectIdempotent(t *testing.T) {
	client := NewClient("example.com", 23)
	if err := client.Disconnect(); err != nil {
		t.Errorf("disconnect while disconnected: %v", err)
	}
	if err := client.Disconnect(); err != nil {
		t.Errorf("second disconnect: %v", err)
	}
	if client.State() != StateDisconnected {
		t.Errorf("state = %v", client.State())
	}
}

func TestConnectRefused(t *testing.T) {
	// Grab a port that nothing is listening on.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()

	client := NewClient("127.0.0.1", port)
	err = client.Connect(2 * time.Second)
	if !errors.Is(err, ErrConnectionFailed) {
		t.Errorf("expected connection failed, got %v", err)
	}
	if client.State() != StateDisconnected {
		t.Errorf("state = %v", client.State())
	}
}

func TestConnectWhileConnected(t *testing.T) {
	done := make(chan struct{})
	client := connectedClient(t, func(t *testing.T, conn net.Conn) {
		hostNegotiate(t, conn)
		<-done
	})
	defer close(done)

	if err := client.Connect(time.Second); !errors.Is(err, ErrInvalidState) {
		t.Errorf("expected invalid state, got %v", err)
	}
	if client.State() != StateReady {
		t.Errorf("state = %v", client.State())
	}
}

func TestNegotiationRefused(t *testing.T) {
	host, port := startHost(t, func(t *testing.T, conn net.Conn) {
		conn.Write([]byte{iac, dont, binaryOption})
		// Give the client time to see the refusal.
		time.Sleep(200 * time.Millisecond)
	})

	client := NewClient(host, port)
	err := client.Connect(2 * time.Second)
	if !errors.Is(err, ErrProtocol) {
		t.Errorf("expected protocol error, got %v", err)
	}
	if client.State() != StateFailed {
		t.Errorf("state = %v", client.State())
	}
	if err := client.Disconnect(); err != nil {
		t.Errorf("disconnect after failure: %v", err)
	}
	if client.State() != StateDisconnected {
		t.Errorf("state = %v", client.State())
	}
}

func TestNegotiationTraced(t *testing.T) {
	done := make(chan struct{})
	host, port := startHost(t, func(t *testing.T, conn net.Conn) {
		hostNegotiate(t, conn)
		<-done
	})
	defer close(done)

	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.TraceLevel)
	client := NewClientOpts(host, port, ClientOpts{Logger: logger})
	if err := client.Connect(5 * time.Second); err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer client.Disconnect()

	out := buf.String()
	for _, want := range []string{
		"host negotiation command",
		"sending terminal type",
		"telnet options established",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q:\n%s", want, out)
		}
	}
}

func TestReadResponseTimeout(t *testing.T) {
	done := make(chan struct{})
	client := connectedClient(t, func(t *testing.T, conn net.Conn) {
		hostNegotiate(t, conn)
		<-done // send nothing
	})
	defer close(done)

	_, err := client.ReadResponse(50 * time.Millisecond)
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected timeout, got %v", err)
	}

	// A timeout is recoverable: the connection stays Ready and the read
	// may be retried.
	if client.State() != StateReady {
		t.Errorf("state after timeout = %v", client.State())
	}
	if _, err := client.ReadResponse(50 * time.Millisecond); !errors.Is(err, ErrTimeout) {
		t.Errorf("retry after timeout: %v", err)
	}
}

func TestReadResponseReassemblesChunks(t *testing.T) {
	record := make([]byte, 30)
	for i := range record {
		record[i] = byte(0x40 + i)
	}

	client := connectedClient(t, func(t *testing.T, conn net.Conn) {
		hostNegotiate(t, conn)
		// Deliver the record in three 10-byte chunks with the EOR
		// marker trailing the last.
		for i := 0; i < 3; i++ {
			if _, err := conn.Write(record[i*10 : (i+1)*10]); err != nil {
				t.Error(err)
				return
			}
			time.Sleep(20 * time.Millisecond)
		}
		conn.Write([]byte{iac, eor})
	})

	got, err := client.ReadResponse(5 * time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, record) {
		t.Errorf("got % 02x, want % 02x", got, record)
	}
	if client.State() != StateReady {
		t.Errorf("state = %v", client.State())
	}
}

func TestReadResponseUnescapesIAC(t *testing.T) {
	client := connectedClient(t, func(t *testing.T, conn net.Conn) {
		hostNegotiate(t, conn)
		conn.Write([]byte{0x01, iac, iac, 0x02, iac, eor})
	})

	got, err := client.ReadResponse(5 * time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, []byte{0x01, 0xff, 0x02}) {
		t.Errorf("got % 02x", got)
	}
}

func TestSendCommandFraming(t *testing.T) {
	received := make(chan []byte, 1)
	client := connectedClient(t, func(t *testing.T, conn net.Conn) {
		hostNegotiate(t, conn)
		received <- hostReadRecord(t, conn)
	})

	payload := []byte{byte(AIDEnter), 0x40, 0xff, 0x40}
	if err := client.SendCommand(payload); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-received:
		if !bytes.Equal(got, payload) {
			t.Errorf("host received % 02x, want % 02x", got, payload)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("host never received the record")
	}
}

func TestHostCloseIsFatal(t *testing.T) {
	client := connectedClient(t, func(t *testing.T, conn net.Conn) {
		hostNegotiate(t, conn)
		// Close immediately: the next read must fail hard.
	})

	var err error
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if _, err = client.ReadResponse(time.Second); err != nil {
			break
		}
	}
	if !errors.Is(err, ErrConnectionFailed) {
		t.Fatalf("expected connection failed, got %v", err)
	}
	if client.State() != StateFailed {
		t.Errorf("state = %v", client.State())
	}

	// Operations in Failed are invalid until the caller disconnects.
	if err := client.SendCommand([]byte{0x00}); !errors.Is(err, ErrInvalidState) {
		t.Errorf("expected invalid state, got %v", err)
	}
}

func TestEndToEndScreen(t *testing.T) {
	// Host writes a formatted screen after receiving Enter.
	client := connectedClient(t, func(t *testing.T, conn net.Conn) {
		hostNegotiate(t, conn)
		if got := hostReadRecord(t, conn); len(got) == 0 || got[0] != byte(AIDEnter) {
			t.Errorf("expected Enter AID, got % 02x", got)
			return
		}

		hello, err := Encode(Codepage1047(), "HELLO")
		if err != nil {
			t.Error(err)
			return
		}
		record := []byte{cmdEraseWrite, 0xc3, orderSBA, 0x40, 0x40,
			orderSF, Attr{Protected: true}.wireByte()}
		record = append(record, hello...)
		record = append(record, iac, eor)
		conn.Write(record)
	})

	if err := client.SendAID(AIDEnter, Address{}, nil); err != nil {
		t.Fatal(err)
	}

	screen := NewScreen()
	fields := NewFieldManager()
	if err := client.ReadScreen(5*time.Second, screen, fields); err != nil {
		t.Fatal(err)
	}

	got, err := screen.Read(0, 1, 5)
	if err != nil {
		t.Fatal(err)
	}
	if got != "HELLO" {
		t.Errorf("screen text %q", got)
	}
	if fields.Count() != 1 {
		t.Errorf("field count = %d", fields.Count())
	}
}
