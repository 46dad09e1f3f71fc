// This file is part of https://github.com/emu3270/tn3270/
// Copyright 2026 by the tn3270 authors, licensed under the MIT license.
// See LICENSE in the project root for license information.

// Package tn3270 is a TN3270 terminal-emulation engine: it connects to
// a mainframe host over a telnet-framed TCP connection, maintains an
// addressable 24x80 screen buffer with field attributes, and translates
// between the host's EBCDIC encoding and ASCII.
//
// A session is a Client, a Screen, and a FieldManager driven by one
// goroutine:
//
//	client := tn3270.NewClient("mainframe.example.com", 23)
//	if err := client.Connect(10 * time.Second); err != nil {
//		// handle
//	}
//	defer client.Disconnect()
//
//	screen := tn3270.NewScreen()
//	fields := tn3270.NewFieldManager()
//	if err := client.ReadScreen(5*time.Second, screen, fields); err != nil {
//		// handle
//	}
//	fmt.Println(screen.String())
//
// Input goes back to the host as an attention key plus the modified
// field values:
//
//	client.SendAID(tn3270.AIDEnter, screen.Cursor(), []tn3270.ModifiedField{
//		{Offset: userField + 1, Value: "LOGON TSO01"},
//	})
//
// Every failure wraps one of the package's sentinel errors; CodeOf maps
// an error to the stable integer code set for embedders.
package tn3270
