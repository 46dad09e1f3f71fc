// This file is part of https://github.com/emu3270/tn3270/
// Copyright 2026 by the tn3270 authors, licensed under the MIT license.
// See LICENSE in the project root for license information.

package tn3270

const (
	version         = "0.12.0"
	protocolVersion = "TN3270E"
)

// Version returns the engine version string.
func Version() string { return version }

// ProtocolVersion returns the protocol generation this engine speaks.
func ProtocolVersion() string { return protocolVersion }
