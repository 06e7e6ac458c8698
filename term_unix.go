// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/xtm

//go:build unix

package xtm

import (
	"os"

	"golang.org/x/sys/unix"
)

// terminalWidth returns the stderr terminal width in columns, or
// fallbackWidth when stderr is not attached to a terminal.
func terminalWidth() int {
	ws, err := unix.IoctlGetWinsize(int(os.Stderr.Fd()), unix.TIOCGWINSZ)
	if err != nil || ws.Col == 0 {
		return fallbackWidth
	}

	return int(ws.Col)
}
