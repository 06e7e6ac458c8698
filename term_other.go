// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/xtm

//go:build !unix

package xtm

// terminalWidth returns fallbackWidth on platforms without winsize ioctls.
func terminalWidth() int {
	return fallbackWidth
}
