// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/xtm

package xtm

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Progress receives fraction-done updates during a join.
// Update is called after every written block with the cumulative
// fraction of the declared payload size, in the range [0, 1].
type Progress interface {
	Update(fraction float64)
}

// ProgressFunc adapts a plain function to the Progress interface.
type ProgressFunc func(fraction float64)

// Update calls the wrapped function.
func (f ProgressFunc) Update(fraction float64) {
	f(fraction)
}

// Bar layout and redraw limits.
const (
	// fallbackWidth is used when terminal width detection fails.
	fallbackWidth = 80
	// minBarWidth keeps the fill area readable on narrow terminals.
	minBarWidth = 10
	// defaultBarThrottle is the minimum delay between in-place redraws.
	defaultBarThrottle = 100 * time.Millisecond
)

// BarOptions configures Bar rendering.
type BarOptions struct {
	// Out receives in-place redraws. Default is os.Stderr.
	Out io.Writer `json:"-" yaml:"-"`
	// Total is the expected byte total rendered next to the percentage.
	// Zero hides the byte counters and leaves only the fill and percentage.
	Total uint64 `json:"total,omitempty" yaml:"total,omitempty"`
	// Width is the full rendered line width in columns. Default is the
	// detected terminal width, or 80 when detection fails.
	Width int `json:"width,omitempty" yaml:"width,omitempty"`
	// Throttle is the minimum delay between redraws. Updates arriving
	// faster are absorbed silently; the final update always draws.
	Throttle time.Duration `json:"throttle,omitempty" yaml:"throttle,omitempty"`
}

// applyDefaults fills zero-valued bar options with defaults.
func (opts *BarOptions) applyDefaults() {
	if opts.Out == nil {
		opts.Out = os.Stderr
	}

	if opts.Width <= 0 {
		opts.Width = terminalWidth()
	}

	if opts.Throttle <= 0 {
		opts.Throttle = defaultBarThrottle
	}
}

// Bar is a terminal progress bar implementing the Progress interface.
// It redraws a single fixed-width line in place on every update and is
// meant for a single reporting goroutine, matching how Join reports.
type Bar struct {
	opts     BarOptions
	fraction float64
	last     time.Time
}

// NewBar returns a progress bar ready for use as a Join progress sink.
func NewBar(opts BarOptions) *Bar {
	opts.applyDefaults()

	return &Bar{opts: opts}
}

// Update records the new fraction and redraws the bar in place.
// Redraws are throttled; a fraction at or above 1 always draws.
func (b *Bar) Update(fraction float64) {
	b.fraction = fraction
	if fraction < 1 && time.Since(b.last) < b.opts.Throttle {
		return
	}

	b.last = time.Now()
	b.draw()
}

// Finish forces a final full-width 100% line followed by a newline.
func (b *Bar) Finish() {
	b.fraction = 1
	b.draw()
	fmt.Fprintln(b.opts.Out)
}

// Render returns the current bar line without writing it anywhere.
func (b *Bar) Render() string {
	f := clampFraction(b.fraction)

	suffix := fmt.Sprintf(" %5.1f%%", f*100)
	if b.opts.Total > 0 {
		done := uint64(f * float64(b.opts.Total))
		suffix += fmt.Sprintf(" %s/%s",
			humanize.Bytes(done), humanize.Bytes(b.opts.Total))
	}

	fill := b.opts.Width - len(suffix) - 2
	if fill < minBarWidth {
		fill = minBarWidth
	}
	filled := int(f * float64(fill))

	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", fill-filled) + "]" + suffix
}

// draw writes the current line over the previous one.
func (b *Bar) draw() {
	fmt.Fprintf(b.opts.Out, "\r%s", b.Render())
}

// clampFraction bounds a reported fraction to [0, 1].
func clampFraction(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}

	return f
}
