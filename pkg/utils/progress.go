package utils

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// ProgressBar renders byte-transfer progress on a single terminal line
type ProgressBar struct {
	out         io.Writer
	total       int64 // <= 0 means unknown
	current     int64
	description string
	startTime   time.Time
	lastRender  time.Time
	interval    time.Duration
	width       int
	enabled     bool
}

// NewProgressBar creates a new progress bar writing to out
func NewProgressBar(out io.Writer, enabled bool) *ProgressBar {
	return &ProgressBar{
		out:      out,
		width:    30,
		interval: 200 * time.Millisecond,
		enabled:  enabled,
	}
}

// Start resets the bar for a new transfer
func (pb *ProgressBar) Start(description string, total int64) {
	pb.description = description
	pb.total = total
	pb.current = 0
	pb.startTime = time.Now()
	pb.lastRender = time.Time{}
}

// Update records the cumulative number of bytes transferred
func (pb *ProgressBar) Update(current int64) {
	pb.current = current
	if time.Since(pb.lastRender) < pb.interval {
		return
	}
	pb.lastRender = time.Now()
	pb.render()
}

// Finish completes the progress bar
func (pb *ProgressBar) Finish() {
	if !pb.enabled {
		return
	}
	pb.render()
	fmt.Fprintln(pb.out)
}

// Abort ends the line without claiming completion
func (pb *ProgressBar) Abort() {
	if !pb.enabled || pb.lastRender.IsZero() {
		return
	}
	fmt.Fprintln(pb.out)
}

func (pb *ProgressBar) render() {
	if !pb.enabled {
		return
	}

	elapsed := time.Since(pb.startTime)
	speed := 0.0
	if elapsed > 0 {
		speed = float64(pb.current) / elapsed.Seconds()
	}

	prefix := ""
	if pb.description != "" {
		prefix = pb.description + " "
	}

	if pb.total <= 0 {
		fmt.Fprintf(pb.out, "\r%s%s %s/s", prefix, FormatBytes(pb.current), FormatBytes(int64(speed)))
		return
	}

	current := pb.current
	if current > pb.total {
		current = pb.total
	}
	percentage := float64(current) / float64(pb.total) * 100
	filled := int(float64(pb.width) * float64(current) / float64(pb.total))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", pb.width-filled)

	eta := ""
	if speed > 0 && current < pb.total {
		remaining := time.Duration(float64(pb.total-current)/speed) * time.Second
		eta = fmt.Sprintf(" ETA: %v", remaining.Round(time.Second))
	}

	fmt.Fprintf(pb.out, "\r%s[%s] %.1f%% (%s/%s) %s/s%s",
		prefix, bar, percentage, FormatBytes(current), FormatBytes(pb.total), FormatBytes(int64(speed)), eta)
}

// FormatBytes renders a byte count with a binary unit suffix
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
