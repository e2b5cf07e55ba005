package client

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Prompter asks the operator for one line of input
type Prompter interface {
	Prompt(ctx context.Context, label string) (string, error)
}

type lineResult struct {
	line string
	err  error
}

// LinePrompter reads newline-terminated answers from an input stream.
// Reads happen on a background goroutine so a blocked prompt still
// returns as soon as ctx is cancelled.
type LinePrompter struct {
	reader *bufio.Reader
	out    io.Writer
	lines  chan lineResult
	once   sync.Once
}

// NewLinePrompter creates a prompter reading from in and writing labels to out
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{
		reader: bufio.NewReader(in),
		out:    out,
		lines:  make(chan lineResult),
	}
}

// Prompt prints label and waits for the next line. It returns io.EOF once the
// input is exhausted and ctx.Err() when ctx is cancelled first.
func (p *LinePrompter) Prompt(ctx context.Context, label string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	fmt.Fprint(p.out, label)
	p.once.Do(func() { go p.readLoop() })

	select {
	case <-ctx.Done():
		fmt.Fprintln(p.out)
		return "", ctx.Err()
	case res, ok := <-p.lines:
		if !ok {
			return "", io.EOF
		}
		return res.line, res.err
	}
}

func (p *LinePrompter) readLoop() {
	defer close(p.lines)
	for {
		line, err := p.reader.ReadString('\n')
		if line != "" {
			p.lines <- lineResult{line: strings.TrimRight(line, "\r\n")}
		}
		if err != nil {
			if err != io.EOF {
				p.lines <- lineResult{err: err}
			}
			return
		}
	}
}
