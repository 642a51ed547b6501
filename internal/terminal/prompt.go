// Package terminal implements the nn host interfaces for a line-oriented
// terminal: password prompts, file selection, notifications, progress and
// saving backups to a directory.
package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"

	"nn-go/internal/nn"
)

// Prompter asks for passwords on the terminal. When in is a terminal the
// input is not echoed; otherwise one line is read from in.
type Prompter struct {
	in     *bufio.Reader
	out    io.Writer
	fd     int
	isTerm bool
}

var _ nn.PasswordPrompter = (*Prompter)(nil)

// NewPrompter reads from in and writes prompts to out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	p := &Prompter{in: bufio.NewReader(in), out: out}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p.fd = int(f.Fd())
		p.isTerm = true
	}
	return p
}

// PromptPassword shows prompt and waits for input. EOF and an empty line
// count as cancelling. When ctx is done first, the returned error matches
// both nn.ErrPromptCancelled and ctx.Err().
func (p *Prompter) PromptPassword(ctx context.Context, prompt nn.Prompt) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %w", nn.ErrPromptCancelled, err)
	}

	fmt.Fprintf(p.out, "%s\n%s\nPassword (empty to cancel): ", prompt.Title, prompt.Subtitle) //nolint:errcheck

	line, err := p.readLine(ctx)
	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		fmt.Fprintln(p.out) //nolint:errcheck
		return "", fmt.Errorf("%w: %w", nn.ErrPromptCancelled, err)
	}
	if errors.Is(err, io.EOF) {
		return "", nn.ErrPromptCancelled
	}
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}

	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", nn.ErrPromptCancelled
	}
	return line, nil
}

// readLine reads one password. On a terminal echo is turned off for the read
// and turned back on if ctx ends it early.
func (p *Prompter) readLine(ctx context.Context) (string, error) {
	if !p.isTerm {
		return readContext(ctx, func() (string, error) {
			line, err := p.in.ReadString('\n')
			if errors.Is(err, io.EOF) && line != "" {
				err = nil
			}
			return line, err
		})
	}

	state, err := term.GetState(p.fd)
	if err != nil {
		return "", fmt.Errorf("reading terminal state: %w", err)
	}
	line, err := readContext(ctx, func() (string, error) {
		b, err := term.ReadPassword(p.fd)
		return string(b), err
	})
	if ctx.Err() != nil {
		term.Restore(p.fd, state) //nolint:errcheck
	} else {
		fmt.Fprintln(p.out) //nolint:errcheck
	}
	return line, err
}

// Preset answers prompts from a fixed set of passwords keyed by prompt id,
// such as ones given as command line flags. Each answer is used once; after
// that, or for prompts without an answer, Next is asked.
type Preset struct {
	mu      sync.Mutex
	answers map[string]string
	next    nn.PasswordPrompter
}

var _ nn.PasswordPrompter = (*Preset)(nil)

// NewPreset returns a Preset. next may be nil, in which case prompts without
// an answer are cancelled.
func NewPreset(answers map[string]string, next nn.PasswordPrompter) *Preset {
	copied := make(map[string]string, len(answers))
	for id, a := range answers {
		if a != "" {
			copied[id] = a
		}
	}
	return &Preset{answers: copied, next: next}
}

func (p *Preset) PromptPassword(ctx context.Context, prompt nn.Prompt) (string, error) {
	p.mu.Lock()
	answer, ok := p.answers[prompt.ID]
	delete(p.answers, prompt.ID)
	p.mu.Unlock()

	if ok {
		return answer, nil
	}
	if p.next == nil {
		return "", nn.ErrPromptCancelled
	}
	return p.next.PromptPassword(ctx, prompt)
}
