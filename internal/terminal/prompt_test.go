package terminal

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"nn-go/internal/nn"
	"nn-go/internal/testutil"
)

func TestPrompter_PromptPassword(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{name: "line", input: "hunter2\n", want: "hunter2"},
		{name: "crlf", input: "hunter2\r\n", want: "hunter2"},
		{name: "no trailing newline", input: "hunter2", want: "hunter2"},
		{name: "spaces kept", input: " pass word \n", want: " pass word "},
		{name: "empty line cancels", input: "\n", wantErr: nn.ErrPromptCancelled},
		{name: "eof cancels", input: "", wantErr: nn.ErrPromptCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			p := NewPrompter(strings.NewReader(tt.input), &out)

			got, err := p.PromptPassword(context.Background(), nn.PromptBackupPassword)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("PromptPassword() error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("PromptPassword() = %q, want %q", got, tt.want)
			}
			if !strings.Contains(out.String(), nn.PromptBackupPassword.Title) {
				t.Errorf("prompt output %q does not show the title", out.String())
			}
		})
	}
}

func TestPrompter_SuccessiveLines(t *testing.T) {
	p := NewPrompter(strings.NewReader("first\nsecond\n"), &bytes.Buffer{})
	ctx := context.Background()

	for _, want := range []string{"first", "second"} {
		got, err := p.PromptPassword(ctx, nn.PromptBackupPassword)
		if err != nil {
			t.Fatalf("PromptPassword() error = %v", err)
		}
		if got != want {
			t.Errorf("PromptPassword() = %q, want %q", got, want)
		}
	}
}

func TestPrompter_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewPrompter(strings.NewReader("hunter2\n"), &bytes.Buffer{})
	if _, err := p.PromptPassword(ctx, nn.PromptBackupPassword); !errors.Is(err, context.Canceled) {
		t.Errorf("PromptPassword() error = %v, want context.Canceled", err)
	}
}

func TestPrompter_InterruptedWhileWaiting(t *testing.T) {
	pr, pw := io.Pipe()
	t.Cleanup(func() { pw.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	p := NewPrompter(pr, &bytes.Buffer{})
	done := make(chan error, 1)
	go func() {
		_, err := p.PromptPassword(ctx, nn.PromptBackupPassword)
		done <- err
	}()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("PromptPassword() error = %v, want context.Canceled", err)
		}
		if !errors.Is(err, nn.ErrPromptCancelled) {
			t.Errorf("PromptPassword() error = %v, want ErrPromptCancelled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("PromptPassword() did not return after the context was cancelled")
	}
}

func TestPreset(t *testing.T) {
	ctx := context.Background()
	next := testutil.NewScriptedPrompter("typed")
	p := NewPreset(map[string]string{
		nn.PromptBackupPassword.ID: "from-flag",
		nn.PromptKeyPassphrase.ID:  "",
	}, next)

	got, err := p.PromptPassword(ctx, nn.PromptBackupPassword)
	if err != nil || got != "from-flag" {
		t.Fatalf("first prompt = %q, %v; want preset answer", got, err)
	}

	got, err = p.PromptPassword(ctx, nn.PromptBackupPassword)
	if err != nil || got != "typed" {
		t.Fatalf("second prompt = %q, %v; want answer from next", got, err)
	}

	if _, err := p.PromptPassword(ctx, nn.PromptKeyPassphrase); !errors.Is(err, nn.ErrPromptCancelled) {
		t.Errorf("empty preset should fall through to next, got %v", err)
	}
	if n := next.PromptCount(); n != 2 {
		t.Errorf("next asked %d times, want 2", n)
	}
}

func TestPreset_NoNext(t *testing.T) {
	p := NewPreset(map[string]string{"a": "x"}, nil)
	ctx := context.Background()

	if got, _ := p.PromptPassword(ctx, nn.Prompt{ID: "a"}); got != "x" {
		t.Errorf("PromptPassword() = %q, want %q", got, "x")
	}
	if _, err := p.PromptPassword(ctx, nn.Prompt{ID: "a"}); !errors.Is(err, nn.ErrPromptCancelled) {
		t.Errorf("used answer should cancel, got %v", err)
	}
}
