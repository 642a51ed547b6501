package terminal

import (
	"io"
	"sync"

	"github.com/fatih/color"

	"nn-go/internal/nn"
)

// Notifier prints toasts and alerts, colored by kind.
type Notifier struct {
	mu      sync.Mutex
	out     io.Writer
	success *color.Color
	failure *color.Color
	info    *color.Color
	alert   *color.Color
}

var _ nn.Notifier = (*Notifier)(nil)

// NewNotifier writes to out. Colors are disabled when plain is true.
func NewNotifier(out io.Writer, plain bool) *Notifier {
	n := &Notifier{
		out:     out,
		success: color.New(color.FgGreen),
		failure: color.New(color.FgRed),
		info:    color.New(color.FgCyan),
		alert:   color.New(color.FgRed, color.Bold),
	}
	if plain {
		for _, c := range []*color.Color{n.success, n.failure, n.info, n.alert} {
			c.DisableColor()
		}
	}
	return n
}

func (n *Notifier) Toast(kind nn.ToastKind, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	switch kind {
	case nn.ToastSuccess:
		n.success.Fprintln(n.out, message) //nolint:errcheck
	case nn.ToastError:
		n.failure.Fprintln(n.out, message) //nolint:errcheck
	default:
		n.info.Fprintln(n.out, message) //nolint:errcheck
	}
}

func (n *Notifier) Alert(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.alert.Fprintln(n.out, "!! "+message) //nolint:errcheck
}
