package terminal

import (
	"context"
	"fmt"
	"io"
	"time"

	"nn-go/internal/nn"
)

// Progress prints a task's title before it runs and how long it took after.
type Progress struct {
	out io.Writer
	now func() time.Time
}

var _ nn.Progress = (*Progress)(nil)

func NewProgress(out io.Writer) *Progress {
	return &Progress{out: out, now: time.Now}
}

// Run runs fn. A task that is not cancellable gets a context that ignores
// cancellation of ctx.
func (p *Progress) Run(ctx context.Context, task nn.Task, fn func(ctx context.Context) error) error {
	fmt.Fprintf(p.out, "%s\n  %s\n", task.Title, task.Subtitle) //nolint:errcheck
	if !task.Cancellable {
		ctx = context.WithoutCancel(ctx)
	}

	start := p.now()
	err := fn(ctx)
	elapsed := p.now().Sub(start).Truncate(time.Millisecond)

	if err != nil {
		fmt.Fprintf(p.out, "  failed after %s\n", elapsed) //nolint:errcheck
		return err
	}
	fmt.Fprintf(p.out, "  done in %s\n", elapsed) //nolint:errcheck
	return nil
}
