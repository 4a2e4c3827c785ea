// Package console runs operations from the terminal, printing region changes
// as they happen.
package console

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/commitfit/internal/input"
	"github.com/commitfit/internal/operation"
	"github.com/commitfit/internal/region"
	"github.com/commitfit/internal/render"
	"github.com/commitfit/internal/transport"
	"github.com/commitfit/pkg/models"
)

const (
	OutputPretty = "pretty"
	OutputJSON   = "json"
)

// Options configures a terminal console.
type Options struct {
	Repo         models.RepoRef
	Definitions  []operation.Definition
	Sender       transport.Sender
	DiscardStale bool
	Output       string
	Out          io.Writer
}

// Console is the terminal composition of the operation controllers.
type Console struct {
	repo   models.RepoRef
	set    *operation.Set
	board  *region.Board
	output string

	mu  sync.Mutex
	out io.Writer
}

// New builds a console whose regions print to opts.Out in pretty mode.
func New(opts Options) (*Console, error) {
	switch opts.Output {
	case "":
		opts.Output = OutputPretty
	case OutputPretty, OutputJSON:
	default:
		return nil, fmt.Errorf("unsupported output format %q (want %s or %s)", opts.Output, OutputPretty, OutputJSON)
	}
	if opts.Out == nil {
		return nil, fmt.Errorf("output writer is required")
	}

	c := &Console{repo: opts.Repo, output: opts.Output, out: opts.Out}
	if opts.Output == OutputPretty {
		c.board = region.NewBoard(c.print)
	} else {
		c.board = region.NewBoard(nil)
	}

	set, err := operation.NewSet(opts.Definitions, input.Static(opts.Repo), opts.Sender,
		func(kind models.OperationKind) (operation.Region, operation.Region) {
			layout := region.DefaultLayout(kind)
			return c.board.Region(layout.Status), c.board.Region(layout.Result)
		}, opts.DiscardStale)
	if err != nil {
		return nil, err
	}
	c.set = set

	return c, nil
}

// print writes one region change, each line prefixed with the region id.
func (c *Console) print(id string, f render.Fragment) {
	if f.Empty() {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, line := range strings.Split(strings.TrimRight(render.Text(f), "\n"), "\n") {
		fmt.Fprintf(c.out, "[%s] %s\n", id, line)
	}
}

// Report is the final state of a run.
type Report struct {
	Repo       models.RepoRef    `json:"repo"`
	Operations []OperationReport `json:"operations"`
}

// OperationReport is the outcome of one operation.
type OperationReport struct {
	Operation models.OperationKind `json:"operation"`
	State     models.State         `json:"state"`
	RequestID string               `json:"request_id,omitempty"`
	Status    render.Fragment      `json:"status"`
	Result    render.Fragment      `json:"result"`
	Error     string               `json:"error,omitempty"`
}

// Failed counts operations that ended in the error state.
func (r Report) Failed() int {
	n := 0
	for _, op := range r.Operations {
		if op.State == models.StateError {
			n++
		}
	}
	return n
}

// Run executes kinds concurrently and waits for all of them. A failing
// operation never cancels the others.
func (c *Console) Run(ctx context.Context, kinds []models.OperationKind) (Report, error) {
	report := Report{Repo: c.repo, Operations: make([]OperationReport, len(kinds))}

	controllers := make([]*operation.Controller, len(kinds))
	for i, kind := range kinds {
		ctrl, ok := c.set.Get(kind)
		if !ok {
			return report, fmt.Errorf("unknown operation %q", kind)
		}
		controllers[i] = ctrl
	}

	var g errgroup.Group
	for i, ctrl := range controllers {
		g.Go(func() error {
			outcome := ctrl.Run(ctx)
			layout := region.DefaultLayout(ctrl.Kind())

			op := OperationReport{
				Operation: ctrl.Kind(),
				State:     outcome.State,
				RequestID: outcome.RequestID,
				Status:    c.board.Get(layout.Status),
				Result:    c.board.Get(layout.Result),
			}
			if outcome.Err != nil {
				op.Error = outcome.Err.Error()
			}
			report.Operations[i] = op
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report, err
	}

	if err := c.write(report); err != nil {
		return report, err
	}

	if failed := report.Failed(); failed > 0 {
		return report, fmt.Errorf("%d of %d operations failed", failed, len(kinds))
	}
	return report, nil
}

func (c *Console) write(report Report) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.output == OutputJSON {
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	fmt.Fprintln(c.out, strings.Repeat("=", 60))
	fmt.Fprintf(c.out, "Repository: %s\n", report.Repo.FullName())
	for _, op := range report.Operations {
		fmt.Fprintf(c.out, "  %-16s %s\n", op.Operation, op.State)
	}
	fmt.Fprintln(c.out, strings.Repeat("=", 60))
	return nil
}

// ParseKinds expands "all" and validates operation names.
func ParseKinds(names []string) ([]models.OperationKind, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("no operation given (want one of gather, fit-bass, fit-innovation, all)")
	}

	var kinds []models.OperationKind
	seen := make(map[models.OperationKind]bool)
	for _, name := range names {
		if name == "all" {
			for _, kind := range models.AllOperations() {
				if !seen[kind] {
					seen[kind] = true
					kinds = append(kinds, kind)
				}
			}
			continue
		}

		kind, ok := models.ParseOperationKind(name)
		if !ok {
			return nil, fmt.Errorf("unknown operation %q", name)
		}
		if !seen[kind] {
			seen[kind] = true
			kinds = append(kinds, kind)
		}
	}
	return kinds, nil
}
