package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/core-tools/hsu-killtree/pkg/config"
	"github.com/core-tools/hsu-killtree/pkg/killtree"
	"github.com/core-tools/hsu-killtree/pkg/process"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

type renderer struct {
	out    io.Writer
	cfg    config.OutputConfig
	green  *color.Color
	yellow *color.Color
	red    *color.Color
}

func newRenderer(out io.Writer, cfg config.OutputConfig) *renderer {
	r := &renderer{
		out:    out,
		cfg:    cfg,
		green:  color.New(color.FgGreen),
		yellow: color.New(color.FgYellow),
		red:    color.New(color.FgRed),
	}
	enabled := cfg.Color != nil && *cfg.Color
	for _, c := range []*color.Color{r.green, r.yellow, r.red} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return r
}

func (r *renderer) renderOutputs(outputs killtree.Outputs) error {
	if r.cfg.Quiet {
		return nil
	}
	switch r.cfg.Format {
	case config.OutputFormatJSON:
		return r.renderJSON(outputs)
	case config.OutputFormatPlain:
		return r.renderPlain(outputs)
	default:
		return r.renderTable(outputs)
	}
}

func (r *renderer) resultColor(o killtree.Output) *color.Color {
	if o.Result == process.MaybeAlreadyTerminated {
		return r.yellow
	}
	return r.green
}

func (r *renderer) renderJSON(outputs killtree.Outputs) error {
	if outputs == nil {
		outputs = killtree.Outputs{}
	}
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(outputs); err != nil {
		return fmt.Errorf("failed to encode outputs: %w", err)
	}
	return nil
}

func (r *renderer) renderPlain(outputs killtree.Outputs) error {
	for _, o := range outputs {
		if _, err := r.resultColor(o).Fprintln(r.out, o.String()); err != nil {
			return err
		}
	}
	return nil
}

func (r *renderer) renderTable(outputs killtree.Outputs) error {
	if len(outputs) == 0 {
		fmt.Fprintln(r.out, "No processes were killed.")
		return nil
	}

	table := tablewriter.NewWriter(r.out)
	table.Options(
		tablewriter.WithHeader([]string{"Result", "PID", "PPID", "Name", "Source"}),
		tablewriter.WithAlignment(tw.MakeAlign(5, tw.AlignLeft)),
	)

	for _, o := range outputs {
		row := []string{r.resultColor(o).Sprint(o.Result.String()), strconv.FormatUint(uint64(o.ProcessID), 10), "", "", ""}
		if o.Result == process.Killed {
			row[2] = strconv.FormatUint(uint64(o.ParentProcessID), 10)
			row[3] = o.Name
		}
		if o.Source != nil {
			row[4] = o.Source.Error()
		}
		if err := table.Append(row); err != nil {
			return fmt.Errorf("failed to append row: %w", err)
		}
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	return nil
}

func (r *renderer) renderSurvivors(w io.Writer, survivors []process.ProcessID) {
	r.red.Fprintf(w, "Processes still running after wait: %v\n", survivors)
}
