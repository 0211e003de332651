package pipeline

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/youruser/bithunter/internal/apperr"
	"github.com/youruser/bithunter/internal/trophies"
)

type Status string

const (
	StatusExported Status = "exported"
	StatusStored   Status = "stored"
	StatusSkipped  Status = "skipped"
	StatusFailed   Status = "failed"
)

// Row is the outcome for one trophy or local file.
type Row struct {
	Name     string
	Type     string
	Status   Status
	Files    []string
	Original string
	Detail   string
	Err      error
}

func (r Row) fail(err error) Row {
	r.Status = StatusFailed
	r.Err = err
	if kind := apperr.KindOf(err); kind != "" {
		r.Detail = string(kind)
	} else {
		r.Detail = err.Error()
	}
	return r
}

type Report struct {
	Title   string
	Game    *trophies.Game
	CSVPath string
	Rows    []Row
}

func (r *Report) add(row Row) {
	r.Rows = append(r.Rows, row)
}

// Count returns how many rows ended with status s.
func (r *Report) Count(s Status) int {
	n := 0
	for _, row := range r.Rows {
		if row.Status == s {
			n++
		}
	}
	return n
}

// Render prints the report as a table.
func (r *Report) Render(w io.Writer) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(r.Title)
	t.AppendHeader(table.Row{"#", "Name", "Type", "Status", "Files", "Detail"})
	for i, row := range r.Rows {
		t.AppendRow(table.Row{i + 1, row.Name, row.Type, row.Status, len(row.Files), row.Detail})
	}
	t.AppendFooter(table.Row{"", "", "", "exported", r.Count(StatusExported),
		fmt.Sprintf("%d failed", r.Count(StatusFailed))})
	t.SetStyle(table.StyleRounded)
	t.Render()
}
