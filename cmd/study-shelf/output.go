// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"github.com/pdiddy/study-shelf/internal/detect"
	"github.com/pdiddy/study-shelf/pkg/types"
)

const (
	shortIDLen    = 8
	maxTitleWidth = 50
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := range headers {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// isTerminal reports whether f is attached to an interactive terminal.
func isTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func shortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}

// formatDetections renders ranked candidates for input.
func formatDetections(w io.Writer, input string, results []types.DetectionResult, selected int) {
	fmt.Fprintf(w, "Input: %s (%s)\n", input, detect.CategorizeInput(input))
	if len(results) == 0 {
		fmt.Fprintln(w, "No resource type detected.")
		return
	}

	rows := make([][]string, 0, len(results))
	for i, r := range results {
		marker := strconv.Itoa(i + 1)
		if i == selected {
			marker = "*" + marker
		}
		rows = append(rows, []string{
			marker,
			r.DisplayName,
			r.PluginID,
			string(r.Confidence),
			strconv.Itoa(r.Confidence.Score()),
			string(r.InputType),
			truncate(r.ExtractedID(), maxTitleWidth),
			r.MatchedPattern(),
		})
	}
	fmt.Fprintln(w, renderTable(
		[]string{"#", "Type", "Plugin", "Confidence", "Score", "Input", "Extracted", "Pattern"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight},
	))
}

// formatResources renders saved resources as a table.
func formatResources(w io.Writer, resources []types.Resource) {
	if len(resources) == 0 {
		fmt.Fprintln(w, "No resources found.")
		return
	}
	rows := make([][]string, 0, len(resources))
	for _, r := range resources {
		rows = append(rows, []string{
			shortID(r.ID),
			r.Type,
			truncate(r.Title, maxTitleWidth),
			string(r.Status),
			strconv.Itoa(r.Progress) + "%",
			strings.Join(r.Tags, ", "),
		})
	}
	fmt.Fprintln(w, renderTable(
		[]string{"ID", "Type", "Title", "Status", "Progress", "Tags"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
	))
	fmt.Fprintf(w, "%d resources\n", len(resources))
}

// formatResource renders one resource in detail.
func formatResource(w io.Writer, r *types.Resource) {
	field := func(name, value string) {
		if value != "" {
			fmt.Fprintf(w, "%-12s %s\n", name+":", value)
		}
	}
	field("ID", r.ID)
	field("Type", r.Type)
	field("Title", r.Title)
	field("Authors", strings.Join(r.Authors, ", "))
	field("Published", r.Published)
	field("Publisher", r.Publisher)
	field("Identifier", r.Identifier)
	field("URL", r.URL)
	field("Tags", strings.Join(r.Tags, ", "))
	field("Status", fmt.Sprintf("%s (%d%%)", r.Status, r.Progress))
	field("Notes", r.Notes)
}
