package main

import (
	"fmt"
	"io"

	"compose2containerapps/internal/pipeline"

	"github.com/fatih/color"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	faintColor   = color.New(color.Faint)
)

func printSummary(w io.Writer, report pipeline.Report) {
	if len(report.Outcomes) == 0 {
		return
	}

	fmt.Fprintln(w)
	for _, o := range report.Outcomes {
		if !o.Succeeded() {
			fmt.Fprintf(w, "%s %s: %v\n", errorColor.Sprint("✗"), o.Name, o.Err)
			continue
		}
		fmt.Fprintf(w, "%s %s", successColor.Sprint("✓"), o.Name)
		if o.Path != "" {
			fmt.Fprintf(w, " → %s", o.Path)
		}
		if o.FQDN != "" {
			fmt.Fprintf(w, " %s", faintColor.Sprintf("(https://%s)", o.FQDN))
		}
		fmt.Fprintln(w)
	}

	if failed := len(report.Failed()); failed > 0 {
		fmt.Fprintf(w, "\n%d of %d services failed\n", failed, len(report.Outcomes))
	}
}
