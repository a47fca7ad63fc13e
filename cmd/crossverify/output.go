package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pqinterop/crossverify"
)

// printReports renders reports as text lines or as one JSON document.
func printReports(w io.Writer, format string, reports []*crossverify.Report) error {
	if format == OutputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if reports == nil {
			reports = []*crossverify.Report{}
		}
		return enc.Encode(struct {
			Passed  bool                  `json:"passed"`
			Reports []*crossverify.Report `json:"reports"`
		}{allPassed(reports), reports})
	}

	for i, r := range reports {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w, strings.Join(r.Lines(), "\n")); err != nil {
			return err
		}
	}
	return nil
}

func allPassed(reports []*crossverify.Report) bool {
	if len(reports) == 0 {
		return false
	}
	for _, r := range reports {
		if !r.Passed() {
			return false
		}
	}
	return true
}
