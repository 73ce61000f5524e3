package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ewill123/nec-callcenter/internal/incident"
	"github.com/ewill123/nec-callcenter/internal/model"
	"github.com/ewill123/nec-callcenter/internal/render"
	"github.com/ewill123/nec-callcenter/internal/view"
	"github.com/spf13/cobra"
)

var (
	exportFormat string
	exportDate   string
	exportType   string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write reports to stdout as csv, json, md or text",
	Example: `  calllog export --format csv --date 2024-10-10 > day.csv
  calllog export --format md --type hate_speech`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return export(cmd.Context(), svc, exportOptions{
			Format: exportFormat,
			Date:   exportDate,
			Type:   exportType,
		}, cmd.OutOrStdout())
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Output format: csv, json, md or text")
	exportCmd.Flags().StringVar(&exportDate, "date", "", "Only reports of this date (YYYY-MM-DD)")
	exportCmd.Flags().StringVar(&exportType, "type", "", "Only reports of this incident category")
}

type exportOptions struct {
	Format string
	Date   string
	Type   string
}

func export(ctx context.Context, svc *incident.Service, opts exportOptions, out io.Writer) error {
	var flag *model.IncidentChoice
	if opts.Type != "" {
		choice, ok := model.ParseIncidentChoice(opts.Type)
		if !ok {
			return fmt.Errorf("unknown incident type %q", opts.Type)
		}
		flag = &choice
	}

	reports, err := svc.List(ctx, flag)
	if err != nil {
		return err
	}
	if opts.Date != "" {
		reports = view.Expand(reports, opts.Date).Reports
	}

	switch strings.ToLower(opts.Format) {
	case "csv":
		return render.WriteCSV(out, reports)
	case "md", "markdown":
		return render.WriteMarkdown(out, reports)
	case "text", "txt":
		return render.WriteText(out, reports)
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	default:
		return fmt.Errorf("invalid format %q: use csv, json, md or text", opts.Format)
	}
}
