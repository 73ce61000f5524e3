package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ewill123/nec-callcenter/internal/incident"
	"github.com/ewill123/nec-callcenter/internal/validator"
	"github.com/spf13/cobra"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Validate and submit reports from a JSON array",
	Long: `Reads a JSON array of report objects, validates each one exactly as the
submission endpoint does and stores the valid ones. Invalid entries are
listed with their field errors and skipped.

Example:
  calllog seed --file reports.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(seedFile)
		if err != nil {
			return err
		}
		defer f.Close()

		result, err := seed(cmd.Context(), svc, f, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Seeding complete. inserted=%d, rejected=%d, failed=%d\n",
			result.Inserted, result.Rejected, result.Failed)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "reports.json", "Path to a JSON array of reports")
}

type seedResult struct {
	Inserted int
	Rejected int
	Failed   int
}

func seed(ctx context.Context, svc *incident.Service, r io.Reader, out io.Writer) (seedResult, error) {
	var raws []map[string]any
	if err := json.NewDecoder(r).Decode(&raws); err != nil {
		return seedResult{}, fmt.Errorf("failed to parse reports: %w", err)
	}

	v := validator.New()
	var result seedResult
	for i, raw := range raws {
		report, err := v.Validate(raw)
		if err != nil {
			var verrs validator.Errors
			if !errors.As(err, &verrs) {
				return result, err
			}
			result.Rejected++
			fmt.Fprintf(out, "entry %d rejected: %s\n", i, verrs.Error())
			continue
		}

		if _, err := svc.Submit(ctx, report); err != nil {
			result.Failed++
			fmt.Fprintf(out, "entry %d failed: %v\n", i, err)
			continue
		}
		result.Inserted++
	}
	return result, nil
}
