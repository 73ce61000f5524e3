package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/ewill123/nec-callcenter/internal/model"
	"github.com/ewill123/nec-callcenter/internal/validator"
	"github.com/spf13/cobra"
)

var (
	auditWorkers int
	auditOutput  string
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Re-validate stored reports and list invariant violations",
	RunE: func(cmd *cobra.Command, args []string) error {
		reports, err := svc.List(cmd.Context(), nil)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Auditing %d reports with %d workers...\n", len(reports), auditWorkers)

		start := time.Now()
		issues := audit(reports, auditWorkers)
		printAudit(out, len(reports), issues, time.Since(start))

		if auditOutput == "" {
			return nil
		}
		return writeAuditJSON(auditOutput, len(reports), issues)
	},
}

func init() {
	auditCmd.Flags().IntVarP(&auditWorkers, "workers", "w", 10, "Number of parallel workers")
	auditCmd.Flags().StringVarP(&auditOutput, "output", "o", "", "Write results as JSON to this file")
}

// Issue types
const (
	IssueField   = "FIELD"
	IssueWitness = "WITNESS_ROLE_MISSING"
	IssueStatus  = "STATUS_MISMATCH"
)

type Issue struct {
	ID      string `json:"id"`
	Date    string `json:"date"`
	Type    string `json:"type"`
	Details string `json:"details"`
}

func audit(reports []model.IncidentReport, workers int) []Issue {
	if workers < 1 {
		workers = 1
	}

	reportChan := make(chan model.IncidentReport, workers*10)
	issueChan := make(chan Issue, 100)

	var wg sync.WaitGroup
	v := validator.New()

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for r := range reportChan {
				for _, issue := range auditReport(v, r) {
					issueChan <- issue
				}
			}
		}()
	}

	var issues []Issue
	done := make(chan struct{})
	go func() {
		for issue := range issueChan {
			issues = append(issues, issue)
		}
		close(done)
	}()

	for _, r := range reports {
		reportChan <- r
	}
	close(reportChan)
	wg.Wait()
	close(issueChan)
	<-done

	sort.Slice(issues, func(i, j int) bool {
		if issues[i].ID != issues[j].ID {
			return issues[i].ID < issues[j].ID
		}
		return issues[i].Details < issues[j].Details
	})
	return issues
}

// auditReport runs a stored report back through the submission validator
// and checks the status/resolution pairing.
func auditReport(v *validator.Validator, r model.IncidentReport) []Issue {
	var issues []Issue

	raw := map[string]any{
		"date":                 r.Date,
		"time_of_incident":     r.TimeOfIncident,
		"time_of_report":       r.TimeOfReport,
		"caller_name":          r.CallerName,
		"caller_mobile":        r.CallerMobile,
		"sex":                  string(r.Sex),
		"precinct_name":        r.PrecinctName,
		"precinct_code":        r.PrecinctCode,
		"polling_place_number": r.PollingPlaceNumber,
		"location":             r.Location,
		"witness_choice":       string(r.WitnessChoice),
		"witness_role":         r.WitnessRole,
		"incident_choice":      string(r.IncidentChoice),
		"incident_other":       r.IncidentOther,
	}
	if _, err := v.Validate(raw); err != nil {
		var verrs validator.Errors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				typ := IssueField
				if fe.Field == "witness_role" && fe.Message == validator.WitnessRoleMessage {
					typ = IssueWitness
				}
				issues = append(issues, Issue{ID: r.ID, Date: r.Date, Type: typ, Details: fe.Field + ": " + fe.Message})
			}
		}
	}

	if want := model.StatusFor(r.Resolution); r.Status != want {
		issues = append(issues, Issue{
			ID:      r.ID,
			Date:    r.Date,
			Type:    IssueStatus,
			Details: fmt.Sprintf("status %q but resolution implies %q", r.Status, want),
		})
	}
	return issues
}

func printAudit(out io.Writer, total int, issues []Issue, elapsed time.Duration) {
	fmt.Fprintf(out, "\n=== Audit Complete ===\n")
	fmt.Fprintf(out, "Total reports: %d\n", total)
	fmt.Fprintf(out, "Issues found: %d\n", len(issues))
	fmt.Fprintf(out, "Time elapsed: %v\n", elapsed)

	if len(issues) == 0 {
		return
	}

	byType := make(map[string]int)
	for _, issue := range issues {
		byType[issue.Type]++
	}
	types := make([]string, 0, len(byType))
	for typ := range byType {
		types = append(types, typ)
	}
	sort.Strings(types)

	fmt.Fprintf(out, "\n=== Issues by Type ===\n")
	for _, typ := range types {
		fmt.Fprintf(out, "%s: %d\n", typ, byType[typ])
	}
	fmt.Fprintf(out, "\n=== Issues ===\n")
	for _, issue := range issues {
		fmt.Fprintf(out, "%s (%s) %s: %s\n", issue.ID, issue.Date, issue.Type, issue.Details)
	}
}

func writeAuditJSON(path string, total int, issues []Issue) error {
	output := map[string]any{
		"summary": map[string]any{
			"total":  total,
			"issues": len(issues),
		},
		"issues": issues,
	}
	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
