package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"report-assembler/cmd/reportctl/internal/config"
	"report-assembler/cmd/reportctl/internal/output"
	"report-assembler/di"
	"report-assembler/domain"
	"report-assembler/usecase/report_view_usecase"
	apperrors "report-assembler/utils/errors"
	"report-assembler/utils/validator"

	"github.com/spf13/cobra"
)

// newReportLoader builds the assembly pipeline. Replaced in tests.
var newReportLoader = func(c *config.Config, log *slog.Logger) (report_view_usecase.ReportLoader, func() error, error) {
	svc, err := c.ServiceConfig()
	if err != nil {
		return nil, nil, err
	}
	container, err := di.NewApplicationComponents(svc, log)
	if err != nil {
		return nil, nil, err
	}
	return container.ReportAssembler, container.Close, nil
}

var assembleCmd = &cobra.Command{
	Use:   "assemble <report_id>",
	Short: "Load a report and print its assembled state",
	Args:  cobra.ExactArgs(1),
	RunE:  runAssemble,
}

func init() {
	rootCmd.AddCommand(assembleCmd)
	assembleCmd.Flags().Bool("json", false, "print the full report state as JSON")
}

func runAssemble(cmd *cobra.Command, args []string) error {
	reportID := args[0]
	if !validator.IsValidReportID(reportID) {
		return fmt.Errorf("invalid report id %q", reportID)
	}
	jsonOutput, _ := cmd.Flags().GetBool("json")

	loader, closeFn, err := newReportLoader(cfg, logger)
	if err != nil {
		return fmt.Errorf("building pipeline: %w", err)
	}
	defer func() { _ = closeFn() }()

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Report.Timeout)
	defer cancel()

	state, loadErr := loader.Execute(ctx, reportID)

	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(state); err != nil {
			return err
		}
		return loadErr
	}

	p := output.NewPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg.Output.Colors)
	if err := renderState(p, reportID, state); err != nil {
		return err
	}
	if loadErr != nil {
		if hint := retryHint(loadErr); hint != "" {
			p.Warning("%s", hint)
		}
		return fmt.Errorf("report %s: %s", reportID, state.ErrorText)
	}
	return nil
}

func retryHint(err error) string {
	switch {
	case apperrors.IsRateLimitError(err):
		return "the polis API is rate limiting requests, retry in a moment"
	case apperrors.IsTimeoutError(err):
		return "the polis API timed out, retry or raise report.timeout"
	case apperrors.IsBackendUnavailable(err):
		return "the polis API is unavailable, retry later"
	default:
		return ""
	}
}

func renderState(p *output.Printer, reportID string, state domain.ReportState) error {
	p.Header("Report " + reportID)
	p.Info("status: %s", p.StatusBadge(string(state.Status)))

	switch state.Status {
	case domain.StatusError:
		p.Error("%s", state.ErrorText)
		return nil
	case domain.StatusNothingToShow:
		p.Warning("the report has no comments or no group demographics yet")
		return nil
	case domain.StatusReady:
	default:
		return nil
	}

	vm := state.ReportViewModel
	for _, render := range []func(*output.Printer, *domain.ReportViewModel) error{
		renderSummary,
		renderGroups,
		renderUncertainty,
		renderRepresentative,
	} {
		if err := render(p, vm); err != nil {
			return err
		}
	}

	if len(vm.Validation.Missing) > 0 {
		p.Warning("math result is missing: %s", strings.Join(vm.Validation.Missing, ", "))
	}
	p.Success("report assembled")
	return nil
}

func renderSummary(p *output.Printer, vm *domain.ReportViewModel) error {
	p.Header("Summary")
	t := output.NewTable(p.Out(), "Metric", "Value")
	t.AddRow("Conversation", vm.ConversationID)
	if vm.Conversation.Topic != "" {
		t.AddRow("Topic", vm.Conversation.Topic)
	}
	t.AddRow("Participants grouped", fmt.Sprintf("%d of %d", vm.PtptCount, vm.PtptCountTotal))
	t.AddRow("Votes", strconv.Itoa(vm.ComputedStats.TotalVotes))
	t.AddRow("Comments", strconv.Itoa(vm.ComputedStats.TotalComments))
	t.AddRow("Commenters", strconv.Itoa(vm.ComputedStats.TotalCommenters))
	t.AddRow("Votes per voter", vm.ComputedStats.VotesPerVoterAvg.String())
	t.AddRow("Comments per commenter", vm.ComputedStats.CommentsPerCommenterAvg.String())
	if vm.Correlation != nil {
		t.AddRow("Correlated comments", fmt.Sprintf("%d (%d excluded)", len(vm.Correlation.Tids), len(vm.Correlation.Excluded)))
	}
	return t.Render()
}

func renderGroups(p *output.Printer, vm *domain.ReportViewModel) error {
	if len(vm.GroupNames) == 0 {
		return nil
	}
	p.Header("Groups")
	t := output.NewTable(p.Out(), "Group", "Label")
	for _, gid := range sortedKeys(vm.GroupNames) {
		t.AddRow(strconv.Itoa(gid), vm.GroupNames[gid])
	}
	return t.Render()
}

func renderUncertainty(p *output.Printer, vm *domain.ReportViewModel) error {
	p.Header("Areas of uncertainty")
	if len(vm.Uncertainty) == 0 {
		p.Info("none")
		return nil
	}

	byTid := make(map[int]domain.ReportComment, len(vm.Comments))
	for _, c := range vm.Comments {
		byTid[c.Tid] = c
	}

	t := output.NewTable(p.Out(), "Comment", "Passed", "Votes", "Score", "Text")
	for _, tid := range vm.Uncertainty {
		c := byTid[tid]
		t.AddRow(
			vm.IdentifierFormatter.Format(tid),
			strconv.Itoa(c.PassCount),
			strconv.Itoa(c.Count),
			domain.UncertaintyScore(c.Comment).String(),
			truncate(c.Txt, 60),
		)
	}
	return t.Render()
}

func renderRepresentative(p *output.Printer, vm *domain.ReportViewModel) error {
	gids := map[int]struct{}{}
	for gid := range vm.RepfulTids.Agree {
		gids[gid] = struct{}{}
	}
	for gid := range vm.RepfulTids.Disagree {
		gids[gid] = struct{}{}
	}
	if len(gids) == 0 {
		return nil
	}

	p.Header("Representative comments")
	t := output.NewTable(p.Out(), "Group", "Agree", "Disagree")
	for _, gid := range sortedKeys(gids) {
		name := strconv.Itoa(gid)
		if label, ok := vm.GroupNames[gid]; ok {
			name += " " + label
		}
		t.AddRow(name,
			formatTids(vm.IdentifierFormatter, vm.RepfulTids.Agree[gid]),
			formatTids(vm.IdentifierFormatter, vm.RepfulTids.Disagree[gid]))
	}
	return t.Render()
}

func formatTids(f domain.IdentifierFormatter, tids []int) string {
	if len(tids) == 0 {
		return "-"
	}
	out := make([]string, len(tids))
	for i, tid := range tids {
		out[i] = f.Format(tid)
	}
	return strings.Join(out, " ")
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
