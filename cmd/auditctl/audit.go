package main

import (
	"fmt"

	"github.com/spf13/cobra"

	auditHandler "degreeaudit/internal/audit/handler"
	"degreeaudit/internal/audit/ports"
	"degreeaudit/internal/gened"
	genedHandler "degreeaudit/internal/gened/handler"
	"degreeaudit/internal/ranking"
	rankingHandler "degreeaudit/internal/ranking/handler"
)

func newAuditCmd(g *globalFlags) *cobra.Command {
	var programID, record string
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Audit a record against one program",
		RunE: func(cmd *cobra.Command, _ []string) error {
			items, err := readRecord(record)
			if err != nil {
				return err
			}
			a, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			eval, err := a.Audits.Evaluate(cmd.Context(), programID, items)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), auditHandler.FromEvaluation(eval))
		},
	}
	cmd.Flags().StringVar(&programID, "program", "", "program id")
	cmd.Flags().StringVar(&record, "record", "", "record JSON file, - for stdin")
	_ = cmd.MarkFlagRequired("program")
	return cmd
}

func newRankCmd(g *globalFlags) *cobra.Command {
	var (
		kind, primary, record string
		topN                  int
		minCompletion, maxGap float64
	)
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank minors or certificates by how close the record is to completing them",
		RunE: func(cmd *cobra.Command, _ []string) error {
			k, ok := ports.ParseProgramKind(kind)
			if !ok || k == ports.ProgramKindGenEd {
				return fmt.Errorf("unknown kind %q", kind)
			}
			items, err := readRecord(record)
			if err != nil {
				return err
			}
			a, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			req := ranking.Request{Items: items, PrimaryProgram: primary, Kind: k, TopN: topN}
			if cmd.Flags().Changed("min-completion") {
				req.MinCompletion = &minCompletion
			}
			if cmd.Flags().Changed("max-gap") {
				req.MaxGap = &maxGap
			}
			recs, err := a.Ranking.Rank(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), rankingHandler.FromRecommendations(string(k), recs))
		},
	}
	cmd.Flags().StringVar(&kind, "kind", string(ports.ProgramKindMinor), "candidate kind: minor or certificate")
	cmd.Flags().StringVar(&primary, "primary", "", "primary program id")
	cmd.Flags().StringVar(&record, "record", "", "record JSON file, - for stdin")
	cmd.Flags().IntVar(&topN, "top", 0, "number of results (default $RANKING_TOP_N)")
	cmd.Flags().Float64Var(&minCompletion, "min-completion", 0, "drop candidates below this completion percent")
	cmd.Flags().Float64Var(&maxGap, "max-gap", 0, "drop candidates with more credits remaining")
	return cmd
}

func newGenEdCmd(g *globalFlags) *cobra.Command {
	var (
		primary, record string
		attributes      []string
		topN            int
	)
	cmd := &cobra.Command{
		Use:   "gened",
		Short: "Suggest courses for missing general education attributes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			items, err := readRecord(record)
			if err != nil {
				return err
			}
			completed := make([]string, 0, len(items))
			for _, it := range items {
				completed = append(completed, it.ID)
			}
			a, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			out, err := a.GenEd.Suggest(cmd.Context(), gened.Request{
				PrimaryProgram:    primary,
				MissingAttributes: attributes,
				Completed:         completed,
				TopN:              topN,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), genedHandler.FromSuggestions(out))
		},
	}
	cmd.Flags().StringVar(&primary, "primary", "", "primary program id")
	cmd.Flags().StringVar(&record, "record", "", "record JSON file, - for stdin")
	cmd.Flags().StringSliceVar(&attributes, "attributes", nil, "missing attributes, e.g. GA,GH")
	cmd.Flags().IntVar(&topN, "top", 0, "suggestions per attribute (default $GENED_TOP_N)")
	_ = cmd.MarkFlagRequired("attributes")
	return cmd
}
