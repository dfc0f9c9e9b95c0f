// Command hemocalc evaluates a single patient snapshot from the command line
// and prints the recommended blood products.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/giygas/hemoterapia-api/presenter"
	"github.com/giygas/hemoterapia-api/transfusion"
	"github.com/giygas/hemoterapia-api/validation"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "hemocalc",
		Short:        "Transfusion decision support calculator",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(evaluateCmd())
	rootCmd.AddCommand(referencesCmd())

	return rootCmd
}

func evaluateCmd() *cobra.Command {
	var (
		snapshot transfusion.PatientSnapshot
		teaching bool
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Recommend blood products for a patient",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validation.NewSnapshotValidator().ValidateSnapshot(snapshot); err != nil {
				var verr *validation.ValidationError
				if errors.As(err, &verr) {
					for _, f := range verr.Fields {
						fmt.Fprintf(cmd.ErrOrStderr(), "--%s: %s\n", flagForField(f.Field), f.Message)
					}
				}
				return err
			}

			recs := transfusion.Evaluate(snapshot)
			return writeRecommendations(cmd.OutOrStdout(), recs, teaching, asJSON)
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&snapshot.Age, "age", 0, "Age in years")
	flags.Float64Var(&snapshot.Weight, "weight", 0, "Weight in kg")
	flags.Float64Var(&snapshot.Hemoglobin, "hb", 0, "Hemoglobin in g/dL")
	flags.IntVar(&snapshot.PlateletCount, "platelets", 0, "Platelet count per mm³")
	flags.Float64Var(&snapshot.INR, "inr", 0, "International normalized ratio")
	flags.BoolVar(&snapshot.ActiveBleeding, "bleeding", false, "Active bleeding")
	flags.BoolVar(&snapshot.HemodynamicInstability, "unstable", false, "Hemodynamic instability")
	flags.BoolVar(&snapshot.Immunosuppressed, "immunosuppressed", false, "Immunosuppressed patient")
	flags.BoolVar(&snapshot.SickleCellDisease, "sickle-cell", false, "Sickle cell disease")
	flags.BoolVar(&snapshot.Alloimmunized, "alloimmunized", false, "Alloimmunized patient")
	flags.BoolVar(&snapshot.RecurrentSevereAllergicReactions, "allergic", false, "Recurrent severe allergic reactions")
	flags.BoolVar(&snapshot.OnSystemicImmunosuppressants, "immunosuppressants", false, "On systemic immunosuppressants")
	flags.BoolVar(&teaching, "teaching", false, "Include teaching notes")
	flags.BoolVar(&asJSON, "json", false, "Print JSON instead of Markdown")

	for _, name := range []string{"age", "weight", "hb", "platelets", "inr"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func writeRecommendations(w io.Writer, recs []transfusion.Recommendation, teaching, asJSON bool) error {
	p := presenter.New()

	if !asJSON {
		_, err := io.WriteString(w, p.Markdown(recs, teaching))
		return err
	}

	out := map[string]any{
		"recommendations": p.View(recs, teaching),
	}
	if len(recs) == 0 {
		out["message"] = presenter.NoIndication
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// flagForField maps a snapshot JSON field to its CLI flag
func flagForField(field string) string {
	switch field {
	case "hemoglobin":
		return "hb"
	case "platelet_count":
		return "platelets"
	}
	return field
}

func referencesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "references",
		Short: "Print the references behind the decision rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := io.WriteString(cmd.OutOrStdout(), presenter.ReferencesMarkdown())
			return err
		},
	}
}
