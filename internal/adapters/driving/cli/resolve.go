package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/fresq/internal/core/domain"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <code>...",
	Short: "Resolve establishment codes against the directory",
	Long: `Resolves establishment codes (UAI) to their canonical Paysage structure,
using and extending the persisted resolution table.

A code carried by several active structures is reported as ambiguous with
its candidates, and the command exits with an error.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	if institutionLookup == nil {
		return fmt.Errorf("lookup: %w", errNotConfigured)
	}

	var errs []error
	for _, code := range args {
		res, err := institutionLookup.Resolve(cmd.Context(), code)
		if err != nil && !errors.Is(err, domain.ErrResolutionAmbiguous) {
			return fmt.Errorf("resolve %s: %w", code, err)
		}
		printResolution(cmd, code, res)
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func printResolution(cmd *cobra.Command, code string, res domain.Resolution) {
	cmd.Printf("%s: %s\n", code, res.Status)
	switch res.Status {
	case domain.ResolutionFound:
		cmd.Printf("  Method:   %s\n", res.Identity.Method)
		if m := res.Identity.Matched; m != nil {
			cmd.Printf("  Matched:  %s (%s)\n", m.ID, m.Name)
		}
		if r := res.Identity.Resolved; r != nil {
			cmd.Printf("  Resolved: %s (%s)\n", r.ID, r.Name)
		}
	case domain.ResolutionAmbiguous:
		for _, c := range res.Candidates {
			cmd.Printf("  Candidate: %s (%s)\n", c.ID, c.Name)
		}
	}
}
