package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage pipeline settings",
	Long: `View and configure the pipeline: directories, reference datasets, census
columns, the Paysage directory and object storage.

Secrets can also be supplied through PAYSAGE_API_KEY, FRESQ_S3_ACCESS_KEY
and FRESQ_S3_SECRET_KEY.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a setting",
	Long: `Set a single setting. Lists are comma-separated.

Run 'fresq settings keys' for the supported keys.`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List supported setting keys",
	Args:  cobra.NoArgs,
	RunE:  runSettingsKeys,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsKeysCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return fmt.Errorf("settings: %w", errNotConfigured)
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Pipeline]")
	cmd.Printf("  Data dir: %s\n", settings.DataDir)
	cmd.Printf("  Output dir: %s\n", settings.OutputDir)
	cmd.Printf("  Strict grouping: %s\n", yesNo(settings.StrictGrouping))
	cmd.Printf("  Post-processors: %s\n", listOrNone(settings.PostProcessors))
	cmd.Printf("  Dropped fields: %s\n", listOrNone(settings.DropFields))
	cmd.Println()

	cmd.Println("[Reference data]")
	cmd.Printf("  Census: %s\n", pathOrDisabled(settings.CensusPath))
	cmd.Printf("  Occupational registry: %s\n", pathOrDisabled(settings.OccupationalPath))
	cmd.Printf("  Job codes: %s\n", pathOrDisabled(settings.JobCodesPath))
	cmd.Printf("  Census columns: year=%q institutions=%q programs=%q code=%q\n",
		settings.CensusColumns.Year, settings.CensusColumns.InstitutionCodes,
		settings.CensusColumns.ProgramIDs, settings.CensusColumns.ClassificationCode)
	cmd.Println()

	cmd.Println("[Directory]")
	if settings.Directory.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", settings.Directory.BaseURL)
	} else {
		cmd.Printf("  Base URL: (not set, resolution disabled)\n")
	}
	cmd.Printf("  API Key: %s\n", secret(settings.Directory.APIKey))
	cmd.Printf("  Rate: %.1f req/s (burst %d)\n", settings.Directory.RequestsPerSecond, settings.Directory.Burst)
	cmd.Printf("  Timeout: %s\n", settings.Directory.Timeout)
	cmd.Println()

	cmd.Println("[Storage]")
	if settings.Storage.Enabled() {
		cmd.Printf("  Bucket: %s\n", settings.Storage.Bucket)
		if settings.Storage.Endpoint != "" {
			cmd.Printf("  Endpoint: %s\n", settings.Storage.Endpoint)
		}
		cmd.Printf("  Region: %s\n", settings.Storage.Region)
		cmd.Printf("  Access Key: %s\n", secret(settings.Storage.AccessKey))
		cmd.Printf("  Secret Key: %s\n", secret(settings.Storage.SecretKey))
	} else {
		cmd.Printf("  Enabled: no\n")
	}

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return fmt.Errorf("settings: %w", errNotConfigured)
	}

	if err := settingsService.Set(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to set %s: %w", args[0], err)
	}
	cmd.Printf("%s updated.\n", args[0])
	return nil
}

func runSettingsKeys(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return fmt.Errorf("settings: %w", errNotConfigured)
	}
	for _, k := range settingsService.Keys() {
		cmd.Println(k)
	}
	return nil
}

// maskAPIKey masks an API key for display, showing only first and last 4 chars.
func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func secret(v string) string {
	if v == "" {
		return "(not set)"
	}
	return maskAPIKey(v)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	return strings.Join(items, ", ")
}

func pathOrDisabled(p string) string {
	if p == "" {
		return "(disabled)"
	}
	return p
}
