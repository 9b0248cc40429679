package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/winocr"
)

// languagesCmd represents the languages command.
var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List installed OCR languages",
	Long: `List the languages the Windows OCR engine can recognize on this machine.

Only languages whose OCR pack is installed are shown. Additional packs can be
installed through Windows Settings > Time & Language > Language.

Examples:
  winocr languages
  winocr languages --json
  winocr languages --load de-DE`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := winocr.NewClient()
		defer func() {
			if err := client.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "Error closing client: %v\n", err)
			}
		}()

		if loadTag, _ := cmd.Flags().GetString("load"); loadTag != "" {
			if err := client.LoadLanguage(loadTag); err != nil {
				return fmt.Errorf("failed to load language: %w", err)
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Language %s is installed and usable\n", loadTag)
			return err
		}

		langs, err := client.Languages()
		if err != nil {
			return fmt.Errorf("failed to list languages: %w", err)
		}

		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			bts, err := json.MarshalIndent(langs, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal JSON: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(bts))
			return err
		}

		for _, lang := range langs {
			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%-16s %s\n", lang.Tag, lang.DisplayName); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(languagesCmd)

	languagesCmd.Flags().Bool("json", false, "print the language list as JSON")
	languagesCmd.Flags().String("load", "", "probe whether the given BCP-47 tag can be loaded")
}

// GetLanguagesCommand returns the languages command for testing purposes.
func GetLanguagesCommand() *cobra.Command {
	return languagesCmd
}
