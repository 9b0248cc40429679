package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MeKo-Tech/winocr"
	"github.com/MeKo-Tech/winocr/internal/pdf"
)

// pdfCmd represents the pdf command.
var pdfCmd = &cobra.Command{
	Use:   "pdf [file...]",
	Short: "Recognize text in the images of PDF documents",
	Long: `Extract the embedded images of one or more PDF documents and recognize the
text in them. Pages are processed concurrently; password-protected documents
are decrypted first when a password is given.

Examples:
  winocr pdf scan.pdf
  winocr pdf scan.pdf --pages 1-3,7 --format json
  winocr pdf secret.pdf --password hunter2
  winocr pdf *.pdf --workers 2 --output results.json`,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return errors.New("no input files provided")
		}

		cfg := GetConfig()

		format := cfg.Output.Format
		if format != outputFormatText && format != outputFormatJSON {
			return fmt.Errorf("invalid output format: %s (must be one of: %s)",
				format, strings.Join([]string{outputFormatText, outputFormatJSON}, ", "))
		}
		if err := cfg.Engine.Validate(); err != nil {
			return err
		}

		password, _ := cmd.Flags().GetString("password")
		ownerPassword, _ := cmd.Flags().GetString("owner-password")

		var creds *pdf.Credentials
		if password != "" || ownerPassword != "" {
			creds = &pdf.Credentials{UserPassword: password, OwnerPassword: ownerPassword}
		}

		client := winocr.NewClient(cfg.Engine.Options()...)
		defer func() {
			if err := client.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "Error closing client: %v\n", err)
			}
		}()

		processor := pdf.NewProcessorWithConfig(client, pdf.Config{
			MaxWorkers:  cfg.PDF.Workers,
			Credentials: creds,
		})

		var outputs []string
		for _, path := range args {
			doc, err := processor.ProcessFile(path, cfg.PDF.Pages)
			if err != nil {
				return fmt.Errorf("processing failed for %s: %w", path, err)
			}

			switch format {
			case outputFormatJSON:
				s, err := pdf.ToJSON(doc)
				if err != nil {
					return fmt.Errorf("failed to marshal JSON: %w", err)
				}
				outputs = append(outputs, s)
			default:
				s := pdf.ToPlainText(doc)
				if len(args) > 1 {
					s = fmt.Sprintf("%s:\n%s", path, s)
				}
				outputs = append(outputs, s)
			}
		}

		final := strings.Join(outputs, "\n")
		if cfg.Output.File != "" {
			if err := os.WriteFile(cfg.Output.File, []byte(final), 0o600); err != nil {
				return fmt.Errorf("failed to write output file: %w", err)
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Results written to %s\n", cfg.Output.File)
			return err
		}
		_, err := fmt.Fprintln(cmd.OutOrStdout(), final)
		return err
	},
}

func init() {
	rootCmd.AddCommand(pdfCmd)

	pdfCmd.Flags().String("pages", "", "page selection, e.g. 1-3,7 (default: all pages)")
	pdfCmd.Flags().Int("workers", 0, "concurrent page workers (0=one per CPU)")
	pdfCmd.Flags().String("password", "", "user password for encrypted documents")
	pdfCmd.Flags().String("owner-password", "", "owner password for encrypted documents")

	addOutputFlags(pdfCmd)
	addEngineFlags(pdfCmd)
	bindOutputFlags(pdfCmd)
	bindEngineFlags(pdfCmd)

	flagBindings := []struct {
		key  string
		flag string
	}{
		{"pdf.pages", "pages"},
		{"pdf.workers", "workers"},
	}
	for _, binding := range flagBindings {
		if err := viper.BindPFlag(binding.key, pdfCmd.Flags().Lookup(binding.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", binding.flag, err))
		}
	}
}

// GetPdfCommand returns the pdf command for testing purposes.
func GetPdfCommand() *cobra.Command {
	return pdfCmd
}
