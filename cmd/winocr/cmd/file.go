package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MeKo-Tech/winocr"
	"github.com/MeKo-Tech/winocr/internal/utils"
)

const (
	outputFormatJSON = "json"
	outputFormatCSV  = "csv"
	outputFormatText = "text"
)

// fileCmd represents the file command.
var fileCmd = &cobra.Command{
	Use:   "file [image...]",
	Short: "Recognize text in image files",
	Long: `Recognize text in one or more image files using the Windows OCR engine.

Supported formats: JPEG, PNG, BMP, GIF, TIFF

Examples:
  winocr file photo.png
  winocr file *.png --format json
  winocr file scan.jpg --language de-DE --output results.json`,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return errors.New("no input files provided")
		}

		// Get configuration (includes CLI flags, config file, env vars, and defaults)
		cfg := GetConfig()

		format := cfg.Output.Format
		outputFile := cfg.Output.File

		// Validate output format
		validFormats := []string{outputFormatText, outputFormatJSON, outputFormatCSV}
		isValidFormat := false
		for _, f := range validFormats {
			if format == f {
				isValidFormat = true
				break
			}
		}
		if !isValidFormat {
			return fmt.Errorf("invalid output format: %s (must be one of: %s)", format, strings.Join(validFormats, ", "))
		}

		if err := cfg.Engine.Validate(); err != nil {
			return err
		}

		client := winocr.NewClient(cfg.Engine.Options()...)
		defer func() {
			if err := client.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "Error closing client: %v\n", err)
			}
		}()

		var outputs []string
		for _, path := range args {
			if !utils.IsSupportedImage(path) {
				return fmt.Errorf("unsupported image format: %s", path)
			}

			res, err := client.FromFile(path)
			if err != nil {
				return fmt.Errorf("recognition failed for %s: %w", path, err)
			}

			switch format {
			case outputFormatJSON:
				obj := struct {
					File string         `json:"file"`
					OCR  *winocr.Result `json:"ocr"`
				}{File: path, OCR: res}
				bts, err := json.MarshalIndent(obj, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal JSON: %w", err)
				}
				outputs = append(outputs, string(bts))
			case outputFormatCSV:
				s, err := winocr.ToCSV(res)
				if err != nil {
					return fmt.Errorf("format csv failed: %w", err)
				}
				if len(args) > 1 {
					s = "# " + path + "\n" + s
				}
				outputs = append(outputs, s)
			default:
				s := res.PlainText()
				if len(args) > 1 {
					s = fmt.Sprintf("%s:\n%s", path, s)
				}
				outputs = append(outputs, s)
			}
		}

		final := strings.Join(outputs, "\n")
		if outputFile != "" {
			if err := os.WriteFile(outputFile, []byte(final), 0o600); err != nil {
				return fmt.Errorf("failed to write output file: %w", err)
			}
			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Results written to %s\n", outputFile); err != nil {
				return err
			}
		} else {
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), final); err != nil {
				return fmt.Errorf("failed to write final output: %w", err)
			}
		}
		return nil
	},
}

// addEngineFlags registers the recognition flags shared by the capture
// commands.
func addEngineFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("language", "l", "", "recognition language tag, e.g. en-US (default: user profile languages)")
	cmd.Flags().Float64("scale", 0, "upscale factor applied before recognition (0=off)")
	cmd.Flags().Bool("grayscale", false, "convert input to grayscale before recognition")
	cmd.Flags().Int("poll-interval", 10, "async completion poll interval in milliseconds")
}

// bindEngineFlags binds the shared recognition flags to viper keys.
func bindEngineFlags(cmd *cobra.Command) {
	flagBindings := []struct {
		key  string
		flag string
	}{
		{"engine.language", "language"},
		{"engine.scale", "scale"},
		{"engine.grayscale", "grayscale"},
		{"engine.poll_interval_ms", "poll-interval"},
	}

	for _, binding := range flagBindings {
		if err := viper.BindPFlag(binding.key, cmd.Flags().Lookup(binding.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", binding.flag, err))
		}
	}
}

// addOutputFlags registers the result formatting flags.
func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("format", "f", "text", "output format (text, json, csv)")
	cmd.Flags().StringP("output", "o", "", "output file (default: stdout)")
}

// bindOutputFlags binds the result formatting flags to viper keys.
func bindOutputFlags(cmd *cobra.Command) {
	flagBindings := []struct {
		key  string
		flag string
	}{
		{"output.format", "format"},
		{"output.file", "output"},
	}

	for _, binding := range flagBindings {
		if err := viper.BindPFlag(binding.key, cmd.Flags().Lookup(binding.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", binding.flag, err))
		}
	}
}

func init() {
	rootCmd.AddCommand(fileCmd)

	addOutputFlags(fileCmd)
	addEngineFlags(fileCmd)
	bindOutputFlags(fileCmd)
	bindEngineFlags(fileCmd)

	// Ensure subcommand help prints expected sections when executed directly in tests
	fileCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		if _, err := fmt.Fprintln(out, cmd.Short); err != nil {
			return
		}
		if _, err := fmt.Fprintln(out, "Usage:"); err != nil {
			return
		}
		_, _ = fmt.Fprintln(out, cmd.UseLine())
		_, _ = fmt.Fprintln(out, "Flags:")
		_, _ = fmt.Fprintln(out, cmd.Flags().FlagUsages())
	})
}

// GetFileCommand returns the file command for testing purposes.
func GetFileCommand() *cobra.Command {
	return fileCmd
}
