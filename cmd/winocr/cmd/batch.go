package cmd

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/winocr"
	"github.com/MeKo-Tech/winocr/internal/batch"
	"github.com/MeKo-Tech/winocr/internal/config"
)

// batchCmd represents the batch command for parallel image processing.
var batchCmd = &cobra.Command{
	Use:   "batch [files...]",
	Short: "Recognize text in many images in parallel",
	Long: `Recognize text in a set of image files or directories using parallel
workers. Failures of individual files are reported per file; the batch always
runs to completion.

Supported formats: JPEG, PNG, BMP, GIF, TIFF

Examples:
  winocr batch *.jpg *.png
  winocr batch scans/ --recursive --workers 8
  winocr batch scans/ --include "page_*.png" --format json --output results.json
  winocr batch scans/ --stats`,
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE:         runBatchCommand,
}

// configToBatchConfig maps centralized configuration to batch.Config.
// CLI flags override config file values.
func configToBatchConfig(cfg *config.Config, cmd *cobra.Command) (*batch.Config, error) {
	batchConfig := &batch.Config{}

	engineCfg := cfg.Engine
	if cmd.Flags().Changed("language") {
		engineCfg.Language, _ = cmd.Flags().GetString("language")
	}
	if cmd.Flags().Changed("scale") {
		engineCfg.Scale, _ = cmd.Flags().GetFloat64("scale")
	}
	if cmd.Flags().Changed("grayscale") {
		engineCfg.Grayscale, _ = cmd.Flags().GetBool("grayscale")
	}
	if cmd.Flags().Changed("poll-interval") {
		engineCfg.PollIntervalMs, _ = cmd.Flags().GetInt("poll-interval")
	}
	if err := engineCfg.Validate(); err != nil {
		return nil, err
	}
	batchConfig.EngineOptions = engineCfg.Options()

	batchConfig.Format = cfg.Output.Format
	if cmd.Flags().Changed("format") {
		batchConfig.Format, _ = cmd.Flags().GetString("format")
	}
	validFormats := []string{outputFormatText, outputFormatJSON, outputFormatCSV}
	valid := false
	for _, f := range validFormats {
		if batchConfig.Format == f {
			valid = true
			break
		}
	}
	if !valid {
		return nil, fmt.Errorf("invalid output format: %s (must be one of: %s)",
			batchConfig.Format, strings.Join(validFormats, ", "))
	}

	batchConfig.OutputFile = cfg.Output.File
	if cmd.Flags().Changed("output") {
		batchConfig.OutputFile, _ = cmd.Flags().GetString("output")
	}

	// File discovery and processing settings are CLI-only
	batchConfig.Workers, _ = cmd.Flags().GetInt("workers")
	batchConfig.Recursive, _ = cmd.Flags().GetBool("recursive")
	batchConfig.IncludePatterns, _ = cmd.Flags().GetStringSlice("include")
	batchConfig.ExcludePatterns, _ = cmd.Flags().GetStringSlice("exclude")
	batchConfig.Quiet, _ = cmd.Flags().GetBool("quiet")
	batchConfig.ShowStats, _ = cmd.Flags().GetBool("stats")

	return batchConfig, nil
}

func runBatchCommand(cmd *cobra.Command, args []string) error {
	// Get configuration from centralized system (includes CLI flags, config file, env vars, and defaults)
	cfg := GetConfig()

	batchConfig, err := configToBatchConfig(cfg, cmd)
	if err != nil {
		return err
	}

	if !batchConfig.Quiet {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Processing %d path(s)...\n", len(args))
	}

	client := winocr.NewClient()
	defer func() {
		if err := client.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing client: %v\n", err)
		}
	}()

	result, err := batch.Process(client, args, batchConfig)
	if err != nil {
		return fmt.Errorf("batch processing failed: %w", err)
	}

	if err := result.SaveResults(batchConfig.Format, batchConfig.OutputFile, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("failed to save results: %w", err)
	}

	if batchConfig.ShowStats && !batchConfig.Quiet {
		result.PrintStats(cmd.OutOrStdout())
	}

	return nil
}

func init() {
	rootCmd.AddCommand(batchCmd)

	addOutputFlags(batchCmd)
	addEngineFlags(batchCmd)

	// Parallel processing flags
	batchCmd.Flags().IntP("workers", "w", 0, fmt.Sprintf("number of parallel workers (default: %d)", runtime.NumCPU()))

	// File discovery flags
	batchCmd.Flags().BoolP("recursive", "r", false, "recursively scan directories")
	batchCmd.Flags().StringSlice("include", []string{}, "file patterns to include (default: all supported images)")
	batchCmd.Flags().StringSlice("exclude", []string{}, "file patterns to exclude")

	// Progress and monitoring flags
	batchCmd.Flags().Bool("quiet", false, "suppress progress output")
	batchCmd.Flags().Bool("stats", false, "show processing statistics")
}

// GetBatchCommand returns the batch command for testing purposes.
func GetBatchCommand() *cobra.Command {
	return batchCmd
}
