package cmd

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MeKo-Tech/winocr"
	"github.com/MeKo-Tech/winocr/internal/capture"
	"github.com/MeKo-Tech/winocr/internal/utils"
)

// screenCmd represents the screen command.
var screenCmd = &cobra.Command{
	Use:   "screen",
	Short: "Recognize text on the screen",
	Long: `Capture the screen (or a region of it) and recognize the text in the capture.

Without flags the whole virtual desktop is captured. Use --x/--y/--width/--height
to restrict the capture to a rectangle, or --display to capture a single monitor.

Examples:
  winocr screen
  winocr screen --x 100 --y 100 --width 800 --height 600
  winocr screen --display 1 --format json
  winocr screen --save-capture shot.png`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		x, _ := cmd.Flags().GetInt("x")
		y, _ := cmd.Flags().GetInt("y")
		width, _ := cmd.Flags().GetInt("width")
		height, _ := cmd.Flags().GetInt("height")
		savePath, _ := cmd.Flags().GetString("save-capture")

		if err := cfg.Engine.Validate(); err != nil {
			return err
		}

		// Capture once and feed the image to the engine so an optional
		// --save-capture writes exactly what was recognized.
		var (
			img image.Image
			err error
		)
		switch {
		case width > 0 || height > 0:
			if width <= 0 || height <= 0 {
				return fmt.Errorf("both --width and --height are required for a region capture")
			}
			img, err = capture.Rect(image.Rect(x, y, x+width, y+height))
		case cmd.Flags().Changed("display"):
			display, _ := cmd.Flags().GetInt("display")
			img, err = capture.Display(display)
		case cfg.Capture.Display > 0:
			img, err = capture.Display(cfg.Capture.Display)
		default:
			img, err = capture.Desktop()
		}
		if err != nil {
			return fmt.Errorf("screen capture failed: %w", err)
		}

		if savePath == "" && cfg.Capture.SaveDir != "" {
			savePath = filepath.Join(cfg.Capture.SaveDir, fmt.Sprintf("capture_%s.png", time.Now().Format("20060102_150405")))
		}
		if savePath != "" {
			if err := utils.SaveImage(img, savePath); err != nil {
				return fmt.Errorf("failed to save capture: %w", err)
			}
			fmt.Fprintf(os.Stderr, "Capture saved to %s\n", savePath)
		}

		client := winocr.NewClient(cfg.Engine.Options()...)
		defer func() {
			if err := client.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "Error closing client: %v\n", err)
			}
		}()

		res, err := client.FromImage(img)
		if err != nil {
			return fmt.Errorf("recognition failed: %w", err)
		}

		return writeFormatted(cmd, cfg.Output.Format, cfg.Output.File, res)
	},
}

// writeFormatted renders a result in the configured format and writes it to
// the output file or stdout.
func writeFormatted(cmd *cobra.Command, format, outputFile string, res *winocr.Result) error {
	s, err := winocr.FormatResult(res, format)
	if err != nil {
		return err
	}
	if outputFile != "" {
		if err := os.WriteFile(outputFile, []byte(s), 0o600); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "Results written to %s\n", outputFile)
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), s)
	return err
}

func init() {
	rootCmd.AddCommand(screenCmd)

	screenCmd.Flags().Int("x", 0, "left edge of the capture region in pixels")
	screenCmd.Flags().Int("y", 0, "top edge of the capture region in pixels")
	screenCmd.Flags().Int("width", 0, "capture region width in pixels (0=full screen)")
	screenCmd.Flags().Int("height", 0, "capture region height in pixels (0=full screen)")
	screenCmd.Flags().Int("display", 0, "display index to capture (0=primary)")
	screenCmd.Flags().String("save-capture", "", "save the captured image to this file")

	addOutputFlags(screenCmd)
	addEngineFlags(screenCmd)
	bindOutputFlags(screenCmd)
	bindEngineFlags(screenCmd)

	flagBindings := []struct {
		key  string
		flag string
	}{
		{"capture.display", "display"},
	}
	for _, binding := range flagBindings {
		if err := viper.BindPFlag(binding.key, screenCmd.Flags().Lookup(binding.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", binding.flag, err))
		}
	}
}

// GetScreenCommand returns the screen command for testing purposes.
func GetScreenCommand() *cobra.Command {
	return screenCmd
}
