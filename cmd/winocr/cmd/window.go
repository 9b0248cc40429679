package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/winocr"
	"github.com/MeKo-Tech/winocr/internal/capture"
	"github.com/MeKo-Tech/winocr/internal/utils"
)

// windowCmd represents the window command.
var windowCmd = &cobra.Command{
	Use:   "window <title>",
	Short: "Recognize text in an application window",
	Long: `Capture the window whose title contains the given substring and recognize
the text in it. The first matching top-level window is used; the match is
case-insensitive.

Examples:
  winocr window Notepad
  winocr window "Mozilla Firefox" --format json
  winocr window Editor --language de-DE
  winocr window Notepad --save-capture window.png`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		title := args[0]
		if title == "" {
			return errors.New("window title must not be empty")
		}

		cfg := GetConfig()
		if err := cfg.Engine.Validate(); err != nil {
			return err
		}

		// Capture once and feed the image to the engine so an optional
		// --save-capture writes exactly what was recognized.
		img, err := capture.Window(title)
		if err != nil {
			return fmt.Errorf("window capture failed: %w", err)
		}

		savePath, _ := cmd.Flags().GetString("save-capture")
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
			return fmt.Errorf("recognition failed for window %q: %w", title, err)
		}

		return writeFormatted(cmd, cfg.Output.Format, cfg.Output.File, res)
	},
}

func init() {
	rootCmd.AddCommand(windowCmd)

	windowCmd.Flags().String("save-capture", "", "save the captured image to this file")

	addOutputFlags(windowCmd)
	addEngineFlags(windowCmd)
	bindOutputFlags(windowCmd)
	bindEngineFlags(windowCmd)
}

// GetWindowCommand returns the window command for testing purposes.
func GetWindowCommand() *cobra.Command {
	return windowCmd
}
