package commands

import (
	"Supermarket-Vision-Backend/cmd/config"
	"Supermarket-Vision-Backend/domain"
	"Supermarket-Vision-Backend/pkg/analysis"
	"Supermarket-Vision-Backend/pkg/camera"
	"Supermarket-Vision-Backend/pkg/scanner"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

const statusPollInterval = 100 * time.Millisecond

var (
	scanImages   []string
	scanMode     string
	scanDuration time.Duration
	scanEndpoint string
	scanCmd      = &cobra.Command{
		Use:   "scan",
		Short: "Run the product scanner from the terminal",
		Long: `Run the scan loop without the HTTP API and print the detections as JSON.
Frames come from the configured camera, or from still images with --image.
The analyze-product endpoint of a running server does the model call.`,
		Example: `  # One frame from a still image
  supermarket scan --image shelf.jpg

  # Realtime scanning from the camera for 30 seconds
  supermarket scan --mode realtime --duration 30s`,
		RunE: runScan,
	}
)

func init() {
	scanCmd.Flags().StringSliceVar(&scanImages, "image", nil, "still image(s) to use instead of the camera")
	scanCmd.Flags().StringVar(&scanMode, "mode", string(domain.ScanModeSingleShot), "single-shot or realtime")
	scanCmd.Flags().DurationVar(&scanDuration, "duration", 15*time.Second, "how long to scan in realtime mode")
	scanCmd.Flags().StringVar(&scanEndpoint, "endpoint", "", "analyze-product URL (default from config)")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if scanEndpoint != "" {
		cfg.AnalyzeEndpoint = scanEndpoint
	}

	mode := domain.ScanMode(scanMode)
	if mode != domain.ScanModeSingleShot && mode != domain.ScanModeRealtime {
		return fmt.Errorf("%w: %q", domain.ErrInvalidScanMode, scanMode)
	}

	var device camera.Device
	if len(scanImages) > 0 {
		static, err := camera.LoadStaticDevice(scanImages...)
		if err != nil {
			return err
		}
		device = static
	} else {
		device = camera.NewFFmpegDevice(cfg.CameraDevice)
	}

	out := cmd.OutOrStdout()
	svc := config.NewScanner(cfg, device, analysis.NewClient(cfg.AnalyzeEndpoint, cfg.AITimeout()), consoleNotifier{out: cmd.ErrOrStderr()})
	defer svc.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := svc.Start(ctx, mode); err != nil {
		return err
	}
	defer svc.Stop(context.Background())

	if mode == domain.ScanModeRealtime {
		select {
		case <-ctx.Done():
		case <-time.After(scanDuration):
		}
	} else if err := scanOnce(ctx, svc, cfg.ScanTimeout()+time.Second); err != nil {
		return err
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(svc.Detections())
}

// scanOnce triggers a single cycle and waits for the loop to leave the
// analyzing state.
func scanOnce(ctx context.Context, svc scanner.ScannerService, timeout time.Duration) error {
	if err := svc.Trigger(ctx); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	ticker := time.NewTicker(statusPollInterval)
	defer ticker.Stop()
	for {
		status, err := svc.Status(ctx)
		if err != nil {
			return err
		}
		if status.State != domain.ScannerAnalyzing {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

type consoleNotifier struct {
	out io.Writer
}

func (n consoleNotifier) Notify(title, description, variant string) {
	if variant == domain.VariantDestructive {
		fmt.Fprintf(n.out, "[error] %s: %s\n", title, description)
		return
	}
	fmt.Fprintf(n.out, "%s: %s\n", title, description)
}
