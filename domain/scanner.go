package domain

import (
	"errors"
	"time"
)

type ScannerState string

const (
	ScannerIdle      ScannerState = "idle"
	ScannerStreaming ScannerState = "streaming"
	ScannerAnalyzing ScannerState = "analyzing"
)

var (
	MessageSuccessStartScanner  = "scanner started"
	MessageSuccessStopScanner   = "scanner stopped"
	MessageSuccessTriggerScan   = "scan triggered"
	MessageSuccessGetScanner    = "scanner status retrieved successfully"
	MessageSuccessGetDetections = "detections retrieved successfully"

	MessageFailedStartScanner = "failed to access camera"
	MessageFailedStopScanner  = "failed to stop scanner"
	MessageFailedTriggerScan  = "failed to trigger scan"

	ErrScannerRunning  = errors.New("scanner is already running")
	ErrScannerIdle     = errors.New("scanner is not running")
	ErrScannerClosed   = errors.New("scanner is shut down")
	ErrCycleInFlight   = errors.New("analysis already in progress")
	ErrInvalidScanMode = errors.New("invalid scan mode")
)

type (
	StartScannerRequest struct {
		Mode ScanMode `json:"mode" validate:"omitempty,oneof=single-shot realtime ingredients"`
	}

	ScannerStats struct {
		Scans               uint64    `json:"scans"`
		Detected            int       `json:"detected"`
		DroppedTicks        uint64    `json:"dropped_ticks"`
		Failures            uint64    `json:"failures"`
		ConsecutiveFailures int       `json:"consecutive_failures"`
		LastUpdated         time.Time `json:"last_updated,omitempty"`
	}

	ScannerStatus struct {
		State    ScannerState `json:"state"`
		Mode     ScanMode     `json:"mode,omitempty"`
		Sequence uint64       `json:"sequence"`
		Stats    ScannerStats `json:"stats"`
	}

	DetectionsResponse struct {
		Current  []Detection `json:"current"`
		Previous []Detection `json:"previous,omitempty"`
		Count    int         `json:"count"`
	}
)
