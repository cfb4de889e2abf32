package system

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	apperrors "github.com/elsahq/elsa/internal/errors"
)

// RecorderStart begins a screen capture writing to path and returns a stop
// function. Injected for tests; the default shells out to ffmpeg.
type RecorderStart func(ctx context.Context, path string) (stop func() error, err error)

// SetRecorder overrides the capture backend. Pass nil to restore the default.
func (e *Executor) SetRecorder(start RecorderStart) {
	e.mu.Lock()
	e.recorderStart = start
	e.mu.Unlock()
}

// StartRecording begins a screen capture to the user's desktop. Starting
// while a recording is active fails without touching the running capture.
func (e *Executor) StartRecording(ctx context.Context) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.recordingStop != nil {
		return "", apperrors.ActionFailed("recording already in progress", nil)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", apperrors.ActionFailed("resolve home directory", err)
	}
	path := filepath.Join(home, "Desktop", fmt.Sprintf("elsa_recording_%s.mp4", time.Now().Format("20060102_150405")))

	start := e.recorderStart
	if start == nil {
		start = e.ffmpegStart
	}
	stop, err := start(ctx, path)
	if err != nil {
		return "", apperrors.ActionFailed("start screen recording", err)
	}
	e.recordingStop = stop
	e.logger.Info("screen recording started", "path", path)
	return "🔴 Screen recording started! Say \"stop recording\" to finish.", nil
}

// StopRecording ends the active capture.
func (e *Executor) StopRecording() (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.recordingStop == nil {
		return "", apperrors.ActionFailed("no recording in progress", nil)
	}
	stop := e.recordingStop
	e.recordingStop = nil
	if err := stop(); err != nil {
		return "", apperrors.ActionFailed("stop screen recording", err)
	}
	return "⏹️ Recording stopped and saved to your desktop.", nil
}

// RecordingActive reports whether a capture is running.
func (e *Executor) RecordingActive() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.recordingStop != nil
}

// ffmpegStart launches ffmpeg with the platform's screen-grab input.
func (e *Executor) ffmpegStart(_ context.Context, path string) (func() error, error) {
	var args []string
	switch e.goos {
	case "windows":
		args = []string{"-f", "gdigrab", "-framerate", "30", "-i", "desktop", "-y", path}
	case "darwin":
		args = []string{"-f", "avfoundation", "-framerate", "30", "-i", "1:none", "-y", path}
	default:
		args = []string{"-f", "x11grab", "-framerate", "30", "-i", ":0.0", "-y", path}
	}
	// Not CommandContext: the capture must outlive the request that started it.
	cmd := exec.Command("ffmpeg", args...)
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return func() error {
		if err := cmd.Process.Signal(os.Interrupt); err != nil {
			return cmd.Process.Kill()
		}
		_ = cmd.Wait()
		return nil
	}, nil
}
