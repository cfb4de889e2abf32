// Package system executes host-side effects for the backend: launching
// desktop applications, opening URLs, power control, capture, and process
// listing. Commands are selected per GOOS and injected for tests.
package system

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pkg/browser"

	apperrors "github.com/elsahq/elsa/internal/errors"
)

// RunFunc launches a command without waiting for it to finish.
type RunFunc func(ctx context.Context, name string, args ...string) error

// OutputFunc runs a command and returns its combined output.
type OutputFunc func(ctx context.Context, name string, args ...string) (string, error)

// Options injects the process primitives. Zero values select os/exec.
type Options struct {
	GOOS    string
	Run     RunFunc
	Output  OutputFunc
	OpenURL func(rawURL string) error
	Logger  *slog.Logger
}

// Executor performs host-side actions.
type Executor struct {
	goos    string
	run     RunFunc
	output  OutputFunc
	openURL func(string) error
	logger  *slog.Logger

	mu            sync.Mutex
	recorderStart RecorderStart
	recordingStop func() error
}

// NewExecutor builds an executor with production defaults.
func NewExecutor(opts Options) *Executor {
	if opts.GOOS == "" {
		opts.GOOS = runtime.GOOS
	}
	if opts.Run == nil {
		opts.Run = execStart
	}
	if opts.Output == nil {
		opts.Output = execOutput
	}
	if opts.OpenURL == nil {
		opts.OpenURL = browser.OpenURL
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Executor{
		goos:    opts.GOOS,
		run:     opts.Run,
		output:  opts.Output,
		openURL: opts.OpenURL,
		logger:  opts.Logger,
	}
}

var trailingPunct = regexp.MustCompile(`[.,!?;:\s]+$`)

// CleanName strips the trailing punctuation speech recognition appends
// ("notepad." instead of "notepad") and folds case.
func CleanName(name string) string {
	return strings.ToLower(strings.TrimSpace(trailingPunct.ReplaceAllString(strings.TrimSpace(name), "")))
}

// Alias tables mapping spoken names to launchable commands.
var (
	windowsBuiltin = map[string]string{
		"notepad": "notepad", "calculator": "calc", "calc": "calc",
		"paint": "mspaint", "ms paint": "mspaint", "wordpad": "wordpad",
		"task manager": "taskmgr", "control panel": "control",
		"command prompt": "cmd", "cmd": "cmd", "powershell": "powershell",
		"file explorer": "explorer", "explorer": "explorer",
		"snipping tool": "SnippingTool", "registry editor": "regedit",
	}
	windowsInstalled = map[string]string{
		"chrome": "chrome", "google chrome": "chrome",
		"edge": "msedge", "microsoft edge": "msedge",
		"firefox": "firefox", "brave": "brave", "opera": "opera",
		"word": "winword", "excel": "excel", "powerpoint": "powerpnt",
		"outlook": "outlook", "teams": "teams",
		"vscode": "code", "vs code": "code", "visual studio code": "code",
		"terminal": "wt", "windows terminal": "wt",
		"discord": "discord", "slack": "slack", "zoom": "zoom",
		"whatsapp": "whatsapp", "telegram": "telegram", "spotify": "spotify",
		"vlc": "vlc", "vlc media player": "vlc", "obs": "obs64",
		"gimp": "gimp-2.10", "blender": "blender", "steam": "steam",
		"postman": "postman", "putty": "putty", "filezilla": "filezilla",
	}
	darwinApps = map[string]string{
		"chrome": "Google Chrome", "safari": "Safari", "firefox": "Firefox",
		"vscode": "Visual Studio Code", "vs code": "Visual Studio Code",
		"terminal": "Terminal", "finder": "Finder", "spotify": "Spotify",
		"discord": "Discord", "slack": "Slack", "zoom": "zoom.us",
		"notes": "Notes", "music": "Music", "photos": "Photos",
		"mail": "Mail", "calendar": "Calendar",
	}
	linuxApps = map[string]string{
		"chrome": "google-chrome", "firefox": "firefox",
		"terminal": "gnome-terminal", "vscode": "code", "vs code": "code",
		"vlc": "vlc", "gimp": "gimp", "calculator": "gnome-calculator",
	}
)

// OpenApp launches a desktop application by its spoken name.
func (e *Executor) OpenApp(ctx context.Context, name string) (string, error) {
	n := CleanName(name)
	if n == "" {
		return "", apperrors.InvalidArgument("empty application name")
	}
	e.logger.Info("opening app", "name", n)

	switch e.goos {
	case "windows":
		if cmd, ok := windowsBuiltin[n]; ok {
			if err := e.run(ctx, "cmd", "/c", "start", "", cmd); err != nil {
				return "", apperrors.ActionFailed("launch "+n, err)
			}
			return "✅ Opening " + n + "...", nil
		}
		cmd, ok := windowsInstalled[n]
		if !ok {
			for key, exe := range windowsInstalled {
				if strings.Contains(n, key) || strings.Contains(key, n) {
					cmd, ok = exe, true
					break
				}
			}
		}
		if !ok {
			cmd = n
		}
		if err := e.run(ctx, "cmd", "/c", "start", "", cmd); err != nil {
			return "", apperrors.ActionFailed("launch "+n, err)
		}
		return "✅ Opening " + n + "...", nil

	case "darwin":
		app, ok := darwinApps[n]
		if !ok {
			app = name
		}
		if err := e.run(ctx, "open", "-a", app); err != nil {
			return "", apperrors.ActionFailed("app not found: "+n, err)
		}
		return "✅ Opening " + n + "...", nil

	default: // linux
		cmd, ok := linuxApps[n]
		if !ok {
			cmd = n
		}
		if err := e.run(ctx, cmd); err != nil {
			return "", apperrors.ActionFailed("launch "+n, err)
		}
		return "✅ Opening " + n + "...", nil
	}
}

// OpenURL opens a URL in the default browser on the backend host.
func (e *Executor) OpenURL(_ context.Context, rawURL string) (string, error) {
	if rawURL == "" {
		return "", apperrors.InvalidArgument("empty url")
	}
	if err := e.openURL(rawURL); err != nil {
		return "", apperrors.ActionFailed("open url", err)
	}
	return "✅ Opening " + rawURL + "...", nil
}

// Search opens a search in the named engine. On Windows, edge and chrome
// searches launch the actual browser binary so the spoken engine is honored.
func (e *Executor) Search(ctx context.Context, engine, query, searchURL string) (string, error) {
	q := CleanName(query)
	if e.goos == "windows" {
		browserExe := ""
		switch engine {
		case "edge", "youtube":
			browserExe = "msedge"
		case "chrome":
			browserExe = "chrome"
		}
		if browserExe != "" {
			if err := e.run(ctx, "cmd", "/c", "start", browserExe, searchURL); err != nil {
				return "", apperrors.ActionFailed("launch "+browserExe, err)
			}
			return "✅ Searching " + engine + " for: " + q, nil
		}
	}
	if err := e.openURL(searchURL); err != nil {
		return "", apperrors.ActionFailed("open search", err)
	}
	return "✅ Searching " + engine + " for: " + q, nil
}

// powerCommands per GOOS, keyed by action.
var powerCommands = map[string]map[string][]string{
	"shutdown": {
		"windows": {"shutdown", "/s", "/t", "%d"},
		"linux":   {"shutdown", "-h", "now"},
		"darwin":  {"sudo", "shutdown", "-h", "now"},
	},
	"restart": {
		"windows": {"shutdown", "/r", "/t", "%d"},
		"linux":   {"reboot"},
		"darwin":  {"sudo", "shutdown", "-r", "now"},
	},
	"sleep": {
		"windows": {"rundll32.exe", "powrprof.dll,SetSuspendState", "0,1,0"},
		"linux":   {"systemctl", "suspend"},
		"darwin":  {"pmset", "sleepnow"},
	},
	"cancel": {
		"windows": {"shutdown", "/a"},
	},
}

var powerMessages = map[string]string{
	"shutdown": "✅ Shutdown in %ds",
	"restart":  "✅ Restart in %ds",
	"sleep":    "✅ Going to sleep...",
	"cancel":   "✅ Shutdown cancelled!",
}

// Power runs a shutdown/restart/sleep/cancel action with an optional delay.
func (e *Executor) Power(ctx context.Context, action string, delay int) (string, error) {
	byOS, ok := powerCommands[action]
	if !ok {
		return "", apperrors.UnknownAction(action)
	}
	argv, ok := byOS[e.goos]
	if !ok {
		return "", apperrors.ActionFailed(action+" not supported on "+e.goos, nil)
	}
	if delay <= 0 {
		delay = 5
	}
	args := make([]string, 0, len(argv)-1)
	for _, a := range argv[1:] {
		if a == "%d" {
			a = strconv.Itoa(delay)
		}
		args = append(args, a)
	}
	if err := e.run(ctx, argv[0], args...); err != nil {
		return "", apperrors.PermissionDenied("power "+action, err)
	}
	msg := powerMessages[action]
	if strings.Contains(msg, "%d") {
		msg = fmt.Sprintf(msg, delay)
	}
	return msg, nil
}

// Lock locks the screen.
func (e *Executor) Lock(ctx context.Context) (string, error) {
	var name string
	var args []string
	switch e.goos {
	case "windows":
		name, args = "rundll32.exe", []string{"user32.dll,LockWorkStation"}
	case "darwin":
		name, args = "pmset", []string{"displaysleepnow"}
	default:
		name, args = "loginctl", []string{"lock-session"}
	}
	if err := e.run(ctx, name, args...); err != nil {
		return "", apperrors.PermissionDenied("lock screen", err)
	}
	return "✅ Screen locked!", nil
}

// Screenshot captures the screen to the user's desktop and returns the path
// in the confirmation.
func (e *Executor) Screenshot(ctx context.Context) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", apperrors.ActionFailed("resolve home directory", err)
	}
	path := filepath.Join(home, "Desktop", fmt.Sprintf("elsa_screenshot_%s.png", time.Now().Format("20060102_150405")))

	var name string
	var args []string
	switch e.goos {
	case "windows":
		script := fmt.Sprintf(`Add-Type -AssemblyName System.Windows.Forms;`+
			`$b=[System.Windows.Forms.SystemInformation]::VirtualScreen;`+
			`$bmp=New-Object Drawing.Bitmap $b.Width,$b.Height;`+
			`[Drawing.Graphics]::FromImage($bmp).CopyFromScreen($b.Location,[Drawing.Point]::Empty,$b.Size);`+
			`$bmp.Save('%s')`, path)
		name, args = "powershell", []string{"-WindowStyle", "Hidden", "-Command", script}
	case "darwin":
		name, args = "screencapture", []string{"-x", path}
	default:
		name, args = "gnome-screenshot", []string{"-f", path}
	}
	if _, err := e.output(ctx, name, args...); err != nil {
		return "", apperrors.ActionFailed("capture screen", err)
	}
	return "✅ Screenshot saved to " + path, nil
}

// Process is one running-process entry.
type Process struct {
	PID    int     `json:"pid"`
	Name   string  `json:"name"`
	Memory float64 `json:"memory"` // resident MB
	Status string  `json:"status"`
}

// RunningApps lists the top processes by resident memory.
func (e *Executor) RunningApps(ctx context.Context) ([]Process, error) {
	if e.goos == "windows" {
		return e.runningAppsWindows(ctx)
	}
	out, err := e.output(ctx, "ps", "axo", "pid=,rss=,stat=,comm=")
	if err != nil {
		return nil, apperrors.ActionFailed("list processes", err)
	}
	var procs []Process
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 4 {
			continue
		}
		pid, err := strconv.Atoi(fields[0])
		if err != nil {
			continue
		}
		rssKB, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			continue
		}
		procs = append(procs, Process{
			PID:    pid,
			Name:   filepath.Base(fields[3]),
			Memory: rssKB / 1024,
			Status: fields[2],
		})
	}
	return topByMemory(procs), nil
}

func (e *Executor) runningAppsWindows(ctx context.Context) ([]Process, error) {
	out, err := e.output(ctx, "tasklist", "/fo", "csv", "/nh")
	if err != nil {
		return nil, apperrors.ActionFailed("list processes", err)
	}
	var procs []Process
	for _, line := range strings.Split(out, "\n") {
		cols := strings.Split(strings.TrimSpace(line), `","`)
		if len(cols) < 5 {
			continue
		}
		pid, err := strconv.Atoi(strings.Trim(cols[1], `"`))
		if err != nil {
			continue
		}
		memText := strings.Trim(cols[4], `" K`)
		memText = strings.ReplaceAll(strings.ReplaceAll(memText, ",", ""), ".", "")
		memKB, _ := strconv.ParseFloat(memText, 64)
		procs = append(procs, Process{
			PID:    pid,
			Name:   strings.Trim(cols[0], `"`),
			Memory: memKB / 1024,
			Status: "running",
		})
	}
	return topByMemory(procs), nil
}

func topByMemory(procs []Process) []Process {
	sort.Slice(procs, func(i, j int) bool { return procs[i].Memory > procs[j].Memory })
	if len(procs) > 20 {
		procs = procs[:20]
	}
	return procs
}

// Info describes the backend host.
type Info struct {
	OS            string  `json:"os"`
	OSVersion     string  `json:"os_version"`
	Hostname      string  `json:"hostname"`
	CPUCores      int     `json:"cpu_cores"`
	CPUUsage      float64 `json:"cpu_usage"`
	MemoryTotal   float64 `json:"memory_total"`
	MemoryUsed    float64 `json:"memory_used"`
	MemoryPercent float64 `json:"memory_percent"`
	DiskPercent   float64 `json:"disk_percent"`
	Time          string  `json:"time"`
}

// SystemInfo reports host stats. Memory figures are only populated on Linux,
// where /proc/meminfo is available without extra tooling.
func (e *Executor) SystemInfo(_ context.Context) Info {
	hostname, _ := os.Hostname()
	info := Info{
		OS:       e.goos,
		Hostname: hostname,
		CPUCores: runtime.NumCPU(),
		Time:     time.Now().Format("2006-01-02 15:04:05"),
	}
	if e.goos == "linux" {
		if total, avail, ok := readMemInfo("/proc/meminfo"); ok {
			used := total - avail
			info.MemoryTotal = total / (1 << 20)
			info.MemoryUsed = used / (1 << 20)
			if total > 0 {
				info.MemoryPercent = used / total * 100
			}
		}
	}
	return info
}

// readMemInfo parses MemTotal and MemAvailable (in KB) from a meminfo file.
func readMemInfo(path string) (totalKB, availKB float64, ok bool) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, 0, false
	}
	for _, line := range strings.Split(string(raw), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		v, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			continue
		}
		switch fields[0] {
		case "MemTotal:":
			totalKB = v
		case "MemAvailable:":
			availKB = v
		}
	}
	return totalKB, availKB, totalKB > 0
}
