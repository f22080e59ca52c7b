// Package platform detects facts about the host that templates can use.
package platform

import (
	"bufio"
	"bytes"
	"log/slog"
	"os"
	"os/exec"
	"os/user"
	"runtime"
	"strings"
)

// Operating system identifiers reported by Detect.
const (
	OSLinux   = "linux"
	OSDarwin  = "darwin"
	OSWindows = "windows"
)

const osReleasePath = "/etc/os-release"

// Platform holds the detected operating system, Linux distribution, hostname
// and current user. Fields that cannot be detected are left empty.
type Platform struct {
	OS       string
	Distro   string
	Hostname string
	User     string
}

// Detect inspects the running host.
func Detect() *Platform {
	p := &Platform{
		OS:       detectOS(),
		Hostname: detectHostname(),
		User:     detectUser(),
	}

	if p.OS == OSLinux {
		p.Distro = detectDistro()
	}

	return p
}

// Helpers returns the template helpers exposing p: os(), distro(), hostname(),
// user() and env(name).
func (p *Platform) Helpers() map[string]any {
	return map[string]any{
		"os":       func() string { return p.OS },
		"distro":   func() string { return p.Distro },
		"hostname": func() string { return p.Hostname },
		"user":     func() string { return p.User },
		"env":      os.Getenv,
	}
}

func detectOS() string {
	switch runtime.GOOS {
	case "windows":
		return OSWindows
	case "darwin":
		return OSDarwin
	}

	// Also check OS environment variable (for cross-platform scripts)
	if strings.Contains(strings.ToLower(os.Getenv("OS")), "windows") {
		return OSWindows
	}

	return OSLinux
}

// detectDistro returns the Linux distribution ID from /etc/os-release,
// e.g. "arch", "ubuntu" or "fedora".
func detectDistro() string {
	data, err := os.ReadFile(osReleasePath)
	if err != nil {
		slog.Debug("unable to detect linux distribution",
			slog.String("file", osReleasePath),
			slog.String("error", err.Error()),
			slog.String("fallback", "empty"))
		return ""
	}

	return parseOSRelease(data)
}

func parseOSRelease(data []byte) string {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if id, ok := strings.CutPrefix(line, "ID="); ok {
			return strings.Trim(id, `"'`)
		}
	}

	return ""
}

func detectHostname() string {
	hostname, err := os.Hostname()
	if err != nil {
		slog.Debug("unable to detect hostname",
			slog.String("error", err.Error()),
			slog.String("fallback", "empty"))
		return ""
	}

	return hostname
}

func detectUser() string {
	u, err := user.Current()
	if err != nil {
		slog.Debug("unable to detect current user",
			slog.String("error", err.Error()),
			slog.String("fallback", "empty"))
		return ""
	}

	return u.Username
}

// IsCommandAvailable checks if a command is available in PATH
func IsCommandAvailable(cmd string) bool {
	_, err := exec.LookPath(cmd)
	return err == nil
}
