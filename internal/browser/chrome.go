package browser

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/pkg/errors"
)

// chromeCandidates lists the usual binary names and install locations.
var chromeCandidates = []string{
	"google-chrome",
	"google-chrome-stable",
	"chromium",
	"chromium-browser",
	"/usr/bin/google-chrome",
	"/usr/bin/chromium",
	"/opt/google/chrome/chrome",
	"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
	"/Applications/Chromium.app/Contents/MacOS/Chromium",
}

// findChrome returns a usable browser binary, preferring the override.
func findChrome(override string) (string, error) {
	if override = strings.TrimSpace(override); override != "" {
		if resolved, err := lookupBinary(override); err == nil {
			return resolved, nil
		}
		return "", errors.Errorf("chrome binary %q not found", override)
	}
	for _, candidate := range chromeCandidates {
		if resolved, err := lookupBinary(candidate); err == nil {
			return resolved, nil
		}
	}
	return "", errors.New("no chrome binary found, set chrome_path")
}

func lookupBinary(name string) (string, error) {
	if strings.ContainsRune(name, os.PathSeparator) {
		if _, err := os.Stat(name); err != nil {
			return "", err
		}
		return name, nil
	}
	return exec.LookPath(name)
}

// launchArgs builds the command line for a visible, debuggable Chrome bound
// to the profile directory. Headless is deliberately absent: the operator
// logs in and watches runs in this window.
func launchArgs(port int, profileDir string) []string {
	return []string{
		fmt.Sprintf("--remote-debugging-port=%d", port),
		"--user-data-dir=" + profileDir,
		"--no-first-run",
		"--no-default-browser-check",
		"--disable-session-crashed-bubble",
		"--new-window",
		"about:blank",
	}
}

// launchDetached starts Chrome and releases the process handle so the browser
// outlives this run. Login state lives in the profile directory, so later
// invocations reuse both the endpoint and the session.
func launchDetached(bin string, port int, profileDir string) error {
	if err := os.MkdirAll(profileDir, 0o755); err != nil {
		return errors.Wrap(err, "create profile dir")
	}
	cmd := exec.Command(bin, launchArgs(port, profileDir)...)
	if err := cmd.Start(); err != nil {
		return err
	}
	return cmd.Process.Release()
}
