// Package launcher opens movie pages with the operating system's opener.
package launcher

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/pders01/flik/internal/config"
	"github.com/pders01/flik/internal/validation"
)

type Launcher struct {
	opener    string
	goos      string
	validator *validation.EndpointValidator
	start     func(*exec.Cmd) error
}

func NewLauncher(cfg *config.Config) *Launcher {
	opener := cfg.Launcher.Opener
	if opener == "" {
		opener = defaultOpener(runtime.GOOS)
	}

	return &Launcher{
		opener:    opener,
		goos:      runtime.GOOS,
		validator: validation.NewEndpointValidator(),
		start:     startDetached,
	}
}

// Open validates url and hands it to the opener without waiting for it.
func (l *Launcher) Open(url string) error {
	normalized, err := l.validator.ValidateAndNormalize(url)
	if err != nil {
		return fmt.Errorf("refusing to open %q: %w", url, err)
	}

	if l.opener == "" {
		return fmt.Errorf("no application found to open URL")
	}

	cmd := l.command(normalized)
	if err := l.start(cmd); err != nil {
		return fmt.Errorf("failed to start %s: %w", l.opener, err)
	}
	return nil
}

func (l *Launcher) command(url string) *exec.Cmd {
	// start is a cmd.exe builtin; the empty argument is the window title.
	if l.goos == "windows" && l.opener == "start" {
		return exec.Command("cmd", "/c", "start", "", url)
	}
	return exec.Command(l.opener, url)
}

func startDetached(cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() {
		_ = cmd.Wait()
	}()
	return nil
}

func defaultOpener(goos string) string {
	candidates := map[string][]string{
		"darwin":  {"open"},
		"linux":   {"xdg-open", "gio", "sensible-browser"},
		"windows": {"start"},
	}
	list, ok := candidates[goos]
	if !ok {
		return "open"
	}
	if goos == "windows" {
		return list[0]
	}
	if found := findCommand(list...); found != "" {
		return found
	}
	return list[0]
}

func findCommand(commands ...string) string {
	for _, cmd := range commands {
		if _, err := exec.LookPath(cmd); err == nil {
			return cmd
		}
	}
	return ""
}
