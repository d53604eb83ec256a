package cmd

import (
	"net/url"
	"os/exec"
	"path/filepath"
	"runtime"
)

// browserCommand returns the command that opens target with the desktop's default handler.
func browserCommand(goos, target string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{target}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", target}
	default:
		return "xdg-open", []string{target}
	}
}

func fileURL(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String()
}

// openInBrowser starts the browser without waiting. Failure only logs a warning
// because the report files are already written.
func openInBrowser(cmdCtx *CommandContext, target string) {
	name, args := browserCommand(runtime.GOOS, target)
	if _, err := startReaped(exec.Command(name, args...)); err != nil {
		cmdCtx.Logger.Warn().Err(err).Str("target", target).Msg("Failed to open browser")
	}
}

// startReaped starts cmd and waits for it in the background so the child is
// reaped while the server keeps running. The channel yields Wait's result.
func startReaped(cmd *exec.Cmd) (<-chan error, error) {
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()
	return done, nil
}
