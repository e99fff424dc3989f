package platform

import (
	"fmt"
	"os/exec"
	"runtime"
)

// OpenFolder asks the desktop environment to show the given directory
// in its file manager.
func OpenFolder(path string) error {
	var command *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		command = exec.Command("explorer", path)
	case "darwin":
		command = exec.Command("open", path)
	default:
		command = exec.Command("xdg-open", path)
	}
	if err := command.Start(); err != nil {
		return fmt.Errorf("open folder %s: %w", path, err)
	}
	return nil
}
