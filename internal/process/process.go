// Package process starts helper programs that must outlive this process.
package process

import (
	"fmt"
	"os/exec"
)

// StartDetached starts name in its own process group and releases it, so
// closing the terminal or exiting clip2html does not take the browser down.
func StartDetached(name string, args ...string) error {
	// #nosec G204 -- name is a browser path from the launcher's strategy table or config
	cmd := exec.Command(name, args...)
	Detach(cmd)

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting %s: %w", name, err)
	}
	// Nothing waits for the child; let the OS reap it.
	return cmd.Process.Release()
}

// Run runs name to completion. Used for short-lived launch helpers such as
// macOS "open" whose exit status says whether the app was found.
func Run(name string, args ...string) error {
	// #nosec G204 -- fixed helper from the launcher's strategy table
	out, err := exec.Command(name, args...).CombinedOutput()
	if err != nil {
		if len(out) > 0 {
			return fmt.Errorf("running %s: %w: %s", name, err, out)
		}
		return fmt.Errorf("running %s: %w", name, err)
	}
	return nil
}
