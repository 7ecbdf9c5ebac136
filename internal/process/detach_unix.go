//go:build !windows

package process

import (
	"os/exec"
	"syscall"
)

// Detach puts the command in a new process group so terminal signals sent
// to clip2html are not delivered to it.
func Detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}
