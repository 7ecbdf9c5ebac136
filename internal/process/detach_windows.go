//go:build windows

package process

import (
	"os/exec"
	"syscall"
)

// Detach starts the command in a new process group so Ctrl+C in the
// console is not delivered to it.
func Detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP}
}
