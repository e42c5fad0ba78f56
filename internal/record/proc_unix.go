//go:build unix

package record

import (
	"os/exec"
	"syscall"
)

// Detach starts cmd in its own process group so a terminal Ctrl+C reaches
// only this process, which then ends the child's stream cleanly.
func Detach(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.Setpgid = true
}
