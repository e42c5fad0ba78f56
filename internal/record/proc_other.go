//go:build !unix

package record

import "os/exec"

// Detach is a no-op where process groups are not available.
func Detach(cmd *exec.Cmd) {}
