//go:build unix

package runner

import (
	"os/exec"
	"syscall"
)

// killGroup starts the shell in its own process group and makes cancellation
// kill the whole group. Children the shell forks would otherwise keep the
// output pipes open after the shell itself is gone.
func killGroup(proc *exec.Cmd) {
	proc.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	proc.Cancel = func() error {
		return syscall.Kill(-proc.Process.Pid, syscall.SIGKILL)
	}
}
