//go:build !windows

package engine

import (
	"os/exec"
	"syscall"
)

// sysProcAttr puts mpv in its own process group so a terminal signal aimed at
// surfplay does not reach it and killProcess can take down its children.
func sysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{
		Setpgid: true,
	}
}

func killProcess(cmd *exec.Cmd) error {
	if cmd == nil || cmd.Process == nil {
		return nil
	}
	_ = syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	return cmd.Process.Kill()
}
