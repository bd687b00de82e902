//go:build !windows

package process

import "syscall"

// KillProcessGroup sends SIGTERM to the process group led by pid
// (negative PID), falling back to the single process when pid does not
// lead a group.
func KillProcessGroup(pid int) error {
	if err := syscall.Kill(-pid, syscall.SIGTERM); err == nil {
		return nil
	}
	return syscall.Kill(pid, syscall.SIGTERM)
}
