//go:build !windows

package process

import (
	"os/exec"
	"strings"
	"syscall"
)

// ShellCommand returns a command that runs command through /bin/sh.
// The child is placed in a new process group so KillProcessGroup can
// terminate the whole tree.
func ShellCommand(command string) *exec.Cmd {
	cmd := exec.Command("/bin/sh", "-c", command)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	return cmd
}

// Quote wraps s in single quotes for use inside a /bin/sh command line.
func Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
