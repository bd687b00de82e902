//go:build windows

package process

import (
	"os/exec"
	"strings"
	"syscall"
)

// ShellCommand returns a command that runs command through cmd.exe with the
// console code page forced to UTF-8. The command line is passed verbatim so
// cmd.exe sees the quoting exactly as written.
func ShellCommand(command string) *exec.Cmd {
	cmd := exec.Command("cmd.exe")
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CmdLine: `cmd.exe /s /c "chcp 65001 >NUL & ` + command + `"`,
	}
	return cmd
}

// Quote wraps s in double quotes for use inside a cmd.exe command line.
func Quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
