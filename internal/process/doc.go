// Package process starts and terminates external programs through the
// platform shell.
//
// On POSIX systems commands run as "/bin/sh -c <command>" in their own
// process group, so terminating the shell also terminates the program it
// launched. On Windows commands run through "cmd.exe /s /c" after switching
// the console code page to UTF-8 (chcp 65001) so non-ASCII output is not
// mangled.
package process
