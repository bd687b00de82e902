package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: markdocs <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  render     Render a markdown file to an HTML page")
	fmt.Fprintln(w, "  preview    Serve a live preview of a markdown file")
	fmt.Fprintln(w, "  export     Export a markdown file to PDF")
	fmt.Fprintln(w, "  doctor     Check the render server and system setup")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'markdocs help <command>' for details on a specific command.")
}

// printCommonUsage prints the flags every command accepts.
func printCommonUsage(w io.Writer) {
	fmt.Fprintln(w, "Common:")
	fmt.Fprintln(w, "  -c, --config <path>       Config file path")
	fmt.Fprintln(w, "      --home <dir>          Render server install home")
	fmt.Fprintln(w, "      --server-url <url>    Render server base URL")
	fmt.Fprintln(w, "      --asset-path <dir>    Directory overriding built-in styles and scripts")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  MARKDOCS_CONFIG, MARKDOCS_HOME, MARKDOCS_SERVER_URL,")
	fmt.Fprintln(w, "  MARKDOCS_INSTALL_COMMAND, MARKDOCS_LISTEN")
}

// printRenderUsage prints usage for the render command.
func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: markdocs render <file.md> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render a markdown file through the render server into a")
	fmt.Fprintln(w, "self-contained HTML page.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output HTML file (default: stdout)")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printPreviewUsage prints usage for the preview command.
func printPreviewUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: markdocs preview <file.md> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Serve a live preview in the browser. The page reloads when the")
	fmt.Fprintln(w, "file is saved. Type a line number on stdin to scroll the preview;")
	fmt.Fprintln(w, "double-click in the page to print the matching file:line.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Host:")
	fmt.Fprintln(w, "  -l, --listen <addr>       Listen address (default "+defaultListen+")")
	fmt.Fprintln(w, "      --delay <duration>    Refresh delay after a change (default 50ms)")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printExportUsage prints usage for the export command.
func printExportUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: markdocs export <file.md> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render a markdown file and print the preview to PDF with headless Chrome.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output PDF file (default: input with .pdf)")
	fmt.Fprintln(w, "  -t, --timeout <duration>  PDF generation timeout (default 30s)")
	fmt.Fprintln(w, "      --title <s>           Footer title")
	fmt.Fprintln(w, "      --page-numbers        Show page numbers in footer")
	fmt.Fprintln(w, "      --landscape           Landscape orientation")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: markdocs doctor [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check the config, render server, Chrome, and system setup.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "      --json                Print results as JSON")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "render":
		printRenderUsage(env.Stdout)
	case "preview":
		printPreviewUsage(env.Stdout)
	case "export":
		printExportUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: markdocs version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: markdocs help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
