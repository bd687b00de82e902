package main

import (
	"io"
	"time"

	flag "github.com/spf13/pflag"
)

// defaultListen is the preview host address when neither --listen nor
// MARKDOCS_LISTEN is set.
const defaultListen = "127.0.0.1:4463"

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config    string
	quiet     bool
	verbose   bool
	assetPath string
	serverURL string
	home      string
}

// renderFlags holds flags for the render command.
type renderFlags struct {
	common commonFlags
	output string
}

// previewFlags holds flags for the preview command.
type previewFlags struct {
	common commonFlags
	listen string
	delay  time.Duration
}

// exportFlags holds flags for the export command.
type exportFlags struct {
	common      commonFlags
	output      string
	timeout     time.Duration
	title       string
	pageNumbers bool
	landscape   bool
}

// doctorFlags holds flags for the doctor command.
type doctorFlags struct {
	common commonFlags
	json   bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs")
	fs.StringVar(&f.assetPath, "asset-path", "", "directory overriding built-in styles and scripts")
	fs.StringVar(&f.serverURL, "server-url", "", "render server base URL")
	fs.StringVar(&f.home, "home", "", "render server install home")
}

// newFlagSet returns a FlagSet that reports errors instead of exiting and
// prints usage to w.
func newFlagSet(name string, w io.Writer, usage func(io.Writer)) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(w)
	fs.Usage = func() { usage(w) }
	return fs
}

// parseRenderFlags parses render command flags and returns positional args.
func parseRenderFlags(args []string, w io.Writer) (*renderFlags, []string, error) {
	f := &renderFlags{}
	fs := newFlagSet("render", w, printRenderUsage)
	fs.StringVarP(&f.output, "output", "o", "", "output HTML file (default: stdout)")
	addCommonFlags(fs, &f.common)

	if err := fs.Parse(args); err != nil {
		return nil, nil, usageError(err)
	}
	return f, fs.Args(), nil
}

// parsePreviewFlags parses preview command flags and returns positional args.
func parsePreviewFlags(args []string, w io.Writer) (*previewFlags, []string, error) {
	f := &previewFlags{}
	fs := newFlagSet("preview", w, printPreviewUsage)
	fs.StringVarP(&f.listen, "listen", "l", "", "preview host address (default "+defaultListen+")")
	fs.DurationVar(&f.delay, "delay", 0, "refresh delay after a change (default 50ms)")
	addCommonFlags(fs, &f.common)

	if err := fs.Parse(args); err != nil {
		return nil, nil, usageError(err)
	}
	return f, fs.Args(), nil
}

// parseExportFlags parses export command flags and returns positional args.
func parseExportFlags(args []string, w io.Writer) (*exportFlags, []string, error) {
	f := &exportFlags{}
	fs := newFlagSet("export", w, printExportUsage)
	fs.StringVarP(&f.output, "output", "o", "", "output PDF file (default: input with .pdf)")
	fs.DurationVarP(&f.timeout, "timeout", "t", 0, "PDF generation timeout (e.g., 30s, 2m)")
	fs.StringVar(&f.title, "title", "", "footer title")
	fs.BoolVar(&f.pageNumbers, "page-numbers", false, "show page numbers in footer")
	fs.BoolVar(&f.landscape, "landscape", false, "landscape orientation")
	addCommonFlags(fs, &f.common)

	if err := fs.Parse(args); err != nil {
		return nil, nil, usageError(err)
	}
	return f, fs.Args(), nil
}

// parseDoctorFlags parses doctor command flags.
func parseDoctorFlags(args []string, w io.Writer) (*doctorFlags, error) {
	f := &doctorFlags{}
	fs := newFlagSet("doctor", w, printDoctorUsage)
	fs.BoolVar(&f.json, "json", false, "print results as JSON")
	addCommonFlags(fs, &f.common)

	if err := fs.Parse(args); err != nil {
		return nil, usageError(err)
	}
	return f, nil
}
