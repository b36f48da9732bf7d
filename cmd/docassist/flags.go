package main

import (
	"fmt"
	"os"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config    string
	quiet     bool
	verbose   bool
	logLevel  string
	logFormat string
}

// outputFlags holds artifact placement flags.
type outputFlags struct {
	dir  string
	name string
}

// renderFlags holds page rasterization flags.
type renderFlags struct {
	scale   float64
	quality float64
}

// deliveryFlags holds email delivery flags.
type deliveryFlags struct {
	email      string
	subject    string
	body       string
	bundleName string
}

// commandFlags holds all flags for an operation command.
type commandFlags struct {
	common       commonFlags
	output       outputFlags
	render       renderFlags
	delivery     deliveryFlags
	workers      int
	timeout      string
	ranges       string
	templatesDir string
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show timing and diagnostics")
	fs.StringVar(&f.logLevel, "log-level", "", "diagnostic level: debug, info, warn, error")
	fs.StringVar(&f.logFormat, "log-format", "", "diagnostic format: console, json")
}

// addOutputFlags adds artifact placement flags to a FlagSet.
func addOutputFlags(fs *flag.FlagSet, f *outputFlags) {
	fs.StringVarP(&f.dir, "output", "o", "", "output directory")
	fs.StringVarP(&f.name, "name", "n", "", "artifact base name")
}

// addRenderFlags adds rasterization flags to a FlagSet.
func addRenderFlags(fs *flag.FlagSet, f *renderFlags) {
	fs.Float64Var(&f.scale, "scale", 0, "render scale, 1.0 = 72 DPI (default 2.0)")
	fs.Float64Var(&f.quality, "quality", 0, "JPEG quality in (0, 1] (default 0.92)")
}

// addDeliveryFlags adds email delivery flags to a FlagSet.
func addDeliveryFlags(fs *flag.FlagSet, f *deliveryFlags) {
	fs.StringVarP(&f.email, "email", "e", "", "send artifacts to this address instead of writing them")
	fs.StringVar(&f.subject, "subject", "", "email subject")
	fs.StringVar(&f.body, "body", "", "email body")
	fs.StringVar(&f.bundleName, "bundle-name", "", "ZIP attachment base name")
}

// parseCommandFlags parses flags for an operation command and returns
// positional args.
func parseCommandFlags(cmd command, args []string) (*commandFlags, []string, error) {
	fs := flag.NewFlagSet(cmd.name, flag.ContinueOnError)
	f := &commandFlags{}

	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "per-run timeout (e.g., 30s, 2m)")

	addCommonFlags(fs, &f.common)
	addOutputFlags(fs, &f.output)
	addDeliveryFlags(fs, &f.delivery)

	if cmd.name == "split" {
		fs.StringVarP(&f.ranges, "ranges", "r", "", `page ranges, e.g. "1-3,5-7,10-"`)
	}
	if cmd.rendersPages() {
		addRenderFlags(fs, &f.render)
	}
	if cmd.name == "to-docx" {
		fs.StringVar(&f.templatesDir, "templates-dir", "", "directory with ooxml/ part overrides")
	}

	fs.Usage = func() { printCommandUsage(os.Stderr, cmd) }

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("%w: %w", ErrUsage, err)
	}

	return f, fs.Args(), nil
}
