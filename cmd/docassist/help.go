package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: docassist <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, c := range commands {
		fmt.Fprintf(w, "  %-10s %s\n", c.name, c.summary)
	}
	fmt.Fprintln(w, "  info       Show page count, page sizes and bookmarks")
	fmt.Fprintln(w, "  doctor     Check the rendering backend and environment")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'docassist help <command>' for details on a specific command.")
}

// printCommandUsage prints usage for an operation command.
func printCommandUsage(w io.Writer, cmd command) {
	fmt.Fprintf(w, "Usage: docassist %s %s [flags]\n", cmd.name, cmd.args)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s.\n", cmd.summary)
	fmt.Fprintln(w)

	if cmd.name == "split" {
		fmt.Fprintln(w, "Ranges:")
		fmt.Fprintln(w, "  -r, --ranges <spec>       Comma-separated ranges: \"1-3,5-7,10-\"")
		fmt.Fprintln(w, "                            \"N-\" runs to the last page, reversed bounds are swapped")
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <dir>        Output directory (default: current directory)")
	fmt.Fprintln(w, "  -n, --name <s>            Artifact base name")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "  -t, --timeout <d>         Per-run timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w)

	if cmd.rendersPages() {
		fmt.Fprintln(w, "Rendering:")
		fmt.Fprintln(w, "      --scale <f>           Render scale, 1.0 = 72 DPI (default 2.0)")
		fmt.Fprintln(w, "      --quality <f>         JPEG quality in (0, 1] (default 0.92)")
		if cmd.name == "to-docx" {
			fmt.Fprintln(w, "      --templates-dir <dir> Directory with ooxml/ part overrides")
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "Email:")
	fmt.Fprintln(w, "  -e, --email <addr>        Send artifacts instead of writing them")
	fmt.Fprintln(w, "      --subject <s>         Email subject")
	fmt.Fprintln(w, "      --body <s>            Email body")
	fmt.Fprintln(w, "      --bundle-name <s>     ZIP name when several artifacts are sent")
	fmt.Fprintln(w, "                            Requires DOCASSIST_GRAPH_TOKEN")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show timing and diagnostics")
	fmt.Fprintln(w, "      --log-level <s>       Diagnostic level: debug, info, warn, error")
	fmt.Fprintln(w, "      --log-format <s>      Diagnostic format: console, json")
}

// printInfoUsage prints usage for the info command.
func printInfoUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: docassist info <file.pdf>... [--json]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Show page count, page sizes and top-level bookmarks.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "      --json                Print machine-readable JSON")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: docassist doctor [--json]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check the PDF engines, email configuration and environment.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "      --json                Print machine-readable JSON")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	if cmd, ok := lookupCommand(args[0]); ok {
		printCommandUsage(env.Stdout, cmd)
		return
	}

	switch args[0] {
	case "info":
		printInfoUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: docassist version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: docassist help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
