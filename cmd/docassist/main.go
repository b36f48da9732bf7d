package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"

	docassist "github.com/alnah/go-docassist"
	"github.com/alnah/go-docassist/internal/config"
	"github.com/alnah/go-docassist/internal/hints"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	verbose := hasVerboseFlag(os.Args[1:])

	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply.
	if verbose {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	if err := loadDotEnv(dotEnvFile); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	ctx, stop := notifyContext(context.Background())
	code := runMain(ctx, os.Args, DefaultEnv())
	stop()
	os.Exit(code)
}

// runMain dispatches the command in args[1] and returns the exit code.
func runMain(ctx context.Context, args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	name, rest := args[1], args[2:]

	var err error
	switch name {
	case "help", "-h", "--help":
		runHelp(rest, env)
		return ExitSuccess
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "docassist %s\n", Version)
		return ExitSuccess
	case "doctor":
		return runDoctorCmd(rest, env)
	case "info":
		err = runInfo(rest, env)
	default:
		cmd, ok := lookupCommand(name)
		if !ok {
			fmt.Fprintf(env.Stderr, "Unknown command: %s\n", name)
			printUsage(env.Stderr)
			return ExitUsage
		}
		err = runOperation(ctx, cmd, rest, env)
	}

	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err))
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// hasVerboseFlag reports whether -v or --verbose appears before "--".
func hasVerboseFlag(args []string) bool {
	for _, arg := range args {
		if arg == "--" {
			return false
		}
		if arg == "-v" || arg == "--verbose" {
			return true
		}
	}
	return false
}

// hintFor returns an actionable hint for well-known failures, or "".
func hintFor(err error) string {
	switch {
	case errors.Is(err, docassist.ErrDeliveryNotConfigured),
		errors.Is(err, docassist.ErrDelivery):
		return hints.ForGraphToken()
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(triedPaths(err))
	case errors.Is(err, docassist.ErrInvalidSpec):
		return hints.ForRanges()
	case errors.Is(err, docassist.ErrUnsupportedFormat):
		return hints.ForUnsupportedImage()
	case errors.Is(err, docassist.ErrTooManyFiles),
		errors.Is(err, docassist.ErrFileTooLarge):
		return hints.ForLimits()
	case errors.Is(err, ErrWriteOutput) && !errors.Is(err, docassist.ErrValidation):
		return hints.ForOutputDirectory()
	}
	return ""
}

// triedPaths extracts the searched locations from a config lookup error.
func triedPaths(err error) []string {
	msg := err.Error()
	idx := strings.Index(msg, "tried ")
	if idx < 0 {
		return nil
	}
	return strings.Split(msg[idx+len("tried "):], ", ")
}
