// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-docassist/internal/fileutil"
)

// GraphTokenEnv is the environment variable holding the Graph access token.
const GraphTokenEnv = "DOCASSIST_GRAPH_TOKEN"

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForGraphToken returns hints for a missing or rejected Graph token.
func ForGraphToken() string {
	var hints []string

	if os.Getenv(GraphTokenEnv) == "" {
		hints = append(hints, "set "+GraphTokenEnv+" in the environment or a .env file")
		if IsInContainer() {
			hints = append(hints, "pass it to the container with -e "+GraphTokenEnv)
		}
	} else {
		hints = append(hints, "the token may have expired; request a new one with Mail.Send scope")
	}

	return formatHints(hints)
}

// ForTimeout returns a hint about increasing timeout for slow operations.
func ForTimeout() string {
	return format("for large documents, use --timeout flag")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/go-docassist/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/go-docassist") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForRanges returns the accepted page range syntax.
func ForRanges() string {
	return format(`use comma-separated ranges like "1-3,5-7,10-"`)
}

// ForUnsupportedImage lists the image formats accepted by to-pdf.
func ForUnsupportedImage() string {
	return format("supported formats: JPEG (.jpg, .jpeg), PNG (.png)")
}

// ForLimits suggests raising input limits in the config file.
func ForLimits() string {
	return format("raise limits.maxFiles or limits.maxFileSizeMB in the config file")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
