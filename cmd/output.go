package cmd

import (
	"fmt"
	"os"
)

// ── Unified output helpers ────────────────────────────────────────────────────
// All commands use these functions to ensure consistent icon usage and
// indentation throughout showcase's CLI output.
//
// Icon semantics:
//   ✓  success / healthy
//   ✗  error / failure          (written to stderr)
//   ⚠  warning / skipped item   (written to stderr)
//   ~  neutral info / state change

// printSection prints a top-level section header, e.g. "=== Build ===".
func printSection(title string) {
	fmt.Printf("\n=== %s ===\n", title)
}

// printOK prints a success line.
//
//	name = "" → "  ✓  msg"
//	name set  → "  ✓  [name] msg"
func printOK(name, msg string) {
	if name == "" {
		fmt.Printf("  ✓  %s\n", msg)
	} else {
		fmt.Printf("  ✓  [%s] %s\n", name, msg)
	}
}

// printErr prints an error line to stderr.
func printErr(name, msg string) {
	if name == "" {
		fmt.Fprintf(os.Stderr, "  ✗  %s\n", msg)
	} else {
		fmt.Fprintf(os.Stderr, "  ✗  [%s] %s\n", name, msg)
	}
}

// printWarn prints a warning line to stderr.
func printWarn(name, msg string) {
	if name == "" {
		fmt.Fprintf(os.Stderr, "  ⚠  %s\n", msg)
	} else {
		fmt.Fprintf(os.Stderr, "  ⚠  [%s] %s\n", name, msg)
	}
}

// printInfo prints a neutral informational / state-change line.
func printInfo(name, msg string) {
	if name == "" {
		fmt.Printf("  ~  %s\n", msg)
	} else {
		fmt.Printf("  ~  [%s] %s\n", name, msg)
	}
}

// skipReporter prints one warning per skipped item. Paths are shown relative to base.
type skipReporter struct {
	base string
}

func (r skipReporter) Skip(path string, err error) {
	printWarn(relTo(r.base, path), fmt.Sprintf("skipped: %v", err))
}
