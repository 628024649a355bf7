// Package script turns a chain into a standalone shell script that applies
// the compiled sed command to every file named on its command line.
package script

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dshills/sedstudio/internal/chain"
	"github.com/dshills/sedstudio/internal/compiler"
)

// ErrEmptyChain is returned when there are no steps to export.
var ErrEmptyChain = errors.New("chain is empty")

// Shebang is the interpreter line every script starts with.
const Shebang = "#!/usr/bin/env bash"

// FileVar is the shell expansion substituted for the target file.
const FileVar = `"$file"`

// Body renders the script text for steps. Missing files are reported and
// skipped; running the script with no arguments prints usage and exits 1.
func Body(steps []chain.Step, flags chain.Flags, generated time.Time) ([]byte, error) {
	if len(steps) == 0 {
		return nil, ErrEmptyChain
	}

	cmd := compiler.RenderChain(steps, flags, FileVar)

	var b strings.Builder
	b.WriteString(Shebang + "\n")
	fmt.Fprintf(&b, "# Generated by Sed Studio on %s\n", generated.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "# Steps: %d\n", len(steps))
	for i, s := range steps {
		fmt.Fprintf(&b, "#   %d. %s\n", i+1, commentSafe(compiler.Expression(s, flags.EscapeDelimiters)))
	}
	b.WriteString(`
set -u

if [ "$#" -eq 0 ]; then
    echo "Usage: $(basename "$0") FILE [FILE...]" >&2
    exit 1
fi

for file in "$@"; do
    if [ ! -f "$file" ]; then
        echo "Skipping missing file: $file" >&2
        continue
    fi
    echo "Processing: $file"
`)
	fmt.Fprintf(&b, "    %s\n", cmd)
	b.WriteString(`done

echo "Done."
`)
	return []byte(b.String()), nil
}

// commentSafe keeps an expression on one comment line.
func commentSafe(s string) string {
	return strings.NewReplacer("\n", `\n`, "\r", `\r`).Replace(s)
}
