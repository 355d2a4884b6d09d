// SPDX-License-Identifier: MPL-2.0

package assembly

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/urhonet/cooker/internal/shell"
)

// MonodisReader reads assembly references by running
// "monodis --assemblyref <module>" and collecting every "Name=" entry.
type MonodisReader struct {
	// Runner executes monodis.
	Runner shell.Runner
	// Path is the monodis executable.
	Path string
}

// ReadReferences implements MetadataReader.
func (m *MonodisReader) ReadReferences(ctx context.Context, modulePath string) ([]string, error) {
	cmd := shell.Command{
		Label: "monodis",
		Name:  m.Path,
		Args:  []string{"--assemblyref", modulePath},
		Quiet: true,
	}
	res, err := shell.Run(ctx, m.Runner, cmd)
	if err != nil {
		return nil, fmt.Errorf("read assembly references of %s: %w", modulePath, err)
	}
	return ParseAssemblyRefs(res.Output), nil
}

// ParseAssemblyRefs extracts reference names from monodis --assemblyref
// output. Every line containing "Name=" contributes one entry; tabs and
// carriage returns are removed and the remainder is trimmed.
func ParseAssemblyRefs(output string) []string {
	var refs []string
	sc := bufio.NewScanner(strings.NewReader(output))
	for sc.Scan() {
		line := sc.Text()
		if !strings.Contains(line, "Name=") {
			continue
		}
		line = strings.ReplaceAll(line, "Name=", "")
		line = strings.ReplaceAll(line, "\r", "")
		line = strings.ReplaceAll(line, "\t", "")
		refs = append(refs, strings.TrimSpace(line))
	}
	return refs
}
