package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/jsontree/pkg/pipeline"
)

// artifactWriteParams describes where rendered artifacts go.
type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	base      string // output base without extension
	output    string // explicit -o value, if any
	cacheHit  bool
	nodes     int
	edges     int
}

// writeArtifacts writes one file per format and prints a summary. A single
// format with an explicit -o is written to exactly that path ("-" means stdout).
func (c *CLI) writeArtifacts(p artifactWriteParams) error {
	var paths []string
	for _, format := range p.formats {
		data, ok := p.artifacts[format]
		if !ok {
			continue
		}

		path := basePath(p.output, p.base) + "." + format
		if len(p.formats) == 1 && p.output != "" {
			path = p.output
		}

		if err := c.writeOutput(path, data); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		if path != inputStdin {
			paths = append(paths, path)
		}
	}

	if len(paths) == 0 {
		return nil
	}
	printSuccess("Rendered %d file(s)", len(paths))
	for _, path := range paths {
		printFile(path)
	}
	printStats(p.nodes, p.edges, p.cacheHit)
	return nil
}

func (c *CLI) writeOutput(path string, data []byte) error {
	out, err := c.openOutput(path)
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// basePath derives the base output path. If output is empty, base is used.
// If output ends in a known format extension, that extension is stripped.
func basePath(output, base string) string {
	if output == "" {
		return base
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// openOutput opens path for writing; "" or "-" is the CLI's output stream.
func (c *CLI) openOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == inputStdin {
		return nopCloser{c.Out}, nil
	}
	return os.Create(path)
}
