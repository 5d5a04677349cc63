package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/matzehuels/jsontree/pkg/cache"
	jerrors "github.com/matzehuels/jsontree/pkg/errors"
	"github.com/matzehuels/jsontree/pkg/httputil"
	"github.com/matzehuels/jsontree/pkg/jsondoc"
)

const (
	inputStdin  = "-"
	sampleName  = "sample"
	stdinName   = "stdin"
	remoteName  = "remote"
	formatGuess = ""
)

// input is a document read from the command line.
type input struct {
	Data   []byte
	Name   string // display name and output base name
	Format string // json or yaml
	Path   string // local file path; empty for stdin, URLs and the sample
}

// readInput loads arg, which is a file path, "-" for stdin, an http(s) URL or
// empty for the built-in sample. format overrides the extension-based guess.
// Remote documents go through ch so repeated runs skip the download.
func (c *CLI) readInput(ctx context.Context, arg, format string, ch cache.Cache, stdin io.Reader) (*input, error) {
	var (
		in  = &input{}
		err error
	)

	switch {
	case arg == "":
		in.Data, in.Name = []byte(jsondoc.SampleJSON), sampleName
		c.Logger.Info("No input given, using the sample document")

	case arg == inputStdin:
		in.Name = stdinName
		in.Data, err = io.ReadAll(stdin)
		if err != nil {
			return nil, jerrors.Wrap(jerrors.ErrCodeInvalidInput, err, "read stdin")
		}

	case jerrors.IsURL(arg):
		in.Name = remoteBaseName(arg)
		c.Logger.Debug("fetching document", "url", arg)
		in.Data, err = httputil.NewClient(ch, nil).WithKeyer(c.newKeyer()).Fetch(ctx, arg, false)
		if err != nil {
			return nil, err
		}

	default:
		if err := jerrors.ValidateFilePath(arg); err != nil {
			return nil, err
		}
		in.Path, in.Name = arg, strings.TrimSuffix(arg, filepath.Ext(arg))
		in.Data, err = os.ReadFile(arg)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, jerrors.Wrap(jerrors.ErrCodeFileNotFound, err, "file not found: %s", arg)
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", arg, err)
		}
	}

	in.Format = format
	if in.Format == formatGuess {
		in.Format = guessFormat(arg)
	}
	return in, nil
}

// guessFormat picks YAML for .yaml/.yml files and URLs, JSON otherwise.
func guessFormat(arg string) string {
	if u, err := url.Parse(arg); err == nil && jerrors.IsURL(arg) {
		return jsondoc.FormatForPath(u.Path)
	}
	return jsondoc.FormatForPath(arg)
}

// remoteBaseName derives a local output name from a URL's last path segment.
func remoteBaseName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return remoteName
	}
	base := path.Base(u.Path)
	base = strings.TrimSuffix(base, path.Ext(base))
	if base == "" || base == "." || base == "/" {
		return remoteName
	}
	return base
}
