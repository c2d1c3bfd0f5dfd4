package ops

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"regexp"

	"github.com/hpungsan/rankwatch/internal/errors"
)

// Default export file names when the server provides no usable
// Content-Disposition, per session mode.
const (
	DefaultExportName      = "keywords.csv"
	DefaultGuestExportName = "guest_keywords.csv"
)

// ExportInput contains parameters for the Export operation.
type ExportInput struct {
	// Dir overrides the configured export directory.
	Dir string
}

// ExportOutput contains the result of the Export operation.
type ExportOutput struct {
	Path  string `json:"path"`
	Bytes int    `json:"bytes"`
}

// Export downloads the CSV export for the current mode and writes it to the
// export directory under the name derived from the response's
// Content-Disposition header. Nothing is retained after the write: the
// response bytes are released with the call frame.
func Export(ctx context.Context, env *Env, input ExportInput) (*ExportOutput, error) {
	guest := isGuest(env)
	result, err := env.Client.Export(ctx, guest)
	if err != nil {
		return nil, err
	}

	name := ExtractFilename(result.ContentDisposition)
	if name == "" {
		name = DefaultExportName
		if guest {
			name = DefaultGuestExportName
		}
	}
	// The server controls the header; never let it escape the export dir.
	name = filepath.Base(name)

	dir := input.Dir
	if dir == "" {
		dir = env.Config.ExportDir
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, errors.NewInternal(err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, result.Data, 0600); err != nil {
		return nil, errors.NewInternal(err)
	}

	return &ExportOutput{Path: path, Bytes: len(result.Data)}, nil
}

var (
	extendedFilenameRe = regexp.MustCompile(`(?i)filename\*=UTF-8''([^;]+)`)
	plainFilenameRe    = regexp.MustCompile(`(?i)(?:^|;)\s*filename\s*=\s*"?([^";]+)"?`)
)

// ExtractFilename derives a file name from a Content-Disposition header.
// Precedence: the RFC-5987 extended parameter (percent-decoded) wins; if it
// is absent or fails to decode, a plain filename parameter is taken
// literally; otherwise the result is empty and the caller applies its
// mode-dependent default.
func ExtractFilename(disposition string) string {
	if disposition == "" {
		return ""
	}

	if m := extendedFilenameRe.FindStringSubmatch(disposition); m != nil {
		if decoded, err := url.PathUnescape(m[1]); err == nil {
			return decoded
		}
		// Malformed percent-encoding falls through to the plain parameter.
	}

	if m := plainFilenameRe.FindStringSubmatch(disposition); m != nil {
		return m[1]
	}

	return ""
}
