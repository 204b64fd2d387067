package parsers

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/classcanvas/classcanvas/pkg/errors"
	"github.com/classcanvas/classcanvas/pkg/model"
	"github.com/classcanvas/classcanvas/pkg/observability"
)

// SourceFile pairs a file name with its content for multi-file parsing.
type SourceFile struct {
	Name    string
	Content string
}

// ParseFiles parses every file through the parser its extension selects
// and merges the results into one diagram. Files with unsupported
// extensions or failed parses are logged and skipped; the merge is
// last-write-wins per class name, so split declarations across files
// resolve to the latest one seen.
func (r *Registry) ParseFiles(ctx context.Context, files []SourceFile, logger *log.Logger) (*model.ClassDiagram, error) {
	if logger == nil {
		logger = log.Default()
	}
	hooks := observability.Pipeline()
	merged := model.NewClassDiagram()

	for _, f := range files {
		if err := errors.ValidateSourceFilename(f.Name); err != nil {
			return nil, err
		}
		parser, err := r.ParserForFile(f.Name)
		if err != nil {
			logger.Warn("skipping file", "file", f.Name, "reason", errors.UserMessage(err))
			continue
		}
		hooks.OnParseStart(ctx, parser.Language(), f.Name)
		start := time.Now()
		d, err := parser.Parse(f.Content, f.Name)
		if err != nil {
			hooks.OnParseComplete(ctx, parser.Language(), f.Name, 0, time.Since(start), err)
			logger.Warn("parse failed, skipping file", "file", f.Name, "error", err)
			continue
		}
		hooks.OnParseComplete(ctx, parser.Language(), f.Name, d.ClassCount(), time.Since(start), nil)
		merged.Merge(d)
	}

	if merged.ClassCount() == 0 {
		return nil, errors.New(errors.ErrCodeEmptyDiagram, "no classes found in any input file")
	}
	return merged, nil
}
