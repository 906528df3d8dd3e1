package asset

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
)

// SourceFile is an immutable named text source, kept around so decode and
// parse failures can point at a file name and position the way a compiler
// would.
type SourceFile struct {
	name   string
	source string
}

// NewSourceFile wraps a name (usually a path or URL) and its contents.
func NewSourceFile(name, source string) *SourceFile {
	return &SourceFile{name: name, source: source}
}

// NewEmptySourceFile returns a SourceFile with the given name and no
// contents.
func NewEmptySourceFile(name string) *SourceFile {
	return NewSourceFile(name, "")
}

// Name returns the display name of the source.
func (s *SourceFile) Name() string { return s.name }

// Source returns the text contents.
func (s *SourceFile) Source() string { return s.source }

// Span is a half-open byte range into a SourceFile's contents.
type Span struct {
	Start int
	End   int
}

// SpanForLineCol converts a 1-based line/column position into a one-byte
// Span. Positions that underflow, overflow, or fall outside the source
// report ok=false; this is a linear scan, so keep it on error paths.
func (s *SourceFile) SpanForLineCol(line, col int) (span Span, ok bool) {
	if line < 1 || col < 1 {
		return Span{}, false
	}
	offset := 0
	for cur := 1; ; cur++ {
		rest := s.source[offset:]
		nl := strings.IndexByte(rest, '\n')
		if cur == line {
			lineLen := nl
			if nl < 0 {
				lineLen = len(rest)
			}
			if col > lineLen {
				return Span{}, false
			}
			start := offset + col - 1
			end := start + 1
			if end >= len(s.source) {
				return Span{}, false
			}
			return Span{Start: start, End: end}, true
		}
		if nl < 0 {
			return Span{}, false
		}
		offset += nl + 1
	}
}

// LineColForOffset converts a byte offset into a 1-based line/column
// position.
func (s *SourceFile) LineColForOffset(offset int) (line, col int) {
	if offset > len(s.source) {
		offset = len(s.source)
	}
	seen := s.source[:offset]
	line = strings.Count(seen, "\n") + 1
	col = offset - strings.LastIndexByte(seen, '\n')
	return line, col
}

// DecodeJSON unmarshals the source as JSON into v. Syntax and type errors
// are annotated with the source name and the line/column recovered from
// the decoder's byte offset.
func (s *SourceFile) DecodeJSON(v any) error {
	err := json.Unmarshal([]byte(s.source), v)
	if err == nil {
		return nil
	}
	offset := int64(-1)
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxErr):
		offset = syntaxErr.Offset
	case errors.As(err, &typeErr):
		offset = typeErr.Offset
	}
	if offset >= 0 {
		line, col := s.LineColForOffset(int(offset))
		return fmt.Errorf("%s:%d:%d: decode json: %w", s.name, line, col, err)
	}
	return fmt.Errorf("%s: decode json: %w", s.name, err)
}

// DecodeYAML unmarshals the source as YAML into v. The yaml library's
// errors already carry position and an annotated source excerpt; only the
// source name is added.
func (s *SourceFile) DecodeYAML(v any) error {
	if err := yaml.Unmarshal([]byte(s.source), v); err != nil {
		return fmt.Errorf("%s: decode yaml: %w", s.name, err)
	}
	return nil
}
