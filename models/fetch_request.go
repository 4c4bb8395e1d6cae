package models

import "fmt"

const (
	DefaultMaxLength  = 5000
	MaxLengthLimit    = 1_000_000
	DefaultStartIndex = 0
)

// Window is the slice of normalized content a caller asked for.
type Window struct {
	// MaxLength is the number of characters to return, 0 < MaxLength < MaxLengthLimit.
	MaxLength int `json:"max_length" yaml:"max_length"`
	// StartIndex is the zero-based character offset to start from.
	StartIndex int `json:"start_index" yaml:"start_index"`
}

// FetchRequest is a validated scrapling-fetch call. It is built once per
// invocation and never mutated afterwards.
type FetchRequest struct {
	URL    string `json:"url" yaml:"url"`
	Mode   Mode   `json:"mode" yaml:"mode"`
	Format Format `json:"format" yaml:"format"`
	Window
}

// ParseFetchRequest validates a raw argument bundle. All problems are
// reported together in a *ValidationError.
func ParseFetchRequest(args map[string]any) (*FetchRequest, error) {
	r := newArgReader(args)
	req := &FetchRequest{
		URL:    r.requiredString("url"),
		Mode:   r.mode("mode"),
		Format: r.format("format", FormatMarkdown, FormatHTML, FormatMarkdown),
		Window: r.window(),
	}
	if err := r.err("UrlFetchRequest"); err != nil {
		return nil, err
	}
	return req, nil
}

func (r *argReader) mode(field string) Mode {
	raw := r.optionalString(field, string(ModeBasic))
	m := Mode(raw)
	if !m.Valid() {
		r.fail(field, "unsupported mode %q, expected one of basic, stealth, max-stealth", raw)
		return ModeBasic
	}
	return m
}

// format reads an output format restricted to the allowed set.
func (r *argReader) format(field string, def Format, allowed ...Format) Format {
	raw := r.optionalString(field, string(def))
	for _, f := range allowed {
		if Format(raw) == f {
			return f
		}
	}
	r.fail(field, "unsupported format %q, expected one of %s", raw, joinFormats(allowed))
	return def
}

func (r *argReader) window() Window {
	w := Window{MaxLength: DefaultMaxLength, StartIndex: DefaultStartIndex}

	if n, ok := r.optionalInt("max_length", DefaultMaxLength); ok {
		switch {
		case n <= 0:
			r.fail("max_length", "input should be greater than 0, got %d", n)
		case n >= MaxLengthLimit:
			r.fail("max_length", "input should be less than %d, got %d", MaxLengthLimit, n)
		default:
			w.MaxLength = n
		}
	}

	if n, ok := r.optionalInt("start_index", DefaultStartIndex); ok {
		if n < 0 {
			r.fail("start_index", "input should be greater than or equal to 0, got %d", n)
		} else {
			w.StartIndex = n
		}
	}
	return w
}

func joinFormats(formats []Format) string {
	var s string
	for i, f := range formats {
		if i > 0 {
			s += ", "
		}
		s += string(f)
	}
	return s
}

func (req *FetchRequest) String() string {
	return fmt.Sprintf("%s mode=%s format=%s start=%d max=%d", req.URL, req.Mode, req.Format, req.StartIndex, req.MaxLength)
}
