package changelog

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
)

// Parse reads a whole changelog document and returns its records in
// document order. Parsing is fail-fast: the first malformed block aborts
// the parse and is returned as a *MalformedRecordError naming the block.
//
// Text before the first [id]: marker is not part of any record and is
// discarded.
func Parse(text string) ([]Record, error) {
	blocks, _ := splitBlocks(text)
	records := make([]Record, 0, len(blocks))

	for _, b := range blocks {
		rec, err := parseBlock(b)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, nil
}

// ParseLenient parses like Parse but skips malformed blocks instead of
// aborting. Every skipped block is reported in the returned error slice.
func ParseLenient(text string) ([]Record, []error) {
	blocks, _ := splitBlocks(text)
	records := make([]Record, 0, len(blocks))
	var errs []error

	for _, b := range blocks {
		rec, err := parseBlock(b)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		records = append(records, rec)
	}

	return records, errs
}

// Load reads and parses a changelog file from the given path.
func Load(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening changelog file: %w", err)
	}
	defer f.Close()

	return LoadFromReader(f)
}

// LoadFromReader reads and parses a changelog from an io.Reader.
func LoadFromReader(r io.Reader) ([]Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading changelog: %w", err)
	}
	return Parse(string(data))
}

// splitBlocks classifies every line and groups them into record blocks.
// A block starts at each line beginning with the record marker; lines
// before the first marker are returned separately as the preamble.
func splitBlocks(text string) ([]block, []line) {
	var blocks []block
	var preamble []line

	for i, raw := range strings.Split(text, lineBreak) {
		l := classifyLine(raw, i+1)
		if l.kind == lineMarker {
			blocks = append(blocks, block{index: len(blocks)})
		}
		if len(blocks) == 0 {
			preamble = append(preamble, l)
			continue
		}
		last := &blocks[len(blocks)-1]
		last.lines = append(last.lines, l)
	}

	return blocks, preamble
}

// Serialize renders records as a full document, newest first. Records with
// the same date keep their relative order. The input slice is not modified.
func Serialize(records []Record) string {
	var b strings.Builder
	for _, r := range SortByCreated(records) {
		writeRecord(&b, r)
	}
	return b.String()
}

// WriteDocument writes the serialized document to w.
func WriteDocument(w io.Writer, records []Record) error {
	_, err := io.WriteString(w, Serialize(records))
	return err
}

// SortByCreated returns a copy of records stably sorted by Created, most
// recent first.
func SortByCreated(records []Record) []Record {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b Record) int {
		return b.Created.Compare(a.Created)
	})
	return sorted
}

// IsCanonical reports whether text is exactly what Serialize would produce
// for the records it contains.
func IsCanonical(text string) (bool, error) {
	records, err := Parse(text)
	if err != nil {
		return false, err
	}
	return Serialize(records) == text, nil
}

// ValidateRecord checks that a record can be serialized and parsed back
// without loss. Returns nil if valid, or a ValidationError if invalid.
func ValidateRecord(r Record) error {
	if r.ID == "" {
		return &ValidationError{Field: "id", Message: "required field is empty"}
	}
	if r.ID != strings.TrimSpace(r.ID) || hasLineBreak(r.ID) {
		return &ValidationError{Field: "id", Message: "must be a single line without surrounding whitespace"}
	}

	if strings.TrimSpace(r.Title) == "" {
		return &ValidationError{Field: "title", Message: "required field is empty"}
	}
	if hasLineBreak(r.Title) {
		return &ValidationError{Field: "title", Message: "must be a single line"}
	}

	if err := validateDate(r.Created); err != nil {
		return err
	}

	for _, c := range Categories() {
		for i, entry := range r.Entries(c) {
			field := fmt.Sprintf("%s[%d]", c, i)
			if strings.TrimSpace(entry) == "" {
				return &ValidationError{Field: field, Message: "change entry cannot be empty"}
			}
			if hasLineBreak(entry) {
				return &ValidationError{Field: field, Message: "change entry must be a single line"}
			}
		}
	}

	return nil
}

// validateDate checks that the date survives a format/parse round trip.
func validateDate(d Date) error {
	if d.Year < 0 {
		return &ValidationError{Field: "created", Message: fmt.Sprintf("year %d out of range", d.Year)}
	}
	parsed, err := ParseDate(FormatDate(d))
	if err != nil || parsed != d {
		return &ValidationError{Field: "created", Message: fmt.Sprintf("invalid date %s", FormatDate(d))}
	}
	return nil
}

func hasLineBreak(s string) bool {
	return strings.ContainsAny(s, "\r\n")
}
