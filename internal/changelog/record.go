package changelog

import (
	"strings"
)

const (
	// RecordMarker starts every record block. It is a document delimiter and
	// not part of the id.
	RecordMarker = "[id]:"

	titlePrefix   = "# "
	bulletPrefix  = "- "
	dateSeparator = " - "
	lineBreak     = "\n"
)

// lineKind classifies one physical line of the document.
type lineKind int

const (
	lineBlank lineKind = iota
	lineMarker
	lineTitle
	lineSection
	lineBullet
	lineText
)

// line is a classified document line. payload holds the text after the
// line's prefix (id, title/date, or bullet text).
type line struct {
	kind     lineKind
	num      int
	payload  string
	category Category
}

// classifyLine assigns a kind to a raw line. num is the one-based line number.
func classifyLine(raw string, num int) line {
	raw = strings.TrimSuffix(raw, "\r")
	l := line{num: num, payload: raw}

	switch {
	case strings.TrimSpace(raw) == "":
		l.kind = lineBlank
	case strings.HasPrefix(raw, RecordMarker):
		l.kind = lineMarker
		l.payload = raw[len(RecordMarker):]
	case isSectionHeader(raw):
		l.kind = lineSection
		l.category, _ = categoryForHeader(strings.TrimRight(raw, " \t"))
	case strings.HasPrefix(raw, bulletPrefix):
		l.kind = lineBullet
		l.payload = raw[len(bulletPrefix):]
	case raw == "-":
		// Editors strip the trailing space from an empty bullet.
		l.kind = lineBullet
		l.payload = ""
	case strings.HasPrefix(raw, titlePrefix):
		l.kind = lineTitle
		l.payload = raw[len(titlePrefix):]
	default:
		l.kind = lineText
	}

	return l
}

func isSectionHeader(raw string) bool {
	_, ok := categoryForHeader(strings.TrimRight(raw, " \t"))
	return ok
}

// block is the run of lines belonging to one record, starting at its marker.
type block struct {
	index int
	lines []line
}

// parseState tracks where the record parser is within a block.
type parseState int

const (
	expectMarker parseState = iota
	expectTitle
	inBody
)

// parseBlock converts one record block into a Record.
func parseBlock(b block) (Record, error) {
	rec := Record{}.Clone()
	state := expectMarker
	var section Category
	haveSection := false

	fail := func(l line, reason string, err error) (Record, error) {
		return Record{}, &MalformedRecordError{
			Block:  b.index,
			Line:   l.num,
			ID:     rec.ID,
			Reason: reason,
			Err:    err,
		}
	}

	for _, l := range b.lines {
		switch state {
		case expectMarker:
			if l.kind != lineMarker {
				return fail(l, "expected "+RecordMarker+" line", nil)
			}
			rec.ID = strings.TrimSpace(l.payload)
			if rec.ID == "" {
				return fail(l, "empty record id", nil)
			}
			state = expectTitle

		case expectTitle:
			switch l.kind {
			case lineBlank:
				continue
			case lineTitle:
				title, created, err := parseTitleLine(l.payload)
				if err != nil {
					return fail(l, "invalid title line", err)
				}
				rec.Title = title
				rec.Created = created
				state = inBody
			default:
				return fail(l, "expected title line", nil)
			}

		case inBody:
			switch l.kind {
			case lineBlank:
				continue
			case lineSection:
				section = l.category
				haveSection = true
			case lineBullet:
				if !haveSection {
					return fail(l, "bullet outside of any section", nil)
				}
				rec.SetEntries(section, append(rec.Entries(section), l.payload))
			default:
				return fail(l, "unexpected line "+quoteLine(l.payload), nil)
			}
		}
	}

	if state != inBody {
		last := line{}
		if n := len(b.lines); n > 0 {
			last = b.lines[n-1]
		}
		return fail(last, "missing title line", nil)
	}

	return rec, nil
}

// parseTitleLine splits "title - M/D/YYYY" on the last separator so titles
// may themselves contain " - ".
func parseTitleLine(s string) (string, Date, error) {
	i := strings.LastIndex(s, dateSeparator)
	if i < 0 {
		return "", Date{}, &MalformedDateError{Value: s, Reason: "missing \" - \" date separator"}
	}
	created, err := ParseDate(strings.TrimSpace(s[i+len(dateSeparator):]))
	if err != nil {
		return "", Date{}, err
	}
	return s[:i], created, nil
}

func quoteLine(s string) string {
	const max = 40
	if len(s) > max {
		s = s[:max-3] + "..."
	}
	return `"` + s + `"`
}

// MarshalRecord renders one record block. Empty categories are omitted.
func MarshalRecord(r Record) string {
	var b strings.Builder
	writeRecord(&b, r)
	return b.String()
}

func writeRecord(b *strings.Builder, r Record) {
	b.WriteString(RecordMarker + r.ID + lineBreak)
	b.WriteString(titlePrefix + r.Title + dateSeparator + FormatDate(r.Created) + lineBreak)
	b.WriteString(lineBreak)

	for _, c := range Categories() {
		entries := r.Entries(c)
		if len(entries) == 0 {
			continue
		}
		b.WriteString(c.Header() + lineBreak)
		for _, e := range entries {
			b.WriteString(bulletPrefix + e + lineBreak)
		}
		b.WriteString(lineBreak)
	}
}

// ParseRecord parses a single record block.
func ParseRecord(text string) (Record, error) {
	blocks, _ := splitBlocks(text)
	if len(blocks) != 1 {
		return Record{}, &MalformedRecordError{
			Reason: "expected exactly one record block",
		}
	}
	return parseBlock(blocks[0])
}
