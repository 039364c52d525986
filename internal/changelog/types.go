package changelog

import (
	"fmt"
	"slices"
)

// Category identifies one of the fixed bullet sections of a record.
type Category int

const (
	Features Category = iota
	BugFixes
	Maintenance

	categoryCount
)

// categoryHeaders holds the section header line for each category.
// The array length pins the table to the category set at compile time.
var categoryHeaders = [categoryCount]string{
	Features:    "Features Added:",
	BugFixes:    "Bug Fixes:",
	Maintenance: "Maintenance:",
}

var categoryNames = [categoryCount]string{
	Features:    "features",
	BugFixes:    "bugfixes",
	Maintenance: "maintenance",
}

// Categories returns all categories in their rendering order.
func Categories() []Category {
	return []Category{Features, BugFixes, Maintenance}
}

// Header returns the section header line used in the document.
func (c Category) Header() string {
	if c < 0 || c >= categoryCount {
		return ""
	}
	return categoryHeaders[c]
}

// Label returns the header without its trailing colon.
func (c Category) Label() string {
	h := c.Header()
	if h == "" {
		return ""
	}
	return h[:len(h)-1]
}

func (c Category) String() string {
	if c < 0 || c >= categoryCount {
		return "unknown"
	}
	return categoryNames[c]
}

// categoryForHeader maps an exact section header line to its category.
func categoryForHeader(line string) (Category, bool) {
	for _, c := range Categories() {
		if categoryHeaders[c] == line {
			return c, true
		}
	}
	return 0, false
}

// ParseCategory resolves a user-supplied category name.
// Accepts the canonical names plus "fixes" and "maint" shorthands.
func ParseCategory(name string) (Category, error) {
	switch name {
	case "features", "feature":
		return Features, nil
	case "bugfixes", "fixes", "fix":
		return BugFixes, nil
	case "maintenance", "maint":
		return Maintenance, nil
	}
	return 0, &ValidationError{
		Field:   "category",
		Message: fmt.Sprintf("unknown category %q (expected: features, bugfixes, maintenance)", name),
	}
}

// Record is a single changelog entry: one [id]: block in the document.
// Category lists are never nil once a record leaves this package.
type Record struct {
	ID          string
	Title       string
	Created     Date
	Features    []string
	BugFixes    []string
	Maintenance []string
}

// Entries returns the bullet list for the given category.
func (r Record) Entries(c Category) []string {
	switch c {
	case Features:
		return r.Features
	case BugFixes:
		return r.BugFixes
	case Maintenance:
		return r.Maintenance
	}
	return nil
}

// SetEntries replaces the bullet list for the given category.
func (r *Record) SetEntries(c Category, entries []string) {
	switch c {
	case Features:
		r.Features = entries
	case BugFixes:
		r.BugFixes = entries
	case Maintenance:
		r.Maintenance = entries
	}
}

// Count returns the total number of bullets across all categories.
func (r Record) Count() int {
	return len(r.Features) + len(r.BugFixes) + len(r.Maintenance)
}

// Clone returns a deep copy with non-nil category lists.
func (r Record) Clone() Record {
	out := r
	for _, c := range Categories() {
		out.SetEntries(c, cloneEntries(r.Entries(c)))
	}
	return out
}

func cloneEntries(entries []string) []string {
	if entries == nil {
		return []string{}
	}
	return slices.Clone(entries)
}

// Patch is a partial record. Nil fields are left unchanged when applied.
// A patch never carries an id, so applying one cannot change record identity.
type Patch struct {
	Title       *string
	Created     *Date
	Features    *[]string
	BugFixes    *[]string
	Maintenance *[]string
}

// WithTitle returns a copy of the patch that sets the title.
func (p Patch) WithTitle(title string) Patch {
	p.Title = &title
	return p
}

// WithCreated returns a copy of the patch that sets the creation date.
func (p Patch) WithCreated(d Date) Patch {
	p.Created = &d
	return p
}

// WithEntries returns a copy of the patch that replaces one category list.
func (p Patch) WithEntries(c Category, entries []string) Patch {
	list := cloneEntries(entries)
	switch c {
	case Features:
		p.Features = &list
	case BugFixes:
		p.BugFixes = &list
	case Maintenance:
		p.Maintenance = &list
	}
	return p
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Created == nil &&
		p.Features == nil && p.BugFixes == nil && p.Maintenance == nil
}

// Apply merges the patch over r and returns the result. Supplied fields win.
// r itself is not modified.
func (p Patch) Apply(r Record) Record {
	out := r.Clone()
	if p.Title != nil {
		out.Title = *p.Title
	}
	if p.Created != nil {
		out.Created = *p.Created
	}
	if p.Features != nil {
		out.Features = cloneEntries(*p.Features)
	}
	if p.BugFixes != nil {
		out.BugFixes = cloneEntries(*p.BugFixes)
	}
	if p.Maintenance != nil {
		out.Maintenance = cloneEntries(*p.Maintenance)
	}
	return out
}
