// Package changelog provides the record model and text codec for janus changelogs.
//
// This package implements:
//   - The CHANGELOG.md record format ([id]: marker, title/date line, category sections)
//   - Parsing a document into records and serializing records back, newest first
//   - M/D/YYYY calendar date encoding
//   - Record validation, partial updates and query filtering
//   - Terminal formatting for CLI display
//
// Serialization is canonical: Serialize(Parse(Serialize(r))) is byte-for-byte
// equal to Serialize(r), and lines always end in "\n".
package changelog
