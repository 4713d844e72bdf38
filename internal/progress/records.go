package progress

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ToRecord renders e as a store row.
func (e Entry) ToRecord() Record {
	return Record{
		ColumnTimestamp:   e.Timestamp,
		ColumnMood:        e.Mood,
		ColumnChallengeID: e.ChallengeID,
		ColumnPoints:      e.Points,
		ColumnTitle:       e.Title,
	}
}

// EntryFromRecord decodes a row. It never fails: missing text columns decode as empty and
// malformed points as zero.
func EntryFromRecord(rec Record) Entry {
	return Entry{
		Timestamp:   textField(rec[ColumnTimestamp]),
		Mood:        textField(rec[ColumnMood]),
		ChallengeID: textField(rec[ColumnChallengeID]),
		Points:      CoercePoints(rec[ColumnPoints]),
		Title:       textField(rec[ColumnTitle]),
	}
}

// EntriesFromRecords decodes rows preserving order; the result is never nil.
func EntriesFromRecords(records []Record) []Entry {
	entries := make([]Entry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, EntryFromRecord(rec))
	}
	return entries
}

func textField(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case time.Time:
		return t.UTC().Format(time.RFC3339Nano)
	default:
		return fmt.Sprint(t)
	}
}

// CoercePoints converts a stored points value to an integer, mapping anything non-numeric
// (including missing values, NaN and infinities) to zero.
func CoercePoints(v any) int {
	switch p := v.(type) {
	case int:
		return p
	case int32:
		return int(p)
	case int64:
		return int(p)
	case float32:
		return floatPoints(float64(p))
	case float64:
		return floatPoints(p)
	case json.Number:
		return stringPoints(p.String())
	case string:
		return stringPoints(p)
	case []byte:
		return stringPoints(string(p))
	default:
		return 0
	}
}

func stringPoints(s string) int {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return floatPoints(f)
}

func floatPoints(f float64) int {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int(f)
}

// AggregateTotal sums the points of entries.
func AggregateTotal(entries []Entry) int {
	total := 0
	for _, e := range entries {
		total += e.Points
	}
	return total
}

// Recent returns up to n of the last entries, most recent (by storage order) first.
func Recent(entries []Entry, n int) []Entry {
	if n <= 0 || len(entries) == 0 {
		return []Entry{}
	}
	if n > len(entries) {
		n = len(entries)
	}
	out := make([]Entry, 0, n)
	for i := len(entries) - 1; i >= len(entries)-n; i-- {
		out = append(out, entries[i])
	}
	return out
}
