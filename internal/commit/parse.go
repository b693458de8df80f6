package commit

import (
	"bufio"
	"fmt"
	"strings"
)

// ParseChanges parses `svnlook changed` output into records, preserving order.
//
// Each line carries up to three status columns followed by whitespace and a path,
// e.g. "A   trunk/a.png", "_U  trunk/b.png", "A + trunk/c.png". The change
// status is the first of A, D or U found in the status columns, so
// property-only changes count as updates. A replaced path ("R") yields a
// Deleted record followed by an Added record. Blank lines are ignored.
func ParseChanges(out string) ([]ChangeRecord, error) {
	var records []ChangeRecord

	scanner := bufio.NewScanner(strings.NewReader(out))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		recs, err := ParseLine(line)
		if err != nil {
			return nil, err
		}
		records = append(records, recs...)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading change list: %w", err)
	}

	return records, nil
}

// ParseLine parses a single change line. It returns one record, or two for
// a replaced path.
func ParseLine(line string) ([]ChangeRecord, error) {
	token, rest, ok := strings.Cut(line, " ")
	if !ok || token == "" {
		return nil, &RecordError{Line: line, Reason: "missing status or path"}
	}

	var status Status
	replaced := false
	for _, c := range token {
		switch c {
		case 'A', 'D', 'U':
			if status == "" && !replaced {
				status = Status(string(c))
			}
		case 'R':
			if status == "" {
				replaced = true
			}
		case '_':
		default:
			return nil, &RecordError{Line: line, Reason: fmt.Sprintf("unexpected status column %q", c)}
		}
	}
	if status == "" && !replaced {
		return nil, &RecordError{Line: line, Reason: "no A, D, U or R status"}
	}

	p := strings.TrimSpace(rest)
	if copied, ok := strings.CutPrefix(p, "+ "); ok {
		// copy-with-history marker column
		p = strings.TrimSpace(copied)
	}
	if p == "" {
		return nil, &RecordError{Line: line, Reason: "empty path"}
	}

	if !replaced {
		rec, err := NewChangeRecord(status, p)
		if err != nil {
			return nil, err
		}
		return []ChangeRecord{rec}, nil
	}

	del, err := NewChangeRecord(Deleted, p)
	if err != nil {
		return nil, err
	}
	add, err := NewChangeRecord(Added, p)
	if err != nil {
		return nil, err
	}
	return []ChangeRecord{del, add}, nil
}
