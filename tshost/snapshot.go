package tshost

// Snapshot is an immutable view of a file's text at one version.
type Snapshot interface {
	GetText(start, end int) string
	GetLength() int
}

// StringSnapshot is a Snapshot over an in-memory string.
type StringSnapshot string

func (s StringSnapshot) GetText(start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(s) {
		end = len(s)
	}
	if start >= end {
		return ""
	}
	return string(s[start:end])
}

func (s StringSnapshot) GetLength() int {
	return len(s)
}

// FullText returns the complete text held by a snapshot.
func FullText(snapshot Snapshot) string {
	if snapshot == nil {
		return ""
	}
	return snapshot.GetText(0, snapshot.GetLength())
}
