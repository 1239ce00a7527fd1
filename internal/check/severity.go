package check

// Centralized severity and message helpers for preflight issues.
// Rules:
// - BLOCK when the table cannot be replicated as is
// - WARN when replication works but the result may surprise
// - INFO otherwise

const (
	SeverityInfo  = "INFO"
	SeverityWarn  = "WARN"
	SeverityBlock = "BLOCK"
)

// Issue kinds supported:
// "table_missing", "unsupported_type", "missing_primary_key", "bare_array"
func SeverityForIssue(kind string) string {
	switch kind {
	case "table_missing", "unsupported_type":
		return SeverityBlock
	case "missing_primary_key", "bare_array":
		return SeverityWarn
	default:
		return SeverityInfo
	}
}

// MessageForIssue returns a concise message for the given issue kind.
func MessageForIssue(kind, detail string) string {
	switch kind {
	case "table_missing":
		return "table configured for replication but missing in source"
	case "unsupported_type":
		return detail
	case "missing_primary_key":
		return "table has no primary key (updates and deletes cannot be merged)"
	case "bare_array":
		return "array column maps to a bare array without element type"
	default:
		return detail
	}
}

func rank(severity string) int {
	switch severity {
	case SeverityBlock:
		return 2
	case SeverityWarn:
		return 1
	default:
		return 0
	}
}
