package modifications

import "strings"

const (
	recordSeparatorConstant        = "\x00"
	statusRecordMinimumLength      = 4
	statusRecordPathOffsetConstant = 3
)

// ChangeRecord is one entry of `git diff --name-status -z` output.
type ChangeRecord struct {
	Status byte
	Path   string
}

// StatusRecord is one entry of `git status --porcelain=v1 -z` output.
type StatusRecord struct {
	Index    byte
	WorkTree byte
	Path     string
}

// parseChangeRecords splits NUL-terminated name-status output into records.
// Rename and copy records carry a second path, which is skipped.
func parseChangeRecords(output string) []ChangeRecord {
	tokens := splitRecords(output)
	records := make([]ChangeRecord, 0, len(tokens)/2)
	for tokenIndex := 0; tokenIndex+1 < len(tokens); tokenIndex += 2 {
		statusToken := tokens[tokenIndex]
		if len(statusToken) == 0 {
			continue
		}
		record := ChangeRecord{Status: statusToken[0], Path: tokens[tokenIndex+1]}
		records = append(records, record)
		if record.Status == statusCodeRenamedConstant || record.Status == statusCodeCopiedConstant {
			tokenIndex++
		}
	}
	return records
}

// parseStatusRecords splits porcelain v1 output into records. Renamed and
// copied entries are followed by their original path, which is skipped.
func parseStatusRecords(output string) []StatusRecord {
	tokens := splitRecords(output)
	records := make([]StatusRecord, 0, len(tokens))
	for tokenIndex := 0; tokenIndex < len(tokens); tokenIndex++ {
		token := tokens[tokenIndex]
		if len(token) < statusRecordMinimumLength {
			continue
		}
		record := StatusRecord{Index: token[0], WorkTree: token[1], Path: token[statusRecordPathOffsetConstant:]}
		records = append(records, record)
		if record.Index == statusCodeRenamedConstant || record.Index == statusCodeCopiedConstant {
			tokenIndex++
		}
	}
	return records
}

func splitRecords(output string) []string {
	trimmed := strings.TrimSuffix(output, recordSeparatorConstant)
	if len(trimmed) == 0 {
		return nil
	}
	return strings.Split(trimmed, recordSeparatorConstant)
}
