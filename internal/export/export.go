// Package export writes reconstructed conversations and raw store dumps to
// JSON files.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/solvaholic/teamsmine/internal/teams"
)

// Output formats.
const (
	FormatJSON  = "json"
	FormatJSONL = "jsonl"
)

// WriteConversations writes convs to path, as an indented JSON array or as
// one JSON object per line.
func WriteConversations(path string, convs []teams.Conversation, format string) error {
	if convs == nil {
		convs = []teams.Conversation{}
	}

	var data []byte
	switch format {
	case FormatJSON, "":
		out, err := json.MarshalIndent(convs, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal conversations: %w", err)
		}
		data = append(out, '\n')
	case FormatJSONL:
		var buf bytes.Buffer
		for i := range convs {
			line, err := json.Marshal(&convs[i])
			if err != nil {
				return fmt.Errorf("failed to marshal conversation %s: %w", convs[i].ID, err)
			}
			buf.Write(line)
			buf.WriteByte('\n')
		}
		data = buf.Bytes()
	default:
		return fmt.Errorf("unsupported export format: %s", format)
	}

	return writeFileAtomic(path, data)
}

// LoadConversations reads a file written by WriteConversations. The format
// is detected from the first non-space byte.
func LoadConversations(path string) ([]teams.Conversation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var convs []teams.Conversation
		if err := json.Unmarshal(trimmed, &convs); err != nil {
			return nil, fmt.Errorf("failed to unmarshal conversations: %w", err)
		}
		return convs, nil
	}

	convs := []teams.Conversation{}
	for i, line := range bytes.Split(data, []byte("\n")) {
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		var c teams.Conversation
		if err := json.Unmarshal(line, &c); err != nil {
			return nil, fmt.Errorf("failed to unmarshal conversation on line %d: %w", i+1, err)
		}
		convs = append(convs, c)
	}
	return convs, nil
}

// writeFileAtomic writes to a temp file first, then renames.
func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename file: %w", err)
	}
	return nil
}
