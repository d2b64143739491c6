package object

import (
	"strconv"
	"strings"
)

// blobPreviewLines bounds how much blob content is kept for node labels.
const blobPreviewLines = 3

// ParseCommitContent extracts outgoing links and the commit message from
// a commit's textual content.
//
// Links come from header lines naming the snapshot tree and the parent
// commits. Both the pretty-printed form ("Tree: <id>", "Parents: <id>
// <id>") and the raw form ("tree <id>", "parent <id>") are accepted; a
// parent header may carry several ids for merge commits. Links are
// returned in line order, which puts the tree link first in every
// backend observed.
//
// The message is the first paragraph after the blank line terminating
// the header block. Content with no blank line has an empty message.
func ParseCommitContent(content string) ([]Link, string) {
	lines := strings.Split(content, "\n")

	var links []Link
	headerEnd := len(lines)
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			headerEnd = i + 1
			break
		}
		key, rest, ok := strings.Cut(strings.TrimSpace(line), " ")
		if !ok {
			continue
		}
		switch strings.ToLower(strings.TrimSuffix(key, ":")) {
		case "tree", "parent", "parents", "parent(s)":
			for _, field := range strings.Fields(rest) {
				if IsHexHash(field) {
					links = append(links, Link{To: Hash(field)})
				}
			}
		}
	}

	var msg []string
	for _, line := range lines[headerEnd:] {
		if strings.TrimSpace(line) == "" {
			break
		}
		msg = append(msg, line)
	}
	return links, strings.TrimSpace(strings.Join(msg, "\n"))
}

// ParseTreeContent extracts one labeled link per tree entry line. The
// child id is the first full-hash field on the line and the label is
// everything after it, so both "<id> <path>" and git's
// "<mode> <type> <id>\t<path>" layouts parse. Lines with no hash or no
// path are skipped.
func ParseTreeContent(content string) []Link {
	var links []Link
	for _, line := range strings.Split(content, "\n") {
		id, pos := firstHashField(line)
		if id == "" {
			continue
		}
		path := strings.TrimSpace(line[pos:])
		if path == "" {
			continue
		}
		links = append(links, Link{To: id, Label: path})
	}
	return links
}

// ParseChunkIndexContent extracts one labeled link per chunk line. Each
// well-formed line carries a full hash (the chunk object) and an offset
// field, decimal or 0x-prefixed hex; labels are normalized to decimal.
// Lines missing either part are skipped.
func ParseChunkIndexContent(content string) []Link {
	var links []Link
	for _, line := range strings.Split(content, "\n") {
		id, _ := firstHashField(line)
		if id == "" {
			continue
		}
		offset, ok := firstOffsetField(line)
		if !ok {
			continue
		}
		links = append(links, Link{To: id, Label: strconv.FormatUint(offset, 10)})
	}
	return links
}

// BlobPreview truncates blob content to its first few lines for display.
func BlobPreview(content string) string {
	lines := strings.Split(content, "\n")
	if len(lines) > blobPreviewLines {
		lines = lines[:blobPreviewLines]
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

// firstHashField returns the first field of line that is a full object
// id, along with the byte offset just past it.
func firstHashField(line string) (Hash, int) {
	pos := 0
	for pos < len(line) {
		for pos < len(line) && (line[pos] == ' ' || line[pos] == '\t') {
			pos++
		}
		end := pos
		for end < len(line) && line[end] != ' ' && line[end] != '\t' {
			end++
		}
		if field := line[pos:end]; IsHexHash(field) {
			return Hash(field), end
		}
		pos = end
	}
	return "", 0
}

// firstOffsetField returns the first non-hash field of line that parses
// as an unsigned offset.
func firstOffsetField(line string) (uint64, bool) {
	for _, field := range strings.Fields(line) {
		if IsHexHash(field) {
			continue
		}
		base := 10
		digits := field
		if strings.HasPrefix(field, "0x") || strings.HasPrefix(field, "0X") {
			base = 16
			digits = field[2:]
		}
		if n, err := strconv.ParseUint(digits, base, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}
