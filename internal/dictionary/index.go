package dictionary

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var ErrNotFound = errors.New("word not found")

type (
	// Entry is one dictionary record: the Tongan headword as written in the
	// source and its English gloss.
	Entry struct {
		Tongan  string `json:"tongan"`
		English string `json:"english"`
	}

	// Index is an immutable-after-build lookup table over the TSV
	// dictionary. Build it once at startup and share it across requests.
	Index struct {
		entries map[string]Entry
	}
)

const (
	tsvWordColumn  = 1
	tsvGlossColumn = 7
)

// BuildIndexFromFile reads the tab-separated dictionary at path and builds
// the lookup index.
func BuildIndexFromFile(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dictionary: %w", err)
	}
	defer f.Close()

	return BuildIndex(f)
}

// BuildIndex parses TSV rows (headword at column 1, gloss at column 7,
// header row skipped). Entries containing " or " are exploded into one key
// per alternative, and apostrophe-normalized and apostrophe-stripped
// variants are indexed alongside the written form. The first write to a key
// wins, so a derived variant never shadows an exact headword seen earlier.
func BuildIndex(r io.Reader) (*Index, error) {
	entries := make(map[string]Entry)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		if lineNum == 1 {
			continue // header
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Split(line, "\t")
		if len(parts) <= tsvGlossColumn {
			continue
		}

		headword := strings.TrimSpace(parts[tsvWordColumn])
		gloss := strings.TrimSpace(parts[tsvGlossColumn])
		if headword == "" || gloss == "" {
			continue
		}

		entry := Entry{Tongan: headword, English: gloss}
		for _, word := range strings.Split(strings.ToLower(headword), " or ") {
			indexWord(entries, strings.TrimSpace(word), entry)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan dictionary: %w", err)
	}

	return &Index{entries: entries}, nil
}

func indexWord(entries map[string]Entry, word string, entry Entry) {
	if word == "" {
		return
	}

	put := func(key string) {
		if _, exists := entries[key]; !exists {
			entries[key] = entry
		}
	}

	put(word)

	if normalized := NormalizeApostrophes(word); normalized != word {
		put(normalized)
	}
	if stripped := stripApostrophes(word); stripped != word {
		put(stripped)
	}
	if strings.HasPrefix(word, "'") || strings.HasPrefix(word, "ʻ") {
		put(trimLeadingApostrophe(word))
	}
	// Headwords written with the toloi (ā ē ī ō ū) are also reachable
	// without it.
	if folded := FoldDiacritics(word); folded != word {
		put(folded)
	}
}

// Lookup resolves a word against the index: exact form first, then the
// apostrophe-normalized form, then the form without a leading apostrophe.
func (ix *Index) Lookup(word string) (Entry, bool) {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return Entry{}, false
	}

	if entry, ok := ix.entries[word]; ok {
		return entry, true
	}

	normalized := NormalizeApostrophes(word)
	if entry, ok := ix.entries[normalized]; ok {
		return entry, true
	}

	if strings.HasPrefix(normalized, "'") {
		if entry, ok := ix.entries[normalized[1:]]; ok {
			return entry, true
		}
	}

	if folded := FoldDiacritics(normalized); folded != normalized {
		if entry, ok := ix.entries[folded]; ok {
			return entry, true
		}
	}

	return Entry{}, false
}

// Size returns the number of indexed keys.
func (ix *Index) Size() int {
	return len(ix.entries)
}

// NormalizeApostrophes folds the Tongan glottal stop ʻ into a straight
// apostrophe so the two spellings resolve to the same entry.
func NormalizeApostrophes(word string) string {
	return strings.ReplaceAll(word, "ʻ", "'")
}

func stripApostrophes(word string) string {
	return strings.NewReplacer("'", "", "ʻ", "").Replace(word)
}

func trimLeadingApostrophe(word string) string {
	word = strings.TrimPrefix(word, "'")
	return strings.TrimPrefix(word, "ʻ")
}

// FoldDiacritics removes combining marks, mapping e.g. "māhina" to "mahina".
// The transformer chain carries internal buffers, so it is built per call.
func FoldDiacritics(word string) string {
	folder := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(folder, word)
	if err != nil {
		return word
	}
	return folded
}
