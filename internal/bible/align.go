package bible

import (
	"sort"
	"strconv"
	"strings"
)

type (
	// Token is a single clickable word of target-language text. Lookup is
	// the dictionary form with punctuation stripped but apostrophes kept.
	Token struct {
		Text   string `json:"text"`
		Lookup string `json:"lookup"`
	}

	ReferenceVerse struct {
		Number string `json:"number"`
		Text   string `json:"text"`
	}

	TargetVerse struct {
		Number string  `json:"number"`
		Text   string  `json:"text"`
		Tokens []Token `json:"tokens"`
	}

	// Row pairs the reference verses covered by one target-language verse
	// (or verse range) with that verse.
	Row struct {
		Key       string           `json:"key"`
		Reference []ReferenceVerse `json:"reference"`
		Target    TargetVerse      `json:"target"`
	}

	Location struct {
		Book    string `json:"book"`
		Chapter int    `json:"chapter"`
	}

	ChapterView struct {
		Book     string    `json:"book"`
		BookName string    `json:"book_name"`
		Chapter  int       `json:"chapter"`
		Rows     []Row     `json:"rows"`
		Previous *Location `json:"previous,omitempty"`
		Next     *Location `json:"next,omitempty"`
	}

	verseRange struct {
		start, end int
		verse      ProcessedVerse
	}
)

// AlignChapter builds the merged, navigable view for one book/chapter.
// Returns ErrChapterNotFound when either translation lacks the chapter.
func (l *Library) AlignChapter(book string, chapter int) (*ChapterView, error) {
	book = strings.ToUpper(book)
	key := strconv.Itoa(chapter)

	reference := ResolveContinuations(l.Reference[book].Chapters[key])
	target := ResolveContinuations(l.Target[book].Chapters[key])
	if len(reference) == 0 || len(target) == 0 {
		return nil, ErrChapterNotFound
	}

	ranges := collectRanges(target)
	rows := make([]Row, 0, len(reference))
	for _, verse := range reference {
		num, err := strconv.Atoi(verse.Number)
		if err != nil {
			// Non-numeric reference verse: emit it standalone.
			rows = append(rows, newRow(verse.Key, []ProcessedVerse{verse}, findByNumber(target, verse.Number)))
			continue
		}

		if rng, ok := findRange(ranges, num); ok {
			if num > rng.start {
				// Covered by the row already emitted for the range anchor.
				continue
			}
			rows = append(rows, newRow(verse.Key, versesWithin(reference, rng.start, rng.end), &rng.verse))
			continue
		}

		rows = append(rows, newRow(verse.Key, []ProcessedVerse{verse}, findByNumber(target, verse.Number)))
	}

	name := l.Target[book].Name
	if name == "" {
		name = l.Reference[book].Name
	}

	prev, next := l.neighbors(book, chapter)
	return &ChapterView{
		Book:     book,
		BookName: name,
		Chapter:  chapter,
		Rows:     rows,
		Previous: prev,
		Next:     next,
	}, nil
}

func newRow(key string, reference []ProcessedVerse, target *ProcessedVerse) Row {
	refs := make([]ReferenceVerse, len(reference))
	for i, v := range reference {
		refs[i] = ReferenceVerse{Number: v.Number, Text: v.Text}
	}

	row := Row{Key: key, Reference: refs}
	if target != nil {
		row.Target = TargetVerse{
			Number: target.Number,
			Text:   target.Text,
			Tokens: Tokenize(target.Text),
		}
	}
	return row
}

// collectRanges extracts "start-end" entries, sorted by start ascending so
// that the lowest start wins when ranges overlap; ties keep chapter order.
func collectRanges(verses []ProcessedVerse) []verseRange {
	ranges := make([]verseRange, 0, 2)
	for _, v := range verses {
		start, end, ok := parseRange(v.Number)
		if !ok {
			continue
		}
		ranges = append(ranges, verseRange{start: start, end: end, verse: v})
	}
	sort.SliceStable(ranges, func(i, j int) bool { return ranges[i].start < ranges[j].start })
	return ranges
}

func findRange(ranges []verseRange, num int) (verseRange, bool) {
	for _, r := range ranges {
		if num >= r.start && num <= r.end {
			return r, true
		}
	}
	return verseRange{}, false
}

func parseRange(number string) (start, end int, ok bool) {
	before, after, found := strings.Cut(number, "-")
	if !found {
		return 0, 0, false
	}
	start, err := strconv.Atoi(before)
	if err != nil {
		return 0, 0, false
	}
	end, err = strconv.Atoi(after)
	if err != nil {
		return 0, 0, false
	}
	return start, end, true
}

func findByNumber(verses []ProcessedVerse, number string) *ProcessedVerse {
	for i := range verses {
		if verses[i].Number == number {
			return &verses[i]
		}
	}
	return nil
}

func versesWithin(verses []ProcessedVerse, start, end int) []ProcessedVerse {
	res := make([]ProcessedVerse, 0, end-start+1)
	for n := start; n <= end; n++ {
		if v := findByNumber(verses, strconv.Itoa(n)); v != nil {
			res = append(res, *v)
		}
	}
	return res
}

// Tokenize splits target-language text into clickable word tokens. The
// lookup form strips sentence punctuation and curly quotes but keeps both
// the straight apostrophe and the glottal stop ʻ, which are phonemic in
// Tongan.
func Tokenize(text string) []Token {
	if text == "" {
		return nil
	}

	words := strings.Split(text, " ")
	tokens := make([]Token, 0, len(words))
	for _, word := range words {
		tokens = append(tokens, Token{
			Text:   word,
			Lookup: CleanWord(word),
		})
	}
	return tokens
}

const strippedPunctuation = ".,!?;:\"“”"

func CleanWord(word string) string {
	cleaned := strings.Map(func(r rune) rune {
		if strings.ContainsRune(strippedPunctuation, r) {
			return -1
		}
		return r
	}, word)
	return strings.TrimSpace(cleaned)
}
