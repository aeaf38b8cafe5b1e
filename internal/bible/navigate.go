package bible

import "strconv"

// neighbors computes the previous/next chapter locations for book/chapter,
// crossing book boundaries in canonical order. A nil location means the edge
// of the library.
func (l *Library) neighbors(book string, chapter int) (prev, next *Location) {
	if chapter > 1 {
		prev = &Location{Book: book, Chapter: chapter - 1}
	} else if code, ok := l.previousBook(book); ok {
		last := lastChapter(l.Reference[code].Chapters)
		if last > 0 {
			prev = &Location{Book: code, Chapter: last}
		}
	}

	if _, ok := l.Reference[book].Chapters[strconv.Itoa(chapter+1)]; ok {
		next = &Location{Book: book, Chapter: chapter + 1}
	} else if code, ok := l.nextBook(book); ok {
		next = &Location{Book: code, Chapter: 1}
	}

	return prev, next
}

func (l *Library) previousBook(book string) (string, bool) {
	idx := bookIndex(book)
	for i := idx - 1; i >= 0; i-- {
		if _, ok := l.Reference[bookOrder[i]]; ok {
			return bookOrder[i], true
		}
	}
	return "", false
}

func (l *Library) nextBook(book string) (string, bool) {
	idx := bookIndex(book)
	if idx < 0 {
		return "", false
	}
	for i := idx + 1; i < len(bookOrder); i++ {
		if _, ok := l.Reference[bookOrder[i]]; ok {
			return bookOrder[i], true
		}
	}
	return "", false
}

func bookIndex(book string) int {
	for i, code := range bookOrder {
		if code == book {
			return i
		}
	}
	return -1
}

func lastChapter(chapters map[string]Chapter) int {
	last := 0
	for key := range chapters {
		n, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		if n > last {
			last = n
		}
	}
	return last
}
