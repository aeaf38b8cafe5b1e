package bible

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"

	"golang.org/x/sync/errgroup"
)

var ErrChapterNotFound = errors.New("chapter not found")

type (
	// Verse is a raw verse as stored in the corpus files. Number is usually
	// a positive integer as a string, but may be the continuation marker "#"
	// or a range like "2-4" when the translation merged several verses.
	Verse struct {
		Number string `json:"number"`
		Text   string `json:"text"`
	}

	Chapter []Verse

	Book struct {
		Name     string             `json:"name"`
		Chapters map[string]Chapter `json:"chapters"`
	}

	// Corpus is a whole translation keyed by 3-letter uppercase book code.
	Corpus map[string]Book

	// Library holds the two parallel translations: the reference-language
	// text used as the alignment anchor and the target-language text being
	// studied.
	Library struct {
		Reference Corpus
		Target    Corpus
	}
)

// bookOrder is the canonical ordering used for cross-book navigation.
// Books absent from the loaded corpus are skipped.
var bookOrder = []string{
	"GEN", "EXO", "LEV", "NUM", "DEU", "JOS", "JDG", "RUT",
	"1SA", "2SA", "1KI", "2KI", "1CH", "2CH", "EZR", "NEH",
	"EST", "JOB", "PSA", "PRO", "ECC", "SNG", "ISA", "JER",
	"LAM", "EZK", "DAN", "HOS", "JOL", "AMO", "OBA", "JON",
	"MIC", "NAM", "HAB", "ZEP", "HAG", "ZEC", "MAL",
	"MAT", "MRK", "LUK", "JHN", "ACT", "ROM", "1CO", "2CO",
	"GAL", "EPH", "PHP", "COL", "1TH", "2TH", "1TI", "2TI",
	"TIT", "PHM", "HEB", "JAS", "1PE", "2PE", "1JN", "2JN",
	"3JN", "JUD", "REV",
}

// Load reads both translations from disk. The two files are independent, so
// they are parsed concurrently.
func Load(ctx context.Context, referencePath, targetPath string) (*Library, error) {
	var lib Library

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		corpus, err := loadCorpus(referencePath)
		if err != nil {
			return fmt.Errorf("load reference corpus: %w", err)
		}
		lib.Reference = corpus
		return nil
	})
	g.Go(func() error {
		corpus, err := loadCorpus(targetPath)
		if err != nil {
			return fmt.Errorf("load target corpus: %w", err)
		}
		lib.Target = corpus
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &lib, nil
}

func loadCorpus(path string) (Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var corpus Corpus
	if err := json.Unmarshal(data, &corpus); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}

	return corpus, nil
}

// Books returns the loaded books in canonical order, with display names
// taken from the target-language translation.
func (l *Library) Books() []BookInfo {
	res := make([]BookInfo, 0, len(l.Reference))
	for _, code := range bookOrder {
		book, ok := l.Reference[code]
		if !ok {
			continue
		}
		name := book.Name
		if target, ok := l.Target[code]; ok && target.Name != "" {
			name = target.Name
		}
		res = append(res, BookInfo{
			Code:     code,
			Name:     name,
			Chapters: chapterNumbers(book.Chapters),
		})
	}
	return res
}

type BookInfo struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Chapters []int  `json:"chapters"`
}

// HasBook reports whether the reference corpus contains the given book code.
func (l *Library) HasBook(code string) bool {
	_, ok := l.Reference[code]
	return ok
}

func chapterNumbers(chapters map[string]Chapter) []int {
	nums := make([]int, 0, len(chapters))
	for key := range chapters {
		n, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		nums = append(nums, n)
	}
	sort.Ints(nums)
	return nums
}
