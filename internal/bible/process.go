package bible

import "fmt"

// ProcessedVerse is a verse with continuation lines folded into it. Key is a
// stable per-position identifier for rendering only.
type ProcessedVerse struct {
	Number string `json:"number"`
	Text   string `json:"text"`
	Key    string `json:"key"`
}

// ResolveContinuations folds "#" continuation entries into the preceding
// verse. A continuation with no verse to attach to is dropped. Input order
// is preserved.
func ResolveContinuations(verses Chapter) []ProcessedVerse {
	processed := make([]ProcessedVerse, 0, len(verses))
	var current *ProcessedVerse

	for i, verse := range verses {
		if verse.Number == continuationMarker {
			if current != nil {
				current.Text = current.Text + " " + verse.Text
			}
			continue
		}

		if current != nil {
			processed = append(processed, *current)
		}
		current = &ProcessedVerse{
			Number: verse.Number,
			Text:   verse.Text,
			Key:    fmt.Sprintf("verse-%d", i),
		}
	}

	if current != nil {
		processed = append(processed, *current)
	}

	return processed
}

const continuationMarker = "#"
