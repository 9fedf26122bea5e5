package chunking

import (
	"strings"
	"unicode/utf8"
)

// Separators ordered from "best" to "worst" for semantic meaning.
// The empty separator is the hard cut between characters.
var defaultSeparators = []string{"\n\n", "\n", ". ", "! ", "? ", ", ", " ", ""}

// Sizes are measured in characters (Unicode code points), not bytes.
func textLength(s string) int {
	return utf8.RuneCountInString(s)
}

type splitter struct {
	size       int
	overlap    int
	separators []string
}

func newSplitter(size int, overlap int) *splitter {
	if size < 1 {
		size = 1
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= size {
		overlap = size - 1
	}
	return &splitter{size: size, overlap: overlap, separators: defaultSeparators}
}

// split drops chunks that are only whitespace, so a page is the join of its
// chunks up to those dropped blanks.
func (s *splitter) split(text string) []string {
	if text == "" {
		return nil
	}
	chunks := s.splitRecursive(text, s.separators)
	kept := chunks[:0]
	for _, c := range chunks {
		if strings.TrimSpace(c) != "" {
			kept = append(kept, c)
		}
	}
	return kept
}

func (s *splitter) splitRecursive(text string, separators []string) []string {
	if textLength(text) <= s.size {
		return []string{text}
	}

	separator := ""
	var rest []string
	for i, sep := range separators {
		if sep == "" {
			break
		}
		if strings.Contains(text, sep) {
			separator = sep
			rest = separators[i+1:]
			break
		}
	}

	var chunks []string
	var good []string
	for _, piece := range splitKeepSeparator(text, separator) {
		if textLength(piece) <= s.size {
			good = append(good, piece)
			continue
		}
		if len(good) > 0 {
			chunks = append(chunks, s.merge(good)...)
			good = nil
		}
		chunks = append(chunks, s.splitRecursive(piece, rest)...)
	}
	if len(good) > 0 {
		chunks = append(chunks, s.merge(good)...)
	}
	return chunks
}

// merge packs consecutive pieces into chunks of at most size characters.
// Each new chunk starts with a tail of the previous one no longer than overlap.
func (s *splitter) merge(pieces []string) []string {
	var chunks []string
	var current []string
	total := 0
	for _, piece := range pieces {
		n := textLength(piece)
		if total+n > s.size && len(current) > 0 {
			chunks = append(chunks, strings.Join(current, ""))
			for len(current) > 0 && (total > s.overlap || total+n > s.size) {
				total -= textLength(current[0])
				current = current[1:]
			}
		}
		current = append(current, piece)
		total += n
	}
	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, ""))
	}
	return chunks
}

// splitKeepSeparator splits text after every separator so that joining the
// result gives back text. An empty separator splits into characters.
func splitKeepSeparator(text string, separator string) []string {
	if separator == "" {
		pieces := make([]string, 0, textLength(text))
		for _, r := range text {
			pieces = append(pieces, string(r))
		}
		return pieces
	}
	pieces := strings.SplitAfter(text, separator)
	if pieces[len(pieces)-1] == "" {
		pieces = pieces[:len(pieces)-1]
	}
	return pieces
}
