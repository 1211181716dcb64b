package services

import (
	"strings"
	"unicode/utf8"
)

type TextChunker interface {
	ChunkText(text string, maxChunkSize int, overlap int) []string
}

type textChunker struct{}

func NewTextChunker() TextChunker {
	return &textChunker{}
}

// ChunkText packs paragraphs into chunks of at most maxChunkSize runes.
// Paragraphs longer than a chunk are split on sentence boundaries, and
// sentences longer than a chunk are hard-split. Each chunk after the first
// starts with the last overlap runes of its predecessor.
func (tc *textChunker) ChunkText(text string, maxChunkSize int, overlap int) []string {
	if maxChunkSize <= 0 {
		maxChunkSize = 1000
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= maxChunkSize {
		overlap = maxChunkSize / 4
	}

	var pieces []string
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		if utf8.RuneCountInString(para) <= maxChunkSize {
			pieces = append(pieces, para)
			continue
		}
		for _, sentence := range splitIntoSentences(para) {
			pieces = append(pieces, hardSplit(sentence, maxChunkSize)...)
		}
	}

	var (
		chunks     []string
		current    []string
		size       int
		hasContent bool
	)
	sep := func() int {
		if len(current) > 0 {
			return 2
		}
		return 0
	}
	flush := func() {
		chunk := strings.Join(current, "\n\n")
		chunks = append(chunks, chunk)

		current, size, hasContent = nil, 0, false
		if tail := lastRunes(chunk, overlap); tail != "" {
			current = []string{tail}
			size = utf8.RuneCountInString(tail)
		}
	}

	for _, piece := range pieces {
		n := utf8.RuneCountInString(piece)
		if hasContent && size+sep()+n > maxChunkSize {
			flush()
		}
		// The overlap alone may not leave room for the piece.
		if size+sep()+n > maxChunkSize {
			current, size = nil, 0
		}
		size += sep() + n
		current = append(current, piece)
		hasContent = true
	}

	if hasContent {
		chunks = append(chunks, strings.Join(current, "\n\n"))
	}

	return chunks
}

// splitIntoSentences splits on terminal punctuation, keeping the mark.
func splitIntoSentences(text string) []string {
	var (
		sentences []string
		start     int
	)
	for i, r := range text {
		if r == '.' || r == '!' || r == '?' {
			if s := strings.TrimSpace(text[start : i+1]); s != "" {
				sentences = append(sentences, s)
			}
			start = i + 1
		}
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

func hardSplit(text string, size int) []string {
	runes := []rune(text)
	if len(runes) <= size {
		return []string{text}
	}

	var parts []string
	for len(runes) > 0 {
		n := size
		if n > len(runes) {
			n = len(runes)
		}
		parts = append(parts, string(runes[:n]))
		runes = runes[n:]
	}
	return parts
}

func lastRunes(text string, n int) string {
	if n <= 0 {
		return ""
	}

	runes := []rune(text)
	if len(runes) <= n {
		return text
	}

	return string(runes[len(runes)-n:])
}
