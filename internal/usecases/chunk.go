package usecases

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// SplitText cuts text into pieces of at most limit bytes, preferring sentence
// ends, then word boundaries, and only then rune boundaries. Whitespace between
// pieces is dropped. A limit <= 0 returns the text whole.
func SplitText(text string, limit int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if limit <= 0 || len(text) <= limit {
		return []string{text}
	}

	var chunks []string
	var current strings.Builder
	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			chunks = append(chunks, s)
		}
		current.Reset()
	}
	appendPiece := func(piece string) bool {
		sep := ""
		if current.Len() > 0 {
			sep = separatorAfter(current.String())
		}
		if current.Len()+len(sep)+len(piece) > limit {
			return false
		}
		current.WriteString(sep)
		current.WriteString(piece)
		return true
	}

	for _, sentence := range splitSentences(text) {
		if appendPiece(sentence) {
			continue
		}
		flush()
		if appendPiece(sentence) {
			continue
		}
		for _, word := range strings.Fields(sentence) {
			if appendPiece(word) {
				continue
			}
			flush()
			if appendPiece(word) {
				continue
			}
			chunks = append(chunks, cutRunes(word, limit)...)
		}
	}
	flush()
	return chunks
}

// JoinChunks reassembles pieces produced from SplitText output. A piece ending
// in a CJK sentence mark is followed directly by the next; others get a space.
func JoinChunks(parts []string) string {
	var b strings.Builder
	prev := ""
	for _, p := range parts {
		if b.Len() > 0 {
			b.WriteString(separatorAfter(prev))
		}
		b.WriteString(p)
		prev = p
	}
	return b.String()
}

func separatorAfter(s string) string {
	r, _ := utf8.DecodeLastRuneInString(s)
	if isCJKEnd(r) {
		return ""
	}
	return " "
}

// splitSentences breaks after '.', '!', '?' (and their CJK forms) followed by space.
func splitSentences(text string) []string {
	var out []string
	start := 0
	runes := []rune(text)
	offset := 0
	for i, r := range runes {
		size := utf8.RuneLen(r)
		end := offset + size
		if isSentenceEnd(r) && (i+1 == len(runes) || unicode.IsSpace(runes[i+1]) || isCJKEnd(r)) {
			if s := strings.TrimSpace(text[start:end]); s != "" {
				out = append(out, s)
			}
			start = end
		}
		offset = end
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		out = append(out, s)
	}
	return out
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?' || isCJKEnd(r)
}

func isCJKEnd(r rune) bool {
	return r == '。' || r == '！' || r == '？'
}

func cutRunes(s string, limit int) []string {
	var out []string
	for len(s) > limit {
		cut := limit
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		if cut == 0 {
			_, cut = utf8.DecodeRuneInString(s)
		}
		out = append(out, s[:cut])
		s = s[cut:]
	}
	if s != "" {
		out = append(out, s)
	}
	return out
}
