// Package sentences turns sentence-split inline markup into plain text.
//
// The markup wraps each sentence in an <s> element below a single root:
//
//	<text><p><s>Hello.</s><s>World.</s></p></text>
//
// Plain text is the direct text of every <s> element, in document order,
// one sentence per line.
//
// Sentence elements holding only whitespace are dropped and take no index,
// so the indices in xtargets count non-blank sentences only.
package sentences

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// sentenceTag is the local name of sentence elements.
const sentenceTag = "s"

// ErrMalformed indicates the markup is not a single well-formed XML element.
var ErrMalformed = errors.New("malformed sentence markup")

// Extract returns the sentences of markup in document order.
// Sentence elements with no direct text are skipped. Text is NFC-normalised
// and inner line breaks are folded into spaces so that one sentence is
// always one line.
func Extract(markup string) ([]string, error) {
	dec := xml.NewDecoder(strings.NewReader(markup))
	dec.Strict = true

	var (
		sentences []string
		depth     int
		rootSeen  bool
		// open is true while collecting the leading text of an <s> element.
		open bool
		buf  strings.Builder
	)

	flush := func() {
		if !open {
			return
		}
		open = false
		if text := clean(buf.String()); text != "" {
			sentences = append(sentences, text)
		}
		buf.Reset()
	}

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if depth == 0 && rootSeen {
				return nil, fmt.Errorf("%w: content after root element", ErrMalformed)
			}
			flush()
			rootSeen = true
			// The root itself is never a sentence, only its descendants.
			if depth > 0 && t.Name.Space == "" && t.Name.Local == sentenceTag {
				open = true
			}
			depth++
		case xml.EndElement:
			flush()
			depth--
		case xml.CharData:
			if depth == 0 {
				if len(bytes.TrimSpace(t)) > 0 {
					return nil, fmt.Errorf("%w: text outside root element", ErrMalformed)
				}
				continue
			}
			if open {
				buf.Write(t)
			}
		}
	}

	if !rootSeen {
		return nil, fmt.Errorf("%w: no root element", ErrMalformed)
	}
	return sentences, nil
}

// PlainText derives the plain text of a document.
// Absent or malformed markup yields "" rather than an error: downstream,
// empty text means "unalignable", not an ingestion failure.
func PlainText(markup *string) string {
	if markup == nil || strings.TrimSpace(*markup) == "" {
		return ""
	}
	sentences, err := Extract(*markup)
	if err != nil {
		return ""
	}
	return strings.Join(sentences, "\n")
}

func clean(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	text = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(text)
	return norm.NFC.String(text)
}
