// Package linkgrp reads and writes bitext alignment files in the linkGrp
// format:
//
//	<?xml version='1.0' encoding='utf-8'?>
//	<linkGrp toDoc='placeholder_toDoc.xml' fromDoc='placeholder_fromDoc.xml'>
//	<link type='1-1' xtargets='A:0;B:0' status='auto'/>
//	</linkGrp>
//
// Output is canonical: fixed attribute order (type, xtargets, status),
// single-quoted values, one element per line, links in the order given.
// Serializing the same links twice yields identical bytes.
package linkgrp

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/custodia-labs/eptalign/internal/core/domain"
)

// Placeholder document references written on the root element.
const (
	ToDocPlaceholder   = "placeholder_toDoc.xml"
	FromDocPlaceholder = "placeholder_fromDoc.xml"
)

// Declaration is the literal XML declaration that starts every file.
const Declaration = "<?xml version='1.0' encoding='utf-8'?>"

var attrEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"'", "&apos;",
	`"`, "&quot;",
	"\t", "&#9;",
	"\n", "&#10;",
	"\r", "&#13;",
)

// Serialize renders links as a canonical linkGrp document.
func Serialize(links []domain.AlignmentLink) []byte {
	var b bytes.Buffer
	b.WriteString(Declaration)
	b.WriteByte('\n')
	b.WriteString("<linkGrp")
	writeAttr(&b, "toDoc", ToDocPlaceholder)
	writeAttr(&b, "fromDoc", FromDocPlaceholder)
	if len(links) == 0 {
		b.WriteString("/>")
		return b.Bytes()
	}
	b.WriteString(">\n")
	for _, link := range links {
		b.WriteString("<link")
		writeAttr(&b, "type", link.Type())
		writeAttr(&b, "xtargets", link.XTargets())
		writeAttr(&b, "status", link.Status())
		b.WriteString("/>\n")
	}
	b.WriteString("</linkGrp>")
	return b.Bytes()
}

func writeAttr(b *bytes.Buffer, name, value string) {
	b.WriteByte(' ')
	b.WriteString(name)
	b.WriteString("='")
	b.WriteString(attrEscaper.Replace(value))
	b.WriteByte('\'')
}

// entry is one <link> element as stored on disk.
type entry struct {
	Type     string `xml:"type,attr"`
	XTargets string `xml:"xtargets,attr"`
	Status   string `xml:"status,attr"`
}

type document struct {
	XMLName xml.Name `xml:"linkGrp"`
	ToDoc   string   `xml:"toDoc,attr"`
	FromDoc string   `xml:"fromDoc,attr"`
	Links   []entry  `xml:"link"`
}

// parse reads the <link> elements of a linkGrp document, in file order.
func parse(data []byte) ([]entry, error) {
	var doc document
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	return doc.Links, nil
}

// ParseLinks reads a linkGrp document back into alignment links.
func ParseLinks(data []byte) ([]domain.AlignmentLink, error) {
	entries, err := parse(data)
	if err != nil {
		return nil, err
	}
	links := make([]domain.AlignmentLink, 0, len(entries))
	for i, e := range entries {
		link, err := parseXTargets(e.XTargets)
		if err != nil {
			return nil, fmt.Errorf("link %d: %w", i, err)
		}
		if link.Type() != e.Type {
			return nil, fmt.Errorf("link %d: %w: type %q does not match xtargets %q",
				i, domain.ErrInvalidInput, e.Type, e.XTargets)
		}
		links = append(links, link)
	}
	return links, nil
}

// parseXTargets decodes "A:0 A:1;B:0" into a link.
func parseXTargets(xtargets string) (domain.AlignmentLink, error) {
	src, tgt, ok := strings.Cut(xtargets, ";")
	if !ok {
		return domain.AlignmentLink{}, fmt.Errorf("%w: xtargets %q has no ';'", domain.ErrInvalidInput, xtargets)
	}
	var link domain.AlignmentLink
	var err error
	if link.SourceDoc, link.SourceIndices, err = parseSide(src); err != nil {
		return domain.AlignmentLink{}, err
	}
	if link.TargetDoc, link.TargetIndices, err = parseSide(tgt); err != nil {
		return domain.AlignmentLink{}, err
	}
	return link, nil
}

func parseSide(side string) (string, []int, error) {
	var doc string
	var indices []int
	for _, ref := range strings.Fields(side) {
		sep := strings.LastIndexByte(ref, ':')
		if sep <= 0 {
			return "", nil, fmt.Errorf("%w: reference %q", domain.ErrInvalidInput, ref)
		}
		idx, err := strconv.Atoi(ref[sep+1:])
		if err != nil || idx < 0 {
			return "", nil, fmt.Errorf("%w: reference %q", domain.ErrInvalidInput, ref)
		}
		if doc != "" && doc != ref[:sep] {
			return "", nil, fmt.Errorf("%w: mixed documents in %q", domain.ErrInvalidInput, side)
		}
		doc = ref[:sep]
		indices = append(indices, idx)
	}
	return doc, indices, nil
}
