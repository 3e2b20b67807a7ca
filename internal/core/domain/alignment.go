package domain

import (
	"strconv"
	"strings"
)

// LinkStatusAuto marks links produced by the aligner rather than a human.
const LinkStatusAuto = "auto"

// AlignmentLink is one correspondence between a group of source sentences
// and a group of target sentences.
type AlignmentLink struct {
	// SourceDoc is the document id the source indices refer to.
	SourceDoc string

	// TargetDoc is the document id the target indices refer to.
	TargetDoc string

	// SourceIndices are zero-based sentence indices, ascending.
	SourceIndices []int

	// TargetIndices are zero-based sentence indices, ascending.
	TargetIndices []int
}

// Type returns the bead shape, e.g. "1-1" or "2-1".
func (l AlignmentLink) Type() string {
	return strconv.Itoa(len(l.SourceIndices)) + "-" + strconv.Itoa(len(l.TargetIndices))
}

// Status returns the link status. Generated links are always "auto".
func (l AlignmentLink) Status() string {
	return LinkStatusAuto
}

// XTargets encodes the participating sentences as "A:0 A:1;B:0".
func (l AlignmentLink) XTargets() string {
	var b strings.Builder
	writeRefs(&b, l.SourceDoc, l.SourceIndices)
	b.WriteByte(';')
	writeRefs(&b, l.TargetDoc, l.TargetIndices)
	return b.String()
}

// Refs returns every "doc:idx" reference of the link, source side first.
func (l AlignmentLink) Refs() []string {
	refs := make([]string, 0, len(l.SourceIndices)+len(l.TargetIndices))
	for _, idx := range l.SourceIndices {
		refs = append(refs, l.SourceDoc+":"+strconv.Itoa(idx))
	}
	for _, idx := range l.TargetIndices {
		refs = append(refs, l.TargetDoc+":"+strconv.Itoa(idx))
	}
	return refs
}

func writeRefs(b *strings.Builder, doc string, indices []int) {
	for i, idx := range indices {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(doc)
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(idx))
	}
}


// Outcome is the result class of one document-pair alignment attempt.
type Outcome string

// Available outcomes.
const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// FailureReason explains a failed attempt.
type FailureReason string

// Available failure reasons.
const (
	// ReasonNone is used for successful attempts.
	ReasonNone FailureReason = ""

	// ReasonEmptyText means one side had no sentences.
	ReasonEmptyText FailureReason = "empty_text"

	// ReasonAlignerFault means the aligner returned an error.
	ReasonAlignerFault FailureReason = "aligner_fault"

	// ReasonTimeout means the aligner did not answer in time.
	ReasonTimeout FailureReason = "timeout"
)

// DocumentPairResult records one attempt within a GroupPair.
// Results are immutable once created.
type DocumentPairResult struct {
	SourceDocID string
	TargetDocID string
	PairName    PairName
	Outcome     Outcome
	Reason      FailureReason

	// Links holds the unfiltered links of a successful attempt.
	Links []AlignmentLink
}

// Succeeded returns true for successful attempts.
func (r DocumentPairResult) Succeeded() bool {
	return r.Outcome == OutcomeSuccess
}
