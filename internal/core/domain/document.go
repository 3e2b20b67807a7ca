package domain

import (
	"fmt"
	"strings"
)

// Side is the translation direction of a document within an event.
type Side string

// Available sides.
const (
	// SideSource is the original text of an event.
	SideSource Side = "source"

	// SideTarget is a translation or interpretation of the source.
	SideTarget Side = "target"
)

// IsValid returns true if the side is recognised.
func (s Side) IsValid() bool {
	return s == SideSource || s == SideTarget
}

// String returns the string representation.
func (s Side) String() string {
	return string(s)
}

// ParseSide converts free-form input (any case, surrounding space) to a Side.
func ParseSide(value string) (Side, error) {
	s := Side(strings.ToLower(strings.TrimSpace(value)))
	if !s.IsValid() {
		return "", fmt.Errorf("%w: side %q", ErrInvalidInput, value)
	}
	return s, nil
}

// Register is the modality of a document.
type Register string

// Available registers.
const (
	// RegisterSpoken is a transcript of speech.
	RegisterSpoken Register = "spoken"

	// RegisterWritten is a written text.
	RegisterWritten Register = "written"
)

// IsValid returns true if the register is recognised.
func (r Register) IsValid() bool {
	return r == RegisterSpoken || r == RegisterWritten
}

// String returns the string representation.
func (r Register) String() string {
	return string(r)
}

// ParseRegister converts free-form input (any case, surrounding space) to a Register.
func ParseRegister(value string) (Register, error) {
	r := Register(strings.ToLower(strings.TrimSpace(value)))
	if !r.IsValid() {
		return "", fmt.Errorf("%w: register %q", ErrInvalidInput, value)
	}
	return r, nil
}

// Document is one text of the corpus.
// Documents are created once at load time and never mutated afterwards.
type Document struct {
	// ID is the unique identifier, referenced by xtargets.
	ID string

	// EventID groups documents produced from the same recording or session.
	EventID string

	// Language is the language code (e.g. "en").
	Language string

	// Side is the translation direction.
	Side Side

	// Register is spoken or written.
	Register Register

	// Markup is the inline sentence-split markup. Nil when the cell was empty.
	Markup *string

	// PlainText is the newline-joined sentence text derived from Markup.
	// Empty when the markup is absent or malformed.
	PlainText string
}

// Key returns the cohort key the document belongs to.
func (d Document) Key() GroupKey {
	return GroupKey{Language: d.Language, Side: d.Side, Register: d.Register}
}

// Sentences splits PlainText into its sentences.
// Returns nil for empty text.
func (d Document) Sentences() []string {
	if d.PlainText == "" {
		return nil
	}
	return strings.Split(d.PlainText, "\n")
}
