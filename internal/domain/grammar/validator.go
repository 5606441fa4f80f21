// Package grammar checks learner sentences against a pictured referent and
// runs the sentence-building screen.
package grammar

import (
	"fmt"

	"github.com/okian/classplay/internal/domain/catalog"
)

// Slot names one position of the sentence.
type Slot string

const (
	SlotSubject    Slot = "subject"
	SlotVerb       Slot = "verb"
	SlotDescriptor Slot = "descriptor"
)

// ParseSlot converts a client slot name.
func ParseSlot(s string) (Slot, error) {
	switch Slot(s) {
	case SlotSubject, SlotVerb, SlotDescriptor:
		return Slot(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSlot, s)
}

// Selection is the learner's current sentence. Empty strings are unset slots.
type Selection struct {
	Subject    string `json:"subject,omitempty"`
	Verb       string `json:"verb,omitempty"`
	Descriptor string `json:"descriptor,omitempty"`
}

// Complete reports whether every slot is filled.
func (s Selection) Complete() bool {
	return s.Subject != "" && s.Verb != "" && s.Descriptor != ""
}

// With returns a copy of s with slot set to word.
func (s Selection) With(slot Slot, word string) Selection {
	switch slot {
	case SlotSubject:
		s.Subject = word
	case SlotVerb:
		s.Verb = word
	case SlotDescriptor:
		s.Descriptor = word
	}
	return s
}

// Result explains a validation.
type Result struct {
	Success     bool `json:"success"`
	ReferentOK  bool `json:"referent_ok"`
	AgreementOK bool `json:"agreement_ok"`
}

var agreement = map[string]string{
	"He":   "is",
	"She":  "is",
	"It":   "is",
	"They": "are",
	"We":   "are",
	"You":  "are",
	"I":    "am",
}

// Agrees reports whether verb is the form required by subject.
func Agrees(subject, verb string) bool {
	want, ok := agreement[subject]
	return ok && want == verb
}

// Validate checks sel against ch. The descriptor is required but carries no
// constraint. Incomplete selections never succeed.
func Validate(ch catalog.Challenge, sel Selection) Result {
	if !sel.Complete() {
		return Result{}
	}
	r := Result{
		ReferentOK:  ch.Accepts(sel.Subject),
		AgreementOK: Agrees(sel.Subject, sel.Verb),
	}
	r.Success = r.ReferentOK && r.AgreementOK
	return r
}
