// Package syntax counts how often key words act as the subject or the
// object of the sentences they occur in.
package syntax

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cognicore/concord/pkg/concord/internalerr"
)

// Token is one word of a dependency parse.
type Token struct {
	Text  string
	Lemma string
	POS   string
	Dep   string // dependency label, e.g. nsubj, ROOT, dobj
}

// Parser produces a dependency parse for a sentence.
type Parser interface {
	Parse(ctx context.Context, sentence string) ([]Token, error)
}

// Frame holds the grammatical roles found in one sentence.
type Frame struct {
	Sentence   string
	Words      []string
	Subjects   []string
	Processes  []string
	DirectObjs []string
	PrepObjs   []string
}

// Role maps a dependency label to the frame slot it fills.
type Role int

const (
	RoleNone Role = iota
	RoleSubject
	RoleProcess
	RoleDirectObject
	RolePrepObject
)

// RoleOf classifies a dependency label. Both spaCy labels (nsubj, ROOT,
// dobj, pobj) and Universal Dependencies labels (nsubj, root, obj, obl)
// are understood; subtypes such as nsubj:pass count as their base label.
func RoleOf(dep string) Role {
	base, _, _ := strings.Cut(strings.ToLower(dep), ":")
	switch base {
	case "nsubj":
		return RoleSubject
	case "root":
		return RoleProcess
	case "dobj", "obj":
		return RoleDirectObject
	case "pobj", "obl":
		return RolePrepObject
	}
	return RoleNone
}

// NewFrame sorts parsed tokens into their roles.
func NewFrame(sentence string, tokens []Token) Frame {
	f := Frame{Sentence: sentence, Words: make([]string, 0, len(tokens))}
	for _, tok := range tokens {
		f.Words = append(f.Words, tok.Text)
		switch RoleOf(tok.Dep) {
		case RoleSubject:
			f.Subjects = append(f.Subjects, tok.Text)
		case RoleProcess:
			f.Processes = append(f.Processes, tok.Text)
		case RoleDirectObject:
			f.DirectObjs = append(f.DirectObjs, tok.Text)
		case RolePrepObject:
			f.PrepObjs = append(f.PrepObjs, tok.Text)
		}
	}
	return f
}

// Collect parses every sentence. Sentences the parser has no parse for
// (internalerr.ErrNotFound) are skipped and counted; any other parser
// error aborts.
func Collect(ctx context.Context, p Parser, sentences []string) ([]Frame, int, error) {
	if p == nil {
		return nil, 0, fmt.Errorf("collect: no parser: %w", internalerr.ErrInvalidConfig)
	}

	frames := make([]Frame, 0, len(sentences))
	skipped := 0
	for _, sent := range sentences {
		if err := ctx.Err(); err != nil {
			return nil, skipped, err
		}
		tokens, err := p.Parse(ctx, sent)
		if errors.Is(err, internalerr.ErrNotFound) {
			skipped++
			continue
		}
		if err != nil {
			return nil, skipped, fmt.Errorf("parse %q: %w", sent, err)
		}
		frames = append(frames, NewFrame(sent, tokens))
	}
	return frames, skipped, nil
}

// Tally counts one key's occurrences and roles.
type Tally struct {
	Key         string
	Occurrences int
	Subject     int
	Object      int // direct and prepositional objects
}

func (t Tally) String() string {
	return fmt.Sprintf("%s occurred %d times, was the subject %d times, and the object %d times.",
		t.Key, t.Occurrences, t.Subject, t.Object)
}

// Analyze tallies every key over the frames. Words match a key when they
// are equal ignoring case.
func Analyze(frames []Frame, keys []string) []Tally {
	tallies := make([]Tally, len(keys))
	for i, key := range keys {
		tallies[i].Key = key
		for _, f := range frames {
			tallies[i].Occurrences += countFold(f.Words, key)
			tallies[i].Subject += countFold(f.Subjects, key)
			tallies[i].Object += countFold(f.DirectObjs, key) + countFold(f.PrepObjs, key)
		}
	}
	return tallies
}

// Report renders one line per tally.
func Report(tallies []Tally) string {
	var b strings.Builder
	for _, t := range tallies {
		b.WriteString(t.String())
		b.WriteByte('\n')
	}
	return b.String()
}

func countFold(words []string, key string) int {
	n := 0
	for _, w := range words {
		if strings.EqualFold(w, key) {
			n++
		}
	}
	return n
}
