/*
 * tylua
 *
 * Copyright 2024 tylua authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

/*
Package diag carries localizable parser diagnostics. A Message knows how
to render itself in any supported locale; a Reporter collects Messages
against source spans and decides, via its return value, whether the
parser should keep going or give up.
*/
package diag

import (
	"fmt"
	"sort"

	"devt.de/krotik/tylua/token"
)

/*
Severity classifies how serious a diagnostic is. It does not by itself
decide whether parsing stops - that is the Reporter's call, informed by
Severity and the Reporter's own policy (for instance a MaxDiagnostics
limit).
*/
type Severity int

const (
	/*
		Warning marks a diagnostic that does not by itself invalidate the
		parse - unusual but legal constructs, deprecated forms.
	*/
	Warning Severity = iota

	/*
		Recover marks a diagnostic from which the parser attempted, and
		believes it succeeded, to resynchronize.
	*/
	Recover

	/*
		Fatal marks a diagnostic the parser could not recover from; the
		chunk must be treated as failed.
	*/
	Fatal
)

func (s Severity) String() string {
	switch s {
	case Warning:
		return "warning"
	case Recover:
		return "error"
	case Fatal:
		return "fatal error"
	}
	return fmt.Sprintf("Severity(%d)", int(s))
}

/*
Message renders a diagnostic in a given locale. This package defines the
contract, the Expected message the parser reports, and NewMessage for
fixed-text messages.
*/
type Message interface {
	/*
		Localize returns the human-readable text of this message in locale,
		falling back to "en" if the message has no translation for it.
	*/
	Localize(locale string) string

	/*
		Kind is a short machine-readable identifier for the message, stable
		across locales - used by tests and by tools consuming diagnostics
		as structured data.
	*/
	Kind() string
}

/*
simple is a Message with a fixed kind and one format string per locale.
*/
type simple struct {
	kind    string
	locales map[string]string
}

/*
NewMessage builds a Message whose text does not vary by locale beyond the
translations supplied in locales. locales must contain at least an "en"
entry.
*/
func NewMessage(kind string, locales map[string]string) Message {
	return &simple{kind: kind, locales: locales}
}

func (m *simple) Kind() string { return m.kind }

func (m *simple) Localize(locale string) string {
	if s, ok := m.locales[locale]; ok {
		return s
	}
	return m.locales["en"]
}

/*
Expected is raised whenever the parser required one of a set of tokens
and found something else. Grounded on the teacher's RuntimeError detail
string convention (util/error.go Error()), translated into the
two-locale form spec.md 7 requires.
*/
type Expected struct {
	Wanted []string
	Got    string
}

func (m *Expected) Kind() string { return "expected" }

func (m *Expected) Localize(locale string) string {
	wanted := joinOr(m.Wanted)
	switch locale {
	case "ko":
		return fmt.Sprintf("%s 대신 %s 을(를) 기대했습니다", m.Got, wanted)
	default:
		return fmt.Sprintf("expected %s, got %s", wanted, m.Got)
	}
}

func joinOr(items []string) string {
	switch len(items) {
	case 0:
		return "?"
	case 1:
		return items[0]
	}
	out := items[0]
	for _, it := range items[1 : len(items)-1] {
		out += ", " + it
	}
	out += " or " + items[len(items)-1]
	return out
}

/*
Entry is one reported diagnostic: its message, the span it covers and the
severity at which it was raised.
*/
type Entry struct {
	Severity Severity
	Span     token.Span
	Message  Message
}

/*
String renders e using the en locale, for log output and test failure
messages.
*/
func (e Entry) String() string {
	return fmt.Sprintf("%s: %s: %s", e.Span, e.Severity, e.Message.Localize("en"))
}

/*
Reporter collects diagnostics during a parse. AddSpan returns whether the
caller should keep parsing (ok) or give up (stop) - a Reporter may decide
to stop early once it has collected enough diagnostics, per
config.Config.MaxDiagnostics.
*/
type Reporter interface {
	/*
		AddSpan records a diagnostic of the given severity against span and
		returns false if the parse should stop.
	*/
	AddSpan(severity Severity, span token.Span, msg Message) (ok bool)

	/*
		Entries returns every diagnostic recorded so far, in report order.
	*/
	Entries() []Entry

	/*
		HasFatal reports whether any Fatal diagnostic was recorded.
	*/
	HasFatal() bool
}

/*
CollectingReporter is the default Reporter: it records every diagnostic
it is given and asks the parse to stop once the number of entries reaches
MaxEntries (when non-zero), once a Fatal diagnostic has been recorded, or
when AllowRecover is false and a Recover diagnostic comes in.
*/
type CollectingReporter struct {
	Locale       string
	MaxEntries   int
	AllowRecover bool

	entries  []Entry
	fatalHit bool
}

/*
NewCollectingReporter creates a Reporter with the given locale, an entry
limit (0 means unlimited) and whether Recover-severity diagnostics are
allowed to continue parsing.
*/
func NewCollectingReporter(locale string, maxEntries int, allowRecover bool) *CollectingReporter {
	return &CollectingReporter{Locale: locale, MaxEntries: maxEntries, AllowRecover: allowRecover}
}

func (r *CollectingReporter) AddSpan(severity Severity, span token.Span, msg Message) bool {
	r.entries = append(r.entries, Entry{Severity: severity, Span: span, Message: msg})

	if severity == Fatal {
		r.fatalHit = true
	}

	if r.MaxEntries > 0 && len(r.entries) >= r.MaxEntries {
		return false
	}
	if severity == Recover && !r.AllowRecover {
		return false
	}
	return !r.fatalHit
}

func (r *CollectingReporter) Entries() []Entry { return r.entries }

func (r *CollectingReporter) HasFatal() bool { return r.fatalHit }

/*
SortedBySpan returns entries sorted by their span's begin offset, stable
on ties - useful when diagnostics were recorded out of source order by
concurrent or recovery-driven passes.
*/
func SortedBySpan(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Span.Begin.Offset < out[j].Span.Begin.Offset
	})
	return out
}
