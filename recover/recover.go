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
Package recover implements the parser's error recovery engine: skip
tokens until the enclosing nesting has closed, then let the caller's
grammar rule retry or substitute a dummy result.

This is the one package in the module that uses a Go type parameter. The
teacher's own era (go 1.12) predates generics, and every other package
here stays within that non-generic idiom deliberately - but the recovery
engine is inherently parametric over its caller's result type the way
kailua_syntax's generic recover_retry/recover_with/recover_upto_with are
parametric over T in Rust, and ecal's single-*ASTNode-result parser never
needed that generality.
*/
package recover

import "fmt"

/*
Grade classifies how bad a recovery attempt was, mirroring diag.Severity
without importing it (recover must stay below diag in the dependency
graph since diag messages may themselves describe a recovery outcome).
*/
type Grade int

const (
	/*
		Recover means the engine successfully skipped to a resynchronization
		point and the caller can substitute a placeholder and continue.
	*/
	Recover Grade = iota

	/*
		Fatal means no resynchronization point could be found before EOF;
		the enclosing parse must be abandoned.
	*/
	Fatal
)

func (g Grade) String() string {
	if g == Fatal {
		return "fatal"
	}
	return "recover"
}

/*
Stop is the error type a recovery body returns to request that the
engine start skipping tokens. Grade controls whether To/UpTo skip tokens
to resynchronize (Recover) or return at once so the failure propagates
up past the caller (Fatal).
*/
type Stop struct {
	Grade  Grade
	Reason string
}

func (s *Stop) Error() string {
	return fmt.Sprintf("%s: %s", s.Grade, s.Reason)
}

/*
Recoverable is the minimal capability a caller must expose for the engine
to drive token skipping - the Go reshaping of kailua's generic bound on
the parser type. Depth reports the current nesting depth; Skip discards
one token and reports whether skipping must stop regardless of depth
(for the parser: the input is exhausted).
*/
type Recoverable interface {
	Depth() int
	Skip() (closed bool)
}

/*
To runs body. If body returns a *Stop, the engine skips tokens via p
until the nesting depth drops to or below the depth recorded before body
ran (i.e. until the construct body was parsing for has closed), then
returns the zero value of T and the original error. Grounded on
kailua_syntax/parser.rs's recover_with: "skip to the closing delimiter of
whatever we're inside".
*/
func To[T any](p Recoverable, body func() (T, error)) (T, error) {
	before := p.Depth()

	result, err := body()

	var stop *Stop
	if !asStop(err, &stop) || stop.Grade == Fatal {
		return result, err
	}

	for p.Depth() > before {
		if p.Skip() {
			break
		}
	}

	var zero T
	return zero, err
}

/*
UpTo is like To but skips until depth drops strictly below before,
closing one extra level of nesting - used where the caller's body failed
while still inside the delimiter it was meant to close (kailua's
recover_upto_with).
*/
func UpTo[T any](p Recoverable, body func() (T, error)) (T, error) {
	before := p.Depth()

	result, err := body()

	var stop *Stop
	if !asStop(err, &stop) || stop.Grade == Fatal {
		return result, err
	}

	for p.Depth() >= before {
		if p.Skip() {
			break
		}
	}

	var zero T
	return zero, err
}

func asStop(err error, out **Stop) bool {
	if err == nil {
		return false
	}
	s, ok := err.(*Stop)
	if ok {
		*out = s
	}
	return ok
}
