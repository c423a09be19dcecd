/*
 * tylua
 *
 * Copyright 2024 tylua authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package recover

import (
	"errors"
	"testing"
)

/*
stack is a minimal Recoverable: Skip pops one level and reports whether
it closed the construct (the stack became empty).
*/
type stack struct {
	depth int
}

func (s *stack) Depth() int { return s.depth }

func (s *stack) Skip() bool {
	if s.depth > 0 {
		s.depth--
	}
	return s.depth == 0
}

func TestToSkipsDownToBeforeDepth(t *testing.T) {
	s := &stack{depth: 2}

	result, err := To(s, func() (int, error) {
		s.depth = 5 // body descended three levels deeper while parsing
		return 0, &Stop{Grade: Recover, Reason: "unexpected token"}
	})

	if result != 0 {
		t.Error("Expected zero value on recovery, got:", result)
	}
	if err == nil {
		t.Error("Expected the original error to be returned")
	}
	if s.depth > 2 {
		t.Error("Expected depth to be skipped back down to at most 2, got:", s.depth)
	}
}

func TestToPassesThroughNonStopErrors(t *testing.T) {
	s := &stack{depth: 1}
	sentinel := errors.New("boom")

	_, err := To(s, func() (int, error) {
		return 0, sentinel
	})

	if err != sentinel {
		t.Error("Expected the non-Stop error to pass through unchanged, got:", err)
	}
	if s.depth != 1 {
		t.Error("Depth should be untouched when body does not request recovery")
	}
}

func TestToPassesThroughSuccess(t *testing.T) {
	s := &stack{depth: 1}

	result, err := To(s, func() (string, error) {
		return "ok", nil
	})

	if err != nil || result != "ok" {
		t.Error("Unexpected result on success:", result, err)
	}
}

func TestUpToSkipsOneExtraLevel(t *testing.T) {
	s := &stack{depth: 3}

	_, err := UpTo(s, func() (int, error) {
		return 0, &Stop{Grade: Recover, Reason: "still inside delimiter"}
	})

	if err == nil {
		t.Error("Expected the original error to be returned")
	}
	if s.depth >= 3 {
		t.Error("Expected UpTo to skip at least one level below the starting depth, got:", s.depth)
	}
}
