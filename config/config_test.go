/*
 * tylua
 *
 * Copyright 2024 tylua authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package config

import (
	"testing"
)

func TestConfig(t *testing.T) {

	if res := Str(Locale); res != "en" {
		t.Error("Unexpected result:", res)
		return
	}

	if res := Bool(AllowRecover); !res {
		t.Error("Unexpected result:", res)
		return
	}

	if res := Int(MaxDiagnostics); res != 0 {
		t.Error("Unexpected result:", res)
		return
	}
}

func TestParseFileUsesConfig(t *testing.T) {
	old := Config[Locale]
	defer func() { Config[Locale] = old }()

	Config[Locale] = "en"

	chunk, rep, err := ParseFile("test.lua", []byte("local x = 1\n"))
	if err != nil {
		t.Fatal("Unexpected error:", err)
	}
	if chunk == nil || chunk.Block == nil {
		t.Error("Expected a parsed block")
	}
	if rep.HasFatal() {
		t.Error("Unexpected fatal diagnostic")
	}
}
