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
Package config holds tylua's global, overridable settings, in the same
map-of-named-options shape as the teacher's config package
(ecal/config/config.go's DefaultConfig/Config pair), generalized from
ECAL's single WorkerCount option to the locale/diagnostics-limit options
a parser needs.
*/
package config

import (
	"fmt"
	"strconv"

	"devt.de/krotik/common/errorutil"

	"devt.de/krotik/tylua/ast"
	"devt.de/krotik/tylua/diag"
	"devt.de/krotik/tylua/parser"
)

/*
ProductVersion is the current version of tylua.
*/
const ProductVersion = "0.1.0"

/*
Known configuration options.
*/
const (
	Locale         = "Locale"
	MaxDiagnostics = "MaxDiagnostics"
	AllowRecover   = "AllowRecover"
)

/*
DefaultConfig is the default configuration.
*/
var DefaultConfig = map[string]interface{}{
	Locale:         "en",
	MaxDiagnostics: 0,
	AllowRecover:   true,
}

/*
Config is the actual configuration in use, initialized from
DefaultConfig and mutable by callers (cli/tylua.go's flag parsing, or a
library embedder) before the first parse.
*/
var Config map[string]interface{}

func init() {
	data := make(map[string]interface{})
	for k, v := range DefaultConfig {
		data[k] = v
	}
	Config = data
}

/*
Str reads a config value as a string.
*/
func Str(key string) string {
	return fmt.Sprint(Config[key])
}

/*
Int reads a config value as an int.
*/
func Int(key string) int {
	ret, err := strconv.ParseInt(fmt.Sprint(Config[key]), 10, 64)

	errorutil.AssertTrue(err == nil,
		fmt.Sprintf("Could not parse config key %v: %v", key, err))

	return int(ret)
}

/*
Bool reads a config value as a bool.
*/
func Bool(key string) bool {
	ret, err := strconv.ParseBool(fmt.Sprint(Config[key]))

	errorutil.AssertTrue(err == nil,
		fmt.Sprintf("Could not parse config key %v: %v", key, err))

	return ret
}

/*
NewReporter builds the diag.Reporter a parse should use given the current
Config: a CollectingReporter honoring MaxDiagnostics/AllowRecover/Locale.
*/
func NewReporter() *diag.CollectingReporter {
	return diag.NewCollectingReporter(Str(Locale), Int(MaxDiagnostics), Bool(AllowRecover))
}

/*
ParseFile parses src under name using the current Config - the
configured entry point cli/tylua.go and embedders reach for instead of
calling parser.ParseFile directly with ad hoc options.
*/
func ParseFile(name string, src []byte) (*ast.Chunk, diag.Reporter, error) {
	rep := NewReporter()
	chunk, err := parser.ParseFileWithOptions(name, src, rep, parser.Options{
		Locale:         Str(Locale),
		MaxDiagnostics: Int(MaxDiagnostics),
	})
	return chunk, rep, err
}
