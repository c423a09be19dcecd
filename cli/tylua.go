/*
 * tylua
 *
 * Copyright 2024 tylua authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package main

import (
	"flag"
	"fmt"
	"io/ioutil"
	"os"

	"devt.de/krotik/tylua/config"
	"devt.de/krotik/tylua/diag"
)

func main() {

	flag.CommandLine.Init(os.Args[0], flag.ContinueOnError)

	flag.Usage = func() {

		fmt.Println(fmt.Sprintf("Usage of %s <command> <file>", os.Args[0]))
		fmt.Println()
		fmt.Println(fmt.Sprintf("tylua %v - a parser for a Lua-like scripting language with inline type annotations", config.ProductVersion))
		fmt.Println()
		fmt.Println("Available commands:")
		fmt.Println()
		fmt.Println("    check    Parse a file and print diagnostics")
		fmt.Println("    parse    Parse a file and print its AST")
		fmt.Println()
		fmt.Println(fmt.Sprintf("Use %s -help for more information.", os.Args[0]))
		fmt.Println()
	}

	locale := flag.String("locale", "en", "locale for diagnostic messages (en, ko)")
	maxDiag := flag.Int("max-diagnostics", 0, "give up after this many diagnostics (0 = unlimited)")

	if err := flag.CommandLine.Parse(os.Args[1:]); err == nil {

		args := flag.Args()

		if len(args) < 2 {
			flag.Usage()
			os.Exit(1)
		}

		config.Config[config.Locale] = *locale
		config.Config[config.MaxDiagnostics] = *maxDiag

		cmd, path := args[0], args[1]

		switch cmd {
		case "check":
			err = runCheck(path)
		case "parse":
			err = runParse(path)
		default:
			flag.Usage()
			os.Exit(1)
		}

		if err != nil {
			fmt.Println(fmt.Sprintf("Error: %v", err))
			os.Exit(1)
		}
	}
}

func readSource(path string) ([]byte, error) {
	if path == "-" {
		return ioutil.ReadAll(os.Stdin)
	}
	return ioutil.ReadFile(path)
}

func runCheck(path string) error {
	src, err := readSource(path)
	if err != nil {
		return err
	}

	_, rep, _ := config.ParseFile(path, src)

	for _, e := range diag.SortedBySpan(rep.Entries()) {
		fmt.Println(e.String())
	}

	if rep.HasFatal() {
		return fmt.Errorf("parsing of %s failed", path)
	}

	return nil
}

func runParse(path string) error {
	src, err := readSource(path)
	if err != nil {
		return err
	}

	chunk, rep, err := config.ParseFile(path, src)

	for _, e := range diag.SortedBySpan(rep.Entries()) {
		fmt.Println(e.String())
	}

	if err != nil {
		return err
	}

	fmt.Print(chunk.Block.String())

	return nil
}
