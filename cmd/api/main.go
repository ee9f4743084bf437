// Copyright (c) 2026 Shopora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Command shopora runs the Shopora storefront API and its maintenance tasks.

Commands:

	shopora [serve]                              start the HTTP API (default)
	shopora migrate up                           apply pending SQL migrations
	shopora migrate down [--steps n]             roll back the latest migrations
	shopora migrate version                      print the applied version
	shopora worker mail                          deliver queued account mail
	shopora user promote --email x --role admin  change the role of a profile

Configuration comes from the environment (and a local .env file); see
internal/platform/config. No business logic lives here. All wiring is
explicit constructor injection.
*/
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
