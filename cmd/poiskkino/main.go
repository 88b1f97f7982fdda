// Command poiskkino looks up movie and series metadata on PoiskKino and can
// serve the same lookups over HTTP.
package main

import "os"

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
