// pdfdump prints the flattened plain text the ingest pipeline actually
// sees for a document, one numbered line at a time. Useful for calibrating
// anchor phrases and denylists when the broker changes a layout.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/username/tradeledger/src/extraction"
	"github.com/username/tradeledger/src/parsers"
)

func main() {
	classify := flag.Bool("classify", false, "also print the detected document format")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: pdfdump [-classify] <document> [<document>...]")
		os.Exit(2)
	}

	extractor := extraction.NewFileExtractor()
	exitCode := 0
	for _, path := range flag.Args() {
		text, err := extractor.ExtractText(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			exitCode = 1
			continue
		}

		fmt.Printf("==== %s ====\n", path)
		if *classify {
			if source, err := parsers.Detect(text); err == nil {
				fmt.Printf("format: %s\n", source)
			} else {
				fmt.Println("format: unknown")
			}
		}
		for i, line := range strings.Split(text, "\n") {
			fmt.Printf("%4d | %s\n", i+1, line)
		}
	}
	os.Exit(exitCode)
}
