package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jsondelta/jsondelta"
	"github.com/jsondelta/jsondelta/internal/docio"
)

type config struct {
	options jsondelta.Options
	format  docio.Format
}

func run(cfg config, leftPath, rightPath string) error {
	left, err := docio.ReadFile(leftPath)
	if err != nil {
		return err
	}
	right, err := docio.ReadFile(rightPath)
	if err != nil {
		return err
	}

	patch, err := cfg.options.CreatePatch(left, right)
	if err != nil {
		return err
	}

	return docio.EncodePatch(os.Stdout, cfg.format, cfg.options, patch)
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: jsondiff [flags] left.json right.json\n\n")
		flag.PrintDefaults()
	}

	emitTests := flag.Bool("test", false, "precede replace/move/copy/remove with a test operation")
	noMove := flag.Bool("no-move", false, "never fuse remove/add pairs into move operations")
	noCopy := flag.Bool("no-copy", false, "never emit copy operations")
	omitRemoveValue := flag.Bool("omit-remove-value", false, "leave the removed value out of remove operations")
	originalValue := flag.Bool("original-value", false, "add the overwritten value to replace operations as fromValue")
	output := flag.String("o", "json", "output format: json, yaml or msgpack")

	flag.Parse()

	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(2)
	}

	format, err := docio.ParseFormat(*output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(2)
	}

	options := jsondelta.DefaultOptions
	if *emitTests {
		options = options.WithTestOperations()
	}
	if *noMove {
		options = options.WithoutMove()
	}
	if *noCopy {
		options = options.WithoutCopy()
	}
	if *omitRemoveValue {
		options = options.WithoutValueOnRemove()
	}
	if *originalValue {
		options = options.WithOriginalValueOnReplace()
	}

	err = run(config{options: options, format: format}, flag.Arg(0), flag.Arg(1))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}
