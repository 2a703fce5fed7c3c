package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jsondelta/jsondelta"
	"github.com/jsondelta/jsondelta/internal/docio"
)

func run(originalPath, patchPath string, format docio.Format) error {
	original, err := docio.ReadFile(originalPath)
	if err != nil {
		return err
	}

	patch, err := docio.ReadPatchFile(patchPath)
	if err != nil {
		return err
	}

	result, err := jsondelta.DefaultOptions.ApplyPatch(original, patch)
	if err != nil {
		return err
	}

	return docio.Encode(os.Stdout, format, result)
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: jsonpatch [flags] original.json patch.json\n\n")
		flag.PrintDefaults()
	}

	output := flag.String("o", "json", "output format: json or yaml")

	flag.Parse()

	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(2)
	}

	format, err := docio.ParseFormat(*output)
	if err != nil || format == docio.FormatMsgpack {
		fmt.Fprintf(os.Stderr, "unsupported output format %q\n", *output)
		os.Exit(2)
	}

	err = run(flag.Arg(0), flag.Arg(1), format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}
