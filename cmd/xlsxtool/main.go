// Command xlsxtool is a minimal driver for the xlsxcore engine: enough
// to inspect a workbook's sheets or touch a single cell from the shell,
// so the engine has a runnable consumer the way the teacher's
// cmd/test_write exercises the docx writer end-to-end. It is not itself
// part of the specified core (spec.md §1 excludes "CLI tools" from the
// core's scope).
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mmonterroca/xlsxcore"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "inspect":
		runInspect(os.Args[2:])
	case "touch-cell":
		runTouchCell(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: xlsxtool inspect <file.xlsx>")
	fmt.Fprintln(os.Stderr, "       xlsxtool touch-cell <file.xlsx> <sheet> <ref> <text>")
}

func runInspect(args []string) {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	fs.Parse(args)
	if fs.NArg() != 1 {
		usage()
		os.Exit(2)
	}

	wb, warnings, err := xlsxcore.Open(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "xlsxtool: %v\n", err)
		os.Exit(1)
	}
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	for i, sheet := range wb.Sheets {
		dim := "A1:A1"
		if r, ok := sheet.Dimension(); ok {
			dim = r.String()
		}
		fmt.Printf("%d: %-20s cells=%-6d merges=%-4d comments=%-4d tables=%-4d dim=%s\n",
			i, sheet.Name, len(sheet.Cells), len(sheet.Merges), len(sheet.Comments), len(sheet.Tables), dim)
	}
}

func runTouchCell(args []string) {
	fs := flag.NewFlagSet("touch-cell", flag.ExitOnError)
	fs.Parse(args)
	if fs.NArg() != 4 {
		usage()
		os.Exit(2)
	}
	path, sheetName, refStr, text := fs.Arg(0), fs.Arg(1), fs.Arg(2), fs.Arg(3)

	wb, _, err := xlsxcore.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "xlsxtool: %v\n", err)
		os.Exit(1)
	}
	sheet := wb.SheetByName(sheetName)
	if sheet == nil {
		fmt.Fprintf(os.Stderr, "xlsxtool: no sheet named %q\n", sheetName)
		os.Exit(1)
	}
	ref, err := xlsxcore.ParseARef(refStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "xlsxtool: %v\n", err)
		os.Exit(1)
	}
	sheet.SetCell(ref, xlsxcore.TextValue(text))
	if err := xlsxcore.Save(wb, path); err != nil {
		fmt.Fprintf(os.Stderr, "xlsxtool: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("wrote %s!%s = %q\n", sheetName, ref, text)
}
