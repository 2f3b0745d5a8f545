package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/text/encoding/charmap"
	"gopkg.in/yaml.v3"

	"github.com/AntoineBalaine/abcfmt"
	"github.com/AntoineBalaine/abcfmt/align"
	"github.com/AntoineBalaine/abcfmt/parser"
	"github.com/AntoineBalaine/abcfmt/version"
)

// tuneDump is the -y output: a structural summary of a parsed tune.
type tuneDump struct {
	Header        []string `yaml:",flow"`
	DefaultLength string   `yaml:"defaultLength"`
	Compound      bool     `yaml:",omitempty"`
	Systems       [][]string
}

func main() {
	safe := flag.Bool("n", false, "Never overwrite files; if a file would change, give an error.")
	list := flag.Bool("l", false, "Do not write files; just list files whose formatting would change.")
	write := flag.Bool("w", false, "Write the result back to the source file instead of standard output.")
	outPath := flag.String("o", "", "Directory or filename where to write the formatted output. By default the result goes to standard output.")
	yamlOut := flag.Bool("y", false, "Output a structural .yml dump of the parsed tunes instead of formatting.")
	latin1 := flag.Bool("latin1", false, "Decode input files as ISO 8859-1 instead of UTF-8.")
	help := flag.Bool("h", false, "Show help.")
	versionFlag := flag.Bool("v", false, "Print version.")
	flag.Usage = printUsage
	flag.Parse()
	if *versionFlag {
		fmt.Println(version.VersionOrHash)
		os.Exit(0)
	}
	if flag.NArg() == 0 || *help {
		flag.Usage()
		os.Exit(0)
	}
	output := func(filename string, extension string, contents []byte) error {
		if !*write && *outPath == "" && !*list {
			fmt.Print(string(contents))
			return nil
		}
		f := filename
		if *outPath != "" {
			if info, err := os.Stat(*outPath); err == nil && info.IsDir() {
				_, name := filepath.Split(filename)
				f = filepath.Join(*outPath, name)
			} else {
				f = *outPath
			}
		}
		if extension != "" {
			f = f[:len(f)-len(filepath.Ext(f))] + extension
		}
		original, err := os.ReadFile(f)
		if err == nil {
			if bytes.Equal(original, contents) {
				return nil // no need to update
			}
			if !*list && *safe {
				return fmt.Errorf("file %v would be overwritten", f)
			}
		}
		if *list {
			fmt.Println(f)
			return nil
		}
		if err := os.WriteFile(f, contents, 0644); err != nil {
			return fmt.Errorf("could not write file %v: %v", f, err)
		}
		return nil
	}
	process := func(filename string) error {
		inputBytes, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("could not read file %v: %v", filename, err)
		}
		if *latin1 {
			decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(inputBytes)
			if err != nil {
				return fmt.Errorf("could not decode %v as ISO 8859-1: %v", filename, err)
			}
			inputBytes = decoded
		}
		file := parser.ParseFile(string(inputBytes))
		for _, tune := range file.Tunes {
			opt := align.Options{
				DefaultLength: tune.DefaultLength,
				Compound:      tune.Compound,
				Snapshot:      parser.ZeroLenDurations(tune),
			}
			for _, sys := range tune.Systems {
				if !sys.MultiVoice() {
					continue
				}
				saved := make([]*abcfmt.VoiceLine, len(sys.Lines))
				for i, v := range sys.Lines {
					saved[i] = v.Copy()
				}
				if err := align.System(sys, opt); err != nil {
					// A failed system is rendered unaligned, not half
					// padded, and does not fail the whole file.
					sys.Lines = saved
					fmt.Fprintf(os.Stderr, "could not align a system in %v: %v\n", filename, err)
				}
			}
		}
		if *yamlOut {
			dumps := make([]tuneDump, 0, len(file.Tunes))
			for _, tune := range file.Tunes {
				d := tuneDump{
					Header:        tune.Header,
					DefaultLength: tune.DefaultLength.String(),
					Compound:      tune.Compound,
				}
				for _, sys := range tune.Systems {
					lines := make([]string, 0, len(sys.Lines))
					for _, v := range sys.Lines {
						lines = append(lines, v.Render())
					}
					d.Systems = append(d.Systems, lines)
				}
				dumps = append(dumps, d)
			}
			contents, err := yaml.Marshal(dumps)
			if err != nil {
				return fmt.Errorf("could not marshal %v as yaml: %v", filename, err)
			}
			return output(filename, ".yml", contents)
		}
		return output(filename, "", []byte(file.Render()))
	}
	retval := 0
	for _, param := range flag.Args() {
		if info, err := os.Stat(param); err == nil && info.IsDir() {
			files, err := filepath.Glob(filepath.Join(param, "*.abc"))
			if err != nil {
				fmt.Fprintf(os.Stderr, "could not glob the path %v for abc files: %v\n", param, err)
				retval = 1
				continue
			}
			for _, file := range files {
				if err := process(file); err != nil {
					fmt.Fprintf(os.Stderr, "could not process file %v: %v\n", file, err)
					retval = 1
				}
			}
		} else {
			if err := process(param); err != nil {
				fmt.Fprintf(os.Stderr, "could not process file %v: %v\n", param, err)
				retval = 1
			}
		}
	}
	os.Exit(retval)
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "ABC formatter. Parses .abc tunes and aligns multi-voice systems.\nUsage: %s [flags] [path ...]\n", os.Args[0])
	flag.PrintDefaults()
}
