package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/scott-cotton/cli"
	"github.com/signadot/richtext/ir"
)

const docSep = "\n---\n"

func readFile(cc *cli.Context, path string) ([]byte, error) {
	var r io.Reader
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	} else {
		r = cc.In
	}
	d, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading %q: %w", path, err)
	}
	return d, nil
}

func getDocFile(cc *cli.Context, path string) (*ir.Node, error) {
	d, err := readFile(cc, path)
	if err != nil {
		return nil, err
	}
	return ir.DecodeBytes(d)
}

// getDocs reads the documents of path, which may hold several separated
// by "---" lines.
func getDocs(cc *cli.Context, path string) ([]*ir.Node, error) {
	d, err := readFile(cc, path)
	if err != nil {
		return nil, err
	}
	parts := bytes.Split(d, []byte(docSep))
	res := make([]*ir.Node, 0, len(parts))
	for i, part := range parts {
		doc, err := ir.DecodeBytes(part)
		if err != nil {
			return nil, fmt.Errorf("error decoding document %d: %w", i, err)
		}
		res = append(res, doc)
	}
	return res, nil
}

// eachDoc calls f on every document of every file, stdin when files is
// empty, writing the separator between outputs.
func eachDoc(cc *cli.Context, files []string, f func(file string, i int, doc *ir.Node) error) error {
	if len(files) == 0 {
		files = []string{"-"}
	}
	n := 0
	for _, file := range files {
		docs, err := getDocs(cc, file)
		if err != nil {
			return fmt.Errorf("error processing %s: %w", file, err)
		}
		for i, doc := range docs {
			if n > 0 {
				if _, err := io.WriteString(cc.Out, docSep[1:]); err != nil {
					return err
				}
			}
			n++
			if err := f(file, i, doc); err != nil {
				return fmt.Errorf("error processing %s: %w", file, err)
			}
		}
	}
	return nil
}
