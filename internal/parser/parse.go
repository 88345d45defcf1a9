package parser

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Parse feeds every line of r to a new Parser and finalizes it. Parse errors
// are returned as the Parser produced them.
func Parse(r io.Reader) (*Document, error) {
	p := New()
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			if ferr := p.Feed(line); ferr != nil {
				return nil, ferr
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading line %d: %w", p.Line()+1, err)
		}
	}
	return p.Finalize()
}

// ParseString parses an in-memory feature file.
func ParseString(content string) (*Document, error) {
	return Parse(strings.NewReader(content))
}

// ParseFile opens path and parses it.
func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}
