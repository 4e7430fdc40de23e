package readers

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// deckScanner reads a deck line by line and keeps the line number for errors
type deckScanner struct {
	sc   *bufio.Scanner
	line int
	text string
}

func newDeckScanner(r io.Reader) *deckScanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	return &deckScanner{sc: sc}
}

func (d *deckScanner) scan() bool {
	if !d.sc.Scan() {
		return false
	}
	d.line++
	d.text = d.sc.Text()
	return true
}

func (d *deckScanner) trimmed() string {
	return strings.TrimSpace(d.text)
}

// fields collects n whitespace separated tokens, continuing on the following
// lines when a record wraps
func (d *deckScanner) fields(n int) ([]string, error) {
	return d.moreFields(nil, n)
}

// moreFields appends tokens from following lines until out holds n tokens
func (d *deckScanner) moreFields(out []string, n int) ([]string, error) {
	for len(out) < n {
		if !d.scan() {
			return nil, d.errorf("unexpected EOF, expected %d values, got %d", n, len(out))
		}
		out = append(out, strings.Fields(d.text)...)
	}
	return out, nil
}

func (d *deckScanner) err() error {
	if err := d.sc.Err(); err != nil {
		return fmt.Errorf("error reading file: %w", err)
	}
	return nil
}

func (d *deckScanner) errorf(format string, args ...any) error {
	return fmt.Errorf("line %d: %s", d.line, fmt.Sprintf(format, args...))
}

func (d *deckScanner) atoi(s, what string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, d.errorf("invalid %s %q", what, s)
	}
	return v, nil
}

func (d *deckScanner) atof(s, what string) (float64, error) {
	v, err := strconv.ParseFloat(strings.Replace(s, "D", "E", 1), 64)
	if err != nil {
		return 0, d.errorf("invalid %s %q", what, s)
	}
	return v, nil
}
