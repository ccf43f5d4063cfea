package readfiles

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var ErrFormat = errors.New("badly formed mesh file")

// lineReader tracks the position in the input so that errors can point at the offending line.
type lineReader struct {
	reader *bufio.Reader
	name   string
	line   int
}

func newLineReader(r io.Reader, name string) *lineReader {
	return &lineReader{reader: bufio.NewReader(r), name: name}
}

func (lr *lineReader) errorf(format string, args ...interface{}) error {
	return fmt.Errorf("%s:%d: %w", lr.name, lr.line, fmt.Errorf(format, args...))
}

// formatErrorf is errorf for content errors, matched with ErrFormat.
func (lr *lineReader) formatErrorf(format string, args ...interface{}) error {
	return fmt.Errorf("%s:%d: %w: %s", lr.name, lr.line, ErrFormat, fmt.Sprintf(format, args...))
}

func (lr *lineReader) getLine() (line string, err error) {
	line, err = lr.reader.ReadString('\n')
	if err != nil {
		if err == io.EOF && len(line) != 0 {
			err = nil // Last line without a newline
		} else {
			if err == io.EOF {
				err = lr.errorf("early end of file: %w", io.EOF)
			}
			return
		}
	}
	lr.line++
	line = strings.TrimRight(line, "\r\n")
	return
}

func (lr *lineReader) skipLines(n int) (err error) {
	for i := 0; i < n; i++ {
		if _, err = lr.getLine(); err != nil {
			return
		}
	}
	return
}

// getLineNoComments skips blank lines and lines starting with %.
func (lr *lineReader) getLineNoComments() (line string, err error) {
	for {
		if line, err = lr.getLine(); err != nil {
			return
		}
		line = strings.TrimSpace(line)
		if len(line) != 0 && !strings.HasPrefix(line, "%") {
			return
		}
	}
}

// getToken splits a "KEYWORD= value" line.
func (lr *lineReader) getToken() (keyword, token string, err error) {
	var line string
	if line, err = lr.getLineNoComments(); err != nil {
		return
	}
	ind := strings.Index(line, "=")
	if ind < 0 {
		err = lr.formatErrorf("line [%s] should have an =", line)
		return
	}
	keyword = strings.ToUpper(strings.TrimSpace(line[:ind]))
	token = strings.TrimSpace(line[ind+1:])
	return
}

// readLabel reads a "KEYWORD= label" line and checks the keyword.
func (lr *lineReader) readLabel(keyword string) (label string, err error) {
	var kw string
	if kw, label, err = lr.getToken(); err != nil {
		return
	}
	if kw != keyword {
		err = lr.formatErrorf("expected %s, have %s", keyword, kw)
		return
	}
	if label == "" {
		err = lr.formatErrorf("empty %s", keyword)
	}
	return
}

// readNumber reads a "KEYWORD= number" line and checks the keyword.
func (lr *lineReader) readNumber(keyword string) (num int, err error) {
	var token string
	if token, err = lr.readLabel(keyword); err != nil {
		return
	}
	return lr.parseCount(token)
}

// parseCount reads the first field of token as a non negative count.
func (lr *lineReader) parseCount(token string) (num int, err error) {
	fields := strings.Fields(token)
	if len(fields) == 0 {
		err = lr.formatErrorf("missing number")
		return
	}
	if num, err = strconv.Atoi(fields[0]); err != nil || num < 0 {
		err = lr.formatErrorf("unable to read number from token: [%s]", token)
	}
	return
}

// readInts parses every field of a line as an integer.
func (lr *lineReader) readInts(line string) (vals []int, err error) {
	fields := strings.Fields(line)
	vals = make([]int, len(fields))
	for i, f := range fields {
		if vals[i], err = strconv.Atoi(f); err != nil {
			err = lr.formatErrorf("unable to read integer [%s]", f)
			return
		}
	}
	return
}

func (lr *lineReader) readFloats(fields []string) (vals []float64, err error) {
	vals = make([]float64, len(fields))
	for i, f := range fields {
		if vals[i], err = strconv.ParseFloat(f, 64); err != nil {
			err = lr.formatErrorf("unable to read number [%s]", f)
			return
		}
	}
	return
}
