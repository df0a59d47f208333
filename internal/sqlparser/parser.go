// Package sqlparser splits a forward-only SQL unit file into individual statements.
//
// The base case is to simply split on semicolons, as these naturally terminate a statement.
// However, more complex cases like pl/pgsql can have semicolons within a statement. For these
// cases the file may use the explicit annotations
//
//	-- +migrator StatementBegin
//	-- +migrator StatementEnd
//
// to tell the parser to ignore semicolons in between. Two more annotations are recognized:
//
//	-- +migrator NO TRANSACTION   run the statements outside of a transaction
//	-- +migrator ENVSUB ON|OFF    toggle ${VAR} substitution from the process environment
package sqlparser

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/mfridman/interpolate"
)

const annotationPrefix = "+migrator"

type annotation string

const (
	annotationStatementBegin annotation = "statementbegin"
	annotationStatementEnd   annotation = "statementend"
	annotationNoTransaction  annotation = "no transaction"
	annotationEnvsubOn       annotation = "envsub on"
	annotationEnvsubOff      annotation = "envsub off"
)

var supportedAnnotations = map[annotation]struct{}{
	annotationStatementBegin: {},
	annotationStatementEnd:   {},
	annotationNoTransaction:  {},
	annotationEnvsubOn:       {},
	annotationEnvsubOff:      {},
}

// Parsed is the result of parsing a SQL unit file.
type Parsed struct {
	// Statements are the statements in file order, trimmed of surrounding whitespace.
	Statements []string
	// UseTx is false when the file carries the NO TRANSACTION annotation.
	UseTx bool
}

const scanBufSize = 4 * 1024 * 1024

var bufferPool = sync.Pool{
	New: func() interface{} {
		buf := make([]byte, scanBufSize)
		return &buf
	},
}

// ParseFromFS parses the named file from fsys.
func ParseFromFS(fsys fs.FS, filename string, debug bool) (*Parsed, error) {
	f, err := fsys.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	p, err := Parse(f, debug)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return p, nil
}

// Parse reads a SQL unit and returns its statements.
func Parse(r io.Reader, debug bool) (*Parsed, error) {
	scanBufPtr := bufferPool.Get().(*[]byte)
	scanBuf := *scanBufPtr
	defer bufferPool.Put(scanBufPtr)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(scanBuf, scanBufSize)

	var (
		buf     bytes.Buffer
		inBlock bool
		envsub  bool
		lineNum int
	)
	parsed := &Parsed{UseTx: true}
	for scanner.Scan() {
		line := scanner.Text()
		lineNum++
		if debug {
			log.Println(line)
		}
		if buf.Len() == 0 && strings.TrimSpace(line) == "" {
			continue
		}
		if isAnnotation(line) {
			a, err := extractAnnotation(line)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNum, err)
			}
			switch a {
			case annotationStatementBegin:
				if inBlock {
					return nil, fmt.Errorf("line %d: nested '-- +migrator StatementBegin'", lineNum)
				}
				if remaining := strings.TrimSpace(buf.String()); remaining != "" {
					return nil, missingSemicolonError(remaining)
				}
				inBlock = true
			case annotationStatementEnd:
				if !inBlock {
					return nil, fmt.Errorf("line %d: '-- +migrator StatementEnd' must be defined after '-- +migrator StatementBegin'", lineNum)
				}
				parsed.Statements = append(parsed.Statements, cleanupStatement(buf.String()))
				buf.Reset()
				inBlock = false
			case annotationNoTransaction:
				parsed.UseTx = false
			case annotationEnvsubOn:
				envsub = true
			case annotationEnvsubOff:
				envsub = false
			}
			continue
		}
		// Leading comments and empty lines prior to a statement are ignored. Once a statement has
		// started, comments are kept until the statement ends.
		if buf.Len() == 0 && strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		if envsub {
			expanded, err := interpolate.Interpolate(&envWrapper{}, line)
			if err != nil {
				return nil, fmt.Errorf("line %d: variable substitution failed: %w", lineNum, err)
			}
			line = expanded
		}
		if _, err := buf.WriteString(line + "\n"); err != nil {
			return nil, fmt.Errorf("failed to write to buf: %w", err)
		}
		if !inBlock && endsWithSemicolon(line) {
			parsed.Statements = append(parsed.Statements, cleanupStatement(buf.String()))
			buf.Reset()
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan sql unit: %w", err)
	}
	if inBlock {
		return nil, errors.New("failed to parse sql unit: missing '-- +migrator StatementEnd' annotation")
	}
	if remaining := strings.TrimSpace(buf.String()); remaining != "" {
		return nil, missingSemicolonError(remaining)
	}
	return parsed, nil
}

func isAnnotation(line string) bool {
	s := strings.TrimSpace(line)
	if !strings.HasPrefix(s, "--") {
		return false
	}
	return strings.HasPrefix(strings.TrimSpace(strings.TrimPrefix(s, "--")), annotationPrefix)
}

// extractAnnotation returns the normalized annotation of a "-- +migrator ..." line. Matching is
// case-insensitive and tolerant of repeated whitespace.
func extractAnnotation(line string) (annotation, error) {
	s := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "--"))
	s = strings.TrimSpace(strings.TrimPrefix(s, annotationPrefix))
	if s == "" {
		return "", errors.New("empty annotation")
	}
	a := annotation(strings.ToLower(strings.Join(strings.Fields(s), " ")))
	if _, ok := supportedAnnotations[a]; !ok {
		return "", fmt.Errorf("unsupported annotation: %q", s)
	}
	return a, nil
}

func missingSemicolonError(s string) error {
	return fmt.Errorf("failed to parse sql unit: unexpected unfinished SQL query: %q: missing semicolon?", s)
}

// cleanupStatement trims whitespace from the given statement.
func cleanupStatement(input string) string {
	return strings.TrimSpace(input)
}

// Checks the line to see if the line has a statement-ending semicolon
// or if the line contains a double-dash comment.
func endsWithSemicolon(line string) bool {
	scanBufPtr := bufferPool.Get().(*[]byte)
	scanBuf := *scanBufPtr
	defer bufferPool.Put(scanBufPtr)

	prev := ""
	scanner := bufio.NewScanner(strings.NewReader(line))
	scanner.Buffer(scanBuf, scanBufSize)
	scanner.Split(bufio.ScanWords)

	for scanner.Scan() {
		word := scanner.Text()
		if strings.HasPrefix(word, "--") {
			break
		}
		prev = word
	}

	return strings.HasSuffix(prev, ";")
}

type envWrapper struct{}

var _ interpolate.Env = (*envWrapper)(nil)

func (e *envWrapper) Get(key string) (string, bool) {
	return os.LookupEnv(key)
}
