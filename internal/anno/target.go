package anno

import (
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"
	"syscall"

	"github.com/psantana5/cpxanno/pkg/models"
)

var stdout io.Writer = os.Stdout

// IsBrokenPipe reports whether an error is a broken pipe / closed pipe.
// Happens when a consumer such as `head` closes stdout early.
func IsBrokenPipe(err error) bool {
	return err != nil && (errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe))
}

// ResolvePath appends ext to path unless it is already there.
// An empty ext means Extension.
func ResolvePath(path, ext string) string {
	if ext == "" {
		ext = Extension
	}
	if strings.HasSuffix(path, ext) {
		return path
	}
	return path + ext
}

// WriteToTarget writes model to target:
//   - nil writes to standard output
//   - a string is a file path; ext is appended when missing
//   - an io.Writer is written to directly
//
// Any other target, including a nil pointer writer, writes nothing and
// returns nil; a warning is logged.
func (p *Printer) WriteToTarget(model models.Annotated, target any, ext string) error {
	switch t := target.(type) {
	case nil:
		return p.WriteStdout(model)
	case string:
		_, _, err := p.WriteFile(model, t, ext)
		return err
	case io.Writer:
		if !isNilPointer(t) {
			return p.Write(t, model)
		}
	}
	p.log.Warn("unsupported annotation target, nothing written", map[string]interface{}{
		"target_type": fmt.Sprintf("%T", target),
	})
	return nil
}

// isNilPointer catches typed-nil writers such as (*os.File)(nil)
func isNilPointer(w io.Writer) bool {
	v := reflect.ValueOf(w)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}

// WriteStdout writes model to standard output; a closed pipe is not an error
func (p *Printer) WriteStdout(model models.Annotated) error {
	if err := p.Write(stdout, model); err != nil && !IsBrokenPipe(err) {
		return err
	}
	return nil
}

// WriteFile writes model to path (ext appended when missing), truncating any
// existing file. It returns the path actually written.
func (p *Printer) WriteFile(model models.Annotated, path, ext string) (resolved string, stats Stats, err error) {
	resolved = ResolvePath(path, ext)
	f, err := os.Create(resolved)
	if err != nil {
		return resolved, stats, fmt.Errorf("create annotation file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close annotation file: %w", cerr)
		}
	}()

	stats, err = p.WriteStats(f, model)
	if err == nil {
		p.log.Debug("annotation file written", map[string]interface{}{"path": resolved})
	}
	return resolved, stats, err
}

// WriteToString renders model into a string
func (p *Printer) WriteToString(model models.Annotated) (string, error) {
	var b strings.Builder
	if err := p.WriteToTarget(model, &b, Extension); err != nil {
		return "", err
	}
	return b.String(), nil
}
