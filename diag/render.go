package diag

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Render writes every diagnostic in err as "file:line:col: message",
// followed by the offending source line and a caret underline.
func Render(w io.Writer, filename string, src string, err error) {
	if err == nil {
		return
	}
	lines := strings.Split(src, "\n")
	var list List
	if !errors.As(err, &list) {
		var single Error
		if !errors.As(err, &single) {
			fmt.Fprintf(w, "%s: %v\n", filename, err)
			return
		}
		list = List{Wrap(single)}
	}
	for _, ce := range list {
		span := ce.Err.Pos()
		fmt.Fprintf(w, "%s:%s: %s error: %s\n", filename, span, ce.Stage, message(ce.Err))
		if span.Line < 1 || span.Line > len(lines) {
			continue
		}
		line := strings.TrimRight(lines[span.Line-1], "\r")
		fmt.Fprintf(w, "    %s\n", line)
		fmt.Fprintf(w, "    %s\n", underline(line, span.Column, span.Length))
	}
}

// message strips the position prefix every stage error carries.
func message(err Error) string {
	msg := err.Error()
	prefix := err.Pos().String() + ": "
	return strings.TrimPrefix(msg, prefix)
}

func underline(line string, column, length int) string {
	runes := []rune(line)
	start := column - 1
	if start > len(runes) {
		start = len(runes)
	}
	var sb strings.Builder
	for _, r := range runes[:start] {
		if r == '\t' {
			sb.WriteByte('\t')
			continue
		}
		sb.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	end := start + length
	if end > len(runes) {
		end = len(runes)
	}
	width := runewidth.StringWidth(string(runes[start:end]))
	if width < 1 {
		width = 1
	}
	sb.WriteString(strings.Repeat("^", width))
	return sb.String()
}
