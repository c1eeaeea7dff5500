package itinerary

import (
	"fmt"
	"io"
	"strings"
)

// Line renders it as one output line without the trailing newline. Every
// flight is written in its input form followed by a semicolon.
func Line(it Itinerary) string {
	var b strings.Builder

	for _, f := range it.Flights {
		b.WriteString(f.String())
		b.WriteByte(';')
	}

	return b.String()
}

// Format writes it to w followed by a newline.
func Format(w io.Writer, it Itinerary) error {
	if _, err := fmt.Fprintln(w, Line(it)); err != nil {
		return fmt.Errorf("write itinerary: %w", err)
	}

	return nil
}
