package vdf

import (
	"bufio"
	"io"
	"strings"
)

var escaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// Encode writes t in Valve's tab indented text format.
func Encode(w io.Writer, t *Tree) error {
	bw := bufio.NewWriter(w)

	encodeObject(bw, t, 0)

	return bw.Flush()
}

func encodeObject(w *bufio.Writer, t *Tree, depth int) {
	indent := strings.Repeat("\t", depth)

	for _, k := range t.keys {
		w.WriteString(indent)
		writeQuoted(w, k)

		switch v := t.values[k].(type) {
		case string:
			w.WriteString("\t\t")
			writeQuoted(w, v)
			w.WriteString("\n")
		case *Tree:
			w.WriteString("\n")
			w.WriteString(indent)
			w.WriteString("{\n")
			encodeObject(w, v, depth+1)
			w.WriteString(indent)
			w.WriteString("}\n")
		}
	}
}

func writeQuoted(w *bufio.Writer, s string) {
	w.WriteByte('"')
	w.WriteString(escaper.Replace(s))
	w.WriteByte('"')
}
