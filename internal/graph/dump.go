package graph

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Dump writes a human-readable listing of every node and its neighbours.
// The format is meant for debugging and may change.
func (t *Tree) Dump(w io.Writer) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "# %d nodes, %d start technologies, %d dangling\n",
		t.Len(), len(t.StartTech), len(t.Dangling))
	fmt.Fprintf(bw, "start: %s\n", strings.Join(t.Names(t.StartTech), ", "))
	fmt.Fprintf(bw, "dangling: %s\n\n", strings.Join(t.Names(t.Dangling), ", "))

	for _, n := range t.Nodes() {
		marker := ""
		if n.Dangling() {
			marker = " (dangling)"
		}
		fmt.Fprintf(bw, "Node %s%s\n", n.Name, marker)
		fmt.Fprintf(bw, "  prev: [%s]\n", strings.Join(t.Names(n.Predecessors), ", "))
		fmt.Fprintf(bw, "  next: [%s]\n", strings.Join(t.Names(n.Successors), ", "))
	}
	return bw.Flush()
}
