package rewrite

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// confirm asks a yes/no question. Only "y" (any case) is a yes; EOF is a no.
func confirm(in *bufio.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", question)
	answer, err := in.ReadString('\n')
	if err != nil && answer == "" {
		fmt.Fprintln(out)
		return false
	}
	return strings.EqualFold(strings.TrimSpace(answer), "y")
}
