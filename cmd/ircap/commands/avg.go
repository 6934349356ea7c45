package commands

import (
	"fmt"
	"io"

	"github.com/sparques/irpad/internal/capture"
)

// RunAvg prints the column-wise average of the captures in r.
func RunAvg(r io.Reader, out io.Writer) error {
	trains, err := capture.ReadAll(r)
	if err != nil {
		return err
	}
	if len(trains) == 0 {
		return fmt.Errorf("no captures found")
	}
	_, err = fmt.Fprintf(out, "%s # average of %d\n", capture.FormatLine(capture.Average(trains)), len(trains))
	return err
}
