// udpseam is a command-line front end for the UDP socket seam: free-port
// probing, one-shot request/reply probes and an echo responder.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/acolita/udpseam/internal/cli"
	"github.com/acolita/udpseam/internal/recovery"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		for _, s := range recovery.NewAnalyzer().Analyze(err) {
			fmt.Fprintf(os.Stderr, "  %s: %s\n", s.Error, s.Explanation)
			fmt.Fprintf(os.Stderr, "    try: %s\n", strings.Join(s.Hints, " | "))
		}
		os.Exit(1)
	}
}
