package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/duynguyendang/formalmath/pkg/loader"
	"github.com/duynguyendang/formalmath/pkg/proof"
)

// Standalone batch verifier: loads a database file and re-verifies every
// theorem in it with detailed traces, printing a per-theorem report.
func main() {
	detailed := flag.Bool("detailed", false, "print full step traces")
	stepLimit := flag.Int("step-limit", 0, "maximum proof steps per run (0 = unbounded)")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Println("Usage: verify_db [--detailed] [--step-limit N] <database.yaml>")
		os.Exit(1)
	}
	path := flag.Arg(0)

	var opts []proof.Option
	if *stepLimit > 0 {
		opts = append(opts, proof.WithStepLimit(*stepLimit))
	}

	sys, err := loader.LoadFile(path, opts...)
	if err != nil {
		log.Fatalf("load %s: %v", path, err)
	}

	fmt.Printf("Loaded system %q: %d axioms, %d theorems\n",
		sys.Name(), len(sys.Axioms()), len(sys.Theorems()))

	failures := 0
	for _, label := range sys.Theorems() {
		result, err := sys.Verify(label, *detailed)
		if err != nil {
			fmt.Printf("FAIL %s: %v\n", label, err)
			failures++
			continue
		}
		fmt.Printf("OK   %s: %s (%d steps)\n", label, result.Conclusion, result.Steps)
		if *detailed {
			for _, line := range result.TraceStrings() {
				fmt.Println("     " + line)
			}
		}
	}

	if failures > 0 {
		os.Exit(1)
	}
}
