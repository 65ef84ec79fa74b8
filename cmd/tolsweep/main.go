// Command tolsweep scores recorded landmark sequences across a range of
// direction tolerances and reports how confidence and acceptance change.
//
// Without arguments it sweeps the embedded recordings. Recording files
// given as arguments are used instead.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/ayusman/handsign/internal/display"
	"github.com/ayusman/handsign/internal/gesture"
	"github.com/ayusman/handsign/testdata"
)

func main() {
	lo := flag.Float64("min", 5, "smallest tolerance in degrees")
	hi := flag.Float64("max", 90, "largest tolerance in degrees")
	step := flag.Float64("step", 5, "tolerance step in degrees")
	threshold := flag.Float64("threshold", display.DefaultAcceptThreshold, "accept threshold")
	out := flag.String("plot", "", "write a PNG chart to this path")
	flag.Parse()

	tols, err := tolerances(*lo, *hi, *step)
	if err != nil {
		log.Fatalf("Invalid range: %v", err)
	}

	recs, err := loadRecordings(flag.Args())
	if err != nil {
		log.Fatalf("Failed to load recordings: %v", err)
	}

	est := gesture.NewEstimator(gesture.DefaultRegistry(), gesture.DefaultEstimatorConfig())
	var all []series
	for _, r := range recs {
		if r.rec.Gesture == "" {
			log.Printf("Skipping %s: no gesture label", r.name)
			continue
		}
		all = append(all, sweep(est, r.name, r.rec, tols, *threshold))
	}

	if err := writeTable(os.Stdout, all); err != nil {
		log.Fatalf("Failed to write table: %v", err)
	}
	if *out != "" {
		if err := writePlot(*out, all, *threshold); err != nil {
			log.Fatalf("Failed to write plot: %v", err)
		}
		fmt.Printf("Wrote %s\n", *out)
	}
}

type namedRecording struct {
	name string
	rec  *testdata.Recording
}

func loadRecordings(paths []string) ([]namedRecording, error) {
	var out []namedRecording
	if len(paths) == 0 {
		for _, name := range testdata.Names() {
			rec, err := testdata.Load(name)
			if err != nil {
				return nil, err
			}
			out = append(out, namedRecording{name: name, rec: rec})
		}
		return out, nil
	}

	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, errors.Wrap(err, "read recording")
		}
		rec, err := testdata.Parse(data)
		if err != nil {
			return nil, errors.Wrap(err, p)
		}
		name := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
		out = append(out, namedRecording{name: name, rec: rec})
	}
	return out, nil
}
