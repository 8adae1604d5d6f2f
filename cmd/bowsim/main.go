// Command bowsim scores document similarity from bag-of-words triples.
//
// Input is one "doc<TAB>term<TAB>freq" triple per line; blank lines and lines
// starting with '#' are skipped. By default every document pair is printed as
// "docA<TAB>docB<TAB>score". With -doc, only the documents most similar to
// that one are printed.
//
// Usage:
//
//	bowsim -input counts.tsv
//	bowsim -config bow.yaml -doc doc1 -k 5 < counts.tsv
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/wizenheimer/bow"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "bowsim: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("bowsim", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "path to a YAML config file")
	inputPath := fs.String("input", "", "triples file (default stdin)")
	doc := fs.String("doc", "", "only print documents similar to this one")
	k := fs.Int("k", 10, "number of similar documents for -doc (0 = all)")
	topics := fs.Int("topics", 0, "number of topics passed to the pairwise computation")
	dumpMetrics := fs.Bool("metrics", false, "print collected metrics to stderr on exit")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := bow.LoadConfig(*configPath)
	if err != nil {
		return err
	}
	if *dumpMetrics {
		cfg.Metrics.Enabled = true
	}

	reg := prometheus.NewRegistry()
	opts, _, err := cfg.Options(stderr, reg)
	if err != nil {
		return err
	}
	logger, err := cfg.Logger(stderr)
	if err != nil {
		return err
	}

	in := stdin
	if *inputPath != "" {
		f, err := os.Open(*inputPath)
		if err != nil {
			return fmt.Errorf("opening input: %w", err)
		}
		defer f.Close()
		in = f
	}

	model := bow.NewModel(opts...)
	if err := loadTriples(model, in); err != nil {
		return err
	}
	stats := model.Stats()
	logger.Info().
		Int("documents", stats.Documents).
		Int("entries", stats.Entries).
		Int("terms", stats.Terms).
		Msg("input loaded")

	var results []bow.Similarity
	if *doc != "" {
		results, err = model.NewSearch().WithDocument(*doc).WithK(*k).Execute()
		if err != nil {
			return err
		}
	} else {
		results = model.ComputeAllSimilarities(*topics)
	}

	out := bufio.NewWriter(stdout)
	for _, r := range results {
		fmt.Fprintf(out, "%s\t%s\t%.6f\n", r.A, r.B, r.Score)
	}
	if err := out.Flush(); err != nil {
		return fmt.Errorf("writing results: %w", err)
	}

	if *dumpMetrics {
		if err := writeMetrics(stderr, reg); err != nil {
			return err
		}
	}
	return nil
}

// loadTriples reads "doc<TAB>term<TAB>freq" lines into m.
func loadTriples(m *bow.Model, r io.Reader) error {
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Split(text, "\t")
		if len(fields) != 3 {
			return fmt.Errorf("line %d: want 3 tab-separated fields, got %d", line, len(fields))
		}
		freq, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return fmt.Errorf("line %d: frequency %q: %w", line, fields[2], err)
		}
		m.Add(fields[0], fields[1], freq)
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	return nil
}

// writeMetrics prints one "name value" line per gauge, counter and histogram
// sample count gathered from g.
func writeMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			switch {
			case m.GetGauge() != nil:
				fmt.Fprintf(w, "%s %g\n", mf.GetName(), m.GetGauge().GetValue())
			case m.GetCounter() != nil:
				fmt.Fprintf(w, "%s %g\n", mf.GetName(), m.GetCounter().GetValue())
			case m.GetHistogram() != nil:
				fmt.Fprintf(w, "%s_count %d\n", mf.GetName(), m.GetHistogram().GetSampleCount())
				fmt.Fprintf(w, "%s_sum %g\n", mf.GetName(), m.GetHistogram().GetSampleSum())
			}
		}
	}
	return nil
}
