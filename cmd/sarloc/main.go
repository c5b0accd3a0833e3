// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.19
//

package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	m "github.com/mkhts/sarloc"
)

func main() {

	// Parse command line arguments
	args, err := parseArgs()
	if err != nil {
		m.PrintE(err)
		flag.Usage()
		os.Exit(1)
	}

	// Run the main application
	if err := runApplication(args); err != nil {
		m.PrintE(err)
		os.Exit(1)
	}
}

// Main application processing
func runApplication(args cmdOpt) error {

	// Load configuration files
	cst, err := m.LoadCst(args.cstFn)
	if err != nil {
		return fmt.Errorf("failed to load constants file: %w", err)
	}
	chd, err := m.LoadChd(args.chdFn)
	if err != nil {
		return fmt.Errorf("failed to load characterisation file: %w", err)
	}

	// Load or simulate ISPs
	isps, err := loadIsps(args, cst)
	if err != nil {
		return fmt.Errorf("failed to load ISPs: %w", err)
	}
	if len(isps) == 0 {
		return fmt.Errorf("no ISP record")
	}
	m.PrintD(1, "--- %d ISPs (%s - %s) ---\n", len(isps),
		isps[0].TimeSarKu.ToTime().UTC().Format("2006/01/02 15:04:05.000"),
		isps[len(isps)-1].TimeSarKu.ToTime().UTC().Format("2006/01/02 15:04:05.000"))

	// Save simulated ISPs
	if len(args.ispOutFn) > 0 {
		if err := writeIsps(args.ispOutFn, isps); err != nil {
			return fmt.Errorf("failed to write ISPs: %w", err)
		}
	}

	// Prepare output file
	out, err := prepareOutput(args)
	if err != nil {
		return fmt.Errorf("failed to prepare output: %w", err)
	}
	defer closeOutput(out)
	w := bufio.NewWriter(out)
	defer w.Flush()

	// Print header
	if !args.noHeader {
		printHeader(w, os.Args[0], args, isps)
	}

	// Process the pass
	return processPass(args, cst, chd, isps, w)
}

// Read ISPs from file or generate them from a TLE
func loadIsps(args cmdOpt, cst *m.Cst) ([]*m.Isp, error) {
	if len(args.tleFn) > 0 {
		tle1, tle2, err := readTle(args.tleFn)
		if err != nil {
			return nil, fmt.Errorf("failed to read TLE file: %w", err)
		}
		opt := m.NewSimOpt()
		opt.Count = args.simCount
		opt.Interval = args.simInterval
		opt.SurfaceHeight = args.surfHei
		return m.SimulateIsps(tle1, tle2, args.ts, cst, opt)
	}
	f, err := os.Open(args.ispFn)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return m.ReadIsps(f)
}

// Read the first two-line element set of a file (an optional name line is ignored)
func readTle(fn string) (string, string, error) {
	f, err := os.Open(fn)
	if err != nil {
		return "", "", err
	}
	defer f.Close()
	var l1 string
	s := bufio.NewScanner(f)
	for s.Scan() {
		line := s.Text()
		switch {
		case len(line) > 2 && line[:2] == "1 ":
			l1 = line
		case len(line) > 2 && line[:2] == "2 " && len(l1) > 0:
			return l1, line, nil
		}
	}
	if err := s.Err(); err != nil {
		return "", "", err
	}
	return "", "", fmt.Errorf("no two-line element set found in %s", fn)
}

func writeIsps(fn string, isps []*m.Isp) error {
	f, err := os.Create(fn)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if err := m.WriteIsps(w, isps); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Prepare output file
func prepareOutput(args cmdOpt) (io.WriteCloser, error) {

	// Use stdout if no output file is specified
	if len(args.outFn) == 0 {
		return &nopCloser{os.Stdout}, nil
	}

	// Create output file
	outf, err := os.Create(args.outFn)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return outf, nil
}

// Close output file
func closeOutput(out io.WriteCloser) {
	if out != nil {
		out.Close()
	}
}

// Feed the ISPs one by one and print each surface location as soon as it is closed
func processPass(args cmdOpt, cst *m.Cst, chd *m.Chd, isps []*m.Isp, out io.Writer) error {
	opt := m.NewProcOpt()
	opt.SkipDegenerate = args.skipDegenerate
	proc := m.NewProcessor(cst, chd, opt)

	for i, isp := range isps {
		loc, err := proc.Feed(isp)
		if err != nil {
			return fmt.Errorf("ISP #%d: %w", i, err)
		}
		if loc != nil {
			printLoc(loc, out)
		}
	}
	m.PrintD(1, "%d surface locations, %d ISPs skipped\n", len(proc.Locations()), proc.Skipped())
	return nil
}

// nopCloser - WriteCloser that ignores close operations
type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// Structure to hold command line argument information
type cmdOpt struct {
	ispFn          string
	tleFn          string
	ispOutFn       string
	cstFn          string
	chdFn          string
	outFn          string
	noHeader       bool
	skipDegenerate bool
	ts             time.Time
	simCount       int
	simInterval    time.Duration
	surfHei        float64
}

// Parse command line arguments
func parseArgs() (a cmdOpt, err error) {
	flag.Usage = func() {
		m.PrintA(`
[Usage]
	%s [Options] isp_file                  (surface locations of recorded ISPs)
	%s [Options] -tle tle_file [-ts ...]   (surface locations of a simulated pass)

[Options]
`, filepath.Base(os.Args[0]), filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	sOpt := m.NewSimOpt()
	pOpt := m.NewProcOpt()
	flag.StringVar(&a.cstFn, "cst", "", "Constants file (JSON). Defaults to WGS84 constants if omitted.")
	flag.StringVar(&a.chdFn, "chd", "", "Characterisation file (JSON). Defaults to SRAL like values if omitted.")
	flag.StringVar(&a.outFn, "o", "", "Output file path. If not specified, output to stdout.")
	flag.BoolVar(&a.noHeader, "nh", false, "Do not output header section.")
	flag.BoolVar(&a.skipDegenerate, "skip", pOpt.SkipDegenerate, "Skip ISPs with degenerate geometry instead of aborting the pass.")
	flag.StringVar(&a.tleFn, "tle", "", "Simulate a pass from the two-line element set in this file instead of reading ISPs.")
	flag.StringVar(&a.ispOutFn, "w", "", "Write the ISPs (read or simulated) to this file.")
	var ts_ m.TimeStr
	flag.TextVar(&ts_, "ts", m.NewTimeStr(time.Now().UTC().Truncate(time.Second)), "Simulation start. Enclose in quotes like -ts \"2023/01/01 00:00:00\"")
	flag.IntVar(&a.simCount, "n", sOpt.Count, "Number of simulated ISPs")
	flag.DurationVar(&a.simInterval, "dt", sOpt.Interval, "Interval between simulated ISPs")
	flag.Float64Var(&a.surfHei, "sh", sOpt.SurfaceHeight, "Ellipsoidal height of the simulated surface [m]")
	var dbg int
	flag.IntVar(&dbg, "x", 0, "Debug information display. Specify level value. 0(OFF), 1(display), 2(detailed display), 3(more detailed), 4(most detailed)")
	flag.Parse()
	switch {
	case len(a.tleFn) > 0 && flag.NArg() == 0:
	case len(a.tleFn) == 0 && flag.NArg() == 1:
		a.ispFn = flag.Arg(0)
	default:
		return a, fmt.Errorf("too less or many arguments")
	}
	a.ts = time.Time(ts_)
	m.DBG_ = dbg
	return
}

// Print output file header
func printHeader(out io.Writer, cmd string, args cmdOpt, isps []*m.Isp) {
	fmt.Fprintf(out, "%% program   : %s\n", filepath.Base(cmd))
	if len(args.tleFn) > 0 {
		fmt.Fprintf(out, "%% tle file  : %s\n", args.tleFn)
	} else {
		fmt.Fprintf(out, "%% isp file  : %s\n", args.ispFn)
	}
	fmt.Fprintf(out, "%% isp start : %s\n", isps[0].TimeSarKu.ToTime().UTC().Format("2006/01/02 15:04:05.000000"))
	fmt.Fprintf(out, "%% isp end   : %s\n", isps[len(isps)-1].TimeSarKu.ToTime().UTC().Format("2006/01/02 15:04:05.000000"))
	fmt.Fprintf(out, "%%  UTC                          latitude(deg) longitude(deg)  height(m)           x(m)           y(m)           z(m) first  beam_res(rad)\n")
}

// Output one surface location
func printLoc(loc *m.SurfaceLocationData, out io.Writer) {
	first := 0
	if loc.FirstSurf {
		first = 1
	}
	fmt.Fprintf(out, "%s %13.9f %14.9f %10.4f %14.4f %14.4f %14.4f %5d %14.9e\n",
		loc.TimeSurf.ToTime().UTC().Format("2006/01/02 15:04:05.000000"),
		loc.LatSurf, loc.LonSurf, loc.AltSurf, loc.XSurf, loc.YSurf, loc.ZSurf, first, loc.AngularAzimuthBeamResolution)
}
