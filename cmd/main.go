package main

import (
	"LineGrep/internal"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:      "LineGrep",
		Usage:     "Search patterns in files under one or more paths, whatever their encoding",
		ArgsUsage: "PATH [PATH...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "pattern",
				Aliases: []string{"e"},
				Usage:   "Regex pattern to search for (mutually exclusive with --pattern-file)",
			},
			&cli.StringFlag{
				Name:    "pattern-file",
				Aliases: []string{"f"},
				Usage:   "Path to text file with one pattern per line",
			},
			&cli.BoolFlag{
				Name:    "ignore-case",
				Aliases: []string{"i"},
				Usage:   "Case-insensitive matching for all patterns",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write results to a file instead of stdout",
			},
			&cli.BoolFlag{
				Name:    "stat",
				Aliases: []string{"s"},
				Usage:   "Print statistics about the search",
			},
			&cli.IntFlag{
				Name:  "threads",
				Usage: "Max concurrent file workers (default scales with CPU)",
				Value: 0,
			},
			&cli.IntFlag{
				Name:  "depth",
				Usage: "Max directory depth (0 - unlimited)",
				Value: 0,
			},
			&cli.BoolFlag{
				Name:  "archives",
				Usage: "Also scan inside archives (.zip,.tar,.gz,.bz2,.xz,.rar,.7z,...)",
			},
			&cli.StringSliceFlag{
				Name:  "whitelist",
				Usage: "Only scan these extensions (comma separated, e.g. txt,log,json). Use without dot.",
			},
			&cli.StringSliceFlag{
				Name:  "blacklist",
				Usage: "Skip these extensions (comma separated). If whitelist is set, blacklist is ignored.",
			},
			&cli.BoolFlag{
				Name:  "no-ignore",
				Usage: "Do not honor .gitignore files (.git dirs are still skipped)",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Global timeout for scan (e.g. 10m, 1h)",
			},
			&cli.StringFlag{
				Name:  "logfile",
				Usage: "Write logs into file instead of stderr",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level: trace, debug, info, warn, error",
				Value: "warn",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		logrus.Fatal(err)
	}
}

func run(c *cli.Context) error {
	internal.InitLogger(c.String("logfile"), c.String("log-level"))

	roots := c.Args().Slice()
	if len(roots) == 0 {
		return cli.Exit("At least one search path is required", 2)
	}

	// ctx with timeout + OS signals
	base := context.Background()
	var cancel context.CancelFunc
	if t := c.Duration("timeout"); t > 0 {
		base, cancel = context.WithTimeout(base, t)
	} else {
		base, cancel = context.WithCancel(base)
	}
	defer cancel()

	ctx, stop := signal.NotifyContext(base, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := internal.ScanOptions{
		Pattern:     c.String("pattern"),
		PatternFile: c.String("pattern-file"),
		IgnoreCase:  c.Bool("ignore-case"),
		Threads:     c.Int("threads"),
		Depth:       c.Int("depth"),
		Archives:    c.Bool("archives"),
		Whitelist:   normalizeExts(c.StringSlice("whitelist")),
		Blacklist:   normalizeExts(c.StringSlice("blacklist")),
		NoIgnore:    c.Bool("no-ignore"),
	}
	if err := opts.Validate(); err != nil {
		return cli.Exit(err.Error(), 2)
	}
	opts.Prepare()

	// Patterns compile before any file I/O: a bad pattern aborts the run.
	texts, err := opts.PatternTexts()
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	matchers, err := internal.NewCompiler().CompileAll(texts, opts.IgnoreCase)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	valid, invalid := internal.PartitionPaths(roots)
	for _, p := range invalid {
		logrus.Errorf("%s: No such file or directory", p)
	}
	if len(valid) == 0 {
		return cli.Exit("No valid search paths provided", 1)
	}
	opts.Roots = valid

	var stats internal.AppStats
	results, err := internal.NewFileScanner().Scan(ctx, opts, matchers, &stats)
	if err != nil {
		if ctx.Err() != nil {
			logrus.Warn("Scan cancelled")
		} else {
			return cli.Exit(fmt.Sprintf("Scan failed: %v", err), 1)
		}
	}

	var reporter internal.Reporter
	if out := c.String("output"); out != "" {
		reporter = &internal.FileReporter{Path: out}
	} else {
		reporter = internal.NewConsoleReporter()
	}
	if err := reporter.Report(results, matchers); err != nil {
		return cli.Exit(fmt.Sprintf("Report failed: %v", err), 1)
	}

	if c.Bool("stat") {
		internal.WriteStats(os.Stdout, &stats, results)
	}
	return nil
}

// normalizeExts turns user extension lists into ".ext" form.
func normalizeExts(s []string) []string {
	out := make([]string, 0, len(s))
	for _, ext := range s {
		for _, v := range strings.Split(ext, ",") {
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			v = strings.TrimPrefix(v, ".")
			out = append(out, "."+strings.ToLower(v))
		}
	}
	return out
}
