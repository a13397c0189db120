// Command hurl runs plain-text HTTP exchange files against a live
// server, evaluating their response specifications as assertions (spec
// §1/§6 "CLI surface (external collaborator)").
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hurlgo/hurl/internal/httpclient"
	"github.com/hurlgo/hurl/internal/parallel"
	"github.com/hurlgo/hurl/internal/parser"
	"github.com/hurlgo/hurl/internal/redact"
	"github.com/hurlgo/hurl/internal/runner"
	"github.com/hurlgo/hurl/internal/value"
	"github.com/hurlgo/hurl/internal/variables"
)

// Exit codes (spec §6 "CLI surface"): 0 success, 1 argument error, 2
// parsing error, 3 runtime error, 4 assert failure.
const (
	exitSuccess       = 0
	exitArgumentError = 1
	exitParseError    = 2
	exitRuntimeError  = 3
	exitAssertFailure = 4
)

type multiFlag []string

func (m *multiFlag) String() string     { return strings.Join(*m, ",") }
func (m *multiFlag) Set(v string) error { *m = append(*m, v); return nil }

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("hurl", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		variableFlags     multiFlag
		secretFlags       multiFlag
		variablesFile     = fs.String("variables-file", "", "path to a properties file of NAME=VALUE seed variables")
		test              = fs.Bool("test", false, "test mode: print a passed/total file count after the summaries")
		parallelMode      = fs.Bool("parallel", false, "run input files concurrently over a bounded worker pool")
		jobs              = fs.Int("jobs", 1, "worker count when --parallel is set")
		retry             = fs.Int64("retry", 0, "retry count applied to every entry whose [Options] does not set retry")
		retryIntervalMS   = fs.Int64("retry-interval", 1000, "milliseconds to wait between retries")
		failFast          = fs.Bool("fail-fast", false, "stop a file (or the whole run) at the first failing entry")
		toEntry           = fs.Int("to-entry", 0, "stop each file after this 1-based entry index (0 = run to completion)")
		output            = fs.String("output", "", "write the last entry's response body to this file")
		insecure          = fs.Bool("insecure", false, "disable TLS certificate verification")
		connectTimeoutSec = fs.Int("connect-timeout", 0, "connection timeout in seconds (0 = engine default)")
		timeoutSec        = fs.Int("max-time", 0, "overall request timeout in seconds (0 = engine default)")
		followRedirects   = fs.Bool("location", false, "follow HTTP redirects")
		verbose           = fs.Bool("verbose", false, "log each request/response at debug level")
	)
	fs.Var(&variableFlags, "variable", "NAME=VALUE public variable, may be repeated")
	fs.Var(&secretFlags, "secret", "NAME=VALUE secret variable, may be repeated")

	if err := fs.Parse(args); err != nil {
		return exitArgumentError
	}
	files := fs.Args()
	if len(files) == 0 {
		fmt.Fprintln(stderr, "hurl: at least one input file (or - for stdin) is required")
		return exitArgumentError
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	seed := variables.New()
	if *variablesFile != "" {
		if err := seedFromFile(seed, *variablesFile); err != nil {
			fmt.Fprintf(stderr, "hurl: %v\n", err)
			return exitArgumentError
		}
	}
	for _, kv := range variableFlags {
		if err := seedFromFlag(seed, kv, variables.Public); err != nil {
			fmt.Fprintf(stderr, "hurl: %v\n", err)
			return exitArgumentError
		}
	}
	for _, kv := range secretFlags {
		if err := seedFromFlag(seed, kv, variables.Secret); err != nil {
			fmt.Fprintf(stderr, "hurl: %v\n", err)
			return exitArgumentError
		}
	}
	redactor := redact.New(seed)

	base := runner.Default()
	if *retry != 0 {
		base.Retry = *retry
	}
	base.RetryInterval = time.Duration(*retryIntervalMS) * time.Millisecond
	base.Insecure = *insecure
	base.FollowLocation = *followRedirects
	if *connectTimeoutSec > 0 {
		base.ConnectTimeout = time.Duration(*connectTimeoutSec) * time.Second
	}
	if *timeoutSec > 0 {
		base.Timeout = time.Duration(*timeoutSec) * time.Second
	}

	sources, names, err := readSources(files)
	if err != nil {
		fmt.Fprintf(stderr, "hurl: %v\n", err)
		return exitArgumentError
	}

	var results []runner.HurlResult
	if *parallelMode && len(sources) > 1 {
		results, err = runParallel(context.Background(), names, sources, *jobs, *failFast, *toEntry, base, seed, logger)
	} else {
		results, err = runSequential(context.Background(), names, sources, *failFast, *toEntry, base, seed, logger)
	}
	if err != nil {
		fmt.Fprintf(stderr, "hurl: %s\n", redactor.String(err.Error()))
		var perr *parser.Error
		if errors.As(err, &perr) {
			return exitParseError
		}
		return exitRuntimeError
	}

	overallSuccess := true
	passed := 0
	for _, r := range results {
		printSummary(stderr, redactor, r)
		if r.Success {
			passed++
		} else {
			overallSuccess = false
		}
	}
	if *test {
		fmt.Fprintf(stderr, "%d/%d files passed\n", passed, len(results))
	}

	if *output != "" && len(results) > 0 {
		if err := writeLastBody(*output, results[len(results)-1]); err != nil {
			fmt.Fprintf(stderr, "hurl: %v\n", err)
			return exitRuntimeError
		}
	}

	if !overallSuccess {
		return exitAssertFailure
	}
	return exitSuccess
}

func readSources(files []string) (sources, names []string, err error) {
	for _, f := range files {
		if f == "-" {
			b, rerr := io.ReadAll(os.Stdin)
			if rerr != nil {
				return nil, nil, fmt.Errorf("reading stdin: %w", rerr)
			}
			sources = append(sources, string(b))
			names = append(names, "-")
			continue
		}
		b, rerr := os.ReadFile(f)
		if rerr != nil {
			return nil, nil, fmt.Errorf("reading %s: %w", f, rerr)
		}
		sources = append(sources, string(b))
		names = append(names, f)
	}
	return sources, names, nil
}

func runSequential(ctx context.Context, names, sources []string, failFast bool, toEntry int, base runner.Options, seed *variables.VariableSet, logger *slog.Logger) ([]runner.HurlResult, error) {
	jar := httpclient.NewCookieJar()
	client := httpclient.New(jar)
	er := runner.NewEntryRunner(client, ".")
	er.Logger = logger

	vs := seed.Clone()
	var results []runner.HurlResult
	for i, src := range sources {
		file, err := parser.ParseFile(src, ".")
		if err != nil {
			return results, fmt.Errorf("parsing %s: %w", names[i], err)
		}
		fr := &runner.FileRunner{Entry: er, Jar: jar, FailFast: failFast, ToEntry: toEntry}
		result := fr.Run(ctx, names[i], file, vs, base)
		results = append(results, result)
		if !result.Success && failFast {
			break
		}
	}
	return results, nil
}

func runParallel(ctx context.Context, names, sources []string, workers int, failFast bool, toEntry int, base runner.Options, seed *variables.VariableSet, logger *slog.Logger) ([]runner.HurlResult, error) {
	jobs := make([]parallel.Job, len(names))
	for i := range names {
		jobs[i] = parallel.Job{Seq: i, Filename: names[i], Source: sources[i]}
	}
	sched := parallel.New(
		parallel.Config{Workers: workers, FailFast: failFast},
		parallel.Options{Base: base, ContextDir: ".", SeedVars: seed, ToEntry: toEntry},
		func(hb parallel.Heartbeat) {
			logger.Debug("progress", slog.String("file", hb.Filename), slog.Int("entry", hb.EntryIndex), slog.Int("of", hb.EntryCount))
		},
	)
	completed := sched.Run(ctx, jobs)
	results := make([]runner.HurlResult, 0, len(completed))
	for _, c := range completed {
		if c.Err != nil {
			return results, fmt.Errorf("running %s: %w", c.Filename, c.Err)
		}
		results = append(results, c.Result)
	}
	return results, nil
}

func printSummary(w io.Writer, redactor *redact.Redactor, r runner.HurlResult) {
	status := "PASS"
	if !r.Success {
		status = "FAIL"
	}
	fmt.Fprintf(w, "%s: %s (%d entries, %s)\n", status, redactor.String(r.Filename), len(r.Entries), r.Duration)
	for _, e := range r.Entries {
		for _, a := range e.Asserts {
			if !a.Passed {
				fmt.Fprintf(w, "  entry %d: assert failed: %s\n", e.EntryIndex, redactor.String(a.Message))
			}
		}
		for _, err := range e.Errors {
			fmt.Fprintf(w, "  entry %d: error: %s\n", e.EntryIndex, redactor.String(err.Error()))
		}
	}
}

func writeLastBody(path string, r runner.HurlResult) error {
	if len(r.Entries) == 0 {
		return nil
	}
	last := r.Entries[len(r.Entries)-1]
	if len(last.Calls) == 0 {
		return nil
	}
	body := last.Calls[len(last.Calls)-1].Response.Body
	return os.WriteFile(path, body, 0o644)
}

func seedFromFlag(vs *variables.VariableSet, kv string, visibility variables.Visibility) error {
	name, val, ok := strings.Cut(kv, "=")
	if !ok {
		return fmt.Errorf("invalid NAME=VALUE argument %q", kv)
	}
	vs.Seed(name, inferValue(val), visibility, variables.SourceCommandLine)
	return nil
}

func seedFromFile(vs *variables.VariableSet, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	for _, line := range strings.Split(string(b), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		name, val, ok := strings.Cut(line, "=")
		if !ok {
			return fmt.Errorf("invalid variables-file line %q", line)
		}
		vs.Seed(name, inferValue(val), variables.Public, variables.SourceFile)
	}
	return nil
}

// inferValue parses a --variable/--variables-file scalar the way the
// format's literals do (spec §3 Value variants): bool/int/float first,
// falling back to string.
func inferValue(s string) value.Value {
	if s == "true" || s == "false" {
		return value.BoolVal(s == "true")
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return value.IntVal(i)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if v, ferr := value.FloatVal(f); ferr == nil {
			return v
		}
	}
	return value.StrVal(s)
}
