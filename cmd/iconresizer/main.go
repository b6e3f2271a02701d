package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/nocturnecity/iconresizer/internal"
)

const runCmd = "run"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		fmt.Fprintf(stderr, "iconresizer: one of the following command expected: '%v'\n", []string{runCmd})
		return 1
	}
	cmdName := args[0]
	if cmdName != runCmd {
		fmt.Fprintf(stderr, "iconresizer: unknown sub-command: %s\n", cmdName)
		return 1
	}

	var (
		configPath  string
		source      string
		outputDir   string
		logLVL      string
		metricsFile string
		bucket      string
		region      string
		prefix      string
	)

	cmd := flag.NewFlagSet(runCmd, flag.ContinueOnError)
	cmd.SetOutput(stderr)
	cmd.StringVar(&configPath, "config", "", "path to an optional YAML config file")
	cmd.StringVar(&source, "source", internal.DefaultSourcePath, "source image to resize")
	cmd.StringVar(&outputDir, "output-dir", internal.DefaultOutputDir, "directory the icons are written to")
	cmd.StringVar(&logLVL, "loglvl", internal.DefaultLogLevel, "set logging level: 'debug', 'info', 'error'")
	cmd.StringVar(&metricsFile, "metrics-file", "", "write Prometheus metrics to this textfile after the run")
	cmd.StringVar(&bucket, "s3-bucket", "", "publish the icons to this S3 bucket")
	cmd.StringVar(&region, "s3-region", "", "AWS region of the S3 bucket")
	cmd.StringVar(&prefix, "s3-prefix", "", "key prefix for published icons")

	if err := cmd.Parse(args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "iconresizer: error parsing arguments: '%v'\n", err)
		return 1
	}

	cfg := internal.DefaultConfig()
	if configPath != "" {
		var err error
		cfg, err = internal.LoadConfig(configPath)
		if err != nil {
			fmt.Fprintf(stderr, "iconresizer: %v\n", err)
			return 1
		}
	}

	// explicitly set flags win over the config file
	cmd.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "source":
			cfg.Source = source
		case "output-dir":
			cfg.OutputDir = outputDir
		case "loglvl":
			cfg.LogLevel = logLVL
		case "metrics-file":
			cfg.MetricsFile = metricsFile
		case "s3-bucket":
			cfg.S3.Bucket = bucket
		case "s3-region":
			cfg.S3.Region = region
		case "s3-prefix":
			cfg.S3.Prefix = prefix
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "iconresizer: %v\n", err)
		return 1
	}

	lvl, _ := internal.ParseLevel(cfg.LogLevel)
	stdLog := internal.NewStdLog(internal.WithLevel(lvl), internal.WithOutput(stderr))

	metrics := internal.NewMetrics()
	opts := []internal.ResizerOption{internal.WithMetrics(metrics)}
	req := cfg.Request()
	if req.Publish != nil {
		publisher, err := internal.NewS3Publisher(*req.Publish, stdLog)
		if err != nil {
			fmt.Fprintf(stderr, "iconresizer: %v\n", err)
			return 1
		}
		opts = append(opts, internal.WithPublisher(publisher))
	}

	_, err := internal.NewIconResizer(req, stdout, stdLog, opts...).ProcessRequest()
	if cfg.MetricsFile != "" {
		if mErr := metrics.WriteTextfile(cfg.MetricsFile); mErr != nil {
			stdLog.Error("%v", mErr)
		}
	}

	return report(err, stdout)
}

// report prints the run outcome on the same stream as the Saved lines.
func report(err error, stdout io.Writer) int {
	if err == nil {
		return 0
	}
	var notFound *internal.SourceNotFoundError
	if errors.As(err, &notFound) {
		fmt.Fprintf(stdout, "Source file not found: %s\n", notFound.Path)
		return 1
	}
	fmt.Fprintf(stdout, "Error processing image: %v\n", err)
	return 1
}
