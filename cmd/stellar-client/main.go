// stellar-client is a command line front end for the space-imagery and article
// client. Each subcommand runs one fetch or write and prints the resulting
// cache entry as JSON.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"stellar-client-go/internal/bootstrap"
	"stellar-client-go/internal/domain/eventbus"
)

// usageError marks bad invocations; main exits 2 for them.
type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr, bootstrap.Options{})
	stop()
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	var usage usageError
	if errors.As(err, &usage) {
		os.Exit(2)
	}
	os.Exit(1)
}

func run(ctx context.Context, argv []string, stdout, stderr io.Writer, opts bootstrap.Options) error {
	var configPath string
	var verbose bool

	flagSet := pflag.NewFlagSet("stellar-client", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.SetInterspersed(false)
	flagSet.StringVarP(&configPath, "config", "c", "", "path to config.yaml (default: search .config.yaml, config.yaml)")
	flagSet.BoolVarP(&verbose, "verbose", "v", false, "log every cache transition")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(argv); err != nil {
		if err == pflag.ErrHelp {
			printHelp(stderr, flagSet)
			return nil
		}
		return usageError{err.Error()}
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(stderr, flagSet)
		return nil
	}

	args := flagSet.Args()
	if len(args) == 0 {
		printHelp(stderr, flagSet)
		return usageError{"missing command"}
	}
	cmd, ok := lookup(args[0])
	if !ok {
		return usageError{fmt.Sprintf("unknown command %q", args[0])}
	}
	if err := cmd.checkArgs(args[1:]); err != nil {
		return err
	}

	if opts.ConfigPath == "" {
		opts.ConfigPath = configPath
	}
	if opts.LogOutput == nil {
		opts.LogOutput = stderr
	}
	app, err := bootstrap.New(ctx, opts)
	if err != nil {
		return err
	}
	defer app.Close(context.WithoutCancel(ctx))

	if verbose {
		err := app.Bus.Subscribe(eventbus.TopicCacheChanged, func(ev eventbus.CacheChanged) {
			app.Logger.InfoTag("CACHE", "%s[%s] -> %s", ev.Cache, ev.Key, ev.Status)
		})
		if err != nil {
			return err
		}
	}

	out, err := cmd.run(ctx, app, args[1:])
	if err != nil {
		return err
	}
	return printJSON(stdout, out)
}

func printHelp(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprintf(w, "Usage: stellar-client [flags] <command> [args]\n\nCommands:\n")
	for _, c := range commands {
		fmt.Fprintf(w, "  %-42s %s\n", c.name+" "+c.usage, c.summary)
	}
	fmt.Fprintf(w, "\nFlags:\n%s", flagSet.FlagUsages())
}
