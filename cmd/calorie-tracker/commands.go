package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"calorie-tracker/internal/nutrients"
	"calorie-tracker/internal/report"
	"calorie-tracker/internal/server"
)

var errUsage = errors.New("invalid usage")

// amountFlag is a float flag that remembers whether it was given, so an
// explicit 0 is distinct from "not provided".
type amountFlag struct {
	value *float64
}

func (f *amountFlag) String() string {
	if f.value == nil {
		return ""
	}
	return report.FormatAmount(*f.value)
}

func (f *amountFlag) Set(raw string) error {
	v, err := nutrients.ParseAmount(raw)
	if err != nil {
		return err
	}
	f.value = &v
	return nil
}

// microFlag collects repeated --micro key=value tokens in order.
type microFlag []string

func (f *microFlag) String() string {
	return strings.Join(*f, " ")
}

func (f *microFlag) Set(raw string) error {
	*f = append(*f, raw)
	return nil
}

func (a *app) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	return fs
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: unexpected arguments %v", errUsage, fs.Args())
	}
	return nil
}

func (a *app) add(ctx context.Context, args []string) error {
	fs := a.flagSet("add")
	name := fs.String("name", "", "food name (required)")
	csvPath := fs.String("csv", "", "reference CSV table (defaults to the configured table)")
	var calories, carbs, protein, fat amountFlag
	var micros microFlag
	fs.Var(&calories, "calories", "kilocalories")
	fs.Var(&carbs, "carbs", "carbohydrate grams")
	fs.Var(&protein, "protein", "protein grams")
	fs.Var(&fat, "fat", "fat grams")
	fs.Var(&micros, "micro", "micronutrient as key=value; repeatable")

	if err := parse(fs, args); err != nil {
		return err
	}
	if strings.TrimSpace(*name) == "" {
		return fmt.Errorf("%w: --name is required", errUsage)
	}

	rec, err := a.tracker.Add(ctx, nutrients.Request{
		Name:     *name,
		Calories: calories.value,
		Carbs:    carbs.value,
		Protein:  protein.value,
		Fat:      fat.value,
		Micros:   micros,
		Source:   a.tracker.Table(*csvPath),
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Added %s\n", rec.Name)
	return nil
}

func (a *app) summary(ctx context.Context, args []string) error {
	if err := parse(a.flagSet("summary"), args); err != nil {
		return err
	}
	totals, err := a.tracker.Summary(ctx)
	if err != nil {
		return err
	}
	return report.WriteSummary(a.stdout, totals)
}

func (a *app) reset(ctx context.Context, args []string) error {
	if err := parse(a.flagSet("reset"), args); err != nil {
		return err
	}
	if err := a.tracker.Reset(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, "Log reset")
	return nil
}

func (a *app) lookup(args []string) error {
	fs := a.flagSet("lookup")
	name := fs.String("name", "", "food name (required)")
	csvPath := fs.String("csv", "", "reference CSV table (defaults to the configured table)")
	if err := parse(fs, args); err != nil {
		return err
	}
	if strings.TrimSpace(*name) == "" {
		return fmt.Errorf("%w: --name is required", errUsage)
	}

	row, ok := a.tracker.Lookup(*name, *csvPath)
	if !ok {
		fmt.Fprintf(a.stdout, "No data found for %s\n", *name)
		return nil
	}
	return report.WriteReference(a.stdout, row)
}

func (a *app) serve(ctx context.Context, args []string) error {
	if err := parse(a.flagSet("serve"), args); err != nil {
		return err
	}

	srv := server.NewTrackerServer(&server.Config{
		Host:      a.cfg.Host,
		Port:      a.cfg.Port,
		RateLimit: a.cfg.RateLimit,
		RateBurst: a.cfg.RateBurst,
	}, a.tracker, a.log)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigCh)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(ctx)
	}()

	var serveErr error
wait:
	for {
		select {
		case sig := <-sigCh:
			if sig == syscall.SIGHUP {
				a.reloadReference()
				continue
			}
			a.log.Info("Received shutdown signal")
			break wait
		case <-ctx.Done():
			break wait
		case serveErr = <-errCh:
			if serveErr != nil {
				a.log.WithError(serveErr).Error("Server error")
			}
			break wait
		}
	}

	a.log.Info("Shutting down")
	cancel()
	if err := srv.Stop(); err != nil {
		a.log.WithError(err).Warn("Error during shutdown")
	}
	return serveErr
}

// reloadReference drops the cached default table so the next lookup rereads
// it from disk.
func (a *app) reloadReference() {
	a.catalog.Invalidate(a.cfg.ReferencePath)
	a.log.WithField("path", a.cfg.ReferencePath).Info("Reference table reloaded")
}
