//go:build linux

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ja7ad/procsampler/internal/reactor"
	"github.com/ja7ad/procsampler/internal/sampler"
	"github.com/ja7ad/procsampler/pkg/record"
	"github.com/ja7ad/procsampler/pkg/system/proc"
	"github.com/ja7ad/procsampler/pkg/types"
	"github.com/spf13/cobra"
)

type opts struct {
	period         time.Duration
	duration       time.Duration
	output         string
	disableThreads bool
	verbosity      int
}

func main() {
	var o opts

	root := &cobra.Command{
		Use:   "procsampler [process-name]...",
		Short: "Periodic /proc sampler for system and per-process CPU/memory stats",
		Long: `procsampler samples /proc/stat, /proc/meminfo, and the stat files of
watched processes (and their threads) on a fixed period, and appends
every sample as a self-describing binary record to a trace file.

Examples:
  procsampler -p 500ms -o /tmp/trace sshd nginx
  procsampler -d 60s --disable-threads`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), o, args)
		},
	}

	root.Flags().DurationVarP(&o.period, "period", "p", time.Second, "acquisition period")
	root.Flags().DurationVarP(&o.duration, "duration", "d", 0, "total run length (0 = run until signalled)")
	root.Flags().StringVarP(&o.output, "output", "o", "./trace", "base path for the trace file")
	root.Flags().BoolVar(&o.disableThreads, "disable-threads", false, "turn thread recording off")
	root.Flags().CountVarP(&o.verbosity, "verbose", "v", "raise the log level (repeatable)")

	if err := root.Execute(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func run(ctx context.Context, o opts, args []string) error {
	level := slog.LevelInfo
	if o.verbosity > 0 {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if o.period <= 0 {
		return fmt.Errorf("period must be > 0")
	}

	rec, err := record.New()
	if err != nil {
		return fmt.Errorf("build recorder: %w", err)
	}
	path, err := rec.Open(o.output)
	if err != nil {
		return fmt.Errorf("open trace file: %w", err)
	}
	defer rec.Close()
	slog.Info("trace opened", "path", path)

	if err := rec.RecordCommandLine(record.CommandLine{Params: strings.Join(os.Args, " ")}); err != nil {
		return fmt.Errorf("record command line: %w", err)
	}
	if err := rec.RecordSystemConfig(record.SystemConfig{
		ClkTck:   int32(proc.ClockTicks()),
		PageSize: int32(proc.PageSize()),
	}); err != nil {
		return fmt.Errorf("record system config: %w", err)
	}

	re, err := reactor.New()
	if err != nil {
		return fmt.Errorf("build reactor: %w", err)
	}
	defer re.Close()

	samp := sampler.New(sampler.Callbacks{
		ResultsBegin: func(d record.AcquisitionDuration) {
			if err := rec.RecordAcquisitionDuration(d); err != nil {
				slog.Warn("record acquisition duration failed", "err", err)
			}
		},
		ResultsEnd: func() {
			if err := rec.Flush(); err != nil {
				slog.Warn("flush failed", "err", err)
			}
		},
		SystemStats: func(ss record.SystemStats) error {
			if err := rec.RecordSystemStats(ss); err != nil {
				slog.Warn("record system stats failed", "err", err)
			}
			slog.Debug("system stats",
				"ram_total", types.Bytes(ss.RamTotal).Humanized(),
				"ram_available", types.Bytes(ss.RamAvailable).Humanized(),
			)
			return nil
		},
		ProcessStats: func(ps record.ProcessStats) error {
			if err := rec.RecordProcessStats(ps); err != nil {
				slog.Warn("record process stats failed", "pid", ps.PID, "err", err)
			}
			return nil
		},
		ThreadStats: func(ts record.ThreadStats) error {
			if err := rec.RecordThreadStats(ts); err != nil {
				slog.Warn("record thread stats failed", "pid", ts.PID, "tid", ts.TID, "err", err)
			}
			return nil
		},
	}, !o.disableThreads)

	if len(args) == 0 {
		if err := samp.LoadProcesses(); err != nil {
			return fmt.Errorf("load processes: %w", err)
		}
	} else {
		for _, name := range args {
			samp.AddProcessByName(name)
		}
	}

	samp.Start()
	defer samp.Stop()

	timer, err := reactor.NewPeriodic(re, o.period, func() {
		if err := samp.Tick(); err != nil {
			slog.Warn("tick failed", "err", err)
		}
	})
	if err != nil {
		return fmt.Errorf("arm acquisition timer: %w", err)
	}
	defer timer.Clear()
	samp.Bind(timer, o.period)

	if err := samp.Tick(); err != nil {
		slog.Warn("initial tick failed", "err", err)
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if o.duration > 0 {
		durationTimer, err := reactor.NewOneShot(re, o.duration, func() {
			slog.Info("duration elapsed")
			_ = re.Abort()
		})
		if err != nil {
			return fmt.Errorf("arm duration timer: %w", err)
		}
		defer durationTimer.Clear()
	}

	if err := re.Run(ctx); err != nil {
		return fmt.Errorf("reactor run: %w", err)
	}

	slog.Info("stopped")
	return nil
}
