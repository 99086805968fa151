package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/pdie/internal/scheduler"
	"github.com/wonny/pdie/internal/scheduler/jobs"
	"github.com/wonny/pdie/pkg/redis"
)

var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Weekly scoring scheduler",
	Long: `Runs or inspects the weekly scoring job (feed reload, rescoring,
impact projection, cache write).

Subcommands:
  start   - run the scheduler until Ctrl+C
  list    - registered jobs and their schedules
  run     - execute a job once and print the result

Example:
  go run ./cmd/pdie scheduler start --run-now
  go run ./cmd/pdie scheduler run weekly_scoring`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the scheduler daemon",
		RunE:  runSchedulerStart,
	}

	schedulerListCmd = &cobra.Command{
		Use:   "list",
		Short: "List registered jobs",
		RunE:  runSchedulerList,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "Run one job now",
		Args:  cobra.ExactArgs(1),
		RunE:  runSchedulerJob,
	}
)

var schedulerRunNow bool

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerListCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
	schedulerStartCmd.Flags().BoolVar(&schedulerRunNow, "run-now", false, "run every job once before waiting for the schedule")
}

// newScheduler registers the weekly scoring job; publisher and cache may be nil
func newScheduler(a *app, publisher jobs.Publisher, cache *redis.Cache) (*scheduler.Scheduler, error) {
	sched := scheduler.New(a.log, scheduler.Options{
		MaxRetries: a.cfg.Schedule.MaxRetries,
		RetryDelay: a.cfg.Schedule.RetryDelay,
	})
	job := jobs.NewWeeklyScoringJob(a.service, publisher, cache, a.cfg.Schedule.WeeklyScoring, a.log)
	if err := sched.AddJob(job); err != nil {
		return nil, fmt.Errorf("register %s: %w", job.Name(), err)
	}
	return sched, nil
}

func runSchedulerStart(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := loadApp(ctx, true)
	if err != nil {
		return err
	}
	defer a.close()

	client, err := redis.New(ctx, a.cfg.Redis)
	if err != nil {
		return err
	}
	defer client.Close()

	sched, err := newScheduler(a, nil, redis.NewCache(client, "pdie"))
	if err != nil {
		return err
	}

	if schedulerRunNow {
		for _, name := range sched.Jobs() {
			res, err := sched.RunNow(ctx, name)
			if err != nil {
				return err
			}
			if !res.Success {
				a.log.Errorf("initial %s run failed after %d attempts: %s", name, res.Attempts, res.Error)
			}
		}
	}

	sched.Start()
	a.log.WithField("jobs", sched.Jobs()).Info("scheduler started")
	fmt.Fprintln(cmd.ErrOrStderr(), "✅ Scheduler running, press Ctrl+C to stop")

	<-ctx.Done()
	sched.Stop()
	a.log.Info("scheduler stopped")
	return nil
}

func runSchedulerList(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer a.close()

	sched, err := newScheduler(a, nil, nil)
	if err != nil {
		return err
	}
	stats := sched.Stats()

	w := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(w, stats)
	}

	printHeader(w, "Registered jobs")
	for _, name := range sched.Jobs() {
		printKeyValue(w, name, stats[name].Schedule)
	}
	return nil
}

func runSchedulerJob(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := loadApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.close()

	client, err := redis.New(ctx, a.cfg.Redis)
	if err != nil {
		return err
	}
	defer client.Close()

	sched, err := newScheduler(a, nil, redis.NewCache(client, "pdie"))
	if err != nil {
		return err
	}

	result, err := sched.RunNow(ctx, args[0])
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if jsonOutput {
		if err := printJSON(w, result); err != nil {
			return err
		}
	} else {
		status := "✅ success"
		if !result.Success {
			status = "❌ " + result.Error
		}
		printHeader(w, "Job "+result.JobName)
		printKeyValue(w, "Status", status)
		printKeyValue(w, "Attempts", fmt.Sprintf("%d", result.Attempts))
		printKeyValue(w, "Duration", result.Duration.Round(time.Millisecond).String())
	}

	if !result.Success {
		return fmt.Errorf("job %s failed after %d attempts", result.JobName, result.Attempts)
	}
	return nil
}

// shutdownContext bounds graceful shutdown after the run context is cancelled
func shutdownContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}
