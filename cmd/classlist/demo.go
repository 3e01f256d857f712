package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/mail"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/alem-hub/classlist/config"
	"github.com/alem-hub/classlist/internal/application/roster"
	"github.com/alem-hub/classlist/internal/domain/shared"
	"github.com/alem-hub/classlist/internal/domain/student"
	"github.com/alem-hub/classlist/internal/infrastructure/grading"
	"github.com/alem-hub/classlist/internal/infrastructure/messaging"
	"github.com/alem-hub/classlist/internal/infrastructure/scheduler"
	"github.com/alem-hub/classlist/pkg/logger"
)

var defaultStudents = []string{
	"Alice Smith <alice.smith@example.com>",
	"Bob Jones <bob.jones@example.com>",
}

var demoAssignments = []string{"A1", "A2"}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the classroom scenario end to end",
	Long: `Adds the students to a classlist, releases A1 and A2 to everyone, lets one
student work on A1 and the next one hand in A2, lists who still owes work,
sends a final reminder for A2, waits for grading and prints a report.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if err := applyDemoFlags(cmd, cfg); err != nil {
			return err
		}
		specs, _ := cmd.Flags().GetStringArray("student")
		worker, _ := cmd.Flags().GetString("worker")

		log := setupLogger(cfg, cmd.ErrOrStderr())
		log.Info("starting classlist demo",
			"version", version,
			"virtual_clock", cfg.Simulation.VirtualClock,
			"work_delay", cfg.Simulation.WorkDelay.String(),
			"grade_delay", cfg.Simulation.GradeDelay.String(),
		)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return runDemo(ctx, cfg, specs, worker, cmd.OutOrStdout(), log)
	},
}

func init() {
	demoCmd.Flags().Uint64("seed", 0, "Grade generator seed, 0 for time-based (overrides SIM_SEED)")
	demoCmd.Flags().Duration("work-delay", 0, "Delay before an automatic submission (overrides SIM_WORK_DELAY)")
	demoCmd.Flags().Duration("grade-delay", 0, "Delay before grading (overrides SIM_GRADE_DELAY)")
	demoCmd.Flags().Bool("virtual", false, "Run delayed steps on a virtual clock (overrides SIM_VIRTUAL_CLOCK)")
	demoCmd.Flags().StringArray("student", defaultStudents, `Student as "Full Name <email>" (repeatable)`)
	demoCmd.Flags().String("worker", "", "Full name of the student who works on A1 (default: the first student)")
}

// applyDemoFlags copies explicitly set flags over the loaded config.
func applyDemoFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Simulation.Seed, _ = flags.GetUint64("seed")
	}
	if flags.Changed("work-delay") {
		cfg.Simulation.WorkDelay, _ = flags.GetDuration("work-delay")
	}
	if flags.Changed("grade-delay") {
		cfg.Simulation.GradeDelay, _ = flags.GetDuration("grade-delay")
	}
	if flags.Changed("virtual") {
		cfg.Simulation.VirtualClock, _ = flags.GetBool("virtual")
	}
	return cfg.Validate()
}

// ══════════════════════════════════════════════════════════════════════════════
// SCENARIO
// ══════════════════════════════════════════════════════════════════════════════

// clock is the scheduler the students use plus a way to wait for it to drain.
type clock struct {
	student.Scheduler
	drain func(ctx context.Context) error
	close func()
}

func newClock(cfg *config.Config, log *slog.Logger) clock {
	if cfg.Simulation.VirtualClock {
		m := scheduler.NewManual(time.Time{}, log)
		return clock{
			Scheduler: m,
			drain: func(context.Context) error {
				m.RunAll()
				return nil
			},
			close: func() {},
		}
	}

	rtCfg := scheduler.DefaultRealtimeConfig()
	rtCfg.Logger = log
	rt := scheduler.NewRealtime(rtCfg)
	return clock{
		Scheduler: rt,
		drain:     rt.Wait,
		close: func() {
			snap := rt.Metrics().Snapshot()
			log.Debug("scheduler stopped",
				"scheduled", snap.TotalScheduled,
				"executed", snap.TotalExecutions,
				"failed", snap.TotalFailures,
			)
			_ = rt.Close()
		},
	}
}

func runDemo(ctx context.Context, cfg *config.Config, specs []string, worker string, out io.Writer, log *slog.Logger) error {
	if len(specs) == 0 {
		return shared.ErrNoStudents
	}
	out = &lockedWriter{w: out}

	// ─────────────────────────────────────────────────────────────────────────
	// 1. NOTIFICATION FAN-OUT
	// ─────────────────────────────────────────────────────────────────────────
	busCfg := messaging.DefaultInMemoryEventBusConfig()
	busCfg.AsyncMode = cfg.EventBus.Async
	busCfg.WorkerPoolSize = cfg.EventBus.Workers
	busCfg.Logger = log.With(logger.Component("eventbus"))
	bus := messaging.NewInMemoryEventBus(busCfg)
	defer bus.Close()

	journal := messaging.NewJournal()
	console := messaging.NewConsoleSubscriber(out, cfg.App.ObserverName)
	if err := bus.Subscribe(shared.EventNotificationSent, console.Handle); err != nil {
		return fmt.Errorf("subscribe console: %w", err)
	}
	if err := bus.Subscribe(shared.EventNotificationSent, journal.Handle); err != nil {
		return fmt.Errorf("subscribe journal: %w", err)
	}
	if err := bus.SubscribeAll(messaging.LogSubscriber(log)); err != nil {
		return fmt.Errorf("subscribe log: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. CLASSLIST
	// ─────────────────────────────────────────────────────────────────────────
	clk := newClock(cfg, log.With(logger.Component("scheduler")))
	defer clk.close()

	studentCfg := student.Config{
		Scheduler:  clk,
		Grader:     grading.NewRandom(cfg.Simulation.Seed),
		WorkDelay:  cfg.Simulation.WorkDelay,
		GradeDelay: cfg.Simulation.GradeDelay,
		Logger:     log,
	}

	class := roster.New(messaging.NewBusNotifier(bus, log),
		roster.WithOutput(out),
		roster.WithLogger(log),
		roster.WithEventPublisher(bus),
	)

	students := make([]*student.Student, 0, len(specs))
	for _, spec := range specs {
		fullName, email, err := parseStudent(spec)
		if err != nil {
			return err
		}
		s := student.New(fullName, email, class.Notifier(), studentCfg)
		class.AddStudent(s)
		students = append(students, s)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 3. LIFECYCLE
	// ─────────────────────────────────────────────────────────────────────────
	if err := class.ReleaseAssignmentsParallel(ctx, demoAssignments); err != nil {
		return err
	}

	first := students[0]
	if worker != "" {
		s, err := class.Lookup(worker)
		if err != nil {
			return fmt.Errorf("--worker: %w", err)
		}
		first = s
	}
	first.StartWorking("A1")
	for _, s := range students {
		if s != first {
			s.SubmitAssignment("A2")
			break
		}
	}

	fmt.Fprintf(out, "Yet to hand in A1: %s\n", joinNames(class.FindOutstandingAssignments("A1")))
	fmt.Fprintf(out, "Owing any work: %s\n", joinNames(class.FindOutstandingAssignments("")))

	class.SendReminder("A2")

	if err := clk.drain(ctx); err != nil {
		return fmt.Errorf("waiting for delayed tasks: %w", err)
	}
	if err := bus.Close(); err != nil {
		return fmt.Errorf("close event bus: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 4. REPORT
	// ─────────────────────────────────────────────────────────────────────────
	if err := printReport(out, class.Report()); err != nil {
		return fmt.Errorf("print report: %w", err)
	}

	log.Info("demo finished",
		"students", class.Len(),
		"notifications", journal.Len(),
	)
	return nil
}

// lockedWriter serialises the roster, the console subscriber and the report,
// which may write from different goroutines.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

// parseStudent accepts "Full Name <email>" or a bare full name.
func parseStudent(spec string) (fullName, email string, err error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return "", "", shared.NewDomainError("cli", "ParseStudent", shared.ErrInvalidInput, "student must not be blank")
	}
	if !strings.Contains(spec, "<") {
		return spec, "", nil
	}

	addr, err := mail.ParseAddress(spec)
	if err != nil {
		return "", "", shared.WrapError("cli", "ParseStudent", shared.ErrInvalidInput,
			fmt.Sprintf("bad student %q", spec), err)
	}
	if addr.Name == "" {
		return "", "", shared.NewDomainError("cli", "ParseStudent", shared.ErrInvalidInput,
			fmt.Sprintf("student %q has no name", spec))
	}
	return addr.Name, addr.Address, nil
}

func joinNames(names []string) string {
	if len(names) == 0 {
		return "nobody"
	}
	return strings.Join(names, ", ")
}

func printReport(out io.Writer, rows []roster.StudentReport) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STUDENT\tEMAIL\tOVERALL\tASSIGNMENTS")

	for _, row := range rows {
		parts := make([]string, 0, len(row.Assignments))
		for _, a := range row.Assignments {
			if a.Grade.Valid {
				parts = append(parts, fmt.Sprintf("%s=%s(%d)", a.Name, a.Status.Display(), a.Grade.Int))
				continue
			}
			parts = append(parts, fmt.Sprintf("%s=%s", a.Name, a.Status.Display()))
		}

		email := row.Email
		if email == "" {
			email = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%.1f\t%s\n", row.FullName, email, row.OverallGrade, strings.Join(parts, " "))
	}
	return w.Flush()
}
