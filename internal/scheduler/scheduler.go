package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/tally/internal/config"
	"github.com/mamadbah2/tally/internal/domain/models"
)

const jobTimeout = 2 * time.Minute

// ReportGenerator builds the end-of-day report.
type ReportGenerator interface {
	GenerateDailyReport(ctx context.Context, day time.Time) (models.DailyReport, error)
	FormatDailyReport(report models.DailyReport) string
}

// Flusher retries snapshot writes that failed earlier.
type Flusher interface {
	Dirty() bool
	Flush(ctx context.Context) error
}

// AlertSender delivers the report to the owner.
type AlertSender interface {
	SendText(ctx context.Context, to, body string) (string, error)
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron    *cron.Cron
	reports ReportGenerator
	book    Flusher
	alerts  AlertSender
	cfg     config.Config
	loc     *time.Location
	now     func() time.Time
	logger  *zap.Logger
}

// NewScheduler creates a new scheduler instance running in the configured
// timezone. alerts may be nil when WhatsApp is not configured.
func NewScheduler(cfg config.Config, reports ReportGenerator, book Flusher, alerts AlertSender, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Reporting.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Reporting.Timezone, err)
	}

	return &Scheduler{
		cron:    cron.New(cron.WithLocation(loc)),
		reports: reports,
		book:    book,
		alerts:  alerts,
		cfg:     cfg,
		loc:     loc,
		now:     time.Now,
		logger:  logger,
	}, nil
}

// Start registers the jobs and starts the scheduler.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler",
		zap.String("report_schedule", s.cfg.Reporting.CronSchedule),
		zap.String("timezone", s.loc.String()),
		zap.Duration("flush_interval", s.cfg.Store.FlushInterval))

	if _, err := s.cron.AddFunc(s.cfg.Reporting.CronSchedule, s.sendDailyReport); err != nil {
		s.logger.Error("failed to schedule daily report", zap.Error(err))
	}

	if s.cfg.Store.FlushInterval > 0 {
		spec := fmt.Sprintf("@every %s", s.cfg.Store.FlushInterval)
		if _, err := s.cron.AddFunc(spec, s.flushSnapshot); err != nil {
			s.logger.Error("failed to schedule snapshot flush", zap.Error(err))
		}
	}

	s.cron.Start()
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) sendDailyReport() {
	s.logger.Info("generating daily report")
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	report, err := s.reports.GenerateDailyReport(ctx, s.now().In(s.loc))
	if err != nil {
		// An archive failure still yields a report worth sending.
		s.logger.Error("failed to generate daily report", zap.Error(err))
		if report.Date == "" {
			return
		}
	}

	if s.alerts == nil || s.cfg.WhatsApp.OwnerPhone == "" {
		s.logger.Debug("owner alerts disabled; daily report not sent")
		return
	}

	if _, err := s.alerts.SendText(ctx, s.cfg.WhatsApp.OwnerPhone, s.reports.FormatDailyReport(report)); err != nil {
		s.logger.Error("failed to send daily report", zap.Error(err))
	} else {
		s.logger.Info("daily report sent successfully", zap.String("date", report.Date))
	}
}

func (s *Scheduler) flushSnapshot() {
	if !s.book.Dirty() {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if err := s.book.Flush(ctx); err != nil {
		s.logger.Warn("snapshot flush failed", zap.Error(err))
	}
}
