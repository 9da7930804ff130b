package workers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/glucolog/diary-engine/internal/core/domain"
	"github.com/glucolog/diary-engine/internal/core/services"
)

// ReportGenerator produces document bytes for a group and window.
type ReportGenerator interface {
	Generate(ctx context.Context, input services.GenerateInput) ([]byte, error)
}

// Delivery hands a finished report (or the no-entries notice) to whatever
// channel reaches the group. Transport is not this worker's business.
type Delivery interface {
	DeliverReport(ctx context.Context, groupID, filename string, pdf []byte) error
	DeliverNotice(ctx context.Context, groupID, message string) error
}

// ReportWorker fires once a day at a configured wall-clock time and sends
// that day's diary report for one group.
type ReportWorker struct {
	gen       ReportGenerator
	delivery  Delivery
	groupID   string
	groupName string
	hour      int
	minute    int

	now func() time.Time
}

func NewReportWorker(gen ReportGenerator, delivery Delivery, groupID, groupName string, hour, minute int) *ReportWorker {
	return &ReportWorker{
		gen:       gen,
		delivery:  delivery,
		groupID:   groupID,
		groupName: groupName,
		hour:      hour,
		minute:    minute,
		now:       time.Now,
	}
}

func (w *ReportWorker) Start(ctx context.Context) {
	go func() {
		log.Printf("[WORKER] Daily report worker started (fires at %02d:%02d)", w.hour, w.minute)
		for {
			timer := time.NewTimer(w.untilNextFire())
			select {
			case <-timer.C:
				w.RunOnce(ctx)
			case <-ctx.Done():
				timer.Stop()
				log.Println("[WORKER] Daily report worker shutting down...")
				return
			}
		}
	}()
}

// RunOnce generates and delivers today's report immediately. Exposed so a
// missed schedule can be caught up by hand.
func (w *ReportWorker) RunOnce(ctx context.Context) {
	today := w.now().UTC().Truncate(24 * time.Hour)

	pdf, err := w.gen.Generate(ctx, services.GenerateInput{
		GroupID:   w.groupID,
		GroupName: w.groupName,
		Start:     today,
		End:       today,
		WithChart: true,
	})

	dateKey := today.Format(domain.DateKeyFormat)
	switch {
	case errors.Is(err, domain.ErrEmptyRange):
		msg := fmt.Sprintf("No diary entries for %s.", dateKey)
		if err := w.delivery.DeliverNotice(ctx, w.groupID, msg); err != nil {
			log.Printf("[WORKER] Failed to deliver notice for group %s: %v", w.groupID, err)
		}
	case err != nil:
		log.Printf("[WORKER] Daily report for group %s failed: %v", w.groupID, err)
	default:
		filename := fmt.Sprintf("daily_%s.pdf", dateKey)
		if err := w.delivery.DeliverReport(ctx, w.groupID, filename, pdf); err != nil {
			log.Printf("[WORKER] Failed to deliver report for group %s: %v", w.groupID, err)
		} else {
			log.Printf("[WORKER] Daily report delivered for group %s (%d bytes)", w.groupID, len(pdf))
		}
	}
}

func (w *ReportWorker) untilNextFire() time.Duration {
	now := w.now()
	next := time.Date(now.Year(), now.Month(), now.Day(), w.hour, w.minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(now)
}
