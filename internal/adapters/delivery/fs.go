package delivery

import (
	"context"
	"log"
	"os"
	"path/filepath"

	"github.com/glucolog/diary-engine/internal/core/workers"
)

var _ workers.Delivery = (*FileSink)(nil)

// FileSink drops scheduled reports into a directory for an out-of-process
// dispatcher (chat bot, mailer) to pick up. The engine itself never needs
// the filesystem; this sink is the default delivery glue for the daily job.
type FileSink struct {
	dir string
}

func NewFileSink(dir string) (*FileSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileSink{dir: dir}, nil
}

func (s *FileSink) DeliverReport(ctx context.Context, groupID, filename string, pdf []byte) error {
	path := filepath.Join(s.dir, groupID+"_"+filename)
	return os.WriteFile(path, pdf, 0o644)
}

func (s *FileSink) DeliverNotice(ctx context.Context, groupID, message string) error {
	log.Printf("[DELIVERY] Group %s: %s", groupID, message)
	return nil
}
