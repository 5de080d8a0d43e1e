package jobs

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sv8bshs/enrollment/internal/logging"
	"github.com/sv8bshs/enrollment/internal/models"
)

type OverdueLister interface {
	OverdueTemporary(ctx context.Context) ([]models.Student, error)
	TempWindowDays() int
}

type Alerter interface {
	Alert(ctx context.Context, text string) error
}

// maxListed keeps the Telegram message under the 4096 character limit.
const maxListed = 40

// TemporaryWatch alerts staff about Temporary Enrolled students past their
// window. It only reports; status changes stay manual.
func TemporaryWatch(src OverdueLister, alerts Alerter, log *zap.Logger) Job {
	return func(ctx context.Context) error {
		students, err := src.OverdueTemporary(ctx)
		if err != nil {
			return fmt.Errorf("list overdue: %w", err)
		}
		overdueTemporary.Set(float64(len(students)))
		if len(students) == 0 {
			return nil
		}
		logging.With(ctx, log).Info("temporary enrollments overdue", zap.Int("count", len(students)))
		return alerts.Alert(ctx, overdueText(students, src.TempWindowDays()))
	}
}

func overdueText(students []models.Student, days int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d Temporary Enrolled student(s) passed the %d-day window:\n", len(students), days)
	for i, s := range students {
		if i == maxListed {
			fmt.Fprintf(&b, "... and %d more", len(students)-maxListed)
			break
		}
		fmt.Fprintf(&b, "- %s (LRN %s, %s), since %s\n", s.FullName(), s.LRN, s.Strand, s.StatusUpdatedAt.Format("2006-01-02"))
	}
	return strings.TrimRight(b.String(), "\n")
}
