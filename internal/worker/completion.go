package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"gig_market/pkg/application/modules"
)

// TaskDealCompleteSweep переводит отыгранные принятые сделки в COMPLETED.
const TaskDealCompleteSweep = "deal:complete_sweep"

type DealCompleter interface {
	CompleteElapsed(ctx context.Context) (int64, error)
}

type CompletionSweep struct {
	completer DealCompleter
}

func NewCompletionSweep(completer DealCompleter) CompletionSweep {
	return CompletionSweep{
		completer: completer,
	}
}

func (s CompletionSweep) Handler() modules.AsynqHandler {
	return modules.AsynqHandler{
		Pattern: TaskDealCompleteSweep,
		Handle:  s.handle,
	}
}

func (s CompletionSweep) handle(ctx context.Context, _ *asynq.Task) error {
	completed, err := s.completer.CompleteElapsed(ctx)
	if err != nil {
		return fmt.Errorf("completer.CompleteElapsed: %w", err)
	}

	if completed > 0 {
		logger(ctx).Info("deals completed", slog.Int64("count", completed))
	}

	return nil
}
