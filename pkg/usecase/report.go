package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/taskhub/pkg/domain/interfaces"
	"github.com/secmon-lab/taskhub/pkg/domain/model"
)

type ReportUseCase struct {
	repo     interfaces.Repository
	resolver *AccessResolver
}

func NewReportUseCase(repo interfaces.Repository, resolver *AccessResolver) *ReportUseCase {
	return &ReportUseCase{
		repo:     repo,
		resolver: resolver,
	}
}

// Completion summarises progress over the tasks the identity can see
func (uc *ReportUseCase) Completion(ctx context.Context, identity *model.Identity) (*model.CompletionReport, error) {
	ctx, span := tracer.Start(ctx, "ReportUseCase.Completion")
	defer span.End()

	allTasks, err := uc.repo.Task().SelectAll(ctx)
	if err != nil {
		err = goerr.Wrap(err, "failed to load tasks")
		recordSpanError(span, err)
		return nil, err
	}

	visible, err := uc.resolver.ResolveVisibleTasks(ctx, identity, allTasks)
	if err != nil {
		recordSpanError(span, err)
		return nil, err
	}

	return model.BuildCompletionReport(visible), nil
}
