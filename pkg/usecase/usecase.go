package usecase

import (
	"github.com/secmon-lab/taskhub/pkg/domain/interfaces"
)

type UseCases struct {
	repo   interfaces.Repository
	Access *AccessResolver
	Task   *TaskUseCase
	Report *ReportUseCase
	Auth   AuthUseCaseInterface
}

type Option func(*UseCases)

func WithAuth(auth AuthUseCaseInterface) Option {
	return func(uc *UseCases) {
		uc.Auth = auth
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo: repo,
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Access = NewAccessResolver(repo.User())
	uc.Task = NewTaskUseCase(repo, uc.Access)
	uc.Report = NewReportUseCase(repo, uc.Access)

	return uc
}
