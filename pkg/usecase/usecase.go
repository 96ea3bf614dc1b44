package usecase

import (
	"github.com/DaoSolary/Desaparecidos/pkg/domain/interfaces"
	"github.com/DaoSolary/Desaparecidos/pkg/domain/model/config"
	"github.com/DaoSolary/Desaparecidos/pkg/service/slack"
)

type UseCases struct {
	repo          interfaces.Repository
	scoringConfig *config.ScoringConfig
	notifier      slack.Service
	Duplicates    *DuplicateUseCase
	Auth          AuthUseCaseInterface
}

type Option func(*UseCases)

func WithScoringConfig(cfg *config.ScoringConfig) Option {
	return func(uc *UseCases) {
		uc.scoringConfig = cfg
	}
}

func WithNotifier(svc slack.Service) Option {
	return func(uc *UseCases) {
		uc.notifier = svc
	}
}

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

	uc.Duplicates = NewDuplicateUseCase(repo, uc.scoringConfig, uc.notifier)

	return uc
}
