package usecase

import (
	"github.com/DaoSolary/Desaparecidos/pkg/domain/interfaces"
	"github.com/DaoSolary/Desaparecidos/pkg/domain/model/config"
	"github.com/DaoSolary/Desaparecidos/pkg/service/slack"
)

// DuplicateUseCase implements duplicate detection and the moderation
// workflow for resolving detected pairs
type DuplicateUseCase struct {
	repo          interfaces.Repository
	scoringConfig *config.ScoringConfig
	notifier      slack.Service
}

func NewDuplicateUseCase(repo interfaces.Repository, cfg *config.ScoringConfig, notifier slack.Service) *DuplicateUseCase {
	return &DuplicateUseCase{
		repo:          repo,
		scoringConfig: cfg,
		notifier:      notifier,
	}
}
