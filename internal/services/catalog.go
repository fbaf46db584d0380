package services

import (
	"context"
	"fmt"

	"github.com/questcoder/questcoder-backend/internal/logger"
	"github.com/questcoder/questcoder-backend/internal/repos"
	"github.com/questcoder/questcoder-backend/internal/types"
)

type CatalogService interface {
	ListPatterns(ctx context.Context) ([]*PatternSummary, error)
	ListPatternProblems(ctx context.Context, name string) ([]*types.Problem, error)
}

// PatternSummary is the catalog view of a pattern without its problem rows.
type PatternSummary struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	ProblemCount int    `json:"problem_count"`
}

type catalogService struct {
	log         *logger.Logger
	patternRepo repos.PatternRepo
	problemRepo repos.ProblemRepo
}

func NewCatalogService(baseLog *logger.Logger, patternRepo repos.PatternRepo, problemRepo repos.ProblemRepo) CatalogService {
	return &catalogService{
		log:         baseLog.With("service", "CatalogService"),
		patternRepo: patternRepo,
		problemRepo: problemRepo,
	}
}

func (s *catalogService) ListPatterns(ctx context.Context) ([]*PatternSummary, error) {
	patterns, err := s.patternRepo.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list patterns: %w", err)
	}
	out := make([]*PatternSummary, 0, len(patterns))
	for _, p := range patterns {
		count, err := s.problemRepo.CountByPattern(ctx, nil, p.ID)
		if err != nil {
			return nil, fmt.Errorf("count problems for pattern %s: %w", p.Name, err)
		}
		out = append(out, &PatternSummary{
			ID:           p.ID.String(),
			Name:         p.Name,
			Description:  p.Description,
			ProblemCount: count,
		})
	}
	return out, nil
}

func (s *catalogService) ListPatternProblems(ctx context.Context, name string) ([]*types.Problem, error) {
	pattern, err := s.patternRepo.GetByName(ctx, nil, name)
	if err != nil {
		return nil, fmt.Errorf("load pattern %q: %w", name, err)
	}
	problems, err := s.problemRepo.ListByPattern(ctx, nil, pattern.ID)
	if err != nil {
		return nil, fmt.Errorf("list problems for pattern %q: %w", name, err)
	}
	return problems, nil
}
