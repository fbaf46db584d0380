package services

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/questcoder/questcoder-backend/internal/types"
)

type fakeCatalogPatternRepo struct {
	rows []*types.Pattern
}

func (f *fakeCatalogPatternRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Pattern, error) {
	out := append([]*types.Pattern(nil), f.rows...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeCatalogPatternRepo) GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.Pattern, error) {
	for _, r := range f.rows {
		if r.Name == name {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func TestListPatternsCountsProblems(t *testing.T) {
	log := testLogger(t)
	problems := &fakeProblemRepo{problems: map[uuid.UUID]*types.Problem{}}
	slidingWindow := &types.Pattern{ID: uuid.New(), Name: "Sliding Window"}
	twoPointers := &types.Pattern{ID: uuid.New(), Name: "Two Pointers"}
	patterns := &fakeCatalogPatternRepo{rows: []*types.Pattern{twoPointers, slidingWindow}}
	for i := 0; i < 3; i++ {
		id := uuid.New()
		problems.problems[id] = &types.Problem{ID: id, PatternID: &slidingWindow.ID, Difficulty: "Easy"}
	}
	id := uuid.New()
	problems.problems[id] = &types.Problem{ID: id, PatternID: &twoPointers.ID, Difficulty: "Medium"}

	svc := NewCatalogService(log, patterns, problems)
	out, err := svc.ListPatterns(context.Background())
	if err != nil {
		t.Fatalf("ListPatterns: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("len(out) = %d, want 2", len(out))
	}
	if out[0].Name != "Sliding Window" || out[0].ProblemCount != 3 {
		t.Fatalf("out[0] = %+v, want Sliding Window with 3 problems", out[0])
	}
	if out[1].Name != "Two Pointers" || out[1].ProblemCount != 1 {
		t.Fatalf("out[1] = %+v, want Two Pointers with 1 problem", out[1])
	}
}

func TestListPatternProblemsUnknownPattern(t *testing.T) {
	log := testLogger(t)
	svc := NewCatalogService(log, &fakeCatalogPatternRepo{}, &fakeProblemRepo{problems: map[uuid.UUID]*types.Problem{}})
	_, err := svc.ListPatternProblems(context.Background(), "Backtracking")
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("err = %v, want gorm.ErrRecordNotFound", err)
	}
}
