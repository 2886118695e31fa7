// Package goal manages savings goals within a user's ledger. Progress is
// always derived from current and target amounts, never accepted from the
// caller.
package goal

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ujjwalpatil07/FinVoice/internal/common"
	"github.com/ujjwalpatil07/FinVoice/internal/interfaces"
	"github.com/ujjwalpatil07/FinVoice/internal/models"
)

// Compile-time interface check
var _ interfaces.GoalService = (*Service)(nil)

const putRetries = 3

// Service implements GoalService
type Service struct {
	storage interfaces.StorageManager
	logger  *common.Logger
}

// NewService creates a new goal service.
func NewService(storage interfaces.StorageManager, logger *common.Logger) *Service {
	return &Service{storage: storage, logger: logger}
}

func (s *Service) update(ctx context.Context, userID string, mutate func(*models.LedgerRecord) error) (*models.LedgerRecord, error) {
	var lastErr error
	for attempt := 0; attempt < putRetries; attempt++ {
		record, err := s.storage.LedgerStore().Get(ctx, userID)
		if err != nil {
			return nil, err
		}
		if err := mutate(record); err != nil {
			return nil, err
		}
		if err := s.storage.LedgerStore().Put(ctx, record); err != nil {
			if errors.Is(err, models.ErrVersionConflict) {
				lastErr = err
				continue
			}
			return nil, err
		}
		return record, nil
	}
	return nil, models.NewPersistenceError("goal write", lastErr)
}

// CreateGoal appends a new goal with derived progress. Category defaults to
// "savings" and priority to medium.
func (s *Service) CreateGoal(ctx context.Context, userID string, input models.GoalInput) (*models.LedgerRecord, *models.Goal, error) {
	if input.Name == "" {
		return nil, nil, models.NewValidationError("name", "goal name is required")
	}
	if input.TargetAmount.Sign() <= 0 {
		return nil, nil, models.NewValidationError("targetAmount", "valid target amount is required")
	}
	category := input.Category
	if category == "" {
		category = "savings"
	}
	priority := input.Priority
	if priority == "" {
		priority = models.GoalPriorityMedium
	}
	if priority != models.GoalPriorityLow && priority != models.GoalPriorityMedium && priority != models.GoalPriorityHigh {
		return nil, nil, models.NewValidationError("priority", "priority must be low, medium or high")
	}

	goalID := uuid.New().String()
	record, err := s.update(ctx, userID, func(l *models.LedgerRecord) error {
		now := time.Now().UTC()
		g := models.Goal{
			ID:            goalID,
			Name:          input.Name,
			TargetAmount:  input.TargetAmount,
			CurrentAmount: decimal.Zero,
			Progress:      decimal.Zero,
			Category:      category,
			Priority:      priority,
			Description:   input.Description,
			CreatedAt:     now,
		}
		if input.TargetDate != nil {
			g.TargetDate = *input.TargetDate
		}
		l.Goals = append(l.Goals, g)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info().Str("user", userID).Str("goal", input.Name).Msg("Goal created")
	return record, record.GoalByID(goalID), nil
}

// UpdateGoal applies a merge patch to a goal. Any change to the current or
// target amount recomputes progress.
func (s *Service) UpdateGoal(ctx context.Context, userID, goalID string, patch models.GoalPatch) (*models.LedgerRecord, *models.Goal, error) {
	if patch.TargetAmount != nil && patch.TargetAmount.Sign() <= 0 {
		return nil, nil, models.NewValidationError("targetAmount", "valid target amount is required")
	}
	if patch.CurrentAmount != nil && patch.CurrentAmount.Sign() < 0 {
		return nil, nil, models.NewValidationError("currentAmount", "current amount cannot be negative")
	}
	if patch.Priority != nil {
		switch *patch.Priority {
		case models.GoalPriorityLow, models.GoalPriorityMedium, models.GoalPriorityHigh:
		default:
			return nil, nil, models.NewValidationError("priority", "priority must be low, medium or high")
		}
	}

	record, err := s.update(ctx, userID, func(l *models.LedgerRecord) error {
		g := l.GoalByID(goalID)
		if g == nil {
			return models.NewNotFoundError("goal", goalID)
		}
		if patch.Name != nil {
			g.Name = *patch.Name
		}
		if patch.TargetAmount != nil {
			g.TargetAmount = *patch.TargetAmount
		}
		if patch.CurrentAmount != nil {
			g.CurrentAmount = *patch.CurrentAmount
		}
		if patch.TargetDate != nil {
			g.TargetDate = *patch.TargetDate
		}
		if patch.Category != nil {
			g.Category = *patch.Category
		}
		if patch.Priority != nil {
			g.Priority = *patch.Priority
		}
		if patch.Description != nil {
			g.Description = *patch.Description
		}
		if patch.TargetAmount != nil || patch.CurrentAmount != nil {
			g.Progress = models.GoalProgress(g.CurrentAmount, g.TargetAmount)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info().Str("user", userID).Str("goal", goalID).Msg("Goal updated")
	return record, record.GoalByID(goalID), nil
}

// ToggleGoalCompletion flips the completed flag. Progress is left as-is so a
// reopened goal keeps its derived value.
func (s *Service) ToggleGoalCompletion(ctx context.Context, userID, goalID string) (*models.LedgerRecord, *models.Goal, error) {
	record, err := s.update(ctx, userID, func(l *models.LedgerRecord) error {
		g := l.GoalByID(goalID)
		if g == nil {
			return models.NewNotFoundError("goal", goalID)
		}
		g.Completed = !g.Completed
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info().Str("user", userID).Str("goal", goalID).Msg("Goal completion toggled")
	return record, record.GoalByID(goalID), nil
}

// DeleteGoal removes a goal by id.
func (s *Service) DeleteGoal(ctx context.Context, userID, goalID string) (*models.LedgerRecord, error) {
	record, err := s.update(ctx, userID, func(l *models.LedgerRecord) error {
		for i := range l.Goals {
			if l.Goals[i].ID == goalID {
				l.Goals = append(l.Goals[:i], l.Goals[i+1:]...)
				return nil
			}
		}
		return models.NewNotFoundError("goal", goalID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user", userID).Str("goal", goalID).Msg("Goal deleted")
	return record, nil
}
