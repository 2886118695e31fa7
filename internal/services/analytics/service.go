package analytics

import (
	"context"

	"github.com/ujjwalpatil07/FinVoice/internal/common"
	"github.com/ujjwalpatil07/FinVoice/internal/interfaces"
	"github.com/ujjwalpatil07/FinVoice/internal/models"
)

// Compile-time interface check
var _ interfaces.AnalyticsService = (*Service)(nil)

// Service implements AnalyticsService. Read-only: it loads a ledger snapshot
// and derives every dashboard view from it.
type Service struct {
	storage interfaces.StorageManager
	logger  *common.Logger
}

// NewService creates a new analytics service.
func NewService(storage interfaces.StorageManager, logger *common.Logger) *Service {
	return &Service{storage: storage, logger: logger}
}

// Summary derives the full analytics bundle for a user.
func (s *Service) Summary(ctx context.Context, userID string) (*models.AnalyticsSummary, error) {
	record, err := s.storage.LedgerStore().Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := &models.AnalyticsSummary{
		CategoryBreakdown: CategoryBreakdown(record),
		MonthlyComparison: MonthlyComparison(record),
		IncomeSources:     IncomeSources(record),
		FinancialHealth:   FinancialHealth(record),
		Advisory:          RenderAdvisory(AdvisoryFacts(record)),
	}

	s.logger.Debug().Str("user", userID).Int("categories", len(summary.CategoryBreakdown)).Msg("Analytics summary derived")
	return summary, nil
}
