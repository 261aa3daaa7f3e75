package service

import (
	"context"

	"github.com/Anton2181/partykajson/internal/domain"
	"github.com/Anton2181/partykajson/internal/report"
)

type reportService struct {
	history HistoryService
}

func NewReportService(history HistoryService) ReportService {
	return &reportService{history: history}
}

func (s *reportService) PersonReport(ctx context.Context, runID string) (*domain.Run, *report.Report, error) {
	detail, err := s.history.Get(ctx, runID)
	if err != nil {
		return nil, nil, err
	}
	return &detail.Run, report.Build(detail.Groups, detail.Assignments, detail.Penalties), nil
}
