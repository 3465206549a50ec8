package service

import (
	"context"
	"time"

	"go-fleet-ws/internal/model"
	"go-fleet-ws/internal/repository"

	"github.com/jinzhu/now"
)

type DashboardStats struct {
	ByStatus           map[model.TransferStatus]int64 `json:"by_status"`
	OpenBySite         []repository.SiteCount         `json:"open_by_site"`
	RequestedToday     int64                          `json:"requested_today"`
	RequestedThisMonth int64                          `json:"requested_this_month"`
	ReceivedThisMonth  int64                          `json:"received_this_month"`
}

type DashboardService interface {
	GetDashboardStats(ctx context.Context) (*DashboardStats, error)
}

type dashboardService struct {
	transfers repository.TransferRepository
	now       func() time.Time
}

func NewDashboardService(transfers repository.TransferRepository) DashboardService {
	return &dashboardService{transfers: transfers, now: time.Now}
}

func sum(counts []repository.StatusCount) int64 {
	var total int64
	for _, c := range counts {
		total += c.Count
	}
	return total
}

func (s *dashboardService) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	clock := now.With(s.now())
	startOfDay := clock.BeginningOfDay()
	startOfMonth := clock.BeginningOfMonth()

	all, err := s.transfers.CountByStatus(ctx, nil)
	if err != nil {
		return nil, err
	}
	stats := &DashboardStats{ByStatus: map[model.TransferStatus]int64{}}
	for _, status := range model.GetAllTransferStatuses() {
		stats.ByStatus[status] = 0
	}
	for _, c := range all {
		stats.ByStatus[c.Status] = c.Count
	}

	today, err := s.transfers.CountByStatus(ctx, &startOfDay)
	if err != nil {
		return nil, err
	}
	stats.RequestedToday = sum(today)

	month, err := s.transfers.CountByStatus(ctx, &startOfMonth)
	if err != nil {
		return nil, err
	}
	stats.RequestedThisMonth = sum(month)

	if stats.ReceivedThisMonth, err = s.transfers.CountReceivedSince(ctx, startOfMonth); err != nil {
		return nil, err
	}
	if stats.OpenBySite, err = s.transfers.CountOpenBySite(ctx); err != nil {
		return nil, err
	}
	return stats, nil
}
