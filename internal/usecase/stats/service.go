// Package stats aggregates the read-only numbers shown on the admin
// dashboard and the statistics page.
//
// Occupancy figures come from vehicle statuses (the current truth),
// activity figures from the transaction log (the historical truth).
// The two are deliberately never mixed.
package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/minhnd/parklot/internal/domain"
	"github.com/minhnd/parklot/internal/pkg/logger"
	"github.com/minhnd/parklot/internal/repository"
)

// DashboardStats - headline numbers for the admin dashboard.
type DashboardStats struct {
	TotalOwners         int `json:"totalOwners"`
	TotalVehicles       int `json:"totalVehicles"`
	ParkedVehicles      int `json:"parkedVehicles"`
	TodayTransactions   int `json:"todayTransactions"`
	MonthlyTransactions int `json:"monthlyTransactions"`
}

// Statistics - activity history for the statistics page.
type Statistics struct {
	Daily       []*domain.ActivityBucket `json:"daily"`
	Monthly     []*domain.ActivityBucket `json:"monthly"`
	TotalParked int                      `json:"totalParked"`
}

const (
	dailyWindowDays  = 7
	monthlyWindowLen = 6
)

// Service computes dashboard and statistics aggregates.
type Service struct {
	ownerRepo       repository.OwnerRepository
	vehicleRepo     repository.VehicleRepository
	transactionRepo repository.TransactionRepository
	logger          logger.Logger
}

// NewService creates a new stats service.
func NewService(
	ownerRepo repository.OwnerRepository,
	vehicleRepo repository.VehicleRepository,
	transactionRepo repository.TransactionRepository,
	logger logger.Logger,
) *Service {
	return &Service{
		ownerRepo:       ownerRepo,
		vehicleRepo:     vehicleRepo,
		transactionRepo: transactionRepo,
		logger:          logger,
	}
}

// Dashboard returns the headline numbers.
func (s *Service) Dashboard(ctx context.Context) (*DashboardStats, error) {
	totalOwners, err := s.ownerRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count owners: %w", err)
	}

	totalVehicles, err := s.vehicleRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count vehicles: %w", err)
	}

	parked, err := s.vehicleRepo.CountParked(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count parked vehicles: %w", err)
	}

	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	today, err := s.transactionRepo.CountSince(ctx, startOfDay)
	if err != nil {
		return nil, fmt.Errorf("failed to count today's transactions: %w", err)
	}

	monthly, err := s.transactionRepo.CountSince(ctx, startOfMonth)
	if err != nil {
		return nil, fmt.Errorf("failed to count this month's transactions: %w", err)
	}

	return &DashboardStats{
		TotalOwners:         totalOwners,
		TotalVehicles:       totalVehicles,
		ParkedVehicles:      parked,
		TodayTransactions:   today,
		MonthlyTransactions: monthly,
	}, nil
}

// Statistics returns daily activity for the last week, monthly activity for
// the last half year, and the current parked count.
func (s *Service) Statistics(ctx context.Context) (*Statistics, error) {
	daily, err := s.transactionRepo.DailyActivity(ctx, dailyWindowDays)
	if err != nil {
		return nil, fmt.Errorf("failed to load daily activity: %w", err)
	}

	monthly, err := s.transactionRepo.MonthlyActivity(ctx, monthlyWindowLen)
	if err != nil {
		return nil, fmt.Errorf("failed to load monthly activity: %w", err)
	}

	parked, err := s.vehicleRepo.CountParked(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count parked vehicles: %w", err)
	}

	return &Statistics{
		Daily:       daily,
		Monthly:     monthly,
		TotalParked: parked,
	}, nil
}
