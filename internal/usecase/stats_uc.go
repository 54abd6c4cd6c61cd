package usecase

import (
	"context"

	"taraz-store/internal/domain/model"
	"taraz-store/internal/domain/ports/repository"
)

// StatsUseCase aggregates back-office dashboard numbers.
type StatsUseCase struct {
	orders repository.OrderRepository
	users  repository.UserRepository
}

func NewStatsUseCase(orders repository.OrderRepository, users repository.UserRepository) *StatsUseCase {
	return &StatsUseCase{orders: orders, users: users}
}

// Totals returns user count and order counts keyed by status.
func (uc *StatsUseCase) Totals(ctx context.Context) (int64, map[string]int64, error) {
	users, err := uc.users.CountUsers(ctx, nil)
	if err != nil {
		return 0, nil, err
	}
	byStatus := make(map[string]int64, 4)
	for _, st := range []model.OrderStatus{
		model.OrderStatusPending, model.OrderStatusCompleted,
		model.OrderStatusFailed, model.OrderStatusManual,
	} {
		n, err := uc.orders.CountByStatus(ctx, nil, st)
		if err != nil {
			return 0, nil, err
		}
		byStatus[string(st)] = n
	}
	return users, byStatus, nil
}

// Revenue returns completed-order revenue for the current week, month and year.
func (uc *StatsUseCase) Revenue(ctx context.Context) (week, month, year int64, err error) {
	if week, err = uc.orders.SumCompletedByPeriod(ctx, nil, "week"); err != nil {
		return
	}
	if month, err = uc.orders.SumCompletedByPeriod(ctx, nil, "month"); err != nil {
		return
	}
	year, err = uc.orders.SumCompletedByPeriod(ctx, nil, "year")
	return
}
