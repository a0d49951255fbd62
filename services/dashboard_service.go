package services

import (
	"context"
	"fmt"

	"github.com/Dosada05/arena/models"
	"github.com/Dosada05/arena/repositories"
	"golang.org/x/sync/errgroup"
)

type DashboardService interface {
	GetStats(ctx context.Context) (*models.DashboardStats, error)
}

type dashboardService struct {
	store repositories.Store
}

func NewDashboardService(store repositories.Store) DashboardService {
	return &dashboardService{store: store}
}

// GetStats собирает агрегаты параллельно; каждая горутина пишет в свое поле.
func (s *dashboardService) GetStats(ctx context.Context) (*models.DashboardStats, error) {
	stats := &models.DashboardStats{}
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := s.store.Users().Count(gCtx)
		if err != nil {
			return fmt.Errorf("count users: %w", err)
		}
		stats.UsersTotal = n
		return nil
	})
	g.Go(func() error {
		n, err := s.store.Stats().CountTeams(gCtx)
		if err != nil {
			return fmt.Errorf("count teams: %w", err)
		}
		stats.TeamsTotal = n
		return nil
	})
	g.Go(func() error {
		byStatus, err := s.store.Stats().CountTournamentsByStatus(gCtx)
		if err != nil {
			return fmt.Errorf("count tournaments: %w", err)
		}
		stats.TournamentsUpcoming = byStatus[models.StatusUpcoming]
		stats.TournamentsLive = byStatus[models.StatusLive]
		stats.TournamentsEnded = byStatus[models.StatusEnded]
		stats.TournamentsTotal = stats.TournamentsUpcoming + stats.TournamentsLive + stats.TournamentsEnded
		return nil
	})
	g.Go(func() error {
		n, err := s.store.Participants().Count(gCtx)
		if err != nil {
			return fmt.Errorf("count participants: %w", err)
		}
		stats.ParticipantsTotal = n
		return nil
	})

	sums := []struct {
		txType models.TransactionType
		dst    *models.Money
		negate bool
	}{
		{models.TxDeposit, &stats.DepositsTotal, false},
		{models.TxWithdrawal, &stats.WithdrawalsTotal, true},
		{models.TxTournamentEntry, &stats.EntryFeesTotal, true},
		{models.TxTournamentWin, &stats.PrizesPaidTotal, false},
		{models.TxReferralBonus, &stats.ReferralBonusTotal, false},
	}
	for _, sum := range sums {
		g.Go(func() error {
			total, err := s.store.Stats().SumTransactions(gCtx, sum.txType)
			if err != nil {
				return fmt.Errorf("sum %s transactions: %w", sum.txType, err)
			}
			// списания хранятся со знаком минус
			if sum.negate {
				total = total.Neg()
			}
			*sum.dst = total
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}
