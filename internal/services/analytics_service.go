package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"servicedesk-backend/internal/apperrors"
	"servicedesk-backend/internal/cache"
	"servicedesk-backend/internal/models"
	"servicedesk-backend/internal/timeutil"

	"golang.org/x/sync/errgroup"
)

// Lookback windows for the trend series.
const (
	paymentTrendMonths   = 6
	companyGrowthMonths  = 12
	journalActivityWeeks = 12
)

type companyAnalytics interface {
	CountAll(ctx context.Context) (int, error)
	CreatedSince(ctx context.Context, since time.Time) ([]time.Time, error)
}

type locationCounter interface {
	CountAll(ctx context.Context) (int, error)
}

type paymentAnalytics interface {
	Aggregate(ctx context.Context, f models.PaymentFilter) (models.PaymentAggregate, error)
	CreatedSince(ctx context.Context, since time.Time, createdBy *int) ([]*models.Payment, error)
}

type journalAnalytics interface {
	CountAll(ctx context.Context) (int, error)
	CreatedSince(ctx context.Context, since time.Time) ([]*models.Journal, error)
}

type AnalyticsService struct {
	companies companyAnalytics
	locations locationCounter
	payments  paymentAnalytics
	journals  journalAnalytics
	now       func() time.Time
}

func NewAnalyticsService(companies companyAnalytics, locations locationCounter, payments paymentAnalytics, journals journalAnalytics) *AnalyticsService {
	return &AnalyticsService{
		companies: companies,
		locations: locations,
		payments:  payments,
		journals:  journals,
		now:       timeutil.Now,
	}
}

// cached serves key from redis when present, otherwise computes and stores
// it for cache.AnalyticsTTL.
func cached[T any](ctx context.Context, key string, compute func() (T, error)) (T, error) {
	var out T
	if cache.GetJSON(ctx, key, &out) {
		return out, nil
	}
	out, err := compute()
	if err != nil {
		return out, err
	}
	cache.SetJSON(ctx, key, out, cache.AnalyticsTTL)
	return out, nil
}

// Summary runs each count independently; the figures are not a snapshot.
func (s *AnalyticsService) Summary(ctx context.Context) (*models.Summary, error) {
	return cached(ctx, cache.AnalyticsPrefix+"summary", func() (*models.Summary, error) {
		var sum models.Summary
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) {
			sum.TotalCompanies, err = s.companies.CountAll(gctx)
			return err
		})
		g.Go(func() (err error) {
			sum.TotalLocations, err = s.locations.CountAll(gctx)
			return err
		})
		g.Go(func() (err error) {
			sum.TotalPayments, err = s.countPayments(gctx, models.PaymentFilter{})
			return err
		})
		g.Go(func() (err error) {
			sum.PendingPayments, err = s.countPayments(gctx, models.PaymentFilter{Status: models.PaymentPending})
			return err
		})
		g.Go(func() (err error) {
			sum.ApprovedPayments, err = s.countPayments(gctx, models.PaymentFilter{Status: models.PaymentApproved})
			return err
		})
		g.Go(func() (err error) {
			sum.TotalJournals, err = s.journals.CountAll(gctx)
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, analyticsErr("Error fetching summary statistics", err)
		}
		return &sum, nil
	})
}

func (s *AnalyticsService) countPayments(ctx context.Context, f models.PaymentFilter) (int, error) {
	agg, err := s.payments.Aggregate(ctx, f)
	return agg.Count, err
}

// PaymentStats reports count and summed handling charges per status.
func (s *AnalyticsService) PaymentStats(ctx context.Context) (*models.PaymentStats, error) {
	return cached(ctx, cache.AnalyticsPrefix+"payments:stats", func() (*models.PaymentStats, error) {
		var stats models.PaymentStats
		targets := map[string]*models.StatusAggregate{
			models.PaymentPending:  &stats.Pending,
			models.PaymentApproved: &stats.Approved,
			models.PaymentPaid:     &stats.Paid,
		}

		g, gctx := errgroup.WithContext(ctx)
		for status, dst := range targets {
			status, dst := status, dst
			g.Go(func() error {
				agg, err := s.payments.Aggregate(gctx, models.PaymentFilter{Status: status})
				if err != nil {
					return err
				}
				dst.Count, dst.Amount = agg.Count, agg.HandlingCharges
				return nil
			})
		}
		g.Go(func() (err error) {
			stats.Total, err = s.countPayments(gctx, models.PaymentFilter{})
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, analyticsErr("Error fetching payment statistics", err)
		}
		return &stats, nil
	})
}

// PaymentTrend buckets the last six months of payments by month.
func (s *AnalyticsService) PaymentTrend(ctx context.Context) ([]*models.PaymentTrendPoint, error) {
	return cached(ctx, cache.AnalyticsPrefix+"payments:trend", func() ([]*models.PaymentTrendPoint, error) {
		payments, err := s.payments.CreatedSince(ctx, timeutil.MonthsAgo(s.now(), paymentTrendMonths), nil)
		if err != nil {
			return nil, analyticsErr("Error fetching payments trend data", err)
		}
		return BucketPaymentsByMonth(payments, false), nil
	})
}

// CompanyGrowth counts companies created per month over the last year.
func (s *AnalyticsService) CompanyGrowth(ctx context.Context) ([]*models.CompanyGrowthPoint, error) {
	return cached(ctx, cache.AnalyticsPrefix+"companies:growth", func() ([]*models.CompanyGrowthPoint, error) {
		created, err := s.companies.CreatedSince(ctx, timeutil.MonthsAgo(s.now(), companyGrowthMonths))
		if err != nil {
			return nil, analyticsErr("Error fetching company growth data", err)
		}
		counts := map[string]int{}
		for _, t := range created {
			counts[timeutil.MonthKey(t)]++
		}
		out := make([]*models.CompanyGrowthPoint, 0, len(counts))
		for _, month := range sortedKeys(counts) {
			out = append(out, &models.CompanyGrowthPoint{Month: month, Count: counts[month]})
		}
		return out, nil
	})
}

// JournalActivity counts journal entries per week over the last twelve weeks.
func (s *AnalyticsService) JournalActivity(ctx context.Context) ([]*models.JournalActivityPoint, error) {
	return cached(ctx, cache.AnalyticsPrefix+"journals:activity", func() ([]*models.JournalActivityPoint, error) {
		since := s.now().AddDate(0, 0, -7*journalActivityWeeks)
		journals, err := s.journals.CreatedSince(ctx, since)
		if err != nil {
			return nil, analyticsErr("Error fetching journal activity data", err)
		}
		counts := map[string]int{}
		for _, j := range journals {
			counts[timeutil.WeekKey(j.CreatedAt)]++
		}
		out := make([]*models.JournalActivityPoint, 0, len(counts))
		for _, week := range sortedKeys(counts) {
			out = append(out, &models.JournalActivityPoint{Week: week, Count: counts[week]})
		}
		return out, nil
	})
}

// AgentStats summarises the payments raised by one agent.
func (s *AnalyticsService) AgentStats(ctx context.Context, agentID int) (*models.AgentPaymentStats, error) {
	key := fmt.Sprintf("%sagent:%d:payments:stats", cache.AnalyticsPrefix, agentID)
	return cached(ctx, key, func() (*models.AgentPaymentStats, error) {
		var stats models.AgentPaymentStats
		own := func(f models.PaymentFilter) models.PaymentFilter {
			f.CreatedBy = &agentID
			return f
		}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			agg, err := s.payments.Aggregate(gctx, own(models.PaymentFilter{}))
			if err != nil {
				return err
			}
			stats.TotalPayments = agg.Count
			stats.TotalProjectCost = agg.ProjectCost
			stats.TotalHandlingCharges = agg.HandlingCharges
			return nil
		})
		g.Go(func() error {
			agg, err := s.payments.Aggregate(gctx, own(models.PaymentFilter{Status: models.PaymentPaid}))
			if err != nil {
				return err
			}
			stats.PaidPayments = agg.Count
			stats.TotalPaidAmount = agg.HandlingCharges
			return nil
		})
		counters := []struct {
			dst    *int
			filter models.PaymentFilter
		}{
			{&stats.PendingPayments, models.PaymentFilter{Status: models.PaymentPending}},
			{&stats.ApprovedPayments, models.PaymentFilter{Status: models.PaymentApproved}},
			{&stats.RejectedPayments, models.PaymentFilter{Status: models.PaymentRejected}},
			{&stats.AdvancePayments, models.PaymentFilter{TransactionType: models.TransactionAdvance}},
		}
		for _, c := range counters {
			c := c
			g.Go(func() (err error) {
				*c.dst, err = s.countPayments(gctx, own(c.filter))
				return err
			})
		}
		if err := g.Wait(); err != nil {
			return nil, analyticsErr("Error fetching agent payment statistics", err)
		}
		return &stats, nil
	})
}

// AgentTrend is PaymentTrend restricted to one agent, with amounts.
func (s *AnalyticsService) AgentTrend(ctx context.Context, agentID int) ([]*models.PaymentTrendPoint, error) {
	key := fmt.Sprintf("%sagent:%d:payments:trend", cache.AnalyticsPrefix, agentID)
	return cached(ctx, key, func() ([]*models.PaymentTrendPoint, error) {
		payments, err := s.payments.CreatedSince(ctx, timeutil.MonthsAgo(s.now(), paymentTrendMonths), &agentID)
		if err != nil {
			return nil, analyticsErr("Error fetching agent payments trend data", err)
		}
		return BucketPaymentsByMonth(payments, true), nil
	})
}

// BucketPaymentsByMonth groups payments by IST month, ordered by month.
// withAmounts adds the summed handling charges, overall and for paid
// payments.
func BucketPaymentsByMonth(payments []*models.Payment, withAmounts bool) []*models.PaymentTrendPoint {
	buckets := map[string]*models.PaymentTrendPoint{}
	for _, p := range payments {
		month := timeutil.MonthKey(p.CreatedAt)
		point, ok := buckets[month]
		if !ok {
			point = &models.PaymentTrendPoint{Month: month}
			if withAmounts {
				point.TotalAmount = new(float64)
				point.PaidAmount = new(float64)
			}
			buckets[month] = point
		}

		point.Total++
		switch p.Status {
		case models.PaymentPending:
			point.Pending++
		case models.PaymentApproved:
			point.Approved++
		case models.PaymentRejected:
			point.Rejected++
		case models.PaymentPaid:
			point.Paid++
		}

		if withAmounts {
			*point.TotalAmount += p.HandlingCharges()
			if p.Status == models.PaymentPaid {
				*point.PaidAmount += p.HandlingCharges()
			}
		}
	}

	out := make([]*models.PaymentTrendPoint, 0, len(buckets))
	for _, point := range buckets {
		out = append(out, point)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func analyticsErr(msg string, err error) error {
	return apperrors.Internal(msg, err)
}
