package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog/log"

	"payment-engine/domain"
	"payment-engine/metrics"
	"payment-engine/repository"
)

const defaultCacheTTL = 10 * time.Minute

// RecommendationService turns an allocation request into ranked payment
// recommendations. It keeps no state between calls; the ranker's oracle is
// read-only and the cache only short-circuits identical requests.
type RecommendationService struct {
	ranker    *Ranker
	allocator *FundAllocator
	cache     repository.CacheRepository
	cacheTTL  time.Duration
	metrics   *metrics.Registry
	now       func() time.Time
}

type Option func(*RecommendationService)

// WithCache enables result caching. A nil cache disables it.
func WithCache(cache repository.CacheRepository, ttl time.Duration) Option {
	return func(s *RecommendationService) {
		s.cache = cache
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

func WithMetrics(m *metrics.Registry) Option {
	return func(s *RecommendationService) { s.metrics = m }
}

func WithClock(now func() time.Time) Option {
	return func(s *RecommendationService) { s.now = now }
}

func NewRecommendationService(ranker *Ranker, allocator *FundAllocator, opts ...Option) *RecommendationService {
	s := &RecommendationService{
		ranker:    ranker,
		allocator: allocator,
		cacheTTL:  defaultCacheTTL,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Recommend validates the request and computes the allocation.
func (s *RecommendationService) Recommend(
	ctx context.Context,
	req domain.AllocationRequest,
) (domain.AllocationResult, error) {

	if err := ValidateAllocationRequest(req); err != nil {
		return domain.AllocationResult{}, err
	}

	if len(req.Cards) == 0 {
		return domain.AllocationResult{
			UserID:          req.UserID,
			Recommendations: []domain.PaymentRecommendation{},
			Strategy:        req.Goal,
			Regime:          domain.RegimeEmpty,
		}, nil
	}

	key := s.cacheKey(req)
	if cached, ok := s.lookup(ctx, key); ok {
		return cached, nil
	}

	start := time.Now()
	result, fellBack := s.allocate(ctx, req)
	s.metrics.ObserveAllocation(string(req.Goal), string(result.Regime), time.Since(start))

	log.Debug().
		Str("user_id", req.UserID).
		Str("goal", string(req.Goal)).
		Str("regime", string(result.Regime)).
		Int("cards", len(req.Cards)).
		Float64("total_amount", result.TotalAmount).
		Bool("fell_back", fellBack).
		Msg("allocation computed")

	// A fallback ranking must not outlive the outage that caused it
	if !fellBack {
		s.store(ctx, key, result)
	}
	return result, nil
}

func (s *RecommendationService) allocate(ctx context.Context, req domain.AllocationRequest) (domain.AllocationResult, bool) {
	regime := s.allocator.Regime(req.Cards, req.AvailableFunds)

	var (
		order    []int
		fellBack bool
	)
	if regime == domain.RegimeShortfall {
		order = s.ranker.EmergencyOrder(req.Cards)
	} else {
		order, fellBack = s.ranker.Rank(ctx, req.Cards, req.Goal, req.AvailableFunds)
	}

	allocations := s.allocator.Allocate(req.Cards, order, req.AvailableFunds)

	recommendations := make([]domain.PaymentRecommendation, 0, len(allocations))
	total := 0.0
	for _, a := range allocations {
		card := req.Cards[a.Index]
		rec := domain.PaymentRecommendation{
			CardID:          card.ID,
			InstitutionName: card.InstitutionName,
			SuggestedAmount: a.Amount,
			PriorityRank:    a.Rank,
			ExpectedImpact:  CalculateImpact(card, a.Amount),
		}
		rec.Reasoning = explainRecommendation(card, rec, req.Goal, regime)
		recommendations = append(recommendations, rec)
		total += a.Amount
	}

	return domain.AllocationResult{
		UserID:           req.UserID,
		TotalAmount:      roundTo2Decimals(total),
		Recommendations:  recommendations,
		Strategy:         req.Goal,
		Regime:           regime,
		ProjectedSavings: ProjectSavings(recommendations),
	}, fellBack
}

// ValidateAllocationRequest enforces the preconditions of the allocation
// core. A positive credit limit is what keeps the simulation total.
func ValidateAllocationRequest(req domain.AllocationRequest) error {
	if req.AvailableFunds <= 0 || math.IsNaN(req.AvailableFunds) || math.IsInf(req.AvailableFunds, 0) {
		return domain.ErrInvalidFunds
	}
	if req.AvailableFunds > MaxAvailableFunds {
		return fmt.Errorf("%w: available funds exceed the maximum of $%.2f", domain.ErrInvalidInput, MaxAvailableFunds)
	}
	if _, err := domain.ParseGoal(string(req.Goal)); err != nil {
		return err
	}
	if len(req.Cards) > MaxCardsPerRequest {
		return fmt.Errorf("%w: number of cards exceeds the maximum of %d", domain.ErrInvalidInput, MaxCardsPerRequest)
	}

	for i, card := range req.Cards {
		label := card.ID
		if label == "" {
			label = "#" + strconv.Itoa(i)
		}
		switch {
		case !(card.CreditLimit > 0):
			return fmt.Errorf("%w %s: credit limit must be positive", domain.ErrInvalidCard, label)
		case card.CreditLimit > MaxCreditLimit:
			return fmt.Errorf("%w %s: credit limit exceeds the maximum of $%.2f", domain.ErrInvalidCard, label, MaxCreditLimit)
		case !(card.CurrentBalance >= 0):
			return fmt.Errorf("%w %s: balance cannot be negative", domain.ErrInvalidCard, label)
		case !(card.MinimumPayment >= 0):
			return fmt.Errorf("%w %s: minimum payment cannot be negative", domain.ErrInvalidCard, label)
		case !(card.UtilizationPercentage >= 0 && card.UtilizationPercentage <= 100):
			return fmt.Errorf("%w %s: utilization must be between 0 and 100", domain.ErrInvalidCard, label)
		}
		if card.InterestRate != nil {
			rate := *card.InterestRate
			if !(rate >= 0) || rate > MaxInterestRate {
				return fmt.Errorf("%w %s: interest rate must be between 0 and %.0f%%", domain.ErrInvalidCard, label, MaxInterestRate)
			}
		}
	}
	return nil
}

// cacheKey includes today's date because due-date urgency moves daily.
func (s *RecommendationService) cacheKey(req domain.AllocationRequest) string {
	if s.cache == nil {
		return ""
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return ""
	}
	h := xxhash.New()
	_, _ = h.Write(payload)
	_, _ = h.WriteString(s.now().UTC().Format("2006-01-02"))
	_, _ = h.WriteString(s.ranker.Strategy())
	_, _ = h.WriteString(string(s.allocator.Policy()))
	return strconv.FormatUint(h.Sum64(), 16)
}

func (s *RecommendationService) lookup(ctx context.Context, key string) (domain.AllocationResult, bool) {
	if s.cache == nil || key == "" {
		return domain.AllocationResult{}, false
	}

	raw, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		log.Warn().Err(err).Msg("result cache lookup failed")
		s.metrics.CacheLookup("error")
		return domain.AllocationResult{}, false
	}
	if !ok {
		s.metrics.CacheLookup("miss")
		return domain.AllocationResult{}, false
	}

	var result domain.AllocationResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("discarding unreadable cache entry")
		s.metrics.CacheLookup("error")
		return domain.AllocationResult{}, false
	}
	s.metrics.CacheLookup("hit")
	return result, true
}

// store no es crítico: un fallo solo se registra
func (s *RecommendationService) store(ctx context.Context, key string, result domain.AllocationResult) {
	if s.cache == nil || key == "" {
		return
	}
	payload, err := json.Marshal(result)
	if err != nil {
		log.Warn().Err(err).Msg("failed to encode allocation for cache")
		return
	}
	if err := s.cache.Set(ctx, key, string(payload), s.cacheTTL); err != nil {
		log.Warn().Err(err).Msg("failed to cache allocation")
	}
}
