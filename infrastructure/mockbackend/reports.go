package mockbackend

import (
	"context"
	"fmt"

	"github.com/C-1995-O1-HALE-POPP/ris-system/application/ports"
	"github.com/C-1995-O1-HALE-POPP/ris-system/domain/core/entities"
)

const trendDays = 7

func (b *Backend) GetOverallReport(ctx context.Context, userID string) (ports.OverallReport, error) {
	if err := wait(ctx, b.delays.Default); err != nil {
		return ports.OverallReport{}, err
	}
	return ports.OverallReport{
		TotalInteractions:    120,
		AvgEmotionScore:      0.75,
		PositiveEmotionRatio: 0.85,
		CognitiveImprovement: 0.15,
	}, nil
}

// GetEmotionTrend generates a week of random daily sentiment counts
func (b *Backend) GetEmotionTrend(ctx context.Context, userID, period string) ([]ports.EmotionTrendPoint, error) {
	if err := wait(ctx, b.delays.Default); err != nil {
		return nil, err
	}
	out := make([]ports.EmotionTrendPoint, 0, trendDays)
	for i := 0; i < trendDays; i++ {
		out = append(out, ports.EmotionTrendPoint{
			Date:     trendDate(i),
			Positive: b.rng.Intn(50) + 50,
			Negative: b.rng.Intn(20),
			Neutral:  b.rng.Intn(30),
		})
	}
	return out, nil
}

func (b *Backend) GetEmotionDistribution(ctx context.Context, userID string) ([]ports.DistributionSlice, error) {
	if err := wait(ctx, b.delays.Default); err != nil {
		return nil, err
	}
	return []ports.DistributionSlice{
		{Name: "积极", Value: 60},
		{Name: "消极", Value: 15},
		{Name: "中性", Value: 25},
	}, nil
}

func (b *Backend) GetMemoryCategoryAnalysis(ctx context.Context, userID string) ([]ports.CategoryAnalysis, error) {
	if err := wait(ctx, b.delays.Default); err != nil {
		return nil, err
	}
	return []ports.CategoryAnalysis{
		{Category: "家庭", Positive: 30, Negative: 5, Neutral: 10},
		{Category: "工作", Positive: 15, Negative: 8, Neutral: 7},
		{Category: "童年", Positive: 25, Negative: 2, Neutral: 3},
	}, nil
}

func (b *Backend) GetCharacterInteraction(ctx context.Context, userID string) ([]ports.CharacterInteraction, error) {
	if err := wait(ctx, b.delays.Default); err != nil {
		return nil, err
	}
	return []ports.CharacterInteraction{
		{Name: "小慧", Interactions: 80, Satisfaction: 4.5},
		{Name: "老王", Interactions: 40, Satisfaction: 4.0},
	}, nil
}

// GetPADTrend generates a week of random points in [-1, 1) on each axis
func (b *Backend) GetPADTrend(ctx context.Context, userID, period string) ([]entities.PADPoint, error) {
	if err := wait(ctx, b.delays.Default); err != nil {
		return nil, err
	}
	out := make([]entities.PADPoint, 0, trendDays)
	for i := 0; i < trendDays; i++ {
		out = append(out, entities.PADPoint{
			Date:      trendDate(i),
			Pleasure:  b.rng.Float64()*2 - 1,
			Arousal:   b.rng.Float64()*2 - 1,
			Dominance: b.rng.Float64()*2 - 1,
		})
	}
	return out, nil
}

func trendDate(i int) string {
	return fmt.Sprintf("2025-07-%d", 10+i)
}
