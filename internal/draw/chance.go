package draw

import (
	"github.com/Questify-PPL/backend-sub000/internal/models"
)

// EstimateChance computes the respondent-visible winning probability in [0,100]
// for a campaign, before or after its draw.
//
// Once the campaign is settled the chance frozen at settlement time is returned
// verbatim. For an unsettled EVEN campaign every completer wins something, so
// the estimate is 100. For an unsettled WEIGHTED campaign the divisor is the
// campaign's aggregate pity when the respondent has already completed it, and
// pity+total before completion. The pre-completion divisor deliberately
// overweights the denominator to discourage early-chance overestimation.
func EstimateChance(campaign *models.Campaign, pity int64, hasCompleted bool, frozen float64) float64 {
	if campaign.IsSettled {
		return frozen
	}
	if campaign.Mode == models.DistributionEven {
		return 100
	}
	divisor := campaign.TotalPity
	if !hasCompleted {
		divisor += pity
	}
	if divisor == 0 {
		return 100
	}
	return clampChance(float64(pity) / float64(divisor) * 100)
}

// FrozenChance is the value settlement locks into each completer's
// participation record for a weighted draw: pity share of the campaign's
// pre-settlement aggregate. A zero aggregate is a defined case, not an error.
func FrozenChance(pity, totalPity int64) float64 {
	if totalPity == 0 {
		return 100
	}
	return clampChance(float64(pity) / float64(totalPity) * 100)
}

// clampChance keeps estimates inside [0,100] even when the stored aggregate
// lags behind an individual pity weight.
func clampChance(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
