package services

import (
	"context"
	"testing"
	"time"

	"github.com/Questify-PPL/backend-sub000/internal/draw"
	"github.com/Questify-PPL/backend-sub000/internal/models"
	"github.com/Questify-PPL/backend-sub000/pkg/memlock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type settlementFixture struct {
	users          *fakeUserRepo
	campaigns      *fakeCampaignRepo
	participations *fakeParticipationRepo
	winners        *fakeWinnerRepo
	credits        *fakeCreditRepo
	guard          *memlock.Table
	service        *SettlementServiceImpl
}

func newSettlementFixture(src draw.Source) *settlementFixture {
	users := newFakeUserRepo()
	campaigns := newFakeCampaignRepo()
	participations := newFakeParticipationRepo(users)
	winners := &fakeWinnerRepo{}
	credits := &fakeCreditRepo{}
	guard := memlock.NewTable()
	ledger := NewPityLedger(users, campaigns, participations, fakeTransactor{})
	service := NewSettlementService(
		campaigns, participations, users, winners, credits,
		ledger, fakeTransactor{}, guard, src,
	)
	return &settlementFixture{
		users:          users,
		campaigns:      campaigns,
		participations: participations,
		winners:        winners,
		credits:        credits,
		guard:          guard,
		service:        service,
	}
}

func endedAt(d time.Duration) *time.Time {
	t := time.Now().Add(d)
	return &t
}

func TestSettleIfDueEvenMode(t *testing.T) {
	f := newSettlementFixture(fixedSource{v: 0.5})

	campaign := f.campaigns.add(&models.Campaign{
		Title:     "Office snacks survey",
		Prize:     100000,
		Mode:      models.DistributionEven,
		MaxWinner: 3,
		EndedAt:   endedAt(-time.Hour),
	})

	var userIDs []primitive.ObjectID
	for i := 0; i < 3; i++ {
		id := f.users.add(int64(5 * i))
		f.participations.add(id, campaign.ID, true)
		userIDs = append(userIDs, id)
	}

	if err := f.service.SettleIfDue(context.Background(), campaign.ID); err != nil {
		t.Fatalf("SettleIfDue() error = %v", err)
	}

	if !campaign.IsSettled {
		t.Error("campaign should be settled")
	}
	if len(f.winners.winners) != 3 {
		t.Fatalf("got %d winners, want 3", len(f.winners.winners))
	}

	// 100000 / 3 truncates; the remainder stays in the pool.
	var distributed int64
	for _, w := range f.winners.winners {
		if w.PrizeAmount != 33333 {
			t.Errorf("winner %s prize = %d, want 33333", w.UserID.Hex(), w.PrizeAmount)
		}
		distributed += w.PrizeAmount
	}
	if distributed > campaign.Prize {
		t.Errorf("distributed %d exceeds prize pool %d", distributed, campaign.Prize)
	}

	for i, id := range userIDs {
		user := f.users.users[id]
		if user.Balance != 33333 {
			t.Errorf("user %d balance = %d, want 33333", i, user.Balance)
		}
		// Even mode never touches pity.
		if user.Pity != int64(5*i) {
			t.Errorf("user %d pity = %d, want %d", i, user.Pity, 5*i)
		}
		p, err := f.participations.FindByUserAndCampaign(context.Background(), id, campaign.ID)
		if err != nil {
			t.Fatalf("FindByUserAndCampaign() error = %v", err)
		}
		if p.FinalChance != 100 {
			t.Errorf("user %d final chance = %v, want 100", i, p.FinalChance)
		}
	}

	if len(f.credits.transactions) != 3 {
		t.Fatalf("got %d credit transactions, want 3", len(f.credits.transactions))
	}
	for _, tx := range f.credits.transactions {
		if tx.Source != "SETTLEMENT" {
			t.Errorf("credit source = %q, want SETTLEMENT", tx.Source)
		}
		if tx.CampaignID != campaign.ID {
			t.Errorf("credit campaignId = %s, want %s", tx.CampaignID.Hex(), campaign.ID.Hex())
		}
	}
}

func TestSettleIfDueWeightedMode(t *testing.T) {
	f := newSettlementFixture(fixedSource{v: 0.5})

	campaign := f.campaigns.add(&models.Campaign{
		Title:     "Commute habits survey",
		Prize:     80000,
		Mode:      models.DistributionWeighted,
		MaxWinner: 4,
		TotalPity: 170,
		EndedAt:   endedAt(-time.Hour),
	})

	pities := []int64{10, 70, 30, 20, 50}
	ids := make([]primitive.ObjectID, len(pities))
	for i, pity := range pities {
		ids[i] = f.users.add(pity)
		f.participations.add(ids[i], campaign.ID, true)
	}

	if err := f.service.SettleIfDue(context.Background(), campaign.ID); err != nil {
		t.Fatalf("SettleIfDue() error = %v", err)
	}

	if !campaign.IsSettled {
		t.Error("campaign should be settled")
	}
	if len(f.winners.winners) != 4 {
		t.Fatalf("got %d winners, want 4", len(f.winners.winners))
	}

	won := make(map[primitive.ObjectID]bool)
	for _, w := range f.winners.winners {
		won[w.UserID] = true
		if w.PrizeAmount != 20000 {
			t.Errorf("winner prize = %d, want 20000", w.PrizeAmount)
		}
	}
	// With the fixed draw value the lowest-weight user is the one left out.
	if won[ids[0]] {
		t.Error("lowest-weight user should not have won with this draw value")
	}
	for i := 1; i < len(ids); i++ {
		if !won[ids[i]] {
			t.Errorf("user %d should have won", i)
		}
	}

	// Winners reset to the floor, the loser accrues consolation pity.
	for i, id := range ids {
		user := f.users.users[id]
		if won[id] {
			if user.Pity != 1 {
				t.Errorf("winner %d pity = %d, want 1", i, user.Pity)
			}
			if user.Balance != 20000 {
				t.Errorf("winner %d balance = %d, want 20000", i, user.Balance)
			}
		} else {
			if user.Pity != pities[i]+2 {
				t.Errorf("loser %d pity = %d, want %d", i, user.Pity, pities[i]+2)
			}
			if user.Balance != 0 {
				t.Errorf("loser %d balance = %d, want 0", i, user.Balance)
			}
		}
	}

	// Every completer's chance is frozen against the pre-settlement total.
	for i, id := range ids {
		p, err := f.participations.FindByUserAndCampaign(context.Background(), id, campaign.ID)
		if err != nil {
			t.Fatalf("FindByUserAndCampaign() error = %v", err)
		}
		want := draw.FrozenChance(pities[i], 170)
		if p.FinalChance != want {
			t.Errorf("user %d final chance = %v, want %v", i, p.FinalChance, want)
		}
	}
}

func TestSettleIfDueNoCompleters(t *testing.T) {
	f := newSettlementFixture(fixedSource{v: 0.5})

	campaign := f.campaigns.add(&models.Campaign{
		Title:     "Nobody finished this one",
		Prize:     50000,
		Mode:      models.DistributionWeighted,
		MaxWinner: 2,
		EndedAt:   endedAt(-time.Minute),
	})
	// A joiner who never completed must not be drawn.
	f.participations.add(f.users.add(40), campaign.ID, false)

	if err := f.service.SettleIfDue(context.Background(), campaign.ID); err != nil {
		t.Fatalf("SettleIfDue() error = %v", err)
	}

	if !campaign.IsSettled {
		t.Error("campaign should be settled even with no completers")
	}
	if len(f.winners.winners) != 0 {
		t.Errorf("got %d winners, want 0", len(f.winners.winners))
	}
	if len(f.credits.transactions) != 0 {
		t.Errorf("got %d credit transactions, want 0", len(f.credits.transactions))
	}
}

func TestSettleIfDueWinnerCapUnset(t *testing.T) {
	f := newSettlementFixture(fixedSource{v: 0.5})

	campaign := f.campaigns.add(&models.Campaign{
		Title:     "Capless campaign",
		Prize:     50000,
		Mode:      models.DistributionWeighted,
		MaxWinner: 0,
		EndedAt:   endedAt(-time.Minute),
	})
	id := f.users.add(40)
	f.participations.add(id, campaign.ID, true)

	if err := f.service.SettleIfDue(context.Background(), campaign.ID); err != nil {
		t.Fatalf("SettleIfDue() error = %v", err)
	}

	if !campaign.IsSettled {
		t.Error("campaign should be settled")
	}
	if len(f.winners.winners) != 0 {
		t.Errorf("got %d winners, want 0", len(f.winners.winners))
	}
	if f.users.users[id].Pity != 40 {
		t.Errorf("pity = %d, want 40 (untouched)", f.users.users[id].Pity)
	}
}

func TestSettleIfDuePreconditions(t *testing.T) {
	tests := []struct {
		name     string
		campaign models.Campaign
	}{
		{"open ended", models.Campaign{Title: "no deadline", Mode: models.DistributionEven}},
		{"future deadline", models.Campaign{Title: "still running", Mode: models.DistributionEven, EndedAt: endedAt(time.Hour)}},
		{"already settled", models.Campaign{Title: "done", Mode: models.DistributionEven, IsSettled: true, EndedAt: endedAt(-time.Hour)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSettlementFixture(fixedSource{v: 0.5})
			campaign := tt.campaign
			created := f.campaigns.add(&campaign)
			f.participations.add(f.users.add(10), created.ID, true)

			if err := f.service.SettleIfDue(context.Background(), created.ID); err != nil {
				t.Fatalf("SettleIfDue() error = %v", err)
			}
			if len(f.winners.winners) != 0 {
				t.Errorf("got %d winners, want 0", len(f.winners.winners))
			}
			if len(f.credits.transactions) != 0 {
				t.Errorf("got %d credit transactions, want 0", len(f.credits.transactions))
			}
		})
	}
}

func TestSettleIfDueIdempotent(t *testing.T) {
	f := newSettlementFixture(fixedSource{v: 0.5})

	campaign := f.campaigns.add(&models.Campaign{
		Title:     "Settle once",
		Prize:     30000,
		Mode:      models.DistributionWeighted,
		MaxWinner: 1,
		TotalPity: 30,
		EndedAt:   endedAt(-time.Hour),
	})
	winner := f.users.add(20)
	loser := f.users.add(10)
	f.participations.add(winner, campaign.ID, true)
	f.participations.add(loser, campaign.ID, true)

	for i := 0; i < 2; i++ {
		if err := f.service.SettleIfDue(context.Background(), campaign.ID); err != nil {
			t.Fatalf("SettleIfDue() #%d error = %v", i+1, err)
		}
	}

	if len(f.winners.winners) != 1 {
		t.Fatalf("got %d winners after double settle, want 1", len(f.winners.winners))
	}
	if got := f.winners.winners[0].UserID; got != winner {
		t.Errorf("winner = %s, want %s", got.Hex(), winner.Hex())
	}
	// Adjustments applied exactly once.
	if f.users.users[winner].Pity != 1 {
		t.Errorf("winner pity = %d, want 1", f.users.users[winner].Pity)
	}
	if f.users.users[loser].Pity != 12 {
		t.Errorf("loser pity = %d, want 12", f.users.users[loser].Pity)
	}
	if f.users.users[winner].Balance != 30000 {
		t.Errorf("winner balance = %d, want 30000", f.users.users[winner].Balance)
	}
}

func TestSettleIfDueLockHeld(t *testing.T) {
	f := newSettlementFixture(fixedSource{v: 0.5})

	campaign := f.campaigns.add(&models.Campaign{
		Title:     "Contended",
		Prize:     10000,
		Mode:      models.DistributionEven,
		MaxWinner: 1,
		EndedAt:   endedAt(-time.Hour),
	})
	f.participations.add(f.users.add(10), campaign.ID, true)

	key := "campaign-" + campaign.ID.Hex()
	if !f.guard.TryAcquire(key) {
		t.Fatal("could not pre-acquire lock")
	}
	defer f.guard.Release(key)

	if err := f.service.SettleIfDue(context.Background(), campaign.ID); err != nil {
		t.Fatalf("SettleIfDue() error = %v", err)
	}
	if campaign.IsSettled {
		t.Error("campaign should not be settled while the lock is held elsewhere")
	}
	if len(f.winners.winners) != 0 {
		t.Errorf("got %d winners, want 0", len(f.winners.winners))
	}
}

func TestEstimateWinningChance(t *testing.T) {
	f := newSettlementFixture(fixedSource{v: 0.5})

	weighted := f.campaigns.add(&models.Campaign{
		Title:     "Weighted",
		Mode:      models.DistributionWeighted,
		TotalPity: 80,
	})
	even := f.campaigns.add(&models.Campaign{
		Title: "Even",
		Mode:  models.DistributionEven,
	})
	settled := f.campaigns.add(&models.Campaign{
		Title:     "Settled",
		Mode:      models.DistributionWeighted,
		TotalPity: 200,
		IsSettled: true,
		EndedAt:   endedAt(-time.Hour),
	})

	user := f.users.add(20)
	f.participations.add(user, even.ID, true)
	f.participations.participations[len(f.participations.participations)-1].FinalChance = 0
	f.participations.add(user, settled.ID, true)
	f.participations.participations[len(f.participations.participations)-1].FinalChance = 12.5

	t.Run("weighted not completed", func(t *testing.T) {
		got, err := f.service.EstimateWinningChance(context.Background(), user, weighted.ID)
		if err != nil {
			t.Fatalf("EstimateWinningChance() error = %v", err)
		}
		// Projected total includes the user's own weight: 20/(20+80).
		if got != 20 {
			t.Errorf("chance = %v, want 20", got)
		}
	})

	t.Run("weighted completed", func(t *testing.T) {
		f.participations.add(user, weighted.ID, true)
		got, err := f.service.EstimateWinningChance(context.Background(), user, weighted.ID)
		if err != nil {
			t.Fatalf("EstimateWinningChance() error = %v", err)
		}
		if got != 25 {
			t.Errorf("chance = %v, want 25 (20/80)", got)
		}
	})

	t.Run("even mode is certain", func(t *testing.T) {
		got, err := f.service.EstimateWinningChance(context.Background(), user, even.ID)
		if err != nil {
			t.Fatalf("EstimateWinningChance() error = %v", err)
		}
		if got != 100 {
			t.Errorf("chance = %v, want 100", got)
		}
	})

	t.Run("settled returns frozen value", func(t *testing.T) {
		got, err := f.service.EstimateWinningChance(context.Background(), user, settled.ID)
		if err != nil {
			t.Fatalf("EstimateWinningChance() error = %v", err)
		}
		if got != 12.5 {
			t.Errorf("chance = %v, want frozen 12.5", got)
		}
	})
}
