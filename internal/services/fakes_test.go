package services

import (
	"context"
	"time"

	"github.com/Questify-PPL/backend-sub000/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// In-memory repository fakes backing the service tests.

type fakeUserRepo struct {
	users map[primitive.ObjectID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*models.User)}
}

func (r *fakeUserRepo) add(pity int64) primitive.ObjectID {
	user := &models.User{ID: primitive.NewObjectID(), Pity: pity}
	r.users[user.ID] = user
	return user.ID
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	// Store a copy: a real repository persists a snapshot, so later mutations
	// of the caller's struct must not reach the stored document.
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	// Return a copy: a real repository decodes a fresh document, so later
	// repository writes must not reach values the caller already loaded.
	found := *user
	return &found, nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeUserRepo) IncrementPity(ctx context.Context, id primitive.ObjectID, delta int64) error {
	r.users[id].Pity += delta
	return nil
}

func (r *fakeUserRepo) SetPity(ctx context.Context, id primitive.ObjectID, value int64) error {
	r.users[id].Pity = value
	return nil
}

func (r *fakeUserRepo) IncrementBalance(ctx context.Context, id primitive.ObjectID, amount int64) error {
	r.users[id].Balance += amount
	return nil
}

type fakeCampaignRepo struct {
	campaigns map[primitive.ObjectID]*models.Campaign
}

func newFakeCampaignRepo() *fakeCampaignRepo {
	return &fakeCampaignRepo{campaigns: make(map[primitive.ObjectID]*models.Campaign)}
}

func (r *fakeCampaignRepo) add(campaign *models.Campaign) *models.Campaign {
	if campaign.ID.IsZero() {
		campaign.ID = primitive.NewObjectID()
	}
	r.campaigns[campaign.ID] = campaign
	return campaign
}

func (r *fakeCampaignRepo) Create(ctx context.Context, campaign *models.Campaign) error {
	r.add(campaign)
	return nil
}

func (r *fakeCampaignRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Campaign, error) {
	campaign, ok := r.campaigns[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return campaign, nil
}

func (r *fakeCampaignRepo) IncrementTotalPity(ctx context.Context, id primitive.ObjectID, delta int64) error {
	r.campaigns[id].TotalPity += delta
	return nil
}

func (r *fakeCampaignRepo) IncrementTotalPityMany(ctx context.Context, ids []primitive.ObjectID, delta int64) error {
	for _, id := range ids {
		r.campaigns[id].TotalPity += delta
	}
	return nil
}

func (r *fakeCampaignRepo) FindOpenUnsettledIDs(ctx context.Context, ids []primitive.ObjectID, now time.Time) ([]primitive.ObjectID, error) {
	var open []primitive.ObjectID
	for _, id := range ids {
		campaign, ok := r.campaigns[id]
		if !ok {
			continue
		}
		if !campaign.IsSettled && !campaign.Ended(now) {
			open = append(open, id)
		}
	}
	return open, nil
}

func (r *fakeCampaignRepo) MarkSettled(ctx context.Context, id primitive.ObjectID) (bool, error) {
	campaign, ok := r.campaigns[id]
	if !ok || campaign.IsSettled {
		return false, nil
	}
	campaign.IsSettled = true
	return true, nil
}

type fakeParticipationRepo struct {
	participations []*models.Participation
	users          *fakeUserRepo
}

func newFakeParticipationRepo(users *fakeUserRepo) *fakeParticipationRepo {
	return &fakeParticipationRepo{users: users}
}

func (r *fakeParticipationRepo) add(userID, campaignID primitive.ObjectID, completed bool) {
	r.participations = append(r.participations, &models.Participation{
		ID:          primitive.NewObjectID(),
		UserID:      userID,
		CampaignID:  campaignID,
		IsCompleted: completed,
	})
}

func (r *fakeParticipationRepo) Create(ctx context.Context, participation *models.Participation) error {
	if participation.ID.IsZero() {
		participation.ID = primitive.NewObjectID()
	}
	r.participations = append(r.participations, participation)
	return nil
}

func (r *fakeParticipationRepo) FindByUserAndCampaign(ctx context.Context, userID, campaignID primitive.ObjectID) (*models.Participation, error) {
	for _, p := range r.participations {
		if p.UserID == userID && p.CampaignID == campaignID {
			return p, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeParticipationRepo) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.Participation, error) {
	var result []*models.Participation
	for _, p := range r.participations {
		if p.UserID == userID {
			result = append(result, p)
		}
	}
	return result, nil
}

func (r *fakeParticipationRepo) FindCompletedParticipants(ctx context.Context, campaignID primitive.ObjectID) ([]models.CompletedParticipant, error) {
	var result []models.CompletedParticipant
	for _, p := range r.participations {
		if p.CampaignID == campaignID && p.IsCompleted {
			result = append(result, models.CompletedParticipant{
				UserID: p.UserID,
				Pity:   r.users.users[p.UserID].Pity,
			})
		}
	}
	return result, nil
}

func (r *fakeParticipationRepo) FindCompletedCampaignIDs(ctx context.Context, userID, exclude primitive.ObjectID) ([]primitive.ObjectID, error) {
	var ids []primitive.ObjectID
	for _, p := range r.participations {
		if p.UserID == userID && p.IsCompleted && p.CampaignID != exclude {
			ids = append(ids, p.CampaignID)
		}
	}
	return ids, nil
}

func (r *fakeParticipationRepo) MarkCompleted(ctx context.Context, userID, campaignID primitive.ObjectID) error {
	for _, p := range r.participations {
		if p.UserID == userID && p.CampaignID == campaignID && !p.IsCompleted {
			p.IsCompleted = true
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (r *fakeParticipationRepo) SetFinalChance(ctx context.Context, userID, campaignID primitive.ObjectID, chance float64) error {
	for _, p := range r.participations {
		if p.UserID == userID && p.CampaignID == campaignID {
			p.FinalChance = chance
		}
	}
	return nil
}

type fakeWinnerRepo struct {
	winners []*models.Winner
}

func (r *fakeWinnerRepo) CreateMany(ctx context.Context, winners []*models.Winner) error {
	r.winners = append(r.winners, winners...)
	return nil
}

func (r *fakeWinnerRepo) FindByCampaignID(ctx context.Context, campaignID primitive.ObjectID) ([]*models.Winner, error) {
	var result []*models.Winner
	for _, w := range r.winners {
		if w.CampaignID == campaignID {
			result = append(result, w)
		}
	}
	return result, nil
}

func (r *fakeWinnerRepo) FindByUserID(ctx context.Context, userID primitive.ObjectID) ([]*models.Winner, error) {
	var result []*models.Winner
	for _, w := range r.winners {
		if w.UserID == userID {
			result = append(result, w)
		}
	}
	return result, nil
}

type fakeCreditRepo struct {
	transactions []*models.CreditTransaction
}

func (r *fakeCreditRepo) Create(ctx context.Context, transaction *models.CreditTransaction) error {
	r.transactions = append(r.transactions, transaction)
	return nil
}

func (r *fakeCreditRepo) FindByUserID(ctx context.Context, userID primitive.ObjectID) ([]*models.CreditTransaction, error) {
	var result []*models.CreditTransaction
	for _, t := range r.transactions {
		if t.UserID == userID {
			result = append(result, t)
		}
	}
	return result, nil
}

// fakeTransactor runs the callback directly; the fakes have no sessions.
type fakeTransactor struct{}

func (fakeTransactor) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// fixedSource always yields the same value for deterministic draws.
type fixedSource struct {
	v float64
}

func (f fixedSource) Float64() float64 { return f.v }
