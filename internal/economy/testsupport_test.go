package economy

import (
	"context"
	"math/rand"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"amanda-bot/internal/config"
	"amanda-bot/internal/database/models"
	"amanda-bot/internal/locales"
)

func init() {
	locales.Init("pt")
}

// zeroSource makes every roll come out zero: minimum bonuses, first
// table entries, guaranteed successes.
type zeroSource struct{}

func (zeroSource) Int63() int64 { return 0 }
func (zeroSource) Seed(int64)   {}

func newZeroRand() *rand.Rand { return rand.New(zeroSource{}) }

// fakeUsers is an in-memory UserRepository. It hands out shared
// pointers, so the service's in-place mutations are immediately
// visible; Update only counts persistence calls.
type fakeUsers struct {
	mu      sync.Mutex
	records map[string]*models.User
	updates int
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{records: make(map[string]*models.User)}
}

func (f *fakeUsers) key(userID, groupID string) string { return userID + "|" + groupID }

func (f *fakeUsers) GetOrCreate(_ context.Context, userID, groupID, name string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.records[f.key(userID, groupID)]; ok {
		if name != "" {
			u.Name = name
		}
		return u, nil
	}
	u := &models.User{
		UserID:  userID,
		GroupID: groupID,
		Name:    name,
		Level:   1,
		Skills: models.Skills{
			Farming: 1, Mining: 1, Fishing: 1, Trading: 1,
			Gambling: 1, XPBoost: 1, WorkMultiplier: 1,
		},
		Inventory:    []models.InventoryItem{},
		Achievements: []string{},
	}
	f.records[f.key(userID, groupID)] = u
	return u, nil
}

func (f *fakeUsers) Update(_ context.Context, _, _ string, _ bson.M) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates++
	return nil
}

func (f *fakeUsers) TopByBalance(_ context.Context, groupID string, n int) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.User
	for _, u := range f.records {
		if u.GroupID == groupID {
			out = append(out, *u)
		}
	}
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].Balance > out[i].Balance {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

// fakeGroups is an in-memory GroupRepository.
type fakeGroups struct {
	mu     sync.Mutex
	active map[string]bool
	groups map[string]*models.Group
}

func newFakeGroups() *fakeGroups {
	return &fakeGroups{active: make(map[string]bool), groups: make(map[string]*models.Group)}
}

func (f *fakeGroups) Upsert(_ context.Context, g *models.Group) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.groups[g.GroupID] = g
	return nil
}

func (f *fakeGroups) Get(_ context.Context, groupID string) (*models.Group, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.groups[groupID], nil
}

func (f *fakeGroups) SetActive(_ context.Context, groupID string, active bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.active[groupID] = active
	return nil
}

func (f *fakeGroups) IsActive(groupID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active[groupID]
}

// fakeBanks is an in-memory BankRepository.
type fakeBanks struct {
	mu    sync.Mutex
	banks map[string]*models.Bank
}

func newFakeBanks() *fakeBanks { return &fakeBanks{banks: make(map[string]*models.Bank)} }

func (f *fakeBanks) Get(_ context.Context, groupID string) (*models.Bank, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b, ok := f.banks[groupID]; ok {
		return b, nil
	}
	b := &models.Bank{GroupID: groupID}
	f.banks[groupID] = b
	return b, nil
}

func (f *fakeBanks) RecordTax(_ context.Context, groupID string, tax int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.banks[groupID]
	if !ok {
		b = &models.Bank{GroupID: groupID}
		f.banks[groupID] = b
	}
	b.Balance += tax
	b.TotalTaxCollected += tax
	b.TotalTransfers++
	return nil
}

// fakeTransfers is an in-memory TransferRepository.
type fakeTransfers struct {
	mu      sync.Mutex
	records []models.Transfer
}

func (f *fakeTransfers) Add(_ context.Context, t *models.Transfer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, *t)
	return nil
}

func (f *fakeTransfers) SumSentSince(_ context.Context, senderID string, since time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var total int64
	for _, t := range f.records {
		if t.SenderID == senderID && !t.CreatedAt.Before(since) {
			total += t.Amount
		}
	}
	return total, nil
}

// fixture bundles a service over fakes with a frozen clock and zeroed
// randomness.
type fixture struct {
	svc       *Service
	users     *fakeUsers
	groups    *fakeGroups
	banks     *fakeBanks
	transfers *fakeTransfers
	now       time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		users:     newFakeUsers(),
		groups:    newFakeGroups(),
		banks:     newFakeBanks(),
		transfers: &fakeTransfers{},
		now:       time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
	}
	f.svc = NewService(f.users, f.groups, f.banks, f.transfers, config.DefaultEconomy(),
		func() time.Time { return f.now },
		newZeroRand(),
	)
	return f
}

func (f *fixture) user(t *testing.T, userID string) *models.User {
	t.Helper()
	u, err := f.users.GetOrCreate(context.Background(), userID, "group-1", "Tester")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	return u
}

func (f *fixture) advance(d time.Duration) { f.now = f.now.Add(d) }
