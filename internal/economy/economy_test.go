package economy

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"amanda-bot/internal/config"
	"amanda-bot/internal/database/models"
	"amanda-bot/internal/locales"
)

func TestDaily(t *testing.T) {
	ctx := context.Background()
	loc := locales.NewLocalizer("pt")

	t.Run("pays base plus bonus once", func(t *testing.T) {
		f := newFixture(t)
		user := f.user(t, "u1")

		resp, err := f.svc.Daily(ctx, user, loc)
		require.NoError(t, err)
		assert.Equal(t, int64(1000), user.Balance)
		assert.Contains(t, resp.Text, "1000")
	})

	t.Run("blocked inside the cooldown", func(t *testing.T) {
		f := newFixture(t)
		user := f.user(t, "u1")

		_, err := f.svc.Daily(ctx, user, loc)
		require.NoError(t, err)
		f.advance(23 * time.Hour)

		resp, err := f.svc.Daily(ctx, user, loc)
		require.NoError(t, err)
		assert.Equal(t, int64(1000), user.Balance, "second claim must not pay")
		assert.Contains(t, resp.Text, "1h")
	})

	t.Run("allowed exactly at the boundary", func(t *testing.T) {
		f := newFixture(t)
		user := f.user(t, "u1")

		_, err := f.svc.Daily(ctx, user, loc)
		require.NoError(t, err)
		f.advance(24 * time.Hour)

		_, err = f.svc.Daily(ctx, user, loc)
		require.NoError(t, err)
		assert.Equal(t, int64(2000), user.Balance)
	})
}

func TestWork(t *testing.T) {
	ctx := context.Background()
	loc := locales.NewLocalizer("pt")

	t.Run("success pays the job and grants xp", func(t *testing.T) {
		f := newFixture(t)
		user := f.user(t, "u1")

		resp, err := f.svc.Work(ctx, user, "programador", loc)
		require.NoError(t, err)
		assert.Equal(t, int64(1000), user.Balance)
		assert.Equal(t, 40, user.XP)
		assert.Contains(t, resp.Text, "Programador")
	})

	t.Run("estrela effect multiplies the pay", func(t *testing.T) {
		f := newFixture(t)
		user := f.user(t, "u1")
		user.Effects = map[string]models.Effect{
			"work_multiplier": {Value: 1.5, ActiveUntil: f.now.Add(time.Hour)},
		}

		_, err := f.svc.Work(ctx, user, "programador", loc)
		require.NoError(t, err)
		assert.Equal(t, int64(1500), user.Balance)
	})

	t.Run("blocked inside the cooldown", func(t *testing.T) {
		f := newFixture(t)
		user := f.user(t, "u1")

		_, err := f.svc.Work(ctx, user, "designer", loc)
		require.NoError(t, err)

		resp, err := f.svc.Work(ctx, user, "designer", loc)
		require.NoError(t, err)
		assert.Less(t, user.Balance, int64(1000), "second shift must not pay")
		assert.Contains(t, resp.Text, "⏳")
	})
}

func TestMine(t *testing.T) {
	ctx := context.Background()
	loc := locales.NewLocalizer("pt")

	t.Run("pays and can find a collectible", func(t *testing.T) {
		f := newFixture(t)
		user := f.user(t, "u1")

		resp, err := f.svc.Mine(ctx, user, loc)
		require.NoError(t, err)
		assert.Equal(t, int64(1000), user.Balance)
		require.Len(t, user.Inventory, 1)
		assert.Equal(t, "Diamante 💎", user.Inventory[0].Name)
		assert.Equal(t, 50, user.XP)
		assert.Contains(t, resp.Text, "Diamante")
		assert.Equal(t, 1, user.MineCount)
	})

	t.Run("daily cap blocks and resets next day", func(t *testing.T) {
		f := newFixture(t)
		user := f.user(t, "u1")
		user.MineCount = 50
		user.LastMineReset = f.now

		resp, err := f.svc.Mine(ctx, user, loc)
		require.NoError(t, err)
		assert.Zero(t, user.Balance)
		assert.Contains(t, resp.Text, "50")

		f.advance(24 * time.Hour)
		_, err = f.svc.Mine(ctx, user, loc)
		require.NoError(t, err)
		assert.Equal(t, int64(1000), user.Balance)
		assert.Equal(t, 1, user.MineCount, "counter restarts after midnight")
	})
}

func TestFish(t *testing.T) {
	ctx := context.Background()
	loc := locales.NewLocalizer("pt")

	t.Run("requires a rod", func(t *testing.T) {
		f := newFixture(t)
		user := f.user(t, "u1")

		resp, err := f.svc.Fish(ctx, user, loc)
		require.NoError(t, err)
		assert.Contains(t, resp.Text, "vara")
		assert.Zero(t, user.Balance)
	})

	t.Run("catch pays and wears the rod", func(t *testing.T) {
		f := newFixture(t)
		user := f.user(t, "u1")
		user.Inventory = append(user.Inventory, models.InventoryItem{
			ID: "vara_iniciante", Name: "Vara de Iniciante", Durability: 50,
		})

		resp, err := f.svc.Fish(ctx, user, loc)
		require.NoError(t, err)
		assert.Equal(t, int64(100), user.Balance, "sardinha pays 100")
		assert.Equal(t, 20, user.XP)
		assert.Equal(t, 49, user.Inventory[0].Durability)
		assert.Contains(t, resp.Text, "Sardinha")
	})

	t.Run("rod at zero durability breaks and is removed", func(t *testing.T) {
		f := newFixture(t)
		user := f.user(t, "u1")
		user.Inventory = append(user.Inventory, models.InventoryItem{
			ID: "vara_iniciante", Name: "Vara de Iniciante", Durability: 1,
		})

		resp, err := f.svc.Fish(ctx, user, loc)
		require.NoError(t, err)
		assert.Empty(t, user.Inventory)
		assert.Contains(t, resp.Text, "quebrou")
	})
}

func TestFarming(t *testing.T) {
	ctx := context.Background()
	loc := locales.NewLocalizer("pt")

	plant := func(t *testing.T, f *fixture, user *models.User) {
		t.Helper()
		user.Balance = 100
		_, err := f.svc.Plant(ctx, user, "cenoura", loc)
		require.NoError(t, err)
		require.NotNil(t, user.Crop)
		assert.Zero(t, user.Balance, "seed price debited")
	}

	t.Run("harvest at ready pays full value", func(t *testing.T) {
		f := newFixture(t)
		user := f.user(t, "u1")
		plant(t, f, user)

		f.advance(5 * time.Minute)
		resp, err := f.svc.Harvest(ctx, user, loc)
		require.NoError(t, err)
		assert.Equal(t, int64(200), user.Balance)
		assert.Equal(t, 50, user.XP)
		assert.Nil(t, user.Crop)
		assert.Contains(t, resp.Text, "Cenoura")
	})

	t.Run("harvest midway through the window pays half value and xp", func(t *testing.T) {
		f := newFixture(t)
		user := f.user(t, "u1")
		plant(t, f, user)

		f.advance(5*time.Minute + 5*time.Minute)
		resp, err := f.svc.Harvest(ctx, user, loc)
		require.NoError(t, err)
		assert.Equal(t, int64(100), user.Balance)
		assert.Equal(t, 25, user.XP, "xp decays with freshness like the payout")
		assert.Contains(t, resp.Text, "25")
	})

	t.Run("past the window the crop rots and pays nothing", func(t *testing.T) {
		f := newFixture(t)
		user := f.user(t, "u1")
		plant(t, f, user)

		f.advance(5*time.Minute + 11*time.Minute)
		resp, err := f.svc.Harvest(ctx, user, loc)
		require.NoError(t, err)
		assert.Zero(t, user.Balance)
		assert.Zero(t, user.XP)
		assert.Nil(t, user.Crop, "rotted crop is cleared")
		assert.Contains(t, resp.Text, "apodreceu")
	})

	t.Run("harvest before ready is refused", func(t *testing.T) {
		f := newFixture(t)
		user := f.user(t, "u1")
		plant(t, f, user)

		f.advance(time.Minute)
		_, err := f.svc.Harvest(ctx, user, loc)
		require.NoError(t, err)
		assert.NotNil(t, user.Crop, "crop stays planted")
		assert.Zero(t, user.Balance)
	})

	t.Run("one crop at a time", func(t *testing.T) {
		f := newFixture(t)
		user := f.user(t, "u1")
		plant(t, f, user)

		user.Balance = 100
		resp, err := f.svc.Plant(ctx, user, "cenoura", loc)
		require.NoError(t, err)
		assert.Equal(t, int64(100), user.Balance, "no second seed charged")
		assert.Contains(t, resp.Text, "plantado")
	})

	t.Run("seed level gate", func(t *testing.T) {
		f := newFixture(t)
		user := f.user(t, "u1")
		user.Balance = 500

		resp, err := f.svc.Plant(ctx, user, "abacaxi", loc)
		require.NoError(t, err)
		assert.Nil(t, user.Crop)
		assert.Contains(t, resp.Text, "10")
	})
}

func TestRob(t *testing.T) {
	ctx := context.Background()
	loc := locales.NewLocalizer("pt")

	t.Run("success moves coins without minting", func(t *testing.T) {
		f := newFixture(t)
		robber := f.user(t, "u1")
		target := f.user(t, "u2")
		target.Balance = 1000

		before := robber.Balance + target.Balance
		resp, err := f.svc.Rob(ctx, robber, "u2", loc)
		require.NoError(t, err)
		assert.Equal(t, before, robber.Balance+target.Balance, "total supply unchanged")
		assert.Positive(t, robber.Balance)
		assert.Equal(t, 60, robber.XP, "success grants xp")
		assert.Equal(t, []string{"u2"}, resp.Mentions)
		assert.Equal(t, 1, robber.RobCount)
	})

	t.Run("failure pays bail and grants no xp", func(t *testing.T) {
		f := newFixture(t)
		cfg := config.DefaultEconomy()
		cfg.RobBaseSuccessRate = 0
		cfg.RobSuccessRateCap = 0
		f.svc = NewService(f.users, f.groups, f.banks, f.transfers, cfg,
			func() time.Time { return f.now }, newZeroRand())

		robber := f.user(t, "u1")
		robber.Balance = 100
		target := f.user(t, "u2")
		target.Balance = 1000

		resp, err := f.svc.Rob(ctx, robber, "u2", loc)
		require.NoError(t, err)
		assert.Equal(t, int64(1000), target.Balance, "failed heist leaves the target untouched")
		assert.Less(t, robber.Balance, int64(100), "bail debited")
		assert.Zero(t, robber.XP)
		assert.Contains(t, resp.Text, "fiança")
		assert.NotContains(t, resp.Text, "XP")
	})

	t.Run("self robbery refused", func(t *testing.T) {
		f := newFixture(t)
		robber := f.user(t, "u1")

		resp, err := f.svc.Rob(ctx, robber, "u1", loc)
		require.NoError(t, err)
		assert.Contains(t, resp.Text, "🤡")
	})

	t.Run("poor target refused", func(t *testing.T) {
		f := newFixture(t)
		robber := f.user(t, "u1")
		target := f.user(t, "u2")
		target.Balance = 99

		_, err := f.svc.Rob(ctx, robber, "u2", loc)
		require.NoError(t, err)
		assert.Zero(t, robber.Balance)
		assert.Equal(t, int64(99), target.Balance)
	})

	t.Run("escudo makes the target immune", func(t *testing.T) {
		f := newFixture(t)
		robber := f.user(t, "u1")
		target := f.user(t, "u2")
		target.Balance = 10000
		target.Effects = map[string]models.Effect{
			"rob_chance": {Value: -1, ActiveUntil: f.now.Add(24 * time.Hour)},
		}

		resp, err := f.svc.Rob(ctx, robber, "u2", loc)
		require.NoError(t, err)
		assert.Equal(t, int64(10000), target.Balance)
		assert.Contains(t, resp.Text, "🛡️")
	})

	t.Run("cooldown blocks the second attempt", func(t *testing.T) {
		f := newFixture(t)
		robber := f.user(t, "u1")
		target := f.user(t, "u2")
		target.Balance = 1000

		_, err := f.svc.Rob(ctx, robber, "u2", loc)
		require.NoError(t, err)
		stolen := robber.Balance

		resp, err := f.svc.Rob(ctx, robber, "u2", loc)
		require.NoError(t, err)
		assert.Equal(t, stolen, robber.Balance)
		assert.Contains(t, resp.Text, "⏳")
	})
}

func TestGames(t *testing.T) {
	ctx := context.Background()
	loc := locales.NewLocalizer("pt")

	gambler := func(t *testing.T, f *fixture) *models.User {
		t.Helper()
		user := f.user(t, "u1")
		user.Level = 2
		user.Balance = 1000
		return user
	}

	t.Run("flip win pays out", func(t *testing.T) {
		f := newFixture(t)
		user := gambler(t, f)

		resp, err := f.svc.Flip(ctx, user, "cara", "100", loc)
		require.NoError(t, err)
		assert.Equal(t, int64(1080), user.Balance, "net gain is bet * 0.8")
		assert.Contains(t, resp.Text, "🎉")
	})

	t.Run("flip on the losing side forfeits the bet", func(t *testing.T) {
		f := newFixture(t)
		user := gambler(t, f)

		_, err := f.svc.Flip(ctx, user, "coroa", "100", loc)
		require.NoError(t, err)
		assert.Equal(t, int64(900), user.Balance)
	})

	t.Run("slots triple pays the multiplier", func(t *testing.T) {
		f := newFixture(t)
		user := gambler(t, f)

		resp, err := f.svc.Slots(ctx, user, "100", loc)
		require.NoError(t, err)
		assert.Equal(t, int64(1200), user.Balance, "triple pays x3, net +200")
		assert.Contains(t, resp.Text, "🎰")
	})

	t.Run("level gate", func(t *testing.T) {
		f := newFixture(t)
		user := f.user(t, "u1")
		user.Balance = 1000

		resp, err := f.svc.Flip(ctx, user, "cara", "100", loc)
		require.NoError(t, err)
		assert.Equal(t, int64(1000), user.Balance)
		assert.Contains(t, resp.Text, "2")
	})

	t.Run("bet below the minimum refused", func(t *testing.T) {
		f := newFixture(t)
		user := gambler(t, f)

		_, err := f.svc.Flip(ctx, user, "cara", "50", loc)
		require.NoError(t, err)
		assert.Equal(t, int64(1000), user.Balance)
	})

	t.Run("bet over the balance reports the shortfall", func(t *testing.T) {
		f := newFixture(t)
		user := gambler(t, f)
		user.Balance = 0

		resp, err := f.svc.Flip(ctx, user, "cara", "1000", loc)
		require.NoError(t, err)
		assert.Zero(t, user.Balance, "balance never goes negative")
		assert.Contains(t, resp.Text, "1000")
	})
}

func TestTransfer(t *testing.T) {
	ctx := context.Background()
	loc := locales.NewLocalizer("pt")

	t.Run("tax goes to the group bank", func(t *testing.T) {
		f := newFixture(t)
		sender := f.user(t, "u1")
		sender.Balance = 2000

		resp, err := f.svc.Transfer(ctx, sender, "u2", "1000", loc)
		require.NoError(t, err)

		receiver := f.user(t, "u2")
		assert.Equal(t, int64(1000), sender.Balance)
		assert.Equal(t, int64(950), receiver.Balance)

		bank, err := f.banks.Get(ctx, "group-1")
		require.NoError(t, err)
		assert.Equal(t, int64(50), bank.Balance)
		assert.Equal(t, int64(1), bank.TotalTransfers)

		require.Len(t, f.transfers.records, 1)
		assert.Equal(t, int64(1000), f.transfers.records[0].Amount)
		assert.Equal(t, int64(50), f.transfers.records[0].Tax)
		assert.Equal(t, []string{"u2"}, resp.Mentions)
	})

	t.Run("below minimum refused", func(t *testing.T) {
		f := newFixture(t)
		sender := f.user(t, "u1")
		sender.Balance = 2000

		_, err := f.svc.Transfer(ctx, sender, "u2", "50", loc)
		require.NoError(t, err)
		assert.Equal(t, int64(2000), sender.Balance)
		assert.Empty(t, f.transfers.records)
	})

	t.Run("insufficient funds reports the shortfall", func(t *testing.T) {
		f := newFixture(t)
		sender := f.user(t, "u1")

		resp, err := f.svc.Transfer(ctx, sender, "u2", "1000", loc)
		require.NoError(t, err)
		assert.Contains(t, resp.Text, "1000")
		assert.Empty(t, f.transfers.records)
	})

	t.Run("daily cap counts from local midnight", func(t *testing.T) {
		f := newFixture(t)
		sender := f.user(t, "u1")
		sender.Balance = 10000000
		f.transfers.records = append(f.transfers.records, models.Transfer{
			SenderID: "u1", Amount: 4999500, CreatedAt: f.now.Add(-time.Hour),
		})

		resp, err := f.svc.Transfer(ctx, sender, "u2", "1000", loc)
		require.NoError(t, err)
		assert.Contains(t, resp.Text, "limite")
		assert.Equal(t, int64(10000000), sender.Balance)

		// Yesterday's transfers do not count.
		f.transfers.records[0].CreatedAt = f.now.Add(-13 * time.Hour)
		_, err = f.svc.Transfer(ctx, sender, "u2", "1000", loc)
		require.NoError(t, err)
		assert.Equal(t, int64(9999000), sender.Balance)
	})

	t.Run("self transfer refused", func(t *testing.T) {
		f := newFixture(t)
		sender := f.user(t, "u1")
		sender.Balance = 2000

		_, err := f.svc.Transfer(ctx, sender, "u1", "1000", loc)
		require.NoError(t, err)
		assert.Equal(t, int64(2000), sender.Balance)
	})
}

func TestShop(t *testing.T) {
	ctx := context.Background()
	loc := locales.NewLocalizer("pt")

	t.Run("buying a rod stores its durability", func(t *testing.T) {
		f := newFixture(t)
		user := f.user(t, "u1")
		user.Balance = 1000

		_, err := f.svc.Buy(ctx, user, "vara_iniciante", loc)
		require.NoError(t, err)
		assert.Zero(t, user.Balance)
		require.Len(t, user.Inventory, 1)
		assert.Equal(t, 50, user.Inventory[0].Durability)
	})

	t.Run("duplicate purchase refused", func(t *testing.T) {
		f := newFixture(t)
		user := f.user(t, "u1")
		user.Balance = 2000

		_, err := f.svc.Buy(ctx, user, "vara_iniciante", loc)
		require.NoError(t, err)
		resp, err := f.svc.Buy(ctx, user, "vara_iniciante", loc)
		require.NoError(t, err)
		assert.Equal(t, int64(1000), user.Balance, "charged only once")
		assert.Contains(t, resp.Text, "já tem")
	})

	t.Run("rod level gate", func(t *testing.T) {
		f := newFixture(t)
		user := f.user(t, "u1")
		user.Balance = 20000

		resp, err := f.svc.Buy(ctx, user, "vara_mestre", loc)
		require.NoError(t, err)
		assert.Empty(t, user.Inventory)
		assert.Contains(t, resp.Text, "10")
	})

	t.Run("using an item activates its effect", func(t *testing.T) {
		f := newFixture(t)
		user := f.user(t, "u1")
		user.Balance = 15000

		_, err := f.svc.Buy(ctx, user, "amuleto", loc)
		require.NoError(t, err)
		_, err = f.svc.Use(ctx, user, "amuleto", loc)
		require.NoError(t, err)

		assert.Empty(t, user.Inventory, "consumed on use")
		effect, ok := user.ActiveEffect("xp_boost", f.now.Add(time.Minute))
		require.True(t, ok)
		assert.Equal(t, 1.5, effect.Value)
	})

	t.Run("using an unowned item refused", func(t *testing.T) {
		f := newFixture(t)
		user := f.user(t, "u1")

		resp, err := f.svc.Use(ctx, user, "escudo", loc)
		require.NoError(t, err)
		assert.Contains(t, resp.Text, "não tem")
	})
}

func TestRank(t *testing.T) {
	ctx := context.Background()
	loc := locales.NewLocalizer("pt")

	f := newFixture(t)
	a := f.user(t, "u1")
	a.Balance = 500
	b := f.user(t, "u2")
	b.Balance = 2000

	resp, err := f.svc.Rank(ctx, "group-1", loc)
	require.NoError(t, err)
	rich := strings.Index(resp.Text, "2000")
	poor := strings.Index(resp.Text, "500")
	require.GreaterOrEqual(t, rich, 0)
	require.GreaterOrEqual(t, poor, 0)
	assert.Less(t, rich, poor, "richest listed first")
}

func TestProfileProgress(t *testing.T) {
	loc := locales.NewLocalizer("pt")

	f := newFixture(t)
	user := f.user(t, "u1")
	// 1100 cumulative XP puts the user 100 into level 2 of 1500.
	user.XP = 1100
	user.Level = 2

	resp := f.svc.Profile(user, loc)
	assert.Contains(t, resp.Text, "100/1500")
	assert.Contains(t, resp.Text, "Nível 2")
}
