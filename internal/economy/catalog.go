package economy

import "time"

// Job is a work profession with a payout and a success rate.
type Job struct {
	Name        string
	Pay         int64
	SuccessRate float64
}

// Jobs available to !trabalhar, keyed by the lowercase profession name.
var Jobs = map[string]Job{
	"programador": {Name: "Programador", Pay: 1000, SuccessRate: 0.8},
	"designer":    {Name: "Designer", Pay: 800, SuccessRate: 0.85},
	"escritor":    {Name: "Escritor", Pay: 700, SuccessRate: 0.9},
	"vendedor":    {Name: "Vendedor", Pay: 1200, SuccessRate: 0.7},
}

// jobOrder gives a stable iteration order for random picks and listings.
var jobOrder = []string{"programador", "designer", "escritor", "vendedor"}

// Fish is a catch with its value, XP and base draw chance.
type Fish struct {
	Name   string
	Value  int64
	XP     int
	Chance float64
}

// FishTable is checked in order on every cast; the first entry whose
// scaled chance covers the roll wins.
var FishTable = []Fish{
	{Name: "Sardinha", Value: 100, XP: 20, Chance: 0.4},
	{Name: "Atum", Value: 250, XP: 40, Chance: 0.25},
	{Name: "Salmão", Value: 500, XP: 80, Chance: 0.15},
	{Name: "Polvo", Value: 1000, XP: 150, Chance: 0.15},
	{Name: "Baleia", Value: 2000, XP: 300, Chance: 0.05},
}

// Rod is a fishing rod sold in the shop.
type Rod struct {
	ID         string
	Name       string
	Price      int64
	Durability int
	Multiplier float64
	MinLevel   int
}

// Rods keyed by shop id.
var Rods = map[string]Rod{
	"vara_iniciante":    {ID: "vara_iniciante", Name: "Vara de Iniciante", Price: 1000, Durability: 50, Multiplier: 1, MinLevel: 1},
	"vara_profissional": {ID: "vara_profissional", Name: "Vara Profissional", Price: 5000, Durability: 100, Multiplier: 1.5, MinLevel: 5},
	"vara_mestre":       {ID: "vara_mestre", Name: "Vara de Mestre", Price: 15000, Durability: 200, Multiplier: 2, MinLevel: 10},
}

// Seed is a plantable crop definition.
type Seed struct {
	ID            string
	Name          string
	Price         int64
	MinLevel      int
	GrowTime      time.Duration
	HarvestWindow time.Duration
	CropName      string
	CropValue     int64
	CropXP        int
}

// Seeds keyed by the name used with !plantar.
var Seeds = map[string]Seed{
	"cenoura": {
		ID: "cenoura", Name: "Semente de Cenoura", Price: 100, MinLevel: 1,
		GrowTime: 5 * time.Minute, HarvestWindow: 10 * time.Minute,
		CropName: "Cenoura", CropValue: 200, CropXP: 50,
	},
	"tomate": {
		ID: "tomate", Name: "Semente de Tomate", Price: 250, MinLevel: 5,
		GrowTime: 10 * time.Minute, HarvestWindow: 15 * time.Minute,
		CropName: "Tomate", CropValue: 500, CropXP: 100,
	},
	"abacaxi": {
		ID: "abacaxi", Name: "Semente de Abacaxi", Price: 500, MinLevel: 10,
		GrowTime: 20 * time.Minute, HarvestWindow: 30 * time.Minute,
		CropName: "Abacaxi", CropValue: 1000, CropXP: 200,
	},
}

// ShopItem is a purchasable effect item. EffectKind names the ledger
// effect it activates with !usar; rods are sold through the same shop
// but live in Rods and have no effect.
type ShopItem struct {
	ID          string
	Name        string
	Price       int64
	MinLevel    int
	EffectKind  string
	EffectValue float64
	Duration    time.Duration
}

// ShopItems keyed by shop id. An escudo value of -1 marks full robbery
// immunity rather than a rate bonus.
var ShopItems = map[string]ShopItem{
	"estrela": {
		ID: "estrela", Name: "Estrela da Sorte", Price: 15000, MinLevel: 1,
		EffectKind: "work_multiplier", EffectValue: 1.5, Duration: 5 * time.Hour,
	},
	"cristal": {
		ID: "cristal", Name: "Cristal do Crime", Price: 20000, MinLevel: 1,
		EffectKind: "rob_chance", EffectValue: 0.2, Duration: 5 * time.Hour,
	},
	"escudo": {
		ID: "escudo", Name: "Escudo Protetor", Price: 25000, MinLevel: 1,
		EffectKind: "rob_chance", EffectValue: -1, Duration: 24 * time.Hour,
	},
	"amuleto": {
		ID: "amuleto", Name: "Amuleto de Sabedoria", Price: 15000, MinLevel: 1,
		EffectKind: "xp_boost", EffectValue: 1.5, Duration: time.Hour,
	},
}

// shopOrder gives a stable listing order for !lojacbcoin.
var shopOrder = []string{"estrela", "cristal", "escudo", "amuleto", "vara_iniciante", "vara_profissional", "vara_mestre"}

// MiningItems are the rare finds of !minerar. They are pure
// collectibles and count toward the collector achievement.
var MiningItems = []string{"Diamante 💎", "Esmeralda", "Rubi", "Pepita de Ouro"}

// Slot machine reels and payouts.
var (
	SlotSymbols = []string{"🍎", "🍊", "🍇", "🍓", "💎", "7️⃣"}

	slotTripleSevens   = 10.0
	slotTripleDiamonds = 7.0
	slotTriple         = 3.0
	slotPair           = 1.5
)
