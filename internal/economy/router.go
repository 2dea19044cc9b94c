package economy

import (
	"context"
	"fmt"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"

	"amanda-bot/internal/database"
	"amanda-bot/internal/database/models"
	"amanda-bot/internal/locales"
)

// Request carries everything the router needs about one incoming
// message: who sent it, where, the raw text and any mentioned members.
type Request struct {
	UserID   string
	UserName string
	GroupID  string
	IsGroup  bool
	IsAdmin  bool
	Text     string
	Mentions []string
}

// commandNames maps every accepted command alias, Portuguese and
// English, to its canonical action.
var commandNames = map[string]string{
	"diario": "daily", "diário": "daily", "daily": "daily",
	"trabalhar": "work", "work": "work",
	"minerar": "mine", "mine": "mine",
	"pescar": "fish", "fish": "fish",
	"plantar": "plant", "plant": "plant",
	"colher": "harvest", "harvest": "harvest",
	"plantacao": "farmstatus", "plantação": "farmstatus", "farm": "farmstatus",
	"assaltar": "rob", "roubar": "rob", "rob": "rob",
	"apostar": "flip", "flip": "flip", "coinflip": "flip",
	"slots": "slots", "cacaniqueis": "slots",
	"pix":   "transfer", "transferir": "transfer", "pay": "transfer",
	"saldo": "profile", "balance": "profile", "perfil": "profile", "profile": "profile",
	"rank": "rank", "ranking": "rank", "top": "rank",
	"lojacbcoin": "shop", "loja": "shop", "shop": "shop",
	"comprar": "buy", "buy": "buy",
	"inventario": "inventory", "inventário": "inventory", "inv": "inventory", "inventory": "inventory",
	"usar": "use", "use": "use",
	"banco": "bank", "bancocbcoin": "bank", "bank": "bank",
	"abrircbcoin":  "open",
	"fecharcbcoin": "close",
	"ajudacbcoin":  "help", "helpcbcoin": "help",
}

// inactiveAllowed are the actions that still work while CBCoin is
// closed in a group.
var inactiveAllowed = map[string]bool{
	"open":  true,
	"close": true,
	"bank":  true,
}

// Router dispatches economy commands, gating them on group activation
// and serializing per-(user, group) ledger access.
type Router struct {
	svc    *Service
	groups database.GroupRepository
	users  database.UserRepository
	locks  *keyLock
}

// NewRouter creates the economy command router.
func NewRouter(svc *Service, groups database.GroupRepository, users database.UserRepository) *Router {
	return &Router{
		svc:    svc,
		groups: groups,
		users:  users,
		locks:  newKeyLock(),
	}
}

// Handle dispatches one message. The second return value is false when
// the text is not an economy command and should fall through to the
// chat handler.
func (r *Router) Handle(ctx context.Context, req *Request, loc *i18n.Localizer) (*Response, bool, error) {
	text := strings.TrimSpace(req.Text)
	if !strings.HasPrefix(text, "!") {
		return nil, false, nil
	}
	parts := strings.Fields(text[1:])
	if len(parts) == 0 {
		return nil, false, nil
	}
	action, ok := commandNames[strings.ToLower(parts[0])]
	if !ok {
		// Prefix-matched but unknown: answer instead of staying silent.
		return &Response{Text: locales.GetMessage(loc, "MsgUnknownCommand", nil, nil)}, true, nil
	}
	args := parts[1:]

	if !req.IsGroup {
		return &Response{Text: locales.GetMessage(loc, "MsgGroupOnly", nil, nil)}, true, nil
	}

	if !r.groups.IsActive(req.GroupID) && !inactiveAllowed[action] {
		return &Response{Text: locales.GetMessage(loc, "MsgEconomyInactive", nil, nil)}, true, nil
	}

	switch action {
	case "open", "close":
		resp, err := r.setActive(ctx, req, action == "open", loc)
		return resp, true, err
	case "help":
		return &Response{Text: locales.GetMessage(loc, "MsgHelp", nil, nil)}, true, nil
	case "bank":
		resp, err := r.svc.BankStatus(ctx, req.GroupID, loc)
		return resp, true, err
	case "rank":
		resp, err := r.svc.Rank(ctx, req.GroupID, loc)
		return resp, true, err
	case "shop":
		return r.svc.Shop(loc), true, nil
	}

	// Everything below reads and writes the sender's ledger.
	unlock := r.locks.Lock(req.UserID + "|" + req.GroupID)
	defer unlock()

	user, err := r.users.GetOrCreate(ctx, req.UserID, req.GroupID, req.UserName)
	if err != nil {
		return nil, true, fmt.Errorf("router: load user: %w", err)
	}

	resp, err := r.dispatch(ctx, action, args, req, user, loc)
	return resp, true, err
}

func (r *Router) dispatch(ctx context.Context, action string, args []string, req *Request, user *models.User, loc *i18n.Localizer) (*Response, error) {
	arg := func(i int) string {
		if i < len(args) {
			return args[i]
		}
		return ""
	}
	target := ""
	if len(req.Mentions) > 0 {
		target = req.Mentions[0]
	}

	switch action {
	case "daily":
		return r.svc.Daily(ctx, user, loc)
	case "work":
		return r.svc.Work(ctx, user, arg(0), loc)
	case "mine":
		return r.svc.Mine(ctx, user, loc)
	case "fish":
		return r.svc.Fish(ctx, user, loc)
	case "plant":
		return r.svc.Plant(ctx, user, arg(0), loc)
	case "harvest":
		return r.svc.Harvest(ctx, user, loc)
	case "farmstatus":
		return r.svc.FarmStatus(user, loc), nil
	case "rob":
		return r.svc.Rob(ctx, user, target, loc)
	case "flip":
		return r.svc.Flip(ctx, user, arg(0), arg(1), loc)
	case "slots":
		return r.svc.Slots(ctx, user, arg(0), loc)
	case "transfer":
		// Amount is the last bare argument; the mention itself also
		// appears in the arg list.
		amount := ""
		for i := len(args) - 1; i >= 0; i-- {
			if !strings.HasPrefix(args[i], "@") {
				amount = args[i]
				break
			}
		}
		return r.svc.Transfer(ctx, user, target, amount, loc)
	case "profile":
		return r.svc.Profile(user, loc), nil
	case "buy":
		return r.svc.Buy(ctx, user, strings.Join(args, " "), loc)
	case "inventory":
		return r.svc.InventoryList(user, loc), nil
	case "use":
		return r.svc.Use(ctx, user, strings.Join(args, " "), loc)
	default:
		return &Response{Text: locales.GetMessage(loc, "MsgErrorGeneral", nil, nil)}, nil
	}
}

// setActive opens or closes CBCoin in the group, admins only.
func (r *Router) setActive(ctx context.Context, req *Request, active bool, loc *i18n.Localizer) (*Response, error) {
	if !req.IsAdmin {
		return &Response{Text: locales.GetMessage(loc, "MsgAdminOnly", nil, nil)}, nil
	}
	current := r.groups.IsActive(req.GroupID)
	if current == active {
		key := "MsgEconomyAlreadyClosed"
		if active {
			key = "MsgEconomyAlreadyOpen"
		}
		return &Response{Text: locales.GetMessage(loc, key, nil, nil)}, nil
	}
	if err := r.groups.SetActive(ctx, req.GroupID, active); err != nil {
		return nil, fmt.Errorf("router: set active: %w", err)
	}
	key := "MsgEconomyClosed"
	if active {
		key = "MsgEconomyOpened"
	}
	return &Response{Text: locales.GetMessage(loc, key, nil, nil)}, nil
}
