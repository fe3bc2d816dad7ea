package permissions

import "strings"

type Rank string

const (
	RankOwner   Rank = "OWNER"
	RankOfficer Rank = "OFFICER"
	RankFriend  Rank = "FRIEND"
	RankNeutral Rank = "NEUTRAL"
	RankHostile Rank = "HOSTILE"
)

type Action string

const (
	ActionGuardsAttack Action = "GUARDS_ATTACK"
	ActionAccessHuts   Action = "ACCESS_HUTS"
	ActionPlaceBlocks  Action = "PLACE_BLOCKS"
	ActionBreakBlocks  Action = "BREAK_BLOCKS"
)

type Permissions struct {
	GuardsAttack bool
	AccessHuts   bool
	PlaceBlocks  bool
	BreakBlocks  bool
}

func ForRank(r Rank) Permissions {
	switch r {
	case RankOwner, RankOfficer:
		return Permissions{AccessHuts: true, PlaceBlocks: true, BreakBlocks: true}
	case RankFriend:
		return Permissions{AccessHuts: true}
	case RankHostile:
		return Permissions{GuardsAttack: true}
	default:
		return Permissions{}
	}
}

func (p Permissions) Allows(a Action) bool {
	switch a {
	case ActionGuardsAttack:
		return p.GuardsAttack
	case ActionAccessHuts:
		return p.AccessHuts
	case ActionPlaceBlocks:
		return p.PlaceBlocks
	case ActionBreakBlocks:
		return p.BreakBlocks
	default:
		return false
	}
}

// Table maps player names to colony ranks. Unlisted players are NEUTRAL.
type Table struct {
	players map[string]Rank
}

func NewTable() *Table {
	return &Table{players: map[string]Rank{}}
}

func NormalizeRank(raw string) (Rank, bool) {
	r := Rank(strings.ToUpper(strings.TrimSpace(raw)))
	switch r {
	case RankOwner, RankOfficer, RankFriend, RankNeutral, RankHostile:
		return r, true
	default:
		return "", false
	}
}

func (t *Table) SetRank(player string, r Rank) {
	if t.players == nil {
		t.players = map[string]Rank{}
	}
	t.players[player] = r
}

func (t *Table) RankOf(player string) Rank {
	if t == nil {
		return RankNeutral
	}
	if r, ok := t.players[player]; ok {
		return r
	}
	return RankNeutral
}

func (t *Table) HasPermission(player string, a Action) bool {
	return ForRank(t.RankOf(player)).Allows(a)
}
