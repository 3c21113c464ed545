package moderation

import "time"

type ActionKind string

const (
	ActionTimeout       ActionKind = "timeout"
	ActionRemoveTimeout ActionKind = "remove_timeout"
	ActionBan           ActionKind = "ban"
	ActionKick          ActionKind = "kick"
)

// RoleRank is the position of a member's highest ranked role. The zero value
// means the member holds no ranked role, which is the lowest possible rank.
type RoleRank struct {
	Position int
	Ranked   bool
}

func RankAt(position int) RoleRank {
	return RoleRank{Position: position, Ranked: true}
}

func NoRank() RoleRank {
	return RoleRank{}
}

// AtLeast reports whether r is ranked and at or above other. An unranked
// other is always reached by any ranked r.
func (r RoleRank) AtLeast(other RoleRank) bool {
	if !r.Ranked {
		return false
	}
	if !other.Ranked {
		return true
	}
	return r.Position >= other.Position
}

type ActorSnapshot struct {
	ID      string
	Rank    RoleRank
	IsOwner bool
}

type MemberSnapshot struct {
	ActorSnapshot
	TimedOutUntil *time.Time
}

func (m MemberSnapshot) TimedOutAt(now time.Time) bool {
	return m.TimedOutUntil != nil && m.TimedOutUntil.After(now)
}

// EffectiveRank returns the highest position among roleIDs found in
// positions. Roles missing from positions, and the default role whose id
// equals the guild id, do not rank a member.
func EffectiveRank(guildID string, roleIDs []string, positions map[string]int) RoleRank {
	out := NoRank()
	for _, id := range roleIDs {
		if id == guildID {
			continue
		}
		pos, ok := positions[id]
		if !ok {
			continue
		}
		if !out.Ranked || pos > out.Position {
			out = RankAt(pos)
		}
	}
	return out
}

// MaxBanDeleteDays bounds how many days of a banned user's messages may be
// deleted along with the ban.
const MaxBanDeleteDays = 7

func ValidDeleteDays(days int) bool {
	return days >= 0 && days <= MaxBanDeleteDays
}
