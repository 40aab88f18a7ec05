package domain

// Rank is the hunter rank. It only ever moves up.
type Rank string

const (
	RankE Rank = "E"
	RankD Rank = "D"
	RankC Rank = "C"
	RankB Rank = "B"
	RankA Rank = "A"
	RankS Rank = "S"
)

var Ranks = []Rank{RankE, RankD, RankC, RankB, RankA, RankS}

// RankThresholds is the experience needed to leave each rank. S has no
// threshold.
var RankThresholds = map[Rank]int{
	RankE: 100,
	RankD: 250,
	RankC: 500,
	RankB: 900,
	RankA: 1400,
}

func (r Rank) Known() bool {
	for _, known := range Ranks {
		if known == r {
			return true
		}
	}
	return false
}

func (r Rank) next() (Rank, bool) {
	for i, known := range Ranks {
		if known == r && i+1 < len(Ranks) {
			return Ranks[i+1], true
		}
	}
	return r, false
}

type Stats struct {
	STR int `json:"str"`
	INT int `json:"int"`
	WIS int `json:"wis"`
	VIT int `json:"vit"`
}

func (s Stats) Add(o Stats) Stats {
	return Stats{STR: s.STR + o.STR, INT: s.INT + o.INT, WIS: s.WIS + o.WIS, VIT: s.VIT + o.VIT}
}

func (s Stats) Total() int {
	return s.STR + s.INT + s.WIS + s.VIT
}

type PlayerState struct {
	Name       string `json:"name"`
	Experience int    `json:"experience"`
	Currency   int    `json:"currency"`
	Fatigue    int    `json:"fatigue"`
	Rank       Rank   `json:"rank"`
	Stats      Stats  `json:"stats"`
}

const DefaultPlayerName = "Hunter"

// NewPlayer is the state of a hunter that has never been saved.
func NewPlayer(name string) PlayerState {
	if name == "" {
		name = DefaultPlayerName
	}
	return PlayerState{Name: name, Rank: RankE}
}

// Normalize repairs a loaded state so every counter is non-negative and the
// rank is a known one.
func (p PlayerState) Normalize() PlayerState {
	if p.Name == "" {
		p.Name = DefaultPlayerName
	}
	p.Experience = max(0, p.Experience)
	p.Currency = max(0, p.Currency)
	p.Fatigue = max(0, p.Fatigue)
	p.Stats = Stats{STR: max(0, p.Stats.STR), INT: max(0, p.Stats.INT), WIS: max(0, p.Stats.WIS), VIT: max(0, p.Stats.VIT)}
	if !p.Rank.Known() {
		p.Rank = RankE
	}
	return p
}

// GainXP adds experience, ignoring negative amounts, then advances the rank.
func (p PlayerState) GainXP(amount int) PlayerState {
	p.Experience += max(0, amount)
	return p.AdvanceRank()
}

func (p PlayerState) GainCurrency(amount int) PlayerState {
	p.Currency += max(0, amount)
	return p
}

// AddFatigue applies a delta and clamps the result at zero.
func (p PlayerState) AddFatigue(delta int) PlayerState {
	p.Fatigue = max(0, p.Fatigue+delta)
	return p
}

// AdvanceRank climbs while experience meets the current rank threshold.
// Each step clears fatigue.
func (p PlayerState) AdvanceRank() PlayerState {
	for {
		threshold, ok := RankThresholds[p.Rank]
		if !ok || p.Experience < threshold {
			return p
		}
		next, ok := p.Rank.next()
		if !ok {
			return p
		}
		p.Rank = next
		p.Fatigue = 0
	}
}
