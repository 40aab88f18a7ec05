package domain

// Rules holds the tunable progression constants.
type Rules struct {
	LevelThreshold  int
	DefaultReward   int
	CurrencyDivisor int
	SuccessFatigue  int
	FailureFatigue  int
}

func DefaultRules() Rules {
	return Rules{
		LevelThreshold:  500,
		DefaultReward:   100,
		CurrencyDivisor: 10,
		SuccessFatigue:  5,
		FailureFatigue:  10,
	}
}

// Level is max(1, xp/threshold + 1).
func (r Rules) Level(experience int) int {
	threshold := r.LevelThreshold
	if threshold <= 0 {
		threshold = DefaultRules().LevelThreshold
	}
	return max(1, experience/threshold+1)
}

// NextLevelXP is the experience at which the level after level begins.
func (r Rules) NextLevelXP(level int) int {
	threshold := r.LevelThreshold
	if threshold <= 0 {
		threshold = DefaultRules().LevelThreshold
	}
	return max(1, level) * threshold
}

// Reward resolves a gate reward, substituting the default for zero.
func (r Rules) Reward(gateReward int) int {
	if gateReward <= 0 {
		return r.DefaultReward
	}
	return gateReward
}

// Change summarises what one mutation did to a player.
type Change struct {
	XPGained       int
	CurrencyGained int
	FatigueBefore  int
	FatigueAfter   int
	LevelBefore    int
	LevelAfter     int
	RankBefore     Rank
	RankAfter      Rank
}

func (c Change) LeveledUp() bool { return c.LevelAfter > c.LevelBefore }
func (c Change) RankedUp() bool  { return c.RankAfter != c.RankBefore }

// ApplyOutcome folds one grading result into the player. A pass earns the
// reward and its currency share; any failure, including a timeout, only
// adds fatigue. Success fatigue lands after the experience, so a rank-up
// clears earlier fatigue but not this run's.
func (r Rules) ApplyOutcome(p PlayerState, passed bool, gateReward int) (PlayerState, Change) {
	change := r.begin(p)
	if passed {
		reward := r.Reward(gateReward)
		currency := 0
		if r.CurrencyDivisor > 0 {
			currency = reward / r.CurrencyDivisor
		}
		p = p.GainCurrency(currency).GainXP(reward).AddFatigue(r.SuccessFatigue)
		change.XPGained = reward
		change.CurrencyGained = currency
	} else {
		p = p.AddFatigue(r.FailureFatigue)
	}
	return p, r.finish(change, p)
}

// ApplyActivity credits a logged activity: stat points and the experience
// computed when the log was created.
func (r Rules) ApplyActivity(p PlayerState, log ActivityLog) (PlayerState, Change) {
	change := r.begin(p)
	p.Stats = p.Stats.Add(log.StatPoints)
	p = p.GainXP(log.XPGained)
	change.XPGained = max(0, log.XPGained)
	return p, r.finish(change, p)
}

func (r Rules) begin(p PlayerState) Change {
	return Change{
		FatigueBefore: p.Fatigue,
		LevelBefore:   r.Level(p.Experience),
		RankBefore:    p.Rank,
	}
}

func (r Rules) finish(c Change, p PlayerState) Change {
	c.FatigueAfter = p.Fatigue
	c.LevelAfter = r.Level(p.Experience)
	c.RankAfter = p.Rank
	return c
}
