package engine

import "github.com/nathoo/chainspire/types"

// ProcessReward credits the enemy's gold reward and counts the battle won.
// Returns the gold added. Negative rewards count as zero.
func ProcessReward(p *types.GameProgress, enemy types.Enemy) int {
	gold := max(enemy.GoldReward, 0)
	p.Gold += gold
	p.CompletedBattles++
	return gold
}
