package redis

import (
	"fmt"

	"github.com/mcoot/kafanski-duel/internal/model"
)

// Key prefix for all duel-related data
const keyPrefix = "kduel"

// playerKey returns the Redis key for a Player
func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, id)
}

// playersIndexKey returns the Redis key for the SET of all player ids
func playersIndexKey() string {
	return fmt.Sprintf("%s:idx:players", keyPrefix)
}

// duelKey returns the Redis key for a Duel
func duelKey(id model.DuelID) string {
	return fmt.Sprintf("%s:duel:%s", keyPrefix, id)
}

// livePairKey returns the Redis key holding the live duel id for a player pair
func livePairKey(pairKey string) string {
	return fmt.Sprintf("%s:idx:live_pair:%s", keyPrefix, pairKey)
}

// playerDuelsKey returns the Redis key for the SET of duel ids a player takes part in
func playerDuelsKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:idx:player_duels:%s", keyPrefix, id)
}

// statusDuelsKey returns the Redis key for the SET of duel ids in a status
func statusDuelsKey(status model.DuelStatus) string {
	return fmt.Sprintf("%s:idx:status:%s", keyPrefix, status)
}
