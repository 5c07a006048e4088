package redis

import (
	"fmt"

	"github.com/regattadev/boatrace/internal/model"
)

// Key prefix for all race-related data
const keyPrefix = "boatrace"

// accountKey returns the Redis key for an Account
func accountKey(id model.UserID) string {
	return fmt.Sprintf("%s:account:%s", keyPrefix, id)
}

// credentialsKey returns the Redis key for Credentials
func credentialsKey(userID model.UserID) string {
	return fmt.Sprintf("%s:credentials:%s", keyPrefix, userID)
}

// usernameIndexKey returns the Redis key for the username -> user_id index
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}

// raceKey returns the Redis key for a Race snapshot
func raceKey(id model.RaceID) string {
	return fmt.Sprintf("%s:race:%s", keyPrefix, id)
}

// raceIndexKey returns the Redis key for the ZSET of races scored by creation time
func raceIndexKey() string {
	return fmt.Sprintf("%s:idx:races", keyPrefix)
}
