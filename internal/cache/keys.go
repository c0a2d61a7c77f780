package cache

import (
	"fmt"
	"strconv"
)

const (
	TagPhones = "phonesCache"
	TagUsers  = "usersCache"
)

const keyPrefix = "bilemo"

// PhonesListKey names a cached phone page. scope separates payloads whose
// links differ per principal ("admin" or "user"); version is the resolved
// serialization version the page was rendered with.
func PhonesListKey(page, limit int, scope, version string) string {
	return fmt.Sprintf("getAllPhones-%d-%d-%s-v%s", page, limit, scope, version)
}

func UsersListKey(page, limit int, version string) string {
	return fmt.Sprintf("getAllUsers-%d-%d-v%s", page, limit, version)
}

// entryKey binds a logical key to the tag generation it was computed under.
func entryKey(tag string, generation int64, key string) string {
	return keyPrefix + ":" + tag + ":" + strconv.FormatInt(generation, 10) + ":" + key
}

func generationKey(tag string) string {
	return keyPrefix + ":" + tag + ":gen"
}

func tagSetKey(tag string) string {
	return keyPrefix + ":" + tag + ":keys"
}
