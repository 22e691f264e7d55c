package cache

// Key layout of the local cache. Per-user keys follow the
// "prefix_<owner>" namespacing convention.
const (
	// KeyLoggedUser holds the current Identity. The cached copy is never
	// authoritative; the backend session wins on every reconciliation.
	KeyLoggedUser = "loggedUser"

	// KeyGlobalLog is the legacy unscoped analysis log mixing all users'
	// records. Deprecated in favor of per-user partitions but kept readable
	// for migration and administrative aggregation.
	KeyGlobalLog = "analyses"
)

// PartitionKey returns the key of a user's analysis partition.
func PartitionKey(username string) string {
	return "analyses_" + username
}

// PreferencesKey returns the key of a user's preference set.
func PreferencesKey(username string) string {
	return "preferences_" + username
}

// ThemeKey returns the key of a user's theme setting.
func ThemeKey(username string) string {
	return "theme_" + username
}

// ProfilePicKey returns the key of a user's profile picture setting.
func ProfilePicKey(username string) string {
	return "profilePic_" + username
}
