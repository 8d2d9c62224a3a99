package constants

// Relation names used in user-visible errors and in the relations record
const (
	RelationFriend        = "friend"
	RelationIdol          = "idol"
	RelationFan           = "fan"
	RelationCrush         = "crush"
	RelationCrushReceived = "crush-received"
	RelationEnemy         = "enemy"
)

// Persisted record names, in load order
const (
	RecordAccounts    = "accounts"
	RecordFriends     = "friends"
	RecordNotes       = "notes"
	RecordCommunities = "communities"
	RecordBroadcasts  = "broadcasts"
	RecordRelations   = "relations"
)

// RecordNames lists every persisted record in the order they must be loaded.
var RecordNames = []string{
	RecordAccounts,
	RecordFriends,
	RecordNotes,
	RecordCommunities,
	RecordBroadcasts,
	RecordRelations,
}

// Profile constants
const (
	// NameAttribute resolves to the immutable display name instead of the attribute bag
	NameAttribute = "name"
)

// Note constants
const (
	// CrushMatchNote is sent by each party of a mutual crush to the other, %s being the sender's display name
	CrushMatchNote = "%s is your crush - Jackut note."
)

// Queue names
const (
	QueueNotes      = "notes"
	QueueBroadcasts = "broadcasts"
)
