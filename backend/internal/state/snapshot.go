package state

// Snapshot is the full persisted view of a System, one slice per record.
// Slices are ordered the way the System exported them so that two snapshots
// of the same state compare equal.
type Snapshot struct {
	Accounts    []AccountRecord
	Friends     []FriendRecord
	Notes       []NoteRecord
	Communities []CommunityRecord
	Broadcasts  []BroadcastRecord
	Relations   []RelationRecord
}

// AccountRecord is one line of the accounts record
type AccountRecord struct {
	Login       string
	Password    string
	Name        string
	Attributes  []Attribute
	Communities []string
}

// FriendRecord is one line of the friends record
type FriendRecord struct {
	Login   string
	Friends []string
	Pending []string // requests sent and not yet accepted
}

// NoteRecord is one queued direct note
type NoteRecord struct {
	Recipient string
	Sender    string
	Body      string
}

// CommunityRecord is one line of the communities record
type CommunityRecord struct {
	Owner       string
	Name        string
	Description string
	Members     []string
}

// BroadcastRecord is one queued community message
type BroadcastRecord struct {
	Recipient string
	Body      string
}

// RelationRecord is one typed edge: idol, fan, crush, crush-received or enemy
type RelationRecord struct {
	From string
	To   string
	Kind string
}

// Empty reports whether every record of the snapshot is empty
func (s *Snapshot) Empty() bool {
	return len(s.Accounts) == 0 && len(s.Friends) == 0 && len(s.Notes) == 0 &&
		len(s.Communities) == 0 && len(s.Broadcasts) == 0 && len(s.Relations) == 0
}
