// Package codec converts a state.Snapshot to and from the six delimited text
// records the system persists. It checks syntax only; references between
// records are resolved by the loader in package social.
package codec

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"

	"jackut/backend/internal/constants"
	"jackut/backend/internal/state"
	apperrors "jackut/backend/pkg/errors"
)

// Records maps a record name (see constants.RecordNames) to its text content
type Records map[string][]byte

var relationKinds = map[string]bool{
	constants.RelationIdol:          true,
	constants.RelationFan:           true,
	constants.RelationCrush:         true,
	constants.RelationCrushReceived: true,
	constants.RelationEnemy:         true,
}

// Encode renders every record of snap
func Encode(snap *state.Snapshot) Records {
	var accounts, friends, notes, communities, broadcasts, relations bytes.Buffer

	for _, a := range snap.Accounts {
		fields := []string{Escape(a.Login), Escape(a.Password), Escape(a.Name)}
		for _, attr := range a.Attributes {
			fields = append(fields, Escape(attr.Key)+string(PairSep)+Escape(attr.Value))
		}
		fields = append(fields, EncodeList(a.Communities))
		writeLine(&accounts, joinFields(fields...))
	}

	for _, f := range snap.Friends {
		writeLine(&friends, joinFields(Escape(f.Login), EncodeList(f.Friends), EncodeList(f.Pending)))
	}

	for _, n := range snap.Notes {
		writeLine(&notes, joinFields(Escape(n.Recipient), Escape(n.Sender), Escape(n.Body)))
	}

	for _, c := range snap.Communities {
		writeLine(&communities, joinFields(Escape(c.Owner), Escape(c.Name), Escape(c.Description), EncodeList(c.Members)))
	}

	for _, b := range snap.Broadcasts {
		writeLine(&broadcasts, joinFields(Escape(b.Recipient), Escape(b.Body)))
	}

	for _, r := range snap.Relations {
		writeLine(&relations, joinFields(Escape(r.From), Escape(r.To), r.Kind))
	}

	return Records{
		constants.RecordAccounts:    accounts.Bytes(),
		constants.RecordFriends:     friends.Bytes(),
		constants.RecordNotes:       notes.Bytes(),
		constants.RecordCommunities: communities.Bytes(),
		constants.RecordBroadcasts:  broadcasts.Bytes(),
		constants.RecordRelations:   relations.Bytes(),
	}
}

func writeLine(buf *bytes.Buffer, line string) {
	buf.WriteString(line)
	buf.WriteByte('\n')
}

// Decode parses every record present in recs. Missing records decode as empty.
func Decode(recs Records) (*state.Snapshot, error) {
	snap := &state.Snapshot{}

	decoders := []struct {
		name  string
		parse func(fields []string) error
	}{
		{constants.RecordAccounts, func(fields []string) error {
			rec, err := decodeAccount(fields)
			if err == nil {
				snap.Accounts = append(snap.Accounts, rec)
			}
			return err
		}},
		{constants.RecordFriends, func(fields []string) error {
			rec, err := decodeFriends(fields)
			if err == nil {
				snap.Friends = append(snap.Friends, rec)
			}
			return err
		}},
		{constants.RecordNotes, func(fields []string) error {
			v, err := fixedFields(fields, 3)
			if err == nil {
				snap.Notes = append(snap.Notes, state.NoteRecord{Recipient: v[0], Sender: v[1], Body: v[2]})
			}
			return err
		}},
		{constants.RecordCommunities, func(fields []string) error {
			rec, err := decodeCommunity(fields)
			if err == nil {
				snap.Communities = append(snap.Communities, rec)
			}
			return err
		}},
		{constants.RecordBroadcasts, func(fields []string) error {
			v, err := fixedFields(fields, 2)
			if err == nil {
				snap.Broadcasts = append(snap.Broadcasts, state.BroadcastRecord{Recipient: v[0], Body: v[1]})
			}
			return err
		}},
		{constants.RecordRelations, func(fields []string) error {
			v, err := fixedFields(fields, 3)
			if err != nil {
				return err
			}
			if !relationKinds[v[2]] {
				return fmt.Errorf("unknown relation kind %q", v[2])
			}
			snap.Relations = append(snap.Relations, state.RelationRecord{From: v[0], To: v[1], Kind: v[2]})
			return nil
		}},
	}

	for _, d := range decoders {
		if err := eachLine(d.name, recs[d.name], d.parse); err != nil {
			return nil, err
		}
	}
	return snap, nil
}

func eachLine(record string, data []byte, parse func(fields []string) error) error {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		if err := parse(split(line, FieldSep)); err != nil {
			return apperrors.NewStorageCorrupt(record, lineNo, err.Error())
		}
	}
	if err := scanner.Err(); err != nil {
		return apperrors.NewStorageCorrupt(record, lineNo+1, err.Error())
	}
	return nil
}

func fixedFields(fields []string, n int) ([]string, error) {
	if len(fields) != n {
		return nil, fmt.Errorf("expected %d fields, got %d", n, len(fields))
	}
	return unescapeAll(fields)
}

func decodeAccount(fields []string) (state.AccountRecord, error) {
	if len(fields) < 4 {
		return state.AccountRecord{}, fmt.Errorf("expected at least 4 fields, got %d", len(fields))
	}
	head, err := unescapeAll(fields[:3])
	if err != nil {
		return state.AccountRecord{}, err
	}
	if head[0] == "" {
		return state.AccountRecord{}, fmt.Errorf("empty login")
	}
	rec := state.AccountRecord{Login: head[0], Password: head[1], Name: head[2]}

	for _, raw := range fields[3 : len(fields)-1] {
		pair := split(raw, PairSep)
		if len(pair) != 2 {
			return state.AccountRecord{}, fmt.Errorf("attribute %q is not a key:value pair", raw)
		}
		kv, err := unescapeAll(pair)
		if err != nil {
			return state.AccountRecord{}, err
		}
		rec.Attributes = append(rec.Attributes, state.Attribute{Key: kv[0], Value: kv[1]})
	}

	rec.Communities, err = DecodeList(fields[len(fields)-1])
	if err != nil {
		return state.AccountRecord{}, err
	}
	return rec, nil
}

func decodeFriends(fields []string) (state.FriendRecord, error) {
	// the pending list is optional so files without it still load
	if len(fields) != 2 && len(fields) != 3 {
		return state.FriendRecord{}, fmt.Errorf("expected 2 or 3 fields, got %d", len(fields))
	}
	login, err := Unescape(fields[0])
	if err != nil {
		return state.FriendRecord{}, err
	}
	rec := state.FriendRecord{Login: login, Pending: []string{}}
	if rec.Friends, err = DecodeList(fields[1]); err != nil {
		return state.FriendRecord{}, err
	}
	if len(fields) == 3 {
		if rec.Pending, err = DecodeList(fields[2]); err != nil {
			return state.FriendRecord{}, err
		}
	}
	return rec, nil
}

func decodeCommunity(fields []string) (state.CommunityRecord, error) {
	if len(fields) != 4 {
		return state.CommunityRecord{}, fmt.Errorf("expected 4 fields, got %d", len(fields))
	}
	head, err := unescapeAll(fields[:3])
	if err != nil {
		return state.CommunityRecord{}, err
	}
	if head[1] == "" {
		return state.CommunityRecord{}, fmt.Errorf("empty community name")
	}
	members, err := DecodeList(fields[3])
	if err != nil {
		return state.CommunityRecord{}, err
	}
	return state.CommunityRecord{Owner: head[0], Name: head[1], Description: head[2], Members: members}, nil
}
