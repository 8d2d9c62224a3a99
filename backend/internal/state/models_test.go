package state

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "jackut/backend/pkg/errors"
)

func TestNewAccountValidatesCredentials(t *testing.T) {
	_, err := NewAccount("", "pw", "Nobody")
	var invalid *apperrors.ErrInvalidCredentialsField
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "login", invalid.Field)

	_, err = NewAccount("jpl", "", "John")
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "password", invalid.Field)

	acc, err := NewAccount("jpl", "pw", "John")
	require.NoError(t, err)
	assert.True(t, acc.CheckPassword("pw"))
	assert.False(t, acc.CheckPassword("PW"))
}

func TestAccountAttributeResolvesName(t *testing.T) {
	acc, err := NewAccount("jpl", "pw", "John")
	require.NoError(t, err)

	name, err := acc.Attribute("name")
	require.NoError(t, err)
	assert.Equal(t, "John", name)

	_, err = acc.Attribute("city")
	assert.ErrorIs(t, err, apperrors.ErrMissingAttribute)

	acc.Profile.Set("city", "Maceio")
	city, err := acc.Attribute("city")
	require.NoError(t, err)
	assert.Equal(t, "Maceio", city)
}

func TestProfileKeepsFirstSetOrder(t *testing.T) {
	p := NewProfile()
	p.Set("b", "1")
	p.Set("a", "2")
	p.Set("b", "3")

	assert.Equal(t, []Attribute{{Key: "b", Value: "3"}, {Key: "a", Value: "2"}}, p.Attributes())
}

func TestQueueFIFO(t *testing.T) {
	q := NewQueue[string]()
	_, ok := q.Pop()
	assert.False(t, ok)

	q.Push("first")
	q.Push("second")
	q.Push("third")
	assert.Equal(t, 3, q.Len())

	got, ok := q.Pop()
	require.True(t, ok)
	assert.Equal(t, "first", got)
	assert.Equal(t, []string{"second", "third"}, q.Items())
}

func TestQueueRemoveFunc(t *testing.T) {
	q := NewQueue[Note]()
	q.Push(Note{Sender: "a", Body: "1"})
	q.Push(Note{Sender: "b", Body: "2"})
	q.Push(Note{Sender: "a", Body: "3"})

	removed := q.RemoveFunc(func(n Note) bool { return n.Sender == "a" })
	assert.Equal(t, 2, removed)
	assert.Equal(t, []Note{{Sender: "b", Body: "2"}}, q.Items())
}

func TestCommunityMembership(t *testing.T) {
	c := NewCommunity("owner", "gophers", "we write go")
	assert.Equal(t, []string{"owner"}, c.Members)

	c.AddMember("ana")
	c.AddMember("ana")
	assert.Equal(t, []string{"owner", "ana"}, c.Members)

	c.RemoveMember("owner")
	assert.False(t, c.HasMember("owner"))
	assert.True(t, c.HasMember("ana"))
}

func TestAccountParticipation(t *testing.T) {
	acc, err := NewAccount("jpl", "pw", "John")
	require.NoError(t, err)

	acc.JoinCommunity("x")
	acc.JoinCommunity("y")
	acc.JoinCommunity("x")
	assert.Equal(t, []string{"x", "y"}, acc.Communities)

	acc.LeaveCommunity("x")
	assert.False(t, acc.Participates("x"))
	assert.Equal(t, []string{"y"}, acc.Communities)
}

func TestSnapshotEmpty(t *testing.T) {
	assert.True(t, (&Snapshot{}).Empty())
	assert.False(t, (&Snapshot{Accounts: []AccountRecord{{Login: "ana"}}}).Empty())
	// orphan lines still count, so the loader gets to reject them
	assert.False(t, (&Snapshot{Friends: []FriendRecord{{Login: "ghost"}}}).Empty())
	assert.False(t, (&Snapshot{Relations: []RelationRecord{{From: "a", To: "b"}}}).Empty())
}
