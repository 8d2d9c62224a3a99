package social

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jackut/backend/internal/constants"
	"jackut/backend/internal/graph"
	apperrors "jackut/backend/pkg/errors"
)

var displayNames = map[string]string{
	"ana":   "Ana",
	"bruno": "Bruno",
	"caio":  "Caio",
	"duda":  "Duda",
}

// newSystem registers every login with password "pw" and returns one open
// session per login
func newSystem(t *testing.T, logins ...string) (*System, map[string]string) {
	t.Helper()
	s := New(nil)
	sessions := make(map[string]string, len(logins))
	for _, login := range logins {
		require.NoError(t, s.Register(login, "pw", displayNames[login]))
		token, err := s.OpenSession(login, "pw")
		require.NoError(t, err)
		sessions[login] = token
	}
	return s, sessions
}

func TestRegisterAndOpenSession(t *testing.T) {
	s := New(nil)

	require.NoError(t, s.Register("ana", "pw", "Ana"))
	assert.ErrorIs(t, s.Register("ana", "other", "Other"), apperrors.ErrDuplicateAccount)

	var invalid *apperrors.ErrInvalidCredentialsField
	err := s.Register("", "pw", "Nobody")
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "login", invalid.Field)

	err = s.Register("bruno", "", "Bruno")
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "password", invalid.Field)

	_, err = s.OpenSession("ana", "wrong")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	_, err = s.OpenSession("ghost", "pw")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	first, err := s.OpenSession("ana", "pw")
	require.NoError(t, err)
	second, err := s.OpenSession("ana", "pw")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	login, err := s.SessionLogin(second)
	require.NoError(t, err)
	assert.Equal(t, "ana", login)

	_, err = s.SessionLogin("nope")
	assert.ErrorIs(t, err, apperrors.ErrUnknownSession)

	assert.Equal(t, []string{"ana"}, s.Accounts())
}

func TestAttributes(t *testing.T) {
	s, sess := newSystem(t, "ana")

	name, err := s.Attribute("ana", constants.NameAttribute)
	require.NoError(t, err)
	assert.Equal(t, "Ana", name)

	_, err = s.Attribute("ana", "city")
	assert.ErrorIs(t, err, apperrors.ErrMissingAttribute)

	require.NoError(t, s.SetAttribute(sess["ana"], "city", "Maceio"))
	require.NoError(t, s.SetAttribute(sess["ana"], "city", "Recife"))

	city, err := s.Attribute("ana", "city")
	require.NoError(t, err)
	assert.Equal(t, "Recife", city)

	city, err = s.SessionAttribute(sess["ana"], "city")
	require.NoError(t, err)
	assert.Equal(t, "Recife", city)

	_, err = s.Attribute("ghost", "city")
	assert.ErrorIs(t, err, apperrors.ErrUnknownAccount)
	assert.ErrorIs(t, s.SetAttribute("bad-token", "city", "x"), apperrors.ErrUnknownSession)
}

func TestFriendHandshake(t *testing.T) {
	s, sess := newSystem(t, "ana", "bruno")

	outcome, err := s.RequestFriend(sess["ana"], "bruno")
	require.NoError(t, err)
	assert.Equal(t, graph.RequestSent, outcome)

	friends, err := s.AreFriends("ana", "bruno")
	require.NoError(t, err)
	assert.False(t, friends)

	pending, err := s.PendingRequests("bruno")
	require.NoError(t, err)
	assert.Equal(t, []string{"ana"}, pending)

	outcome, err = s.RequestFriend(sess["bruno"], "ana")
	require.NoError(t, err)
	assert.Equal(t, graph.FriendshipFormed, outcome)

	for _, pair := range [][2]string{{"ana", "bruno"}, {"bruno", "ana"}} {
		friends, err := s.AreFriends(pair[0], pair[1])
		require.NoError(t, err)
		assert.True(t, friends)

		sent, _ := s.SentRequests(pair[0])
		received, _ := s.PendingRequests(pair[0])
		assert.Empty(t, sent)
		assert.Empty(t, received)
	}

	list, err := s.Friends("ana")
	require.NoError(t, err)
	assert.Equal(t, []string{"bruno"}, list)

	_, err = s.RequestFriend(sess["ana"], "bruno")
	assert.ErrorIs(t, err, apperrors.ErrAlreadyRelated)
}

func TestRequestFriendSelfAndUnknown(t *testing.T) {
	s, sess := newSystem(t, "ana", "bruno", "caio")

	for login, token := range sess {
		_, err := s.RequestFriend(token, login)
		assert.ErrorIs(t, err, apperrors.ErrSelfRelation, login)
	}

	_, err := s.RequestFriend(sess["ana"], "ghost")
	var unknown *apperrors.ErrUnknownAccountLogin
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "ghost", unknown.Login)

	_, err = s.RequestFriend("bad-token", "ana")
	assert.ErrorIs(t, err, apperrors.ErrUnknownSession)

	_, err = s.RequestFriend(sess["ana"], "bruno")
	require.NoError(t, err)
	_, err = s.RequestFriend(sess["ana"], "bruno")
	assert.ErrorIs(t, err, apperrors.ErrDuplicateRequest)
}

func TestEnemiesBlockEverythingBothWays(t *testing.T) {
	s, sess := newSystem(t, "ana", "bruno")
	require.NoError(t, s.AddEnemy(sess["ana"], "bruno"))

	for _, pair := range [][2]string{{"ana", "bruno"}, {"bruno", "ana"}} {
		from, to := pair[0], pair[1]
		token := sess[from]

		_, err := s.RequestFriend(token, to)
		var blocked *apperrors.ErrBlockedBy
		require.True(t, errors.As(err, &blocked), "%s -> %s", from, to)
		assert.Equal(t, displayNames[to], blocked.EnemyName)
		assert.Equal(t, fmt.Sprintf("invalid operation: %s is your enemy", displayNames[to]), err.Error())

		assert.ErrorIs(t, s.AddIdol(token, to), apperrors.ErrBlocked)
		assert.ErrorIs(t, s.AddCrush(token, to), apperrors.ErrBlocked)
		assert.ErrorIs(t, s.SendNote(token, to, "hi"), apperrors.ErrBlocked)

		enemy, err := s.IsEnemy(from, to)
		require.NoError(t, err)
		assert.True(t, enemy)

		// re-adding is AlreadyRelated, never Blocked
		assert.ErrorIs(t, s.AddEnemy(token, to), apperrors.ErrAlreadyRelated)
	}

	enemies, err := s.Enemies("bruno")
	require.NoError(t, err)
	assert.Equal(t, []string{"ana"}, enemies)
}

func TestIdolsAndFans(t *testing.T) {
	s, sess := newSystem(t, "ana", "bruno", "caio")

	require.NoError(t, s.AddIdol(sess["ana"], "bruno"))
	require.NoError(t, s.AddIdol(sess["caio"], "bruno"))
	assert.ErrorIs(t, s.AddIdol(sess["ana"], "bruno"), apperrors.ErrAlreadyRelated)
	assert.ErrorIs(t, s.AddIdol(sess["ana"], "ana"), apperrors.ErrSelfRelation)

	fan, err := s.IsFan("ana", "bruno")
	require.NoError(t, err)
	assert.True(t, fan)

	fan, err = s.IsFan("bruno", "ana")
	require.NoError(t, err)
	assert.False(t, fan)

	fans, err := s.Fans("bruno")
	require.NoError(t, err)
	assert.Equal(t, []string{"ana", "caio"}, fans)

	idols, err := s.Idols("ana")
	require.NoError(t, err)
	assert.Equal(t, []string{"bruno"}, idols)

	_, err = s.IsFan("ana", "ghost")
	assert.ErrorIs(t, err, apperrors.ErrUnknownAccount)
}

func TestMutualCrushNotifiesBoth(t *testing.T) {
	s, sess := newSystem(t, "ana", "bruno")

	require.NoError(t, s.AddCrush(sess["ana"], "bruno"))
	_, err := s.ReadNote(sess["bruno"])
	assert.ErrorIs(t, err, apperrors.ErrEmptyQueue, "one-sided crush is silent")

	require.NoError(t, s.AddCrush(sess["bruno"], "ana"))

	// each party hears from the other, by the other's name
	note, err := s.ReadNote(sess["ana"])
	require.NoError(t, err)
	assert.Equal(t, "Bruno is your crush - Jackut note.", note)

	note, err = s.ReadNote(sess["bruno"])
	require.NoError(t, err)
	assert.Equal(t, "Ana is your crush - Jackut note.", note)

	for _, token := range sess {
		_, err := s.ReadNote(token)
		assert.ErrorIs(t, err, apperrors.ErrEmptyQueue, "exactly one note each")
	}

	crush, err := s.IsCrush(sess["ana"], "bruno")
	require.NoError(t, err)
	assert.True(t, crush)

	crushes, err := s.Crushes(sess["bruno"])
	require.NoError(t, err)
	assert.Equal(t, []string{"ana"}, crushes)

	received, err := s.CrushesReceived("ana")
	require.NoError(t, err)
	assert.Equal(t, []string{"bruno"}, received)
}

func TestNotesAreFIFO(t *testing.T) {
	s, sess := newSystem(t, "ana", "bruno", "caio")

	require.NoError(t, s.SendNote(sess["ana"], "caio", "first"))
	require.NoError(t, s.SendNote(sess["bruno"], "caio", "second"))
	require.NoError(t, s.SendNote(sess["ana"], "caio", "third"))

	for _, want := range []string{"first", "second", "third"} {
		got, err := s.ReadNote(sess["caio"])
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := s.ReadNote(sess["caio"])
	var empty *apperrors.ErrEmptyQueueNamed
	require.True(t, errors.As(err, &empty))
	assert.Equal(t, constants.QueueNotes, empty.Queue)

	assert.ErrorIs(t, s.SendNote(sess["ana"], "ana", "me"), apperrors.ErrSelfSend)
	assert.ErrorIs(t, s.SendNote(sess["ana"], "ghost", "x"), apperrors.ErrUnknownAccount)
}

func TestCommunities(t *testing.T) {
	s, sess := newSystem(t, "ana", "bruno", "caio")

	require.NoError(t, s.CreateCommunity(sess["ana"], "gophers", "we write go"))
	assert.ErrorIs(t, s.CreateCommunity(sess["bruno"], "gophers", "again"), apperrors.ErrDuplicateCommunityName)

	require.NoError(t, s.JoinCommunity(sess["bruno"], "gophers"))
	assert.ErrorIs(t, s.JoinCommunity(sess["bruno"], "gophers"), apperrors.ErrAlreadyMember)
	assert.ErrorIs(t, s.JoinCommunity(sess["ana"], "gophers"), apperrors.ErrAlreadyMember)

	err := s.JoinCommunity(sess["bruno"], "rustaceans")
	var unknown *apperrors.ErrUnknownCommunityName
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "rustaceans", unknown.Name)

	desc, err := s.CommunityDescription("gophers")
	require.NoError(t, err)
	assert.Equal(t, "we write go", desc)

	owner, err := s.CommunityOwner("gophers")
	require.NoError(t, err)
	assert.Equal(t, "ana", owner)

	members, err := s.CommunityMembers("gophers")
	require.NoError(t, err)
	assert.Equal(t, []string{"ana", "bruno"}, members)

	joined, err := s.Communities("bruno")
	require.NoError(t, err)
	assert.Equal(t, []string{"gophers"}, joined)

	// any session may broadcast, members receive in order
	require.NoError(t, s.Broadcast(sess["caio"], "gophers", "meetup"))
	require.NoError(t, s.Broadcast(sess["ana"], "gophers", "friday"))

	// joining later does not deliver earlier messages
	require.NoError(t, s.JoinCommunity(sess["caio"], "gophers"))
	_, err = s.ReadBroadcast(sess["caio"])
	assert.ErrorIs(t, err, apperrors.ErrEmptyQueue)

	for _, login := range []string{"ana", "bruno"} {
		for _, want := range []string{"meetup", "friday"} {
			got, err := s.ReadBroadcast(sess[login])
			require.NoError(t, err)
			assert.Equal(t, want, got)
		}
		_, err := s.ReadBroadcast(sess[login])
		assert.ErrorIs(t, err, apperrors.ErrEmptyQueue)
	}

	// broadcasts and notes never mix
	_, err = s.ReadNote(sess["ana"])
	assert.ErrorIs(t, err, apperrors.ErrEmptyQueue)

	assert.ErrorIs(t, s.Broadcast(sess["ana"], "nope", "x"), apperrors.ErrUnknownCommunity)
	_, err = s.CommunityOwner("nope")
	assert.ErrorIs(t, err, apperrors.ErrUnknownCommunity)
}

func TestCreateCommunityRejectsEmptyName(t *testing.T) {
	s, sess := newSystem(t, "ana")

	assert.ErrorIs(t, s.CreateCommunity(sess["ana"], "", "nameless"), apperrors.ErrInvalidCommunityName)
	require.NoError(t, s.CreateCommunity(sess["ana"], "gophers", ""))

	restored := New(nil)
	require.NoError(t, restored.Load(mustDecode(t, s)))
	communities, err := restored.Communities("ana")
	require.NoError(t, err)
	assert.Equal(t, []string{"gophers"}, communities)
}

func TestRemoveAccountCascades(t *testing.T) {
	s, sess := newSystem(t, "ana", "bruno", "caio", "duda")

	// bruno and caio friend ana
	for _, login := range []string{"bruno", "caio"} {
		_, err := s.RequestFriend(sess[login], "ana")
		require.NoError(t, err)
		_, err = s.RequestFriend(sess["ana"], login)
		require.NoError(t, err)
	}
	_, err := s.RequestFriend(sess["ana"], "duda")
	require.NoError(t, err)

	require.NoError(t, s.SendNote(sess["ana"], "caio", "from ana"))
	require.NoError(t, s.SendNote(sess["bruno"], "caio", "from bruno"))
	require.NoError(t, s.AddIdol(sess["bruno"], "ana"))
	require.NoError(t, s.AddCrush(sess["ana"], "duda"))
	require.NoError(t, s.AddEnemy(sess["duda"], "ana"))

	require.NoError(t, s.CreateCommunity(sess["ana"], "anas", "owned by ana"))
	require.NoError(t, s.JoinCommunity(sess["bruno"], "anas"))
	require.NoError(t, s.CreateCommunity(sess["bruno"], "brunos", "owned by bruno"))
	require.NoError(t, s.JoinCommunity(sess["ana"], "brunos"))

	second, err := s.OpenSession("ana", "pw")
	require.NoError(t, err)

	stats, err := s.RemoveAccount(sess["ana"])
	require.NoError(t, err)
	assert.Equal(t, []string{"anas"}, stats.Communities)
	assert.Equal(t, 1, stats.Notes)
	assert.Equal(t, 2, stats.Sessions)

	for _, login := range []string{"bruno", "caio", "duda"} {
		friends, _ := s.Friends(login)
		assert.NotContains(t, friends, "ana")
		pending, _ := s.PendingRequests(login)
		assert.NotContains(t, pending, "ana")
		idols, _ := s.Idols(login)
		assert.NotContains(t, idols, "ana")
		received, _ := s.CrushesReceived(login)
		assert.NotContains(t, received, "ana")
		enemies, _ := s.Enemies(login)
		assert.NotContains(t, enemies, "ana")
	}

	note, err := s.ReadNote(sess["caio"])
	require.NoError(t, err)
	assert.Equal(t, "from bruno", note)
	_, err = s.ReadNote(sess["caio"])
	assert.ErrorIs(t, err, apperrors.ErrEmptyQueue)

	_, err = s.CommunityOwner("anas")
	assert.ErrorIs(t, err, apperrors.ErrUnknownCommunity)
	joined, _ := s.Communities("bruno")
	assert.Equal(t, []string{"brunos"}, joined)
	members, _ := s.CommunityMembers("brunos")
	assert.Equal(t, []string{"bruno"}, members)

	_, err = s.Attribute("ana", constants.NameAttribute)
	assert.ErrorIs(t, err, apperrors.ErrUnknownAccount)
	_, err = s.SessionLogin(second)
	assert.ErrorIs(t, err, apperrors.ErrUnknownSession)
	assert.Equal(t, []string{"bruno", "caio", "duda"}, s.Accounts())

	// the login is free again
	require.NoError(t, s.Register("ana", "pw2", "Ana Again"))
	friends, _ := s.Friends("ana")
	assert.Empty(t, friends)
}

func TestResetDropsEverything(t *testing.T) {
	s, sess := newSystem(t, "ana", "bruno")
	require.NoError(t, s.CreateCommunity(sess["ana"], "gophers", "go"))

	s.Reset()

	assert.Empty(t, s.Accounts())
	_, err := s.SessionLogin(sess["ana"])
	assert.ErrorIs(t, err, apperrors.ErrUnknownSession)
	_, err = s.CommunityOwner("gophers")
	assert.ErrorIs(t, err, apperrors.ErrUnknownCommunity)
	require.NoError(t, s.Register("ana", "pw", "Ana"))
}

func TestMutualCrushEitherOrder(t *testing.T) {
	for _, first := range []string{"ana", "bruno"} {
		t.Run(first+" first", func(t *testing.T) {
			s, sess := newSystem(t, "ana", "bruno")
			second := "bruno"
			if first == "bruno" {
				second = "ana"
			}

			require.NoError(t, s.AddCrush(sess[first], second))
			require.NoError(t, s.AddCrush(sess[second], first))

			for _, login := range []string{first, second} {
				other := first
				if login == first {
					other = second
				}
				note, err := s.ReadNote(sess[login])
				require.NoError(t, err)
				assert.Equal(t, fmt.Sprintf(constants.CrushMatchNote, displayNames[other]), note)
			}
		})
	}
}
