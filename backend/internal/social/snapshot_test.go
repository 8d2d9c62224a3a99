package social

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"jackut/backend/internal/codec"
	"jackut/backend/internal/constants"
	"jackut/backend/internal/state"
	"jackut/backend/internal/storage"
	apperrors "jackut/backend/pkg/errors"
)

// populate builds a state that touches every record and relation kind
func populate(t *testing.T) (*System, map[string]string) {
	t.Helper()
	s, sess := newSystem(t, "ana", "bruno", "caio", "duda")

	require.NoError(t, s.SetAttribute(sess["ana"], "city", "Maceio; AL"))
	require.NoError(t, s.SetAttribute(sess["ana"], "motto", "{go, go}: now"))

	_, err := s.RequestFriend(sess["ana"], "bruno")
	require.NoError(t, err)
	_, err = s.RequestFriend(sess["bruno"], "ana")
	require.NoError(t, err)
	_, err = s.RequestFriend(sess["caio"], "ana")
	require.NoError(t, err)

	require.NoError(t, s.SendNote(sess["ana"], "bruno", "hi;\nthere"))
	require.NoError(t, s.SendNote(sess["caio"], "bruno", "second"))

	require.NoError(t, s.CreateCommunity(sess["ana"], "gophers", "we, write: go"))
	require.NoError(t, s.JoinCommunity(sess["bruno"], "gophers"))
	require.NoError(t, s.Broadcast(sess["bruno"], "gophers", "meetup"))

	require.NoError(t, s.AddIdol(sess["caio"], "ana"))
	require.NoError(t, s.AddCrush(sess["bruno"], "caio"))
	require.NoError(t, s.AddEnemy(sess["duda"], "caio"))
	require.NoError(t, s.AddEnemy(sess["ana"], "duda"))
	return s, sess
}

// mustDecode pushes the exported state through the on-disk text encoding
func mustDecode(t *testing.T, s *System) *state.Snapshot {
	t.Helper()
	snap, err := codec.Decode(codec.Encode(s.Export()))
	require.NoError(t, err)
	return snap
}

func TestExportLoadRoundTrip(t *testing.T) {
	s, _ := populate(t)
	want := s.Export()

	// through the text encoding, as on disk
	snap, err := codec.Decode(codec.Encode(want))
	require.NoError(t, err)

	restored := New(nil)
	require.NoError(t, restored.Load(snap))

	if diff := cmp.Diff(want, restored.Export(), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("state mismatch after reload (-want +got):\n%s", diff)
	}

	// observable behavior survives too
	friends, _ := restored.AreFriends("bruno", "ana")
	assert.True(t, friends)
	pending, _ := restored.PendingRequests("ana")
	assert.Equal(t, []string{"caio"}, pending)
	fans, _ := restored.Fans("ana")
	assert.Equal(t, []string{"caio"}, fans)
	enemies, _ := restored.Enemies("duda")
	assert.Equal(t, []string{"caio", "ana"}, enemies)
	city, _ := restored.Attribute("ana", "city")
	assert.Equal(t, "Maceio; AL", city)

	token, err := restored.OpenSession("bruno", "pw")
	require.NoError(t, err)
	for _, want := range []string{"hi;\nthere", "second"} {
		got, err := restored.ReadNote(token)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	msg, err := restored.ReadBroadcast(token)
	require.NoError(t, err)
	assert.Equal(t, "meetup", msg)

	// the handshake can still complete after a reload
	anaToken, err := restored.OpenSession("ana", "pw")
	require.NoError(t, err)
	_, err = restored.RequestFriend(anaToken, "caio")
	require.NoError(t, err)
	friends, _ = restored.AreFriends("caio", "ana")
	assert.True(t, friends)

	// enemy gate survives
	dudaToken, err := restored.OpenSession("duda", "pw")
	require.NoError(t, err)
	assert.ErrorIs(t, restored.SendNote(dudaToken, "ana", "x"), apperrors.ErrBlocked)
}

func TestEnemyWrittenOncePerPair(t *testing.T) {
	s, _ := populate(t)

	var enemyLines int
	for _, r := range s.Export().Relations {
		if r.Kind == constants.RelationEnemy {
			enemyLines++
		}
	}
	assert.Equal(t, 2, enemyLines)
}

func TestLoadRejectsUnknownReferences(t *testing.T) {
	accounts := []state.AccountRecord{{Login: "ana", Password: "pw", Name: "Ana"}}

	tests := []struct {
		name   string
		snap   *state.Snapshot
		record string
	}{
		{"friend of ghost", &state.Snapshot{Accounts: accounts, Friends: []state.FriendRecord{{Login: "ana", Friends: []string{"ghost"}}}}, constants.RecordFriends},
		{"note from ghost", &state.Snapshot{Accounts: accounts, Notes: []state.NoteRecord{{Recipient: "ana", Sender: "ghost", Body: "boo"}}}, constants.RecordNotes},
		{"community owned by ghost", &state.Snapshot{Accounts: accounts, Communities: []state.CommunityRecord{{Owner: "ghost", Name: "c"}}}, constants.RecordCommunities},
		{"unknown participation", &state.Snapshot{Accounts: []state.AccountRecord{{Login: "ana", Password: "pw", Communities: []string{"c"}}}}, constants.RecordAccounts},
		{"broadcast to ghost", &state.Snapshot{Accounts: accounts, Broadcasts: []state.BroadcastRecord{{Recipient: "ghost", Body: "x"}}}, constants.RecordBroadcasts},
		{"relation to ghost", &state.Snapshot{Accounts: accounts, Relations: []state.RelationRecord{{From: "ana", To: "ghost", Kind: constants.RelationIdol}}}, constants.RecordRelations},
		{"self relation", &state.Snapshot{Accounts: accounts, Relations: []state.RelationRecord{{From: "ana", To: "ana", Kind: constants.RelationEnemy}}}, constants.RecordRelations},
		{"duplicate account", &state.Snapshot{Accounts: append(accounts, accounts[0])}, constants.RecordAccounts},
		{"empty password", &state.Snapshot{Accounts: []state.AccountRecord{{Login: "ana"}}}, constants.RecordAccounts},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(nil)
			err := s.Load(tt.snap)
			require.Error(t, err)

			var corrupt *apperrors.ErrStorageCorruptLine
			require.True(t, errors.As(err, &corrupt))
			assert.Equal(t, tt.record, corrupt.Record)
			assert.Empty(t, s.Accounts(), "a failed load leaves nothing behind")
		})
	}
}

func TestLoadSkipsSelfSentNotes(t *testing.T) {
	s := New(nil)
	require.NoError(t, s.Load(&state.Snapshot{
		Accounts: []state.AccountRecord{{Login: "ana", Password: "pw", Name: "Ana"}, {Login: "bruno", Password: "pw", Name: "Bruno"}},
		Notes: []state.NoteRecord{
			{Recipient: "ana", Sender: "ana", Body: "to myself"},
			{Recipient: "ana", Sender: "bruno", Body: "kept"},
		},
	}))

	token, err := s.OpenSession("ana", "pw")
	require.NoError(t, err)
	note, err := s.ReadNote(token)
	require.NoError(t, err)
	assert.Equal(t, "kept", note)
	_, err = s.ReadNote(token)
	assert.ErrorIs(t, err, apperrors.ErrEmptyQueue)
}

func TestOpenSaveAndReset(t *testing.T) {
	ctx := context.Background()
	store := storage.NewFileStore(t.TempDir())

	s, err := Open(ctx, store, nil)
	require.NoError(t, err)
	require.NoError(t, s.Register("ana", "pw", "Ana"))
	require.NoError(t, s.Register("bruno", "pw", "Bruno"))
	token, err := s.OpenSession("ana", "pw")
	require.NoError(t, err)
	require.NoError(t, s.SendNote(token, "bruno", "persisted"))
	require.NoError(t, s.Shutdown(ctx))

	reopened, err := Open(ctx, store, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"ana", "bruno"}, reopened.Accounts())

	// sessions are never persisted
	_, err = reopened.SessionLogin(token)
	assert.ErrorIs(t, err, apperrors.ErrUnknownSession)

	brunoToken, err := reopened.OpenSession("bruno", "pw")
	require.NoError(t, err)
	note, err := reopened.ReadNote(brunoToken)
	require.NoError(t, err)
	assert.Equal(t, "persisted", note)

	require.NoError(t, reopened.ResetAll(ctx))
	assert.Empty(t, reopened.Accounts())

	empty, err := Open(ctx, store, nil)
	require.NoError(t, err)
	assert.Empty(t, empty.Accounts())
}

func TestOpenCorruptStorageStartsEmpty(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	require.NoError(t, store.Save(ctx, codec.Records{
		constants.RecordAccounts: []byte("ana;pw;Ana;{}\n"),
		constants.RecordFriends:  []byte("ana;{ghost};{}\n"),
	}))

	s, err := Open(ctx, store, nil)
	require.NoError(t, err)
	assert.Empty(t, s.Accounts())

	// the system is usable and a save replaces the corrupt data
	require.NoError(t, s.Register("bruno", "pw", "Bruno"))
	require.NoError(t, s.Save(ctx))

	recs, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "bruno;pw;Bruno;{}\n", string(recs[constants.RecordAccounts]))
}

func TestOpenLogsEmptyAndOrphanedStorage(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zap.InfoLevel)

	_, err := Open(ctx, storage.NewMemoryStore(), zap.New(core))
	require.NoError(t, err)
	assert.Equal(t, 1, logs.FilterMessage("No persisted state found").Len())

	// a friends line without any account is corrupt, not empty
	store := storage.NewMemoryStore()
	require.NoError(t, store.Save(ctx, codec.Records{
		constants.RecordFriends: []byte("ghost;{ana};{}\n"),
	}))
	s, err := Open(ctx, store, zap.New(core))
	require.NoError(t, err)
	assert.Empty(t, s.Accounts())
	assert.Equal(t, 1, logs.FilterMessage("Failed to load persisted state, starting empty").Len())
}

type failingStore struct {
	storage.MemoryStore
}

func (failingStore) Save(ctx context.Context, recs codec.Records) error {
	return errors.New("disk full")
}

func TestSaveFailureKeepsMemoryState(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, &failingStore{MemoryStore: *storage.NewMemoryStore()}, nil)
	require.NoError(t, err)
	require.NoError(t, s.Register("ana", "pw", "Ana"))

	err = s.Save(ctx)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeStorageWrite, apperrors.CodeOf(err))
	assert.Equal(t, []string{"ana"}, s.Accounts())
}

func TestOpenCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Open(ctx, storage.NewFileStore(t.TempDir()), nil)
	assert.ErrorIs(t, err, context.Canceled)
}
