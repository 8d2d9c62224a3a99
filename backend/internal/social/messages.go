package social

import (
	"jackut/backend/internal/constants"
	"jackut/backend/internal/state"
	apperrors "jackut/backend/pkg/errors"
)

// SendNote queues a direct note from the session's account to recipient
func (s *System) SendNote(token, recipient, body string) error {
	from, to, err := s.sessionPair(token, recipient)
	if err != nil {
		return err
	}
	if err := s.checkNote(from, to); err != nil {
		return err
	}
	s.deliverNote(from, to, body)
	return nil
}

// checkNote applies the rules every direct note must pass
func (s *System) checkNote(from, to *state.Account) error {
	if from.Login == to.Login {
		return apperrors.ErrSelfSend
	}
	return s.graph.CheckEnemy(member(from), member(to))
}

func (s *System) deliverNote(from, to *state.Account, body string) {
	to.Notes.Push(state.Note{Sender: from.Login, Recipient: to.Login, Body: body})
}

// ReadNote removes and returns the oldest note of the session's account
func (s *System) ReadNote(token string) (string, error) {
	acc, err := s.sessionAccount(token)
	if err != nil {
		return "", err
	}
	note, ok := acc.Notes.Pop()
	if !ok {
		return "", apperrors.NewEmptyQueue(constants.QueueNotes, "no notes")
	}
	return note.Body, nil
}

// ReadBroadcast removes and returns the oldest community message of the session's account
func (s *System) ReadBroadcast(token string) (string, error) {
	acc, err := s.sessionAccount(token)
	if err != nil {
		return "", err
	}
	body, ok := acc.Broadcasts.Pop()
	if !ok {
		return "", apperrors.NewEmptyQueue(constants.QueueBroadcasts, "no messages")
	}
	return body, nil
}
