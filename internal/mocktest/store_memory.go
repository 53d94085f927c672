package mocktest

import (
	"context"
	"fmt"
	"sync"
)

type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
	records  map[string]AttemptRecord // key: userID|examType
	names    map[string]string
	examIDs  map[string]string // examID -> sessionID, reservation ledger
}

func NewInMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: map[string]Session{},
		records:  map[string]AttemptRecord{},
		names:    map[string]string{},
		examIDs:  map[string]string{},
	}
}

func recordKey(userID string, t ExamType) string { return userID + "|" + string(t) }

func (m *MemoryStore) CreateSession(_ context.Context, s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return nil
}

func (m *MemoryStore) GetSession(_ context.Context, id string) (Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	return s, nil
}

func (m *MemoryStore) UpdateSession(_ context.Context, s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[s.ID]; !ok {
		return ErrSessionNotFound
	}
	if s.ExamID != "" {
		if owner, taken := m.examIDs[s.ExamID]; taken && owner != s.ID {
			return fmt.Errorf("exam ID %s already assigned to another session", s.ExamID)
		}
		m.examIDs[s.ExamID] = s.ID
	}
	m.sessions[s.ID] = s
	return nil
}

func (m *MemoryStore) ActiveSession(_ context.Context, userID string, t ExamType) (Session, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var newest Session
	var found bool
	for _, s := range m.sessions {
		if s.UserID != userID || s.ExamType != t || s.Status == StatusSubmitted {
			continue
		}
		if !found || s.CreatedAt.After(newest.CreatedAt) {
			newest, found = s, true
		}
	}
	return newest, found, nil
}

func (m *MemoryStore) SessionByExamID(_ context.Context, examID string) (Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.sessions {
		if s.ExamID == examID {
			return s, nil
		}
	}
	return Session{}, &ExamIDNotFoundError{ExamID: examID}
}

func (m *MemoryStore) ReserveExamID(_ context.Context, examID, sessionID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, taken := m.examIDs[examID]; taken {
		return false, nil
	}
	s, ok := m.sessions[sessionID]
	if !ok {
		return false, ErrSessionNotFound
	}
	if s.ExamID != "" {
		delete(m.examIDs, s.ExamID) // re-reservation frees the earlier token
	}
	s.ExamID = examID
	m.sessions[sessionID] = s
	m.examIDs[examID] = sessionID
	return true, nil
}

func (m *MemoryStore) GetAttemptRecord(_ context.Context, userID string, t ExamType) (AttemptRecord, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[recordKey(userID, t)]
	if !ok {
		return AttemptRecord{UserID: userID, ExamType: t}, false, nil
	}
	return rec, true, nil
}

func (m *MemoryStore) PutAttemptRecord(_ context.Context, rec AttemptRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[recordKey(rec.UserID, rec.ExamType)] = rec
	return nil
}

func (m *MemoryStore) UserName(_ context.Context, userID string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if n, ok := m.names[userID]; ok && n != "" {
		return n, nil
	}
	return "Candidate", nil
}

// SetUserName seeds a display name; test/offline helper.
func (m *MemoryStore) SetUserName(userID, name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.names[userID] = name
}
