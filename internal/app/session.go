package app

import (
	"fmt"
	"whalesx/clients/gmgn"
	"whalesx/config"

	"github.com/patrickmn/go-cache"
)

// Session is the per-chat conversational state: the last token the chat
// analyzed plus the prefetched holder/trader lists the follow-up actions
// reuse. Sessions expire; an expired session just means the user has to send
// the token address again.
type Session struct {
	LastToken        string
	Holders          []gmgn.Holder
	Traders          []gmgn.Trader
	ReadyForAnalysis bool
}

// SessionStore keeps per-chat sessions with automatic expiry.
type SessionStore struct {
	store *cache.Cache
}

// NewSessionStore creates a session store with the configured TTL.
func NewSessionStore(cfg *config.Config) *SessionStore {
	return &SessionStore{
		store: cache.New(cfg.Session.TTL, cfg.Session.CleanupInterval),
	}
}

// Get returns the session for a chat, or nil when none exists or it expired.
func (s *SessionStore) Get(chatID int64) *Session {
	v, ok := s.store.Get(sessionKey(chatID))
	if !ok {
		return nil
	}
	session, ok := v.(*Session)
	if !ok {
		return nil
	}
	return session
}

// Put stores the session for a chat, resetting its TTL.
func (s *SessionStore) Put(chatID int64, session *Session) {
	s.store.SetDefault(sessionKey(chatID), session)
}

// Delete removes a chat's session.
func (s *SessionStore) Delete(chatID int64) {
	s.store.Delete(sessionKey(chatID))
}

func sessionKey(chatID int64) string {
	return fmt.Sprintf("chat:%d", chatID)
}
