package app

import (
	"testing"
	"time"
	"whalesx/clients/gmgn"
	"whalesx/config"
)

func TestSessionStore_PutGet(t *testing.T) {
	store := NewSessionStore(config.Defaults())

	session := &Session{
		LastToken:        "sometoken",
		Holders:          []gmgn.Holder{{Address: "h1"}},
		Traders:          []gmgn.Trader{{Address: "t1"}},
		ReadyForAnalysis: true,
	}
	store.Put(42, session)

	got := store.Get(42)
	if got == nil {
		t.Fatal("expected session back")
	}
	if got.LastToken != "sometoken" || !got.ReadyForAnalysis {
		t.Errorf("unexpected session: %+v", got)
	}
	if len(got.Holders) != 1 || got.Holders[0].Address != "h1" {
		t.Errorf("holders not preserved: %+v", got.Holders)
	}
}

func TestSessionStore_MissAndIsolation(t *testing.T) {
	store := NewSessionStore(config.Defaults())
	store.Put(1, &Session{LastToken: "a"})

	if store.Get(2) != nil {
		t.Error("expected miss for other chat")
	}
	if store.Get(1).LastToken != "a" {
		t.Error("chat 1 session lost")
	}
}

func TestSessionStore_Delete(t *testing.T) {
	store := NewSessionStore(config.Defaults())
	store.Put(1, &Session{LastToken: "a"})
	store.Delete(1)

	if store.Get(1) != nil {
		t.Error("expected session gone after delete")
	}
}

func TestSessionStore_Expiry(t *testing.T) {
	cfg := config.Defaults()
	cfg.Session.TTL = 10 * time.Millisecond
	cfg.Session.CleanupInterval = time.Minute

	store := NewSessionStore(cfg)
	store.Put(1, &Session{LastToken: "a"})

	time.Sleep(30 * time.Millisecond)
	if store.Get(1) != nil {
		t.Error("expected session expired")
	}
}
