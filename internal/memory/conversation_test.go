package memory

import (
	"fmt"
	"sync"
	"testing"
)

func TestAppendEvictsOldest(t *testing.T) {
	s := NewStore(3, "default")

	for i := 1; i <= 5; i++ {
		s.Append("u", RoleUser, fmt.Sprintf("m%d", i))
	}

	msgs := s.Context("u")
	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(msgs))
	}
	want := []string{"m3", "m4", "m5"}
	for i, m := range msgs {
		if m.Content != want[i] {
			t.Fatalf("at %d: expected %s, got %s", i, want[i], m.Content)
		}
	}
}

func TestAppendUnderLimitKeepsAll(t *testing.T) {
	s := NewStore(10, "default")

	s.Append("u", RoleUser, "hello")
	s.Append("u", RoleAssistant, "hi there")

	msgs := s.Context("u")
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].Role != RoleUser || msgs[1].Role != RoleAssistant {
		t.Fatalf("unexpected roles: %s, %s", msgs[0].Role, msgs[1].Role)
	}
	if msgs[0].ID == "" || msgs[0].ID == msgs[1].ID {
		t.Fatal("expected distinct non-empty message ids")
	}
	if msgs[1].Timestamp.Before(msgs[0].Timestamp) {
		t.Fatal("timestamps must be non-decreasing")
	}
}

func TestZeroLimitNeverStores(t *testing.T) {
	s := NewStore(0, "default")

	s.Append("u", RoleUser, "gone")

	if msgs := s.Context("u"); len(msgs) != 0 {
		t.Fatalf("expected empty log, got %d messages", len(msgs))
	}
	// The log entry itself still exists.
	if st := s.Snapshot(); st.ActiveUsers != 1 {
		t.Fatalf("expected 1 active user, got %d", st.ActiveUsers)
	}
}

func TestEmptyUserIDUsesDefault(t *testing.T) {
	s := NewStore(5, "fallback")

	s.Append("", RoleUser, "hello")

	if msgs := s.Context("fallback"); len(msgs) != 1 {
		t.Fatalf("expected 1 message under default id, got %d", len(msgs))
	}
	if msgs := s.Context(""); len(msgs) != 1 {
		t.Fatalf("expected empty id reads to resolve to default, got %d", len(msgs))
	}
}

func TestContextDoesNotCreateEntry(t *testing.T) {
	s := NewStore(5, "default")

	if msgs := s.Context("ghost"); len(msgs) != 0 {
		t.Fatalf("expected empty context, got %d", len(msgs))
	}
	if st := s.Snapshot(); st.ActiveUsers != 0 {
		t.Fatalf("read created an entry: %d active users", st.ActiveUsers)
	}
}

func TestClearUser(t *testing.T) {
	s := NewStore(5, "default")
	s.Append("a", RoleUser, "x")
	s.Append("b", RoleUser, "y")

	if !s.Clear("a") {
		t.Fatal("expected clear of existing user to report true")
	}
	if s.Clear("a") {
		t.Fatal("expected second clear to report false")
	}

	st := s.Snapshot()
	if st.ActiveUsers != 1 {
		t.Fatalf("expected 1 active user, got %d", st.ActiveUsers)
	}
	if _, ok := st.Users["a"]; ok {
		t.Fatal("cleared user still present in stats")
	}
}

func TestClearAll(t *testing.T) {
	s := NewStore(5, "default")
	s.Append("a", RoleUser, "x")
	s.Append("b", RoleUser, "y")

	if n := s.ClearAll(); n != 2 {
		t.Fatalf("expected 2 users cleared, got %d", n)
	}
	if st := s.Snapshot(); st.ActiveUsers != 0 {
		t.Fatalf("expected 0 active users, got %d", st.ActiveUsers)
	}
}

func TestSnapshot(t *testing.T) {
	s := NewStore(7, "default")
	s.Append("u", RoleUser, "q")
	s.Append("u", RoleAssistant, "a")

	st := s.Snapshot()
	if st.MemoryLimit != 7 {
		t.Fatalf("expected limit 7, got %d", st.MemoryLimit)
	}
	if st.DefaultUserID != "default" {
		t.Fatalf("unexpected default user id: %s", st.DefaultUserID)
	}
	us, ok := st.Users["u"]
	if !ok {
		t.Fatal("expected stats entry for u")
	}
	if us.MessageCount != 2 {
		t.Fatalf("expected 2 messages, got %d", us.MessageCount)
	}
	if us.LastMessageTime == nil {
		t.Fatal("expected last message time to be set")
	}
}

func TestConcurrentAppendsSameUser(t *testing.T) {
	s := NewStore(1000, "default")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				s.Append("u", RoleUser, "m")
			}
		}()
	}
	wg.Wait()

	if msgs := s.Context("u"); len(msgs) != 500 {
		t.Fatalf("expected 500 messages, got %d", len(msgs))
	}
}

func TestConcurrentAppendsDifferentUsers(t *testing.T) {
	s := NewStore(100, "default")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("user-%d", n)
			for j := 0; j < 20; j++ {
				s.Append(id, RoleUser, "m")
			}
		}(i)
	}
	wg.Wait()

	st := s.Snapshot()
	if st.ActiveUsers != 8 {
		t.Fatalf("expected 8 active users, got %d", st.ActiveUsers)
	}
	for id, us := range st.Users {
		if us.MessageCount != 20 {
			t.Fatalf("%s: expected 20 messages, got %d", id, us.MessageCount)
		}
	}
}
