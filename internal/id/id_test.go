package id

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestMessageIDFormat(t *testing.T) {
	gen := NewGenerator()

	msgID := gen.MessageID()
	if !strings.HasPrefix(msgID, "msg_") {
		t.Errorf("Message id should start with 'msg_', got: %s", msgID)
	}

	if !IsValid(msgID) {
		t.Errorf("Generated id should be valid: %s", msgID)
	}
}

func TestMessageIDUniqueness(t *testing.T) {
	gen := NewGenerator()

	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		msgID := gen.MessageID()
		if seen[msgID] {
			t.Fatalf("Duplicate id: %s", msgID)
		}
		seen[msgID] = true
	}
}

func TestMessageIDMonotonic(t *testing.T) {
	gen := NewGenerator()

	prev := gen.MessageID()
	for i := 0; i < 100; i++ {
		next := gen.MessageID()
		if next <= prev {
			t.Fatalf("Ids should be strictly increasing: %s then %s", prev, next)
		}
		prev = next
	}
}

func TestConcurrentGeneration(t *testing.T) {
	gen := NewGenerator()

	const goroutines = 50
	const perGoroutine = 100

	var wg sync.WaitGroup
	idChan := make(chan string, goroutines*perGoroutine)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				idChan <- gen.MessageID()
			}
		}()
	}

	wg.Wait()
	close(idChan)

	seen := make(map[string]bool)
	for msgID := range idChan {
		if seen[msgID] {
			t.Errorf("Duplicate id in concurrent generation: %s", msgID)
		}
		seen[msgID] = true
	}

	if len(seen) != goroutines*perGoroutine {
		t.Errorf("Expected %d unique ids, got %d", goroutines*perGoroutine, len(seen))
	}
}

func TestIsValid(t *testing.T) {
	invalid := []string{
		"",
		"msg_",
		"msg_invalid",
		"req_01HZXW3E8G5V2N9K7Q4T6B8C1D",
		"01HZXW3E8G5V2N9K7Q4T6B8C1D",
	}

	for _, s := range invalid {
		if IsValid(s) {
			t.Errorf("Id should be invalid: %q", s)
		}
	}
}

func TestTimestamp(t *testing.T) {
	gen := NewGenerator()

	before := time.Now().UnixMilli()
	msgID := gen.MessageID()
	after := time.Now().UnixMilli()

	ts, err := Timestamp(msgID)
	if err != nil {
		t.Fatalf("Failed to extract timestamp: %v", err)
	}

	ms := ts.UnixMilli()
	if ms < before || ms > after {
		t.Errorf("Timestamp should be between %d and %d ms, got %d ms", before, after, ms)
	}
}

func BenchmarkMessageID(b *testing.B) {
	gen := NewGenerator()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = gen.MessageID()
	}
}
