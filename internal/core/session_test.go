// ABOUTME: Tests for session state and question normalization
// ABOUTME: Verifies per-question resets, the tool-call counter, and the FIFO
package core

import "testing"

func TestNormalizeQuestion(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Total Revenue", "total revenue"},
		{"  total   revenue  ", "total revenue"},
		{"total\trevenue\n", "total revenue"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeQuestion(tt.in); got != tt.want {
			t.Errorf("NormalizeQuestion(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSession_BeginQuestionResets(t *testing.T) {
	sess := NewManager().Get("s1")

	if !sess.BeginQuestion("first question") {
		t.Error("BeginQuestion() on fresh session should reset")
	}
	sess.SetQuestionVector([]float64{1, 0, 0})
	sess.IncrementAttempt()
	sess.TripCircuit("testing")
	sess.RecordFingerprint("fp", 3)

	if sess.BeginQuestion("first question") {
		t.Error("BeginQuestion() with same question should not reset")
	}
	if sess.QuestionVector() == nil {
		t.Error("same question cleared the cached vector")
	}

	if !sess.BeginQuestion("second question") {
		t.Error("BeginQuestion() with new question should reset")
	}
	if sess.QuestionVector() != nil {
		t.Error("vector survived the question change")
	}
	if sess.Attempts() != 0 {
		t.Error("attempt counter survived the question change")
	}
	if open, _ := sess.CircuitOpen(); open {
		t.Error("circuit stayed open across the question change")
	}
}

// The tool-call ceiling is session-wide: question changes never reset it
func TestSession_ToolCallsSurviveQuestionChange(t *testing.T) {
	sess := NewManager().Get("s1")

	sess.BeginQuestion("first")
	for i := 0; i < 3; i++ {
		sess.CountToolCall(100)
	}
	sess.BeginQuestion("second")

	if got := sess.ToolCalls(); got != 3 {
		t.Errorf("ToolCalls() = %d after question change, want 3", got)
	}
	if exceeded := sess.CountToolCall(4); exceeded {
		t.Error("CountToolCall(4) exceeded at call 4, want within limit")
	}
	if exceeded := sess.CountToolCall(4); !exceeded {
		t.Error("CountToolCall(4) not exceeded at call 5")
	}
}

func TestSession_RecordFingerprint(t *testing.T) {
	sess := NewManager().Get("s1")

	if sess.RecordFingerprint("a", 3) {
		t.Error("window not full, want no repetition")
	}
	if sess.RecordFingerprint("a", 3) {
		t.Error("window not full, want no repetition")
	}
	if !sess.RecordFingerprint("a", 3) {
		t.Error("three identical entries, want repetition")
	}

	// A different entry breaks the run
	if sess.RecordFingerprint("b", 3) {
		t.Error("mixed window, want no repetition")
	}
	if sess.RecordFingerprint("b", 3) {
		t.Error("mixed window, want no repetition")
	}
	if !sess.RecordFingerprint("b", 3) {
		t.Error("run of three rebuilt, want repetition")
	}
}

func TestManager_SessionsAreIsolated(t *testing.T) {
	m := NewManager()
	a := m.Get("a")
	b := m.Get("b")

	a.BeginQuestion("question for a")
	a.CountToolCall(100)

	if b.CurrentQuestion() != "" {
		t.Error("session b inherited session a's question")
	}
	if b.ToolCalls() != 0 {
		t.Error("session b inherited session a's tool calls")
	}

	if m.Get("a") != a {
		t.Error("Get() returned a different instance for the same id")
	}

	m.Remove("a")
	if m.Get("a") == a {
		t.Error("Get() after Remove() returned the discarded session")
	}
}
