package conversation

import (
	"strings"
	"testing"
	"time"
)

func TestAddAndByRole(t *testing.T) {
	c := New("1.0", "persona_1", "Jane Doe")
	c.Add(RoleAgent, "Hello, this is a collection call.")
	c.Add(RoleCustomer, "I can't pay right now.")
	c.Add(RoleAgent, "Let's find a plan that works.")
	c.Add(RoleSystem, "simulation note")

	if got := len(c.AgentMessages()); got != 2 {
		t.Errorf("agent messages: got %d, want 2", got)
	}
	if got := len(c.CustomerMessages()); got != 1 {
		t.Errorf("customer messages: got %d, want 1", got)
	}
	if len(c.Messages) != 4 {
		t.Errorf("total messages: got %d, want 4", len(c.Messages))
	}
}

func TestFinish_SetOnce(t *testing.T) {
	c := New("1.0", "persona_1", "Jane Doe")
	if c.Finished() {
		t.Error("new conversation should not be finished")
	}

	c.Finish()
	first := c.EndTime
	if first.IsZero() {
		t.Fatal("Finish did not set end time")
	}

	time.Sleep(time.Millisecond)
	c.Finish()
	if !c.EndTime.Equal(first) {
		t.Error("second Finish overwrote end time")
	}
}

func TestTranscript(t *testing.T) {
	c := New("1.0", "persona_1", "Jane Doe")
	c.Add(RoleAgent, "Hello.")
	c.Add(RoleCustomer, "Hi.")

	got := c.Transcript()
	if !strings.Contains(got, "AGENT: Hello.") || !strings.Contains(got, "CUSTOMER: Hi.") {
		t.Errorf("unexpected transcript: %q", got)
	}
}
