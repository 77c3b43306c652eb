package metrics

import (
	"testing"

	"github.com/danielpatrickdp/scriptloop/internal/conversation"
)

func conv(pairs ...[2]string) *conversation.Conversation {
	c := conversation.New("1.0", "persona_1", "Test Customer")
	for _, p := range pairs {
		c.Add(conversation.Role(p[0]), p[1])
	}
	return c
}

func TestEvaluate_EmptyBatch(t *testing.T) {
	r := Evaluate(nil)
	if r != (Report{}) {
		t.Errorf("empty batch: got %+v, want zero report", r)
	}
}

func TestRepetitionRate(t *testing.T) {
	tests := []struct {
		name     string
		c        *conversation.Conversation
		wantZero bool
	}{
		{
			"single-agent-message",
			conv([2]string{"agent", "I am calling about your loan account which is past due."}),
			true,
		},
		{
			"verbatim-repeat-across-messages",
			conv(
				[2]string{"agent", "We have several payment options available to help you today."},
				[2]string{"customer", "Okay."},
				[2]string{"agent", "We have several payment options available to help you today."},
			),
			false,
		},
		{
			"no-significant-sentences",
			conv(
				[2]string{"agent", "Hello there."},
				[2]string{"agent", "Goodbye now."},
			),
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := repetitionRate(tt.c)
			if tt.wantZero && got != 0.0 {
				t.Errorf("got %.3f, want 0.0", got)
			}
			if !tt.wantZero && got <= 0.0 {
				t.Errorf("got %.3f, want > 0.0", got)
			}
			if got < 0.0 || got > 1.0 {
				t.Errorf("out of range: %.3f", got)
			}
		})
	}
}

func TestRepetitionRate_FirstMatchOnly(t *testing.T) {
	// The same long sentence three times: sentence 2 matches sentence 1,
	// sentence 3 matches once against the prior set. Two repetitions out
	// of three significant sentences.
	s := "We have several payment options available to help you today."
	c := conv(
		[2]string{"agent", s},
		[2]string{"agent", s},
		[2]string{"agent", s},
	)
	got := repetitionRate(c)
	want := 2.0 / 3.0
	if got < want-0.001 || got > want+0.001 {
		t.Errorf("got %.3f, want %.3f", got, want)
	}
}

func TestNegotiationEffectiveness_InsufficientSignal(t *testing.T) {
	// Exactly 2 agent and 1 customer messages → neutral 0.5 regardless of content.
	c := conv(
		[2]string{"agent", "You must pay immediately or face a lawsuit."},
		[2]string{"customer", "No."},
		[2]string{"agent", "Pay now."},
	)
	if got := negotiationEffectiveness(c); got != 0.5 {
		t.Errorf("got %.3f, want 0.5", got)
	}
}

func TestNegotiationEffectiveness_AllBehaviors(t *testing.T) {
	c := conv(
		[2]string{"agent", "We have several options for you, and I understand your situation is hard."},
		[2]string{"customer", "It has been difficult."},
		[2]string{"agent", "Alternatively, we could try a different approach that would help you rebuild."},
		[2]string{"customer", "Maybe."},
		[2]string{"agent", "This will allow you to catch up. Does that work for you?"},
	)
	got := negotiationEffectiveness(c)
	if got < 0.99 {
		t.Errorf("got %.3f, want 1.0", got)
	}
}

func TestResolutionScore(t *testing.T) {
	tests := []struct {
		name string
		c    *conversation.Conversation
		want float64
		min  float64
	}{
		{
			"three-messages-too-short",
			conv(
				[2]string{"agent", "Hello."},
				[2]string{"customer", "Hi."},
				[2]string{"agent", "Bye."},
			),
			0.0, -1,
		},
		{
			"agreement-no-negatives",
			conv(
				[2]string{"agent", "So we have a plan."},
				[2]string{"customer", "Yes, I agreed to payment."},
				[2]string{"agent", "Great, thank you for your understanding."},
				[2]string{"customer", "Thanks."},
			),
			-1, (1.0 + 3.0) / 6.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolutionScore(tt.c)
			if tt.min < 0 && got != tt.want {
				t.Errorf("got %.3f, want %.3f", got, tt.want)
			}
			if tt.min >= 0 && got < tt.min {
				t.Errorf("got %.3f, want >= %.3f", got, tt.min)
			}
		})
	}
}

func TestComplianceScore(t *testing.T) {
	t.Run("no-agent-messages", func(t *testing.T) {
		c := conv([2]string{"customer", "Hello?"})
		if got := complianceScore(c); got != 0.0 {
			t.Errorf("got %.3f, want 0.0", got)
		}
	})

	t.Run("all-elements-no-prohibited", func(t *testing.T) {
		c := conv([2]string{"agent",
			"Hello, my name is alex and I am calling from acme recovery. " +
				"This call may be recorded. Could you verify your identity? " +
				"I am calling regarding your loan account."})
		if got := complianceScore(c); got != 1.0 {
			t.Errorf("got %.3f, want 1.0", got)
		}
	})

	t.Run("prohibited-language-penalized", func(t *testing.T) {
		c := conv([2]string{"agent",
			"Hello, my name is alex and I am calling from acme recovery. " +
				"This call may be recorded. Could you verify your identity? " +
				"I am calling regarding your loan account. " +
				"You have to pay immediately or we will take legal action."})
		got := complianceScore(c)
		// base 1.0 minus two prohibited hits
		if got > 0.61 || got < 0.59 {
			t.Errorf("got %.3f, want 0.6", got)
		}
	})
}

func TestEvaluate_TurnCount(t *testing.T) {
	c := conv(
		[2]string{"agent", "a"},
		[2]string{"customer", "b"},
		[2]string{"agent", "c"},
		[2]string{"customer", "d"},
		[2]string{"agent", "e"},
	)
	r := Evaluate([]*conversation.Conversation{c})
	if r.AverageTurnCount != 2.0 {
		t.Errorf("turn count: got %.1f, want 2.0 (integer division)", r.AverageTurnCount)
	}
}

func TestEvaluate_BatchAverage(t *testing.T) {
	short := conv(
		[2]string{"agent", "a"},
		[2]string{"customer", "b"},
	)
	longer := conv(
		[2]string{"agent", "a"},
		[2]string{"customer", "b"},
		[2]string{"agent", "c"},
		[2]string{"customer", "d"},
	)
	r := Evaluate([]*conversation.Conversation{short, longer})
	if r.AverageTurnCount != 1.5 {
		t.Errorf("batch average turn count: got %.2f, want 1.5", r.AverageTurnCount)
	}
	// both conversations are below the negotiation signal floor
	if r.NegotiationEffectiveness != 0.5 {
		t.Errorf("negotiation: got %.2f, want 0.5", r.NegotiationEffectiveness)
	}
}
