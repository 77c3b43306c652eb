package replay

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielpatrickdp/scriptloop/internal/conversation"
	"github.com/danielpatrickdp/scriptloop/internal/feedback"
	"github.com/danielpatrickdp/scriptloop/internal/improver"
	"github.com/danielpatrickdp/scriptloop/internal/loop"
	"github.com/danielpatrickdp/scriptloop/internal/script"
)

func quietLog() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// repetitiveBatch scores badly: the agent repeats the same long sentence.
func repetitiveBatch() []*conversation.Conversation {
	c := conversation.New("1.0", "persona_1", "Test Debtor")
	c.Add(conversation.RoleAgent, "You need to make a payment on your account today please.")
	c.Add(conversation.RoleCustomer, "I heard you the first time.")
	c.Add(conversation.RoleAgent, "You need to make a payment on your account today please.")
	c.Add(conversation.RoleCustomer, "Stop repeating yourself.")
	c.Add(conversation.RoleAgent, "You need to make a payment on your account today please.")
	c.Finish()
	return []*conversation.Conversation{c}
}

// negotiatedBatch scores well: varied sentences exercising every
// negotiation behavior family.
func negotiatedBatch() []*conversation.Conversation {
	c := conversation.New("1.1", "persona_1", "Test Debtor")
	c.Add(conversation.RoleAgent, "We have several options available for your account situation.")
	c.Add(conversation.RoleCustomer, "What kind of options are those?")
	c.Add(conversation.RoleAgent, "I understand your situation, and this will help you avoid extra fees.")
	c.Add(conversation.RoleCustomer, "That sounds more reasonable to me.")
	c.Add(conversation.RoleAgent, "Alternatively, we could try a smaller monthly amount. Does that work for you?")
	c.Finish()
	return []*conversation.Conversation{c}
}

func TestReplay_ImprovesThenStops(t *testing.T) {
	log := quietLog()
	cycles := []FixtureCycle{
		{Label: "baseline", Conversations: repetitiveBatch()},
		{Label: "after-fix", Conversations: negotiatedBatch()},
		{Label: "never-reached", Conversations: repetitiveBatch()},
	}

	results, err := Replay(context.Background(), script.Default(), cycles,
		feedback.RuleSynthesizer{}, improver.New(nil, nil, log), loop.DefaultGate())
	require.NoError(t, err)
	require.Len(t, results, 2, "run ends once the gate releases")

	assert.Equal(t, "improved", results[0].Action)
	assert.Equal(t, "1.1", results[0].Version)
	assert.Greater(t, results[0].Report.RepetitionRate, 0.3)
	assert.Contains(t, results[0].Feedback, "repeating information too frequently")

	assert.Equal(t, "stopped", results[1].Action)
	assert.Equal(t, "1.1", results[1].Version, "stopping does not bump the version")
	assert.Contains(t, results[1].Reason, "targets met")

	summary := Summarize(results, results[1].Report)
	assert.Equal(t, 2, summary.TotalCycles)
	assert.Equal(t, 1, summary.Improvements)
	assert.True(t, summary.Stopped)
	assert.Equal(t, "1.1", summary.FinalVersion)
}

func TestReplay_VersionErrorPropagates(t *testing.T) {
	sc := script.Default()
	sc.Version = "beta"
	cycles := []FixtureCycle{{Label: "only", Conversations: repetitiveBatch()}}

	_, err := Replay(context.Background(), sc, cycles,
		feedback.RuleSynthesizer{}, improver.New(nil, nil, quietLog()), loop.DefaultGate())
	require.Error(t, err)
	var vfe *improver.VersionFormatError
	assert.ErrorAs(t, err, &vfe)
}
