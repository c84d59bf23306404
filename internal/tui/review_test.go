package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kalyanig/paisa-trail/internal/model"
	"github.com/kalyanig/paisa-trail/internal/service"
	"github.com/kalyanig/paisa-trail/internal/testutil"
)

func seedLowConfidenceMessage(t *testing.T, db service.Storage) []service.ClassifiedMessage {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, db.SaveMessage(ctx,
		model.RawMessage{ID: "m1", Sender: "VX-UNKNWN", Body: "Avl Bal in A/c XX1234 is Rs.45,230"},
		model.ClassificationResult{
			Label:      model.LabelFinancialAlert,
			SubLabel:   model.SubLabelBalanceInfo,
			Method:     model.MethodRuleBased,
			Confidence: 0.55,
		}))

	messages, err := db.GetLowConfidenceMessages(ctx, 0.65, 10)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	return messages
}

func keyPress(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestReview_AcceptKeepsRuleLabel(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	messages := seedLowConfidenceMessage(t, db)

	m := NewModel(ctx, db, messages)
	updated, cmd := m.Update(keyPress('a'))
	require.NotNil(t, cmd)

	applied, ok := cmd().(labelAppliedMsg)
	require.True(t, ok)
	require.NoError(t, applied.err)
	assert.Equal(t, model.LabelFinancialAlert, applied.label)

	final, _ := updated.(Model).Update(applied)
	assert.True(t, final.(Model).quitting)

	remaining, err := db.GetLowConfidenceMessages(ctx, 0.65, 10)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestReview_RelabelAsSpam(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	messages := seedLowConfidenceMessage(t, db)

	m := NewModel(ctx, db, messages)
	_, cmd := m.Update(keyPress('4'))
	require.NotNil(t, cmd)

	applied, ok := cmd().(labelAppliedMsg)
	require.True(t, ok)
	require.NoError(t, applied.err)
	assert.Equal(t, model.LabelSpam, applied.label)

	counts, err := db.CountByLabel(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, counts[model.LabelSpam])
}

func TestReview_QuitAndView(t *testing.T) {
	db := testutil.SetupTestDB(t)
	messages := seedLowConfidenceMessage(t, db)

	m := NewModel(context.Background(), db, messages)
	assert.Contains(t, m.View(), "Review 1/1")

	updated, _ := m.Update(keyPress('q'))
	assert.True(t, updated.(Model).quitting)
	assert.Empty(t, updated.(Model).View())
}
