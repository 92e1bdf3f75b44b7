package domain

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleInputs(t *testing.T) AssemblyInputs {
	t.Helper()

	var m MathResult
	require.NoError(t, json.Unmarshal([]byte(completeMathJSON), &m))

	var corr CorrelationMatrix
	require.NoError(t, json.Unmarshal([]byte(matrixWithInvalidRow), &corr))

	return AssemblyInputs{
		Report: Report{
			ReportID:       "r1",
			ConversationID: "c1",
			LabelGroup0:    "Builders",
			LabelGroup1:    "",
			LabelGroup9:    "Skeptics",
		},
		Math:         m,
		Conversation: Conversation{ConversationID: "c1", ParticipantCount: 10},
		Comments: []Comment{
			{Tid: 1, Pid: 1, Txt: "more bike lanes", Count: 10, PassCount: 4},
			{Tid: 2, Pid: 2, Txt: "fewer cars", Count: 10, PassCount: 2},
			{Tid: 137, Pid: 1, Txt: "later", Count: 0},
		},
		Participants: []Participant{{Pid: 1}},
		Demographics: []Demographic{{Gid: 0, Count: 3}},
		Correlation:  &corr,
	}
}

func TestAssemble_ParticipantCounts(t *testing.T) {
	in := sampleInputs(t)

	vm := Assemble(in)

	assert.Equal(t, 7, vm.PtptCount)
	assert.Equal(t, 10, vm.PtptCountTotal)
}

func TestAssemble_Derivations(t *testing.T) {
	vm := Assemble(sampleInputs(t))

	assert.Equal(t, "r1", vm.ReportID)
	assert.Equal(t, []int{1}, vm.Uncertainty)
	assert.Equal(t, map[int]float64{1: 0.5, 2: 1.25}, vm.Extremity)
	assert.Equal(t, map[int]string{0: "Builders", 9: "Skeptics"}, vm.GroupNames)
	assert.Equal(t, map[int][]int{0: {1}}, vm.RepfulTids.Agree)
	assert.Equal(t, map[int][]int{1: {2}}, vm.RepfulTids.Disagree)
	assert.Equal(t, "001", vm.IdentifierFormatter.Format(1))
	assert.Equal(t, 5, vm.ComputedStats.TotalVotes)
	assert.InDelta(t, 0.5, vm.ComputedStats.VotesPerVoterAvg.Value, 1e-9)
	assert.True(t, vm.Validation.OK())
	require.NotNil(t, vm.Correlation)
	assert.Equal(t, []int{12}, vm.Correlation.Excluded)
	require.NotNil(t, vm.Consensus)
	assert.Len(t, vm.Consensus.Agree, 1)
	require.Len(t, vm.Comments, 3)
	require.NotNil(t, vm.Comments[1].VoteTotals)
	assert.Equal(t, 3, vm.Comments[1].VoteTotals.Disagreed)
}

func TestAssemble_Idempotent(t *testing.T) {
	in := sampleInputs(t)
	before := fmt.Sprintf("%+v", in.Comments)

	first, err := json.Marshal(Assemble(in))
	require.NoError(t, err)
	second, err := json.Marshal(Assemble(in))
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
	assert.Equal(t, before, fmt.Sprintf("%+v", in.Comments))
}

func TestAssemble_WithoutCorrelation(t *testing.T) {
	in := sampleInputs(t)
	in.Correlation = nil

	vm := Assemble(in)

	assert.Nil(t, vm.Correlation)
}

func TestAssemble_ZeroParticipants(t *testing.T) {
	in := sampleInputs(t)
	in.Conversation.ParticipantCount = 0

	var vm ReportViewModel
	require.NotPanics(t, func() { vm = Assemble(in) })
	assert.False(t, vm.ComputedStats.VotesPerVoterAvg.Valid)

	_, err := json.Marshal(ReadyState(vm))
	assert.NoError(t, err)
}

func TestReportState_Constructors(t *testing.T) {
	t.Run("loading", func(t *testing.T) {
		s := LoadingState()
		assert.Equal(t, StatusLoading, s.Status)
		assert.True(t, s.Loading)
		assert.Nil(t, s.ReportViewModel)
	})

	t.Run("generic error keeps diagnostic", func(t *testing.T) {
		s := ErrorState(fmt.Errorf("failed to fetch comments: %w", assert.AnError))
		assert.True(t, s.Error)
		assert.Contains(t, s.ErrorText, "failed to fetch comments")
	})

	t.Run("needs comment selection gets actionable text", func(t *testing.T) {
		s := ErrorState(fmt.Errorf("poll: %w", ErrNeedsCommentSelection))
		assert.Equal(t, NeedsCommentSelectionMessage, s.ErrorText)
	})

	t.Run("nothing to show", func(t *testing.T) {
		s := NothingToShowState()
		assert.True(t, s.NothingToShow)
		assert.False(t, s.Error)
	})

	t.Run("ready flattens view model", func(t *testing.T) {
		s := ReadyState(ReportViewModel{ReportID: "r1", PtptCount: 7}).WithDimensions(&Dimensions{Width: 800, Height: 600})
		data, err := json.Marshal(s)
		require.NoError(t, err)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, "ready", decoded["status"])
		assert.Equal(t, "r1", decoded["reportId"])
		assert.EqualValues(t, 7, decoded["ptptCount"])
		assert.NotNil(t, decoded["dimensions"])
	})
}

func TestReport_GroupNames(t *testing.T) {
	r := Report{LabelGroup2: "  ", LabelGroup3: "Cyclists"}
	assert.Equal(t, map[int]string{3: "Cyclists"}, r.GroupNames())
}

func TestConversation_ModerationThreshold(t *testing.T) {
	assert.Equal(t, 0, Conversation{StrictModeration: true}.ModerationThreshold())
	assert.Equal(t, -1, Conversation{}.ModerationThreshold())
}
