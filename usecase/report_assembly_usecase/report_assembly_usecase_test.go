package report_assembly_usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"report-assembler/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockReportSource struct {
	mock.Mock
}

func (m *MockReportSource) FetchReport(ctx context.Context, reportID string) (*domain.Report, error) {
	args := m.Called(ctx, reportID)
	if v := args.Get(0); v != nil {
		return v.(*domain.Report), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockReportSource) FetchMathResult(ctx context.Context, conversationID string) (*domain.MathResult, error) {
	args := m.Called(ctx, conversationID)
	if v := args.Get(0); v != nil {
		return v.(*domain.MathResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockReportSource) FetchConversation(ctx context.Context, conversationID string) (*domain.Conversation, error) {
	args := m.Called(ctx, conversationID)
	if v := args.Get(0); v != nil {
		return v.(*domain.Conversation), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockReportSource) FetchComments(ctx context.Context, conversationID, reportID string, modGt int) ([]domain.Comment, error) {
	args := m.Called(ctx, conversationID, reportID, modGt)
	comments, _ := args.Get(0).([]domain.Comment)
	return comments, args.Error(1)
}

func (m *MockReportSource) FetchParticipantsOfInterest(ctx context.Context, conversationID string) ([]domain.Participant, error) {
	args := m.Called(ctx, conversationID)
	participants, _ := args.Get(0).([]domain.Participant)
	return participants, args.Error(1)
}

func (m *MockReportSource) FetchGroupDemographics(ctx context.Context, conversationID, reportID string) ([]domain.Demographic, error) {
	args := m.Called(ctx, conversationID, reportID)
	demographics, _ := args.Get(0).([]domain.Demographic)
	return demographics, args.Error(1)
}

func sampleMath() *domain.MathResult {
	nCmts := 2
	return &domain.MathResult{
		BaseClusters:        json.RawMessage(`{"id":[0]}`),
		Consensus:           &domain.Consensus{Agree: []domain.ConsensusEntry{}, Disagree: []domain.ConsensusEntry{}},
		GroupAwareConsensus: map[string]float64{"1": 0.4, "2": 0.1},
		GroupClusters:       json.RawMessage(`[]`),
		GroupVotes: map[string]domain.GroupVotes{
			"0": {ID: 0, NMembers: 3, Votes: map[string]domain.VoteTally{"1": {A: 2, D: 1, S: 3}}},
			"1": {ID: 1, NMembers: 4, Votes: map[string]domain.VoteTally{"1": {A: 1, D: 2, S: 4}}},
		},
		NComments: &nCmts,
		Repness:   map[string][]domain.RepnessEntry{"0": {{Tid: 1, RepfulFor: domain.RepfulForAgree}}},
		PCA: &domain.PCA{
			Center:            []float64{0, 0},
			CommentExtremity:  []float64{0.5, 1.5},
			CommentProjection: [][]float64{{0.1, 0.2}},
			Comps:             [][]float64{{1, 0}},
		},
		Tids:           []int{1, 2},
		UserVoteCounts: map[string]int{"0": 3, "1": 2},
		MathTick:       77,
	}
}

var (
	sampleReport       = &domain.Report{ReportID: "r1", ConversationID: "c1", LabelGroup0: "Left"}
	sampleConversation = &domain.Conversation{ConversationID: "c1", ParticipantCount: 10, StrictModeration: true}
	sampleComments     = []domain.Comment{
		{Tid: 1, Txt: "first", AgreeCount: 3, DisagreeCount: 3, PassCount: 4, Count: 10},
		{Tid: 2, Txt: "second", AgreeCount: 1, Count: 1},
	}
	sampleDemographics = []domain.Demographic{{Gid: 0, Count: 3}}
	sampleParticipants = []domain.Participant{{Pid: 5, Name: "ptpt"}}
)

func stubSource(math *domain.MathResult, comments []domain.Comment, demographics []domain.Demographic) *MockReportSource {
	src := &MockReportSource{}
	src.On("FetchReport", mock.Anything, "r1").Return(sampleReport, nil)
	src.On("FetchMathResult", mock.Anything, "c1").Return(math, nil)
	src.On("FetchConversation", mock.Anything, "c1").Return(sampleConversation, nil)
	src.On("FetchComments", mock.Anything, "c1", "r1", 0).Return(comments, nil)
	src.On("FetchGroupDemographics", mock.Anything, "c1", "r1").Return(demographics, nil)
	src.On("FetchParticipantsOfInterest", mock.Anything, "c1").Return(sampleParticipants, nil)
	return src
}

func newTestUsecase(src *MockReportSource, corr *MockCorrelationMatrixPort, cfg Config) (*ReportAssemblyUsecase, *recordingWait) {
	var poller *CorrelationMatrixPoller
	var w *recordingWait
	if corr != nil {
		poller, w = newTestPoller(corr, DefaultPollerConfig())
	}
	return NewReportAssemblyUsecase(src, poller, cfg, discardLogger()), w
}

func TestReportAssemblyUsecase_Execute_Ready(t *testing.T) {
	src := stubSource(sampleMath(), sampleComments, sampleDemographics)
	corr := &MockCorrelationMatrixPort{}
	corr.On("FetchCorrelationMatrix", mock.Anything, int64(77), "r1").Return(pendingMatrix, nil).Times(3)
	corr.On("FetchCorrelationMatrix", mock.Anything, int64(77), "r1").Return(readyMatrix, nil).Once()

	u, w := newTestUsecase(src, corr, Config{CorrelationMatrixEnabled: true})
	state, err := u.Execute(context.Background(), "r1")

	require.NoError(t, err)
	assert.Equal(t, domain.StatusReady, state.Status)
	require.NotNil(t, state.ReportViewModel)
	assert.Equal(t, "r1", state.ReportID)
	assert.Equal(t, 7, state.PtptCount)
	assert.Equal(t, 10, state.PtptCountTotal)
	assert.Equal(t, map[int]string{0: "Left"}, state.GroupNames)
	assert.Equal(t, []int{1}, state.Uncertainty)
	require.NotNil(t, state.Correlation)
	assert.Equal(t, []int{3, 4}, state.Correlation.Tids)
	assert.Len(t, w.delays, 3)

	src.AssertExpectations(t)
	corr.AssertNumberOfCalls(t, "FetchCorrelationMatrix", 4)
}

func TestReportAssemblyUsecase_Execute_CorrelationDisabled(t *testing.T) {
	src := stubSource(sampleMath(), sampleComments, sampleDemographics)
	corr := &MockCorrelationMatrixPort{}

	u, _ := newTestUsecase(src, corr, Config{CorrelationMatrixEnabled: false})
	state, err := u.Execute(context.Background(), "r1")

	require.NoError(t, err)
	assert.Equal(t, domain.StatusReady, state.Status)
	assert.Nil(t, state.Correlation)
	corr.AssertNotCalled(t, "FetchCorrelationMatrix", mock.Anything, mock.Anything, mock.Anything)
}

func TestReportAssemblyUsecase_Execute_NothingToShow(t *testing.T) {
	tests := []struct {
		name         string
		comments     []domain.Comment
		demographics []domain.Demographic
	}{
		{name: "no comments", comments: []domain.Comment{}, demographics: sampleDemographics},
		{name: "no demographics", comments: sampleComments, demographics: []domain.Demographic{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := stubSource(sampleMath(), tt.comments, tt.demographics)
			u, _ := newTestUsecase(src, nil, Config{})

			state, err := u.Execute(context.Background(), "r1")

			require.NoError(t, err)
			assert.Equal(t, domain.StatusNothingToShow, state.Status)
			assert.True(t, state.NothingToShow)
			assert.Nil(t, state.ReportViewModel)
		})
	}
}

func TestReportAssemblyUsecase_Execute_Errors(t *testing.T) {
	t.Run("report fetch failure", func(t *testing.T) {
		boom := errors.New("backend exploded")
		src := &MockReportSource{}
		src.On("FetchReport", mock.Anything, "r1").Return(nil, boom)
		u, _ := newTestUsecase(src, nil, Config{})

		state, err := u.Execute(context.Background(), "r1")

		assert.ErrorIs(t, err, boom)
		assert.Equal(t, domain.StatusError, state.Status)
		assert.True(t, state.Error)
		assert.Equal(t, "backend exploded", state.ErrorText)
		src.AssertNotCalled(t, "FetchMathResult", mock.Anything, mock.Anything)
	})

	t.Run("report without conversation", func(t *testing.T) {
		src := &MockReportSource{}
		src.On("FetchReport", mock.Anything, "r1").Return(&domain.Report{ReportID: "r1"}, nil)
		u, _ := newTestUsecase(src, nil, Config{})

		state, err := u.Execute(context.Background(), "r1")

		assert.ErrorIs(t, err, domain.ErrReportNotFound)
		assert.Equal(t, domain.StatusError, state.Status)
	})

	t.Run("one failing branch fails the load", func(t *testing.T) {
		boom := errors.New("demographics unavailable")
		src := &MockReportSource{}
		src.On("FetchReport", mock.Anything, "r1").Return(sampleReport, nil)
		src.On("FetchMathResult", mock.Anything, "c1").Return(sampleMath(), nil).Maybe()
		src.On("FetchConversation", mock.Anything, "c1").Return(sampleConversation, nil).Maybe()
		src.On("FetchComments", mock.Anything, "c1", "r1", 0).Return(sampleComments, nil).Maybe()
		src.On("FetchParticipantsOfInterest", mock.Anything, "c1").Return(sampleParticipants, nil).Maybe()
		src.On("FetchGroupDemographics", mock.Anything, "c1", "r1").Return(nil, boom)
		u, _ := newTestUsecase(src, nil, Config{})

		state, err := u.Execute(context.Background(), "r1")

		assert.ErrorIs(t, err, boom)
		assert.Equal(t, domain.StatusError, state.Status)
		assert.Equal(t, "demographics unavailable", state.ErrorText)
	})

	t.Run("needs comment selection shows the actionable message", func(t *testing.T) {
		src := stubSource(sampleMath(), sampleComments, sampleDemographics)
		corr := &MockCorrelationMatrixPort{}
		corr.On("FetchCorrelationMatrix", mock.Anything, int64(77), "r1").Return(selectionMatrix, nil)
		u, _ := newTestUsecase(src, corr, Config{CorrelationMatrixEnabled: true})

		state, err := u.Execute(context.Background(), "r1")

		assert.ErrorIs(t, err, domain.ErrNeedsCommentSelection)
		assert.Equal(t, domain.StatusError, state.Status)
		assert.Equal(t, domain.NeedsCommentSelectionMessage, state.ErrorText)
	})
}

func TestReportAssemblyUsecase_Execute_Validation(t *testing.T) {
	incomplete := sampleMath()
	incomplete.Consensus = nil
	incomplete.PCA.Comps = nil

	t.Run("missing fields only warn by default", func(t *testing.T) {
		src := stubSource(incomplete, sampleComments, sampleDemographics)
		u, _ := newTestUsecase(src, nil, Config{})

		state, err := u.Execute(context.Background(), "r1")

		require.NoError(t, err)
		assert.Equal(t, domain.StatusReady, state.Status)
		assert.Equal(t, []string{"consensus", "pca.comps"}, state.Validation.Missing)
	})

	t.Run("strict validation fails the load", func(t *testing.T) {
		src := stubSource(incomplete, sampleComments, sampleDemographics)
		u, _ := newTestUsecase(src, nil, Config{StrictValidation: true})

		state, err := u.Execute(context.Background(), "r1")

		assert.ErrorIs(t, err, domain.ErrInvalidStatisticalModel)
		assert.Equal(t, domain.StatusError, state.Status)
		assert.Contains(t, state.ErrorText, "consensus, pca.comps")
	})
}
