package domain

import (
	"errors"
	"slices"
)

// AssemblyInputs are the fetched artifacts a report view model is derived
// from. Correlation is nil when matrix analysis is disabled.
type AssemblyInputs struct {
	Report       Report
	Math         MathResult
	Conversation Conversation
	Comments     []Comment
	Participants []Participant
	Demographics []Demographic
	Correlation  *CorrelationMatrix
}

// ReportViewModel is everything the display layer needs to render a report.
type ReportViewModel struct {
	ReportID            string               `json:"reportId"`
	ConversationID      string               `json:"conversationId"`
	MathResult          MathResult           `json:"mathResult"`
	Consensus           *Consensus           `json:"consensus"`
	Extremity           map[int]float64      `json:"extremity"`
	Uncertainty         []int                `json:"uncertainty"`
	Comments            []ReportComment      `json:"comments"`
	Demographics        []Demographic        `json:"demographics"`
	Participants        []Participant        `json:"participants"`
	Conversation        Conversation         `json:"conversation"`
	PtptCount           int                  `json:"ptptCount"`
	PtptCountTotal      int                  `json:"ptptCountTotal"`
	Correlation         *FilteredCorrelation `json:"correlation"`
	GroupNames          map[int]string       `json:"groupNames"`
	RepfulTids          RepfulTids           `json:"repfulTids"`
	IdentifierFormatter IdentifierFormatter  `json:"identifierFormatter"`
	ComputedStats       ComputedStats        `json:"computedStats"`
	Validation          ValidationReport     `json:"validation"`
}

// Assemble derives the view model from already resolved inputs. It does
// not mutate its inputs, so the same inputs always produce the same model.
func Assemble(in AssemblyInputs) ReportViewModel {
	comments := slices.Clone(in.Comments)
	if comments == nil {
		comments = []Comment{}
	}

	vm := ReportViewModel{
		ReportID:            in.Report.ReportID,
		ConversationID:      in.Report.ConversationID,
		MathResult:          in.Math,
		Consensus:           in.Math.Consensus,
		Extremity:           in.Math.Extremity(),
		Uncertainty:         RankUncertainty(comments),
		Comments:            MergeComments(comments, in.Math),
		Demographics:        nonNil(slices.Clone(in.Demographics)),
		Participants:        nonNil(slices.Clone(in.Participants)),
		Conversation:        in.Conversation,
		PtptCount:           in.Math.ParticipantCount(),
		PtptCountTotal:      in.Conversation.ParticipantCount,
		GroupNames:          in.Report.GroupNames(),
		RepfulTids:          IndexRepness(in.Math.Repness),
		IdentifierFormatter: NewIdentifierFormatter(comments),
		ComputedStats:       ComputeStats(in.Math, comments, in.Conversation.ParticipantCount),
		Validation:          ValidateMathResult(in.Math),
	}
	if in.Correlation != nil {
		filtered := FilterCorrelationMatrix(*in.Correlation)
		vm.Correlation = &filtered
	}
	return vm
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

type ReportStatus string

const (
	StatusLoading       ReportStatus = "loading"
	StatusError         ReportStatus = "error"
	StatusNothingToShow ReportStatus = "nothing_to_show"
	StatusReady         ReportStatus = "ready"
)

type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ReportState is the object handed to report consumers. The embedded view
// model is only set when Status is StatusReady.
type ReportState struct {
	Status        ReportStatus `json:"status"`
	Loading       bool         `json:"loading"`
	Error         bool         `json:"error"`
	ErrorText     string       `json:"errorText,omitempty"`
	NothingToShow bool         `json:"nothingToShow"`
	Dimensions    *Dimensions  `json:"dimensions,omitempty"`
	*ReportViewModel
}

func LoadingState() ReportState {
	return ReportState{Status: StatusLoading, Loading: true}
}

// ErrorState turns a load failure into the error state. Needs-comment-
// selection failures get an actionable message instead of the diagnostic.
func ErrorState(err error) ReportState {
	text := err.Error()
	if errors.Is(err, ErrNeedsCommentSelection) {
		text = NeedsCommentSelectionMessage
	}
	return ReportState{Status: StatusError, Error: true, ErrorText: text}
}

func NothingToShowState() ReportState {
	return ReportState{Status: StatusNothingToShow, NothingToShow: true}
}

func ReadyState(vm ReportViewModel) ReportState {
	return ReportState{Status: StatusReady, ReportViewModel: &vm}
}

// WithDimensions returns a copy of the state carrying d.
func (s ReportState) WithDimensions(d *Dimensions) ReportState {
	s.Dimensions = d
	return s
}
