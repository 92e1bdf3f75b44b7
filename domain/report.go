package domain

import "strings"

// MaxLabeledGroups is the number of label_group_N slots a report carries.
const MaxLabeledGroups = 10

type Report struct {
	ReportID       string `json:"report_id"`
	ConversationID string `json:"conversation_id"`
	ReportName     string `json:"report_name,omitempty"`
	LabelGroup0    string `json:"label_group_0,omitempty"`
	LabelGroup1    string `json:"label_group_1,omitempty"`
	LabelGroup2    string `json:"label_group_2,omitempty"`
	LabelGroup3    string `json:"label_group_3,omitempty"`
	LabelGroup4    string `json:"label_group_4,omitempty"`
	LabelGroup5    string `json:"label_group_5,omitempty"`
	LabelGroup6    string `json:"label_group_6,omitempty"`
	LabelGroup7    string `json:"label_group_7,omitempty"`
	LabelGroup8    string `json:"label_group_8,omitempty"`
	LabelGroup9    string `json:"label_group_9,omitempty"`
}

func (r Report) labels() [MaxLabeledGroups]string {
	return [MaxLabeledGroups]string{
		r.LabelGroup0, r.LabelGroup1, r.LabelGroup2, r.LabelGroup3, r.LabelGroup4,
		r.LabelGroup5, r.LabelGroup6, r.LabelGroup7, r.LabelGroup8, r.LabelGroup9,
	}
}

// GroupNames maps gid to display label. Only gids 0-9 with a non-blank
// label get an entry.
func (r Report) GroupNames() map[int]string {
	names := make(map[int]string)
	for gid, label := range r.labels() {
		if strings.TrimSpace(label) == "" {
			continue
		}
		names[gid] = label
	}
	return names
}
