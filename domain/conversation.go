package domain

type Conversation struct {
	ConversationID   string `json:"conversation_id"`
	Topic            string `json:"topic"`
	Description      string `json:"description"`
	OwnerName        string `json:"ownername,omitempty"`
	ParticipantCount int    `json:"participant_count"`
	StrictModeration bool   `json:"strict_moderation"`
	IsActive         bool   `json:"is_active"`
	IsAnon           bool   `json:"is_anon"`
}

// ModerationThreshold is the mod_gt value comments are fetched with.
// Strictly moderated conversations only count accepted comments.
func (c Conversation) ModerationThreshold() int {
	if c.StrictModeration {
		return 0
	}
	return -1
}

// Participant is a participant of interest.
type Participant struct {
	Pid        int    `json:"pid"`
	Name       string `json:"name,omitempty"`
	ScreenName string `json:"screen_name,omitempty"`
	Picture    string `json:"picture,omitempty"`
}

// Demographic is the per-group demographic breakdown.
type Demographic struct {
	Gid            int `json:"gid"`
	Count          int `json:"count"`
	GenderMale     int `json:"gender_male"`
	GenderFemale   int `json:"gender_female"`
	GenderNull     int `json:"gender_null"`
	BirthYear      int `json:"birth_year"`
	BirthYearCount int `json:"birth_year_count"`
}
