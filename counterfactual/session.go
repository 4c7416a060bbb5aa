package counterfactual

// Question is one prior question/answer pair from a recording session.
type Question struct {
	StepNumber    int    `json:"stepNumber"`
	Question      string `json:"question"`
	Transcription string `json:"transcription"`
	RecordingID   string `json:"recordingId,omitempty"`
}

// WeeklyPlan holds the free-text weekly planning fields a user filled in.
type WeeklyPlan struct {
	IdealWeek      string `json:"idealWeek"`
	Obstacles      string `json:"obstacles"`
	PreventActions string `json:"preventActions"`
	ActionDetails  string `json:"actionDetails"`
	IfThenPlans    string `json:"ifThenPlans"`
	WeekStartDate  string `json:"weekStartDate,omitempty"`
	WeekEndDate    string `json:"weekEndDate,omitempty"`
}

// SessionContext is the optional request metadata carried by the online
// service. It only ever feeds prompt construction; nothing here is persisted.
type SessionContext struct {
	SessionID             string      `json:"sessionId,omitempty"`
	UserID                string      `json:"userId,omitempty"`
	Timestamp             string      `json:"timestamp,omitempty"`
	SelectedQuestionIndex *int        `json:"selectedQuestionIndex,omitempty"`
	Questions             []Question  `json:"questions,omitempty"`
	WeeklyPlan            *WeeklyPlan `json:"weeklyPlan,omitempty"`
}

// Complete reports whether the context carries everything the enriched
// prompt needs: prior questions, a weekly plan, and a selected question
// index inside range.
func (c *SessionContext) Complete() bool {
	if c == nil || len(c.Questions) == 0 || c.WeeklyPlan == nil || c.SelectedQuestionIndex == nil {
		return false
	}
	i := *c.SelectedQuestionIndex
	return i >= 0 && i < len(c.Questions)
}

// Selected returns the focused question. Callers must check Complete first.
func (c *SessionContext) Selected() Question {
	return c.Questions[*c.SelectedQuestionIndex]
}
