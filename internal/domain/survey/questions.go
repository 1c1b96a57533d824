package survey

// DefaultQuestions is the fixed reference questionnaire. Order is part of the
// contract: listings always return it as declared here.
func DefaultQuestions() []Question {
	return []Question{
		{
			ID:         "q-satisfaction",
			Text:       "How satisfied are you with your work overall?",
			Category:   CategorySatisfaction,
			AnswerType: AnswerScale,
		},
		{
			ID:         "q-engagement",
			Text:       "Do you feel engaged with the company's goals?",
			Category:   CategoryEngagement,
			AnswerType: AnswerScale,
		},
		{
			ID:         "q-leadership",
			Text:       "Does your direct manager provide regular, constructive feedback?",
			Category:   CategoryLeadership,
			AnswerType: AnswerScale,
		},
		{
			ID:         "q-environment",
			Text:       "How would you rate your day-to-day work environment?",
			Category:   CategoryEnvironment,
			AnswerType: AnswerScale,
		},
		{
			ID:         "q-growth-track",
			Text:       "Which development track matters most to you right now?",
			Category:   CategoryEngagement,
			AnswerType: AnswerMultipleChoice,
			Options:    []string{"Technical depth", "Leadership", "Communication", "Languages"},
		},
	}
}
