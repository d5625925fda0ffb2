package ai

// QueryIntent captures the structured output from the AI model.
type QueryIntent struct {
	// Query is the chosen menu id, or empty when the question is off-menu.
	Query string `json:"query"`

	// Reply is one short sentence explaining the choice to the user.
	Reply string `json:"reply"`
}
