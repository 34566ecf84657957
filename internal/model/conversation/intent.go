package conversation

// IntentResult is the outcome of classifying one user message.
//
// ReplyMessage is a placeholder answer: when ActionCodes is non-empty the
// dispatcher's aggregated reply replaces it entirely.
type IntentResult struct {
	ReplyMessage    string `json:"replyMessage"`
	ActionCodes     []int  `json:"actionCodes,omitempty"`
	WaitForResponse bool   `json:"waitForResponse"`
	Context         string `json:"conversationContext,omitempty"`
}

// DispatchResult is one action's contribution to the merged turn reply.
// An empty Message means the action has no user-visible output.
type DispatchResult struct {
	Message         string
	WaitForResponse bool
	SideData        map[string]any
}

// Reply is the final outbound payload for one turn.
type Reply struct {
	Message         string         `json:"message"`
	WaitForResponse bool           `json:"wait_for_response"`
	Data            map[string]any `json:"data,omitempty"`
	Codes           []int          `json:"codes,omitempty"`
	Context         string         `json:"conversation_context,omitempty"`
}
