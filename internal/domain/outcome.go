package domain

type OutcomeKind string

const (
	OutcomeSpoken         OutcomeKind = "spoken"
	OutcomePlayedAsset    OutcomeKind = "played_asset"
	OutcomeRemoteResolved OutcomeKind = "remote_resolved"
	OutcomeShutdown       OutcomeKind = "shutdown"
	OutcomeNoop           OutcomeKind = "noop"
)

// Outcome describes the single action taken for one click resolution.
type Outcome struct {
	Kind  OutcomeKind
	Text  string // spoken/remote_resolved: the sentence that was voiced
	Asset string // played_asset/shutdown: the asset file that was played
}

// ActionTypeSay is the only next-action type the device understands.
const ActionTypeSay = "say"

// NextAction is the backend's answer to "what should the clock do next".
type NextAction struct {
	ActionType string `json:"action_type"`
	Text       string `json:"text"`
}
