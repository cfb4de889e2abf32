// Package intent resolves free-form utterances to discrete assistant actions.
//
// Resolution is a priority-ordered cascade of regex rules with exclusion
// guards, evaluated by a single generic loop. Rules are data, not branches:
// each pairs a trigger pattern with an optional veto pattern, a parameter
// extractor and an action identifier. The first rule that matches and is not
// vetoed wins; everything else is tried in declared order.
package intent

// ActionID identifies the discrete action an utterance resolves to.
type ActionID string

const (
	// Conversational actions answered locally, no parameters.
	ActionGreeting        ActionID = "greeting"
	ActionGoodMorning     ActionID = "good_morning"
	ActionGoodNight       ActionID = "good_night"
	ActionGoodDaypart     ActionID = "good_daypart"
	ActionIdentityCreator ActionID = "identity_creator"
	ActionIdentityQuery   ActionID = "identity_query"
	ActionCapabilities    ActionID = "capabilities"
	ActionReportTime      ActionID = "report_time"
	ActionReportDate      ActionID = "report_date"

	// Capture and system actions.
	ActionScreenshot     ActionID = "screenshot"
	ActionStartRecording ActionID = "start_recording"
	ActionStopRecording  ActionID = "stop_recording"
	ActionSystemInfo     ActionID = "system_info"
	ActionRunningApps    ActionID = "running_apps"

	// Power actions.
	ActionPowerShutdown ActionID = "power_shutdown"
	ActionPowerRestart  ActionID = "power_restart"
	ActionPowerSleep    ActionID = "power_sleep"
	ActionPowerLock     ActionID = "power_lock"

	// Open/search actions carrying parameters.
	ActionOpenApp         ActionID = "open_app"     // params: name
	ActionOpenWebsite     ActionID = "open_website" // params: name
	ActionPlayVideo       ActionID = "play_video"   // params: query
	ActionSearchWikipedia ActionID = "search_wikipedia"
	ActionSearchEdge      ActionID = "search_edge"
	ActionSearchChrome    ActionID = "search_chrome"
	ActionSearchChatGPT   ActionID = "search_chatgpt"
	ActionOpenClaude      ActionID = "open_claude"
	ActionSearchGoogle    ActionID = "search_google"
	ActionOpenLocation    ActionID = "open_location" // params: place
	ActionOpenWeather     ActionID = "open_weather"  // params: place (optional)
	ActionOpenCalculator  ActionID = "open_calculator"
	ActionGenerateImage   ActionID = "generate_image" // params: prompt

	// Conversation management and telephony shortcuts.
	ActionClearConversation ActionID = "clear_conversation"
	ActionOpenPhone         ActionID = "open_phone"
	ActionOpenSMS           ActionID = "open_sms"
	ActionOpenWhatsAppCall  ActionID = "open_whatsapp_call"
	ActionOpenCamera        ActionID = "open_camera"

	// Fallbacks produced when no rule fires, depending on the active mode.
	ActionChat         ActionID = "chat"          // params: message
	ActionNormalSearch ActionID = "normal_search" // params: query, engine
)

// MatchResult is the outcome of resolving a single utterance. It is produced
// fresh per utterance and never mutated after creation.
type MatchResult struct {
	Matched bool
	Action  ActionID
	Params  map[string]string
}

// Param returns the named parameter or the empty string.
func (r MatchResult) Param(key string) string {
	if r.Params == nil {
		return ""
	}
	return r.Params[key]
}
