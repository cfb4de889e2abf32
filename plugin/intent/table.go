package intent

import "regexp"

// DefaultRules is the ordered rule table. Order is load-bearing and fixed at
// construction: it is the sole tie-break between overlapping triggers. In
// particular the recording rules sit ahead of the generic open rule so that
// "start recording" never extracts "recording" as an application name, and
// the generic open rule sits ahead of the play/search family so that
// "open youtube" resolves as an open, not a search.
//
// Guard word lists are curated by hand and intentionally conservative; they
// trade occasional false negatives for rule independence. Do not reorder or
// "clean up" individual entries without replaying the full matcher test
// suite: near-miss phrases ("what's your bedtime", "update the date") depend
// on the exact sets below.
func DefaultRules() []Rule {
	return []Rule{
		{Action: ActionGreeting, Patterns: []*regexp.Regexp{re(`^(hey elsa|hello elsa|hi elsa|elsa)$`)}},
		{Action: ActionGoodMorning, Patterns: []*regexp.Regexp{re(`good\s*morning`)}},
		{Action: ActionGoodNight, Patterns: []*regexp.Regexp{re(`good\s*night`)}},
		{Action: ActionGoodDaypart, Patterns: []*regexp.Regexp{re(`good\s*(afternoon|evening)`)}, Extract: extractDaypart},

		{Action: ActionIdentityCreator, Patterns: []*regexp.Regexp{re(`who created you|who made you|your creator|who built you`)}},
		{Action: ActionIdentityQuery, Patterns: []*regexp.Regexp{re(`what is your name|your name|who are you|what are you`)}},
		{Action: ActionCapabilities, Patterns: []*regexp.Regexp{re(`what.*work|what can you do`)}},

		{
			Action:   ActionReportTime,
			Patterns: []*regexp.Regexp{re(`\btime\b`)},
			Guard:    re(`youtube|spotify|anytime|sometime|lifetime|bedtime|part.?time|full.?time`),
		},
		{
			Action:   ActionReportDate,
			Patterns: []*regexp.Regexp{re(`\bdate\b`)},
			Guard:    re(`update|candidate|mandate|graduate`),
		},

		{Action: ActionScreenshot, Patterns: []*regexp.Regexp{re(`screenshot|capture screen|take screen|snap screen`)}},
		{Action: ActionStartRecording, Patterns: []*regexp.Regexp{re(`start.*(record|recording)|record.*(screen|desktop)`)}},
		{Action: ActionStopRecording, Patterns: []*regexp.Regexp{re(`stop.*(record|recording)`)}},

		{Action: ActionSystemInfo, Patterns: []*regexp.Regexp{re(`system info|system status|cpu usage|memory usage|ram usage|computer info`)}},
		{Action: ActionRunningApps, Patterns: []*regexp.Regexp{re(`running apps|list apps|active apps|running processes|what.*running`)}},

		{Action: ActionPowerShutdown, Patterns: []*regexp.Regexp{re(`^shut\s*down|^shutdown|^turn off (the )?(pc|computer|laptop)`)}},
		{Action: ActionPowerRestart, Patterns: []*regexp.Regexp{re(`^restart|^reboot`)}},
		{Action: ActionPowerSleep, Patterns: []*regexp.Regexp{re(`^sleep|go to sleep|standby`)}},
		{Action: ActionPowerLock, Patterns: []*regexp.Regexp{re(`lock (screen|pc|computer)|^lock$`)}},

		// Generic open. The matcher re-routes the result to open_website when
		// the extracted name is in the web-only category.
		{Action: ActionOpenApp, Patterns: []*regexp.Regexp{re(`^(?:open|launch|start|run)\s+(.+)`)}, Extract: extractOpenTarget},

		// Video playback: alternative phrasings in fixed sub-order, first
		// match wins.
		{
			Action: ActionPlayVideo,
			Patterns: []*regexp.Regexp{
				re(`^play\s+(.+?)(?:\s+(?:on|in)\s+youtube)?$`),
				re(`^(?:search|find)\s+(.+?)\s+(?:on|in)\s+youtube`),
				re(`^youtube\s+(.+)`),
				re(`^(?:song|video|music)\s+(.+)`),
			},
			Extract: queryExtractor("query", 1),
		},
		{
			Action:   ActionPlayVideo,
			Patterns: []*regexp.Regexp{re(`\b(songs?|movies?|videos?)\b`)},
			Guard:    re(`search|wikipedia|google`),
			Extract:  wholeTextExtractor("query"),
		},

		{Action: ActionSearchWikipedia, Patterns: []*regexp.Regexp{re(`(?:search|open|look up|find)?\s*wikipedia\s+(?:for\s+)?(.+)`)}, Extract: queryExtractor("query", 1)},
		{Action: ActionSearchWikipedia, Patterns: []*regexp.Regexp{re(`\bwikipedia\b`)}, Extract: extractWikipediaRemainder},

		{Action: ActionSearchEdge, Patterns: []*regexp.Regexp{re(`(?:search|open|find)\s+(?:in\s+)?(?:edge|bing)\s+(?:for\s+)?(.+)`)}, Extract: queryExtractor("query", 1)},
		{Action: ActionSearchChrome, Patterns: []*regexp.Regexp{re(`(?:search|open|find)\s+(?:in\s+)?chrome\s+(?:for\s+)?(.+)`)}, Extract: queryExtractor("query", 1)},
		{Action: ActionSearchChatGPT, Patterns: []*regexp.Regexp{re(`(?:ask|search|open|find)\s+(?:in\s+)?(?:chatgpt|chat\s*gpt|gpt)\s+(?:about\s+)?(.+)`)}, Extract: queryExtractor("query", 1)},
		{Action: ActionOpenClaude, Patterns: []*regexp.Regexp{re(`\b(ask|open|search)\s+(claude|anthropic)\b`)}},

		{Action: ActionSearchGoogle, Patterns: []*regexp.Regexp{re(`(?:search|find|look up)\s+(?:google\s+)?(?:for\s+)?(.+)`)}, Extract: queryExtractor("query", 1)},
		{Action: ActionSearchGoogle, Patterns: []*regexp.Regexp{re(`^(what is|what are|who is|who are|where is|when is|how is|why is)\b`)}, Extract: wholeTextExtractor("query")},

		{Action: ActionOpenWebsite, Patterns: []*regexp.Regexp{re(`^(?:open|go to|visit|browse|navigate to)\s+(.+)`)}, Extract: extractSiteName},

		{Action: ActionOpenLocation, Patterns: []*regexp.Regexp{re(`(?:find\s+)?location\s+(?:of\s+)?(.+)`)}, Extract: queryExtractor("place", 1)},
		{Action: ActionOpenWeather, Patterns: []*regexp.Regexp{re(`weather`)}, Extract: extractWeatherPlace},
		{Action: ActionOpenCalculator, Patterns: []*regexp.Regexp{re(`calculator|calc\b`)}},

		{Action: ActionGenerateImage, Patterns: []*regexp.Regexp{re(`generate.*image|create.*image|draw\s+(.+)|make.*image`)}, Extract: extractImagePrompt},

		{Action: ActionClearConversation, Patterns: []*regexp.Regexp{re(`clear\s+(chat|history|screen|conversation)`)}},

		{Action: ActionOpenPhone, Patterns: []*regexp.Regexp{re(`open phone|phone dialer|make a call`)}},
		{Action: ActionOpenSMS, Patterns: []*regexp.Regexp{re(`open sms|send sms|open message\b`)}},
		{Action: ActionOpenWhatsAppCall, Patterns: []*regexp.Regexp{re(`whatsapp\s*call`)}},
		{Action: ActionOpenCamera, Patterns: []*regexp.Regexp{re(`open camera`)}},
	}
}
