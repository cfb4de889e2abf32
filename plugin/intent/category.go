package intent

import "strings"

// SiteEntry maps a canonical website name to its URL. Entries live in a
// slice, not a map: membership lookups walk the table in declared order and
// the first hit wins, so declaration order is part of the contract.
type SiteEntry struct {
	Name string
	URL  string
}

// CategoryIndex distinguishes website names from desktop-application names.
// Membership is a bidirectional substring test: a name is a member if it
// equals a known key, contains a known key, or a known key contains it. The
// test is deliberately loose; short keys like "one" will match almost any
// argument containing them, and only declaration order disambiguates.
type CategoryIndex struct {
	sites   []SiteEntry
	webOnly []string
}

// NewCategoryIndex returns the index with the built-in site table.
func NewCategoryIndex() *CategoryIndex {
	return &CategoryIndex{sites: defaultSites, webOnly: defaultWebOnly}
}

// IsWebsite reports whether name should be treated as a website rather than
// a desktop application when a generic "open <name>" fires.
func (c *CategoryIndex) IsWebsite(name string) bool {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return false
	}
	for _, key := range c.webOnly {
		if n == key || strings.Contains(n, key) || strings.Contains(key, n) {
			return true
		}
	}
	return false
}

// ResolveURL maps a website name to a URL. Unknown names fall back to the
// original heuristics: keep explicit schemes, prefix bare domains with
// https://, and guess https://www.<name>.com for everything else.
func (c *CategoryIndex) ResolveURL(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, e := range c.sites {
		if e.Name == n {
			return e.URL
		}
	}
	for _, e := range c.sites {
		if strings.Contains(n, e.Name) || strings.Contains(e.Name, n) {
			return e.URL
		}
	}
	if strings.HasPrefix(n, "http://") || strings.HasPrefix(n, "https://") {
		return n
	}
	if strings.Contains(n, ".") {
		return "https://" + n
	}
	return "https://www." + n + ".com"
}

// defaultWebOnly lists names that open in the browser even when phrased as
// "open <name>" like a desktop app. Checked before dispatching open_app.
var defaultWebOnly = []string{
	"google", "youtube", "facebook", "instagram", "twitter", "x", "whatsapp", "whatsapp web",
	"telegram", "telegram web", "snapchat", "discord", "reddit", "linkedin", "pinterest", "tiktok",
	"gmail", "drive", "docs", "sheets", "slides", "meet", "classroom", "chatgpt", "gemini", "claude",
	"copilot", "perplexity", "bing", "github", "stackoverflow", "codepen", "replit", "netlify", "vercel",
	"amazon", "flipkart", "ebay", "netflix", "hotstar", "prime", "prime video", "spotify", "wikipedia",
	"outlook", "microsoft", "office", "onedrive", "notion", "canva", "figma", "trello", "gamma",
	"news", "bbc", "cnn", "ndtv", "zoom", "twitch", "maps", "google maps", "translate", "photos",
	"calendar", "scholar", "playstore", "play store", "presentation", "ai ppt",
	"college", "my college", "library", "college library", "scientific calculator", "desmos", "freefire",
	"one", "one news", "kannada news", "two", "two news", "engineering news", "three", "three news", "science news",
	"digital clock", "normal clock", "typing test", "daily water", "gym", "number guessing",
	"reminder", "butterfly", "rubiks cube", "stars", "flower", "birthday", "wolfram", "duckduckgo",
	"word online", "excel online", "powerpoint online",
}

var defaultSites = []SiteEntry{
	{"google", "https://google.com"},
	{"youtube", "https://youtube.com"},
	{"facebook", "https://facebook.com"},
	{"instagram", "https://www.instagram.com"},
	{"twitter", "https://twitter.com"},
	{"x", "https://x.com"},
	{"whatsapp", "https://wa.me/"},
	{"telegram", "https://web.telegram.org"},
	{"snapchat", "https://web.snapchat.com"},
	{"discord", "https://discord.com/app"},
	{"reddit", "https://reddit.com"},
	{"linkedin", "https://linkedin.com"},
	{"pinterest", "https://pinterest.com"},
	{"tiktok", "https://tiktok.com"},
	{"gmail", "https://mail.google.com"},
	{"drive", "https://drive.google.com"},
	{"docs", "https://docs.google.com"},
	{"sheets", "https://sheets.google.com"},
	{"slides", "https://slides.google.com"},
	{"meet", "https://meet.google.com"},
	{"maps", "https://maps.google.com"},
	{"google maps", "https://maps.google.com"},
	{"translate", "https://translate.google.co.in"},
	{"photos", "https://photos.google.com"},
	{"calendar", "https://calendar.google.com"},
	{"classroom", "https://classroom.google.com"},
	{"scholar", "https://scholar.google.com"},
	{"playstore", "https://play.google.com"},
	{"play store", "https://play.google.com"},
	{"chatgpt", "https://chat.openai.com"},
	{"claude", "https://claude.ai"},
	{"gemini", "https://gemini.google.com"},
	{"copilot", "https://copilot.microsoft.com"},
	{"perplexity", "https://perplexity.ai"},
	{"bing", "https://bing.com"},
	{"github", "https://github.com"},
	{"stackoverflow", "https://stackoverflow.com"},
	{"codepen", "https://codepen.io"},
	{"replit", "https://replit.com"},
	{"vercel", "https://vercel.com"},
	{"netlify", "https://netlify.com"},
	{"amazon", "https://amazon.com"},
	{"flipkart", "https://flipkart.com"},
	{"ebay", "https://ebay.com"},
	{"netflix", "https://netflix.com"},
	{"hotstar", "https://hotstar.com"},
	{"prime", "https://primevideo.com"},
	{"prime video", "https://primevideo.com"},
	{"spotify", "https://open.spotify.com"},
	{"wikipedia", "https://wikipedia.org"},
	{"outlook", "https://outlook.com"},
	{"microsoft", "https://m365.cloud.microsoft"},
	{"office", "https://www.microsoft365.com"},
	{"word online", "https://www.microsoft365.com/launch/word"},
	{"excel online", "https://www.microsoft365.com/launch/excel"},
	{"powerpoint online", "https://www.microsoft365.com/launch/powerpoint"},
	{"onedrive", "https://onedrive.live.com"},
	{"notion", "https://notion.so"},
	{"canva", "https://canva.com"},
	{"figma", "https://figma.com"},
	{"trello", "https://trello.com"},
	{"gamma", "https://gamma.app"},
	{"presentation", "https://gamma.app"},
	{"ai ppt", "https://gamma.app"},
	{"news", "https://news.google.com"},
	{"bbc", "https://bbc.com"},
	{"cnn", "https://cnn.com"},
	{"ndtv", "https://ndtv.com"},
	{"indian express", "https://indianexpress.com"},
	{"times of india", "https://timesofindia.indiatimes.com"},
	{"zoom", "https://zoom.us"},
	{"twitch", "https://twitch.tv"},
	{"digital clock", "https://digital-clock-mine24.netlify.app/"},
	{"normal clock", "https://normal-clock-mine24.netlify.app/"},
	{"typing test", "https://typing-testing-wesite69.netlify.app/"},
	{"daily water", "https://daily-water-calculater69.netlify.app/"},
	{"gym", "https://solo-leveling-gym69.netlify.app/"},
	{"number guessing", "https://number-guessing-game69.netlify.app/"},
	{"reminder", "https://reminder-app-website69.netlify.app/"},
	{"butterfly", "https://butterfly-flying-72683d.netlify.app/"},
	{"rubiks cube", "https://rubic-cube-7268.netlify.app/"},
	{"stars", "https://canvas-star-7268.netlify.app/"},
	{"flower", "https://moonlit-happy-birthday-32607a.netlify.app/"},
	{"birthday", "https://youre-specialday-madam.netlify.app/"},
	{"wolfram", "https://wolframalpha.com"},
	{"duckduckgo", "https://duckduckgo.com"},
	{"college", "https://sode-edu.in"},
	{"my college", "https://sode-edu.in"},
	{"library", "https://smvitm.easylib.net"},
	{"college library", "https://smvitm.easylib.net"},
	{"scientific calculator", "https://www.desmos.com/scientific"},
	{"desmos", "https://www.desmos.com/scientific"},
	{"freefire", "https://ff.garena.com"},
	{"one", "https://vijaykarnataka.com/?utm_source=1"},
	{"one news", "https://vijaykarnataka.com/?utm_source=1"},
	{"kannada news", "https://vijaykarnataka.com/?utm_source=1"},
	{"two", "https://www.engineeringnews.co.za/"},
	{"two news", "https://www.engineeringnews.co.za/"},
	{"engineering news", "https://www.engineeringnews.co.za/"},
	{"three", "https://www.sciencenews.org/"},
	{"three news", "https://www.sciencenews.org/"},
	{"science news", "https://www.sciencenews.org/"},
}
