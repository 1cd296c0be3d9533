package keywords

// Names of the built-in sets
const (
	SpamSet         = "spam"
	ProfessionalSet = "professional"
	PersonalSet     = "personal"
	MeetingSet      = "meeting"
)

// Default pattern lists in configuration form
var (
	SpamPhrases = []string{
		"free", "win", "prize", "lottery",
		"congratulations", "claim now", "click here",
		"unsubscribe", "offer", "discount",
		"save up to", "earn points", "grab your offer",
		"exclusive deal", "limited time", "shop now",
		"noreply@", "mailers", "survey", "recommendations@",
	}

	ProfessionalPhrases = []string{
		"meeting", "project", "deadline", "report",
		"proposal", "client", "team", "work",
		"office", "presentation", "conference",
		"business", "schedule", "agenda",
	}

	PersonalPhrases = []string{
		"family", "friend", "party", "birthday",
		"weekend", "dinner", "lunch", "coffee",
		"how are you", "miss you", "catch up",
	}

	MeetingPhrases = []string{
		"meeting", "schedule", "call", "appointment",
		"conference", "discussion", "catch up",
		"let's meet", "meet up", "zoom", "teams",
		"interview", "session", "join ... today|tomorrow",
		"webinar", "virtual meeting", "video call",
	}
)

// Built-in sets, constructed once and shared read-only
var (
	Spam         = FromPhrases(SpamSet, SpamPhrases)
	Professional = FromPhrases(ProfessionalSet, ProfessionalPhrases)
	Personal     = FromPhrases(PersonalSet, PersonalPhrases)
	Meeting      = FromPhrases(MeetingSet, MeetingPhrases)
)
