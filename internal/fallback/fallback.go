package fallback

import "strings"

// rule maps a keyword group to its canned answer. Groups are checked in
// declaration order; the first match wins.
type rule struct {
	keywords []string
	answer   string
}

var rules = []rule{
	{
		keywords: []string{"service", "offer"},
		answer:   "Prodesk provides IT staffing, software development, and engineering services.",
	},
	{
		keywords: []string{"hello", "hi"},
		answer:   "Hello! I'm Prodesk AI Assistant. How can I help you?",
	},
	{
		keywords: []string{"contact", "email"},
		answer:   "You can contact Prodesk through our website. We respond within 24 hours.",
	},
}

const clarification = "Thank you for your question! Could you provide more details?"

// Respond returns a canned answer for the query. It is a pure function of
// its input and never fails: this is the availability floor of the whole
// system under total dependency outage.
func Respond(query string) string {
	q := strings.ToLower(query)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(q, kw) {
				return r.answer
			}
		}
	}
	return clarification
}
