// File path: internal/roster/questions.go
package roster

// Category is one of the five conflict-style buckets the survey instrument
// scores into.
type Category string

const (
	Collaborating Category = "Collaborating"
	Compromising  Category = "Compromising"
	Accommodating Category = "Accommodating"
	Competing     Category = "Competing"
	Avoiding      Category = "Avoiding"
)

// Categories lists the buckets in their reporting order.
var Categories = []Category{Collaborating, Compromising, Accommodating, Competing, Avoiding}

// scoreMap translates the four-point answer scale to numeric scores.
// Unrecognized answers score 0.
var scoreMap = map[string]int{
	"Rarely":    1,
	"Sometimes": 2,
	"Often":     3,
	"Always":    4,
}

// questionCategories maps each survey question column, by its exact header
// text, to the category it scores into. The question set is fixed by the
// instrument; headers must match verbatim.
var questionCategories = map[string]Category{
	"I discuss issues with others to try to find solutions that meet everyone's needs.":                                           Collaborating,
	"I try to negotiate and use a give-and-take approach to problem situations.":                                                  Compromising,
	"I try to meet the expectations of others.":                                                                                   Accommodating,
	"I would argue my case and insist on the advantages of my point of view.":                                                     Competing,
	"When there is a disagreement, I gather as much information as I can and keep the lines of communication open.":               Collaborating,
	"When I find myself in an argument, I usually say very little and try to leave as soon as possible.":                          Avoiding,
	"I try to see conflicts from both sides. What do I need? What does the other person need? What are the issues involved?":      Collaborating,
	"I prefer to compromise when solving problems and just move on.":                                                              Compromising,
	"I find conflicts exhilarating; I enjoy the battle of wits that usually follows.":                                             Competing,
	"Being in a disagreement with other people makes me feel uncomfortable and anxious.":                                          Avoiding,
	"I try to meet the wishes of my friends and family.":                                                                          Accommodating,
	"I can figure out what needs to be done and I am usually right.":                                                              Competing,
	"To break deadlocks, I would meet people halfway.":                                                                            Compromising,
	"I may not get what I want but its a small price to pay for keeping the peace.":                                               Accommodating,
	"I avoid hard feelings by keeping my disagreements with others to myself.":                                                    Avoiding,
}

// Score translates a single answer to its numeric value.
func Score(answer string) int {
	return scoreMap[answer]
}
