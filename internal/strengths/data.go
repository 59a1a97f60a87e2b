// File path: internal/strengths/data.go
package strengths

// Definition holds the three usage descriptions shown alongside a character
// strength in the workbook's sweet-spot table.
type Definition struct {
	Underuse string
	Optimal  string
	Overuse  string
}

// definitions keys are the Title-Cased strength names as they appear in the
// survey reports.
var definitions = map[string]Definition{
	"Spirituality": {
		Underuse: "lack of purpose; disconnected from sacred",
		Optimal:  "finding purpose; pursuing life meaning/connecting with sacred",
		Overuse:  "fanatical; preachy; rigid values",
	},
	"Gratitude": {
		Underuse: "entitled; unappreciative",
		Optimal:  "attitude of thankfulness",
		Overuse:  "ingratiation; profuse; repetitive",
	},
	"Hope": {
		Underuse: "negative; pessimistic; despair",
		Optimal:  "positive expectations; optimistic",
		Overuse:  "blind optimism, unrealistic",
	},
	"Humor": {
		Underuse: "overly serious",
		Optimal:  "offering laughter to others; playful",
		Overuse:  "giddy; tasteless/offensive",
	},
	"Kindness": {
		Underuse: "indifferent; selfish; mean",
		Optimal:  "compassionate; doing for others",
		Overuse:  "intrusive; compassion-fatigue",
	},
	"Love": {
		Underuse: "afraid to care; not relating",
		Optimal:  "genuine, reciprocal warmth",
		Overuse:  "sugary sweet; touchy-feely",
	},
	"Bravery": {
		Underuse: "cowardly; unwilling to be vulnerable",
		Optimal:  "facing fears, confronting adversity",
		Overuse:  "foolish, overconfident",
	},
	"Curiosity": {
		Underuse: "uninterested; self-involved",
		Optimal:  "explorer; novelty-seeker; open",
		Overuse:  "nosy; self-serving",
	},
	"Love Of Learning": {
		Underuse: "complacent with knowledge",
		Optimal:  "information-seeking",
		Overuse:  "know-it-all",
	},
	"Perspective": {
		Underuse: "shallow; superficial",
		Optimal:  "sees/offers the wider view; wise",
		Overuse:  "overbearing; arrogant",
	},
	"Creativity": {
		Underuse: "plain/dull; unimaginative",
		Optimal:  "original; clever; imaginative",
		Overuse:  "eccentric; odd; scattered",
	},
	"Judgment": {
		Underuse: "illogical; unreflective; closed-minded",
		Optimal:  "analytical; rational; open-minded; logical",
		Overuse:  "narrow-minded; rigid; indecisive",
	},
	"Zest": {
		Underuse: "sedentary; passive; tired",
		Optimal:  "enthusiasm for life; happy; active",
		Overuse:  "hyper; overactive; annoying",
	},
	"Perseverance": {
		Underuse: "lazy; helpless; giving up",
		Optimal:  "persistent; overcomes all obstacles",
		Overuse:  "obsessive; stubborn",
	},
	"Honesty": {
		Underuse: "phony; dishonest; inauthentic",
		Optimal:  "authentic; truth sharer and seeker",
		Overuse:  "self-righteous; rude",
	},
	"Leadership": {
		Underuse: "compliant; follower; passive",
		Optimal:  "positively influencing others",
		Overuse:  "bossy; controlling; authoritarian",
	},
	"Teamwork": {
		Underuse: "self-serving; individualistic",
		Optimal:  "collaborative; loyal; socially responsible;",
		Overuse:  "dependent; blind obedience; loss of individuality",
	},
	"Fairness": {
		Underuse: "bias; partial treatment",
		Optimal:  "equitable decisions; impartial justice",
		Overuse:  "indecisive on justice issues",
	},
	"Forgiveness": {
		Underuse: "merciless; vengeful",
		Optimal:  "letting go of hurt when wronged",
		Overuse:  "permissive; too lenient or soft",
	},
	"Humility": {
		Underuse: "arrogant; self-focused",
		Optimal:  "others-focused; modest",
		Overuse:  "limited self-image; subservient",
	},
	"Prudence": {
		Underuse: "reckless; acting before thinking",
		Optimal:  "wisely cautious; planful",
		Overuse:  "stuffy; rigid",
	},
	"Self-Regulation": {
		Underuse: "self-indulgent; undisciplined",
		Optimal:  "self-manager of vices",
		Overuse:  "inhibited; tightly wound",
	},
	"Appreciation Of Beauty & Excellence": {
		Underuse: "oblivious; mindlessness",
		Optimal:  "seeing the life behind things; awe/wonder in presence of beauty",
		Overuse:  "snobbery or perfectionistic; unrelenting standards",
	},
	"Social Intelligence": {
		Underuse: "clueless; insensitive",
		Optimal:  "empathic; tuned in, then savvy",
		Overuse:  "over-analytical; overly sensitive",
	},
}

// Lookup returns the definition for a Title-Cased strength name.
func Lookup(name string) (Definition, bool) {
	def, ok := definitions[name]
	return def, ok
}
