// Package fallback provides offline, keyword-matched replies used when Gemini
// cannot answer.
package fallback

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Rule maps a set of keywords to a canned reply
type Rule struct {
	Keywords []string
	Reply    string
}

// DefaultReply is returned when no rule matches
const DefaultReply = "Dank je voor je vraag! EcoNexus kan je helpen met duurzame strategieën, " +
	"klimaatdata en praktische tips. Geef gerust extra context zodat ik gerichte aanbevelingen kan doen."

// DefaultRules is the built-in rule table. Order matters: the first match wins.
var DefaultRules = []Rule{
	{
		Keywords: []string{"energie", "zonne", "wind"},
		Reply: "Voor een duurzame energiemix kun je starten met een energie-audit van je woning of kantoor. " +
			"Combineer zonnepanelen met slimme laadpalen en kies voor een dynamisch energiecontract dat groene stroom garandeert. " +
			"EcoNexus helpt je om investeringen te prioriteren en subsidieprogramma's te vinden.",
	},
	{
		Keywords: []string{"lifestyle", "eten", "voeding", "zero waste", "plastic"},
		Reply: "Kies voor seizoensgebonden voeding, verminder voedselverspilling en kies verpakkingsvrije winkels. " +
			"Stel een persoonlijk actieplan op met drie haalbare gewoontes per week en evalueer maandelijks je voortgang.",
	},
	{
		Keywords: []string{"bedrijf", "strategie", "rapportage", "scope"},
		Reply: "Voor organisaties raad ik aan om een CO₂-baseline te berekenen en doelstellingen te koppelen aan het Science Based Targets initiative. " +
			"Integreer scope 1, 2 én 3 emissies in je rapportages en gebruik de EcoNexus toolkit voor stakeholdercommunicatie.",
	},
	{
		Keywords: []string{"klimaat", "data", "statistiek", "impact"},
		Reply: "Recente IPCC-data tonen aan dat snelle decarbonisatie in de komende vijf jaar cruciaal is. " +
			"Focus op elektrificatie, circulariteit en natuurherstel. " +
			"EcoNexus kan grafieken genereren en scenario's modelleren voor je projecten.",
	},
	{
		Keywords: []string{"mobiliteit", "reizen", "transport"},
		Reply: "Stap over op gedeelde mobiliteit, stimuleer fietsgebruik met kilometervergoedingen en kies voor elektrische vlootplanning. " +
			"Gebruik realtime data om routes te optimaliseren en koppel resultaten aan je duurzaamheidsdoelen.",
	},
}

// Responder picks a canned reply for free text.
// It is immutable after construction and safe for concurrent use.
type Responder struct {
	rules        []Rule
	defaultReply string
}

// NewResponder creates a Responder from an ordered rule list.
// Keywords are lower-cased once here so matching only lower-cases the input.
func NewResponder(rules []Rule, defaultReply string) *Responder {
	normalized := make([]Rule, 0, len(rules))
	for _, r := range rules {
		keywords := make([]string, 0, len(r.Keywords))
		for _, k := range r.Keywords {
			if k = lower(k); k != "" {
				keywords = append(keywords, k)
			}
		}
		normalized = append(normalized, Rule{Keywords: keywords, Reply: r.Reply})
	}
	return &Responder{rules: normalized, defaultReply: defaultReply}
}

// Reply returns the reply of the first rule with a keyword contained in input,
// or the default reply.
func (r *Responder) Reply(input string) string {
	cleaned := lower(input)
	for _, rule := range r.rules {
		for _, k := range rule.Keywords {
			if strings.Contains(cleaned, k) {
				return rule.Reply
			}
		}
	}
	return r.defaultReply
}

var defaultResponder = NewResponder(DefaultRules, DefaultReply)

// Reply answers input with the built-in rule table
func Reply(input string) string {
	return defaultResponder.Reply(input)
}

// lower applies Dutch lower-casing. Casers are stateful, so one is built per call.
func lower(s string) string {
	return cases.Lower(language.Dutch).String(s)
}
