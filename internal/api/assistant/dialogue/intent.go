package dialogue

import (
	"EllaBooking/internal/entity"
	"EllaBooking/pkg/nlp"
	"strings"
)

type IntentKind int

const (
	IntentUnknown IntentKind = iota
	IntentBook
	IntentPricing
	IntentAvailability
	IntentCancellationPolicy
	IntentHours
	IntentProducts
	IntentQuestion
	IntentLogin
	IntentCreateAccount
	IntentGuest
	IntentService
	IntentNumber
	IntentOption
	IntentDone
	IntentDate
	IntentSpecificDate
	IntentTime
	IntentFrequency
	IntentYes
	IntentNo
	IntentTip
	IntentNoTip
	IntentConfirm
	IntentMakeChanges
	IntentFreeText
)

var intentNames = map[IntentKind]string{
	IntentUnknown:            "unknown",
	IntentBook:               "book",
	IntentPricing:            "pricing",
	IntentAvailability:       "availability",
	IntentCancellationPolicy: "cancellation_policy",
	IntentHours:              "hours",
	IntentProducts:           "products",
	IntentQuestion:           "question",
	IntentLogin:              "login",
	IntentCreateAccount:      "create_account",
	IntentGuest:              "guest",
	IntentService:            "service",
	IntentNumber:             "number",
	IntentOption:             "option",
	IntentDone:               "done",
	IntentDate:               "date",
	IntentSpecificDate:       "specific_date",
	IntentTime:               "time",
	IntentFrequency:          "frequency",
	IntentYes:                "yes",
	IntentNo:                 "no",
	IntentTip:                "tip",
	IntentNoTip:              "no_tip",
	IntentConfirm:            "confirm",
	IntentMakeChanges:        "make_changes",
	IntentFreeText:           "free_text",
}

func (k IntentKind) String() string {
	if name, ok := intentNames[k]; ok {
		return name
	}
	return "unknown"
}

// Intent is the classified meaning of one user input at a given step.
// Value carries a canonical label (service name, room, pet, date text...),
// Number a parsed quantity or tip rate.
type Intent struct {
	Kind   IntentKind
	Value  string
	Number float64
}

// rule inspects normalized text and the raw input.
type rule func(text, raw string) (Intent, bool)

func keywords(kind IntentKind, value string, words ...string) rule {
	return func(text, _ string) (Intent, bool) {
		if _, ok := nlp.ContainsAny(text, words...); ok {
			return Intent{Kind: kind, Value: value}, true
		}
		return Intent{}, false
	}
}

func options(kind IntentKind, opts []option) []rule {
	rules := make([]rule, 0, len(opts))
	for _, o := range opts {
		rules = append(rules, keywords(kind, o.Name, o.Keywords...))
	}
	return rules
}

func integer() rule {
	return func(text, _ string) (Intent, bool) {
		v, ok := nlp.LeadingInt(text)
		if !ok {
			return Intent{}, false
		}
		return Intent{Kind: IntentNumber, Number: float64(v)}, true
	}
}

// fixedNumber maps a word such as "studio" to a count.
func fixedNumber(n float64, words ...string) rule {
	return func(text, _ string) (Intent, bool) {
		if _, ok := nlp.ContainsAny(text, words...); ok {
			return Intent{Kind: IntentNumber, Number: n}, true
		}
		return Intent{}, false
	}
}

func decimal() rule {
	return func(text, _ string) (Intent, bool) {
		v, ok := nlp.LeadingFloat(text)
		if !ok {
			return Intent{}, false
		}
		return Intent{Kind: IntentNumber, Number: v}, true
	}
}

func tipPreset(pct string, rate float64) rule {
	return func(text, _ string) (Intent, bool) {
		if strings.Contains(text, pct) {
			return Intent{Kind: IntentTip, Number: rate}, true
		}
		return Intent{}, false
	}
}

func freeText(capitalize bool) rule {
	return func(_, raw string) (Intent, bool) {
		value := strings.TrimSpace(raw)
		if value == "" {
			return Intent{}, false
		}
		if capitalize {
			value = nlp.Capitalize(value)
		}
		return Intent{Kind: IntentFreeText, Value: value}, true
	}
}

func always(kind IntentKind) rule {
	return func(string, string) (Intent, bool) {
		return Intent{Kind: kind}, true
	}
}

var (
	yesWords = []string{"yes", "yeah", "yep", "sure"}
	noWords  = []string{"no", "nope"}
)

func serviceRules() []rule {
	rules := make([]rule, 0, len(Services))
	for _, s := range Services {
		rules = append(rules, keywords(IntentService, s.Name, s.Keywords...))
	}
	return rules
}

func addOnRules() []rule {
	rules := make([]rule, 0, len(AddOns))
	for _, a := range AddOns {
		rules = append(rules, keywords(IntentOption, a.Name, a.Keywords...))
	}
	return rules
}

func concat(groups ...[]rule) []rule {
	var out []rule
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// stepRules is the ordered rule list per step. The first matching rule wins,
// so declaration order is the ambiguity policy.
var stepRules = map[entity.Step][]rule{
	entity.StepIdle: {
		keywords(IntentBook, "", "book", "schedule", "appointment"),
		keywords(IntentPricing, "", "price", "pricing", "cost", "how much"),
		keywords(IntentAvailability, "", "availab", "slot"),
		keywords(IntentCancellationPolicy, "", "cancel"),
		keywords(IntentHours, "", "hour", "open"),
		keywords(IntentProducts, "", "product", "supplies", "eco", "chemical"),
		keywords(IntentQuestion, "", "question", "help", "ask"),
	},
	entity.StepAccount: {
		keywords(IntentLogin, "", "log in", "login", "sign in", "signin"),
		keywords(IntentCreateAccount, "", "create", "sign up", "signup", "register", "new account"),
		keywords(IntentGuest, "", "guest", "skip", "without"),
	},
	entity.StepLogin:          {freeText(false)},
	entity.StepService:        serviceRules(),
	entity.StepPropertyType:   {freeText(true)},
	entity.StepBedrooms:       {integer(), fixedNumber(0, "studio")},
	entity.StepBathrooms:      {decimal()},
	entity.StepRooms:          concat([]rule{keywords(IntentDone, "", "done", "finish")}, options(IntentOption, roomOptions), []rule{freeText(true)}),
	entity.StepRoomQuantities: {integer()},
	entity.StepAddOns:         concat([]rule{keywords(IntentDone, "", "done", "no addon", "no add-on", "none", "skip")}, addOnRules()),
	entity.StepDate: {
		keywords(IntentDate, "tomorrow", "tomorrow"),
		keywords(IntentDate, "weekend", "weekend"),
		keywords(IntentDate, "next week", "next week"),
		keywords(IntentSpecificDate, "", "specific", "pick a date", "other date"),
		freeText(false),
	},
	entity.StepTime:                concat(options(IntentTime, timeSlots), []rule{freeText(false)}),
	entity.StepFrequency:           options(IntentFrequency, frequencies),
	entity.StepPets:                {keywords(IntentYes, "", yesWords...), keywords(IntentNo, "", noWords...)},
	entity.StepPetSelection:        concat([]rule{keywords(IntentDone, "", "done", "finish")}, options(IntentOption, petOptions), []rule{freeText(true)}),
	entity.StepPetPresent:          {keywords(IntentYes, "", yesWords...), keywords(IntentNo, "", noWords...)},
	entity.StepSpecialInstructions: {keywords(IntentNo, "", "no"), freeText(false)},
	entity.StepPayment:             concat(options(IntentOption, paymentOptions), []rule{freeText(false)}),
	entity.StepTip: {
		keywords(IntentNoTip, "", "no", "none", "skip"),
		tipPreset("10", 0.10),
		tipPreset("15", 0.15),
		tipPreset("20", 0.20),
	},
	entity.StepConfirm: {
		keywords(IntentConfirm, "", "confirm"),
		always(IntentMakeChanges),
	},
}

// Classify resolves raw input against the ordered rules of step.
func Classify(step entity.Step, raw string) Intent {
	text := nlp.Normalize(raw)
	if text == "" {
		return Intent{Kind: IntentUnknown}
	}
	for _, r := range stepRules[step] {
		if intent, ok := r(text, raw); ok {
			return intent
		}
	}
	return Intent{Kind: IntentUnknown}
}
