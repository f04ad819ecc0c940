package dialogue

import (
	"EllaBooking/internal/entity"
	"EllaBooking/pkg/pricing"
	"time"

	"github.com/go-playground/validator/v10"
)

// Reply is the single outbound message produced by a transition.
type Reply struct {
	Text         string
	QuickReplies []entity.QuickReply
	Attachment   *entity.Attachment
}

type Completion struct {
	Draft  entity.Draft
	Totals entity.Totals
}

type Outcome struct {
	State  entity.ConversationState
	Intent Intent
	Reply  Reply
	// Completed is set only when the user confirmed a booking on this turn.
	Completed *Completion
}

type Option func(*Machine)

func WithClock(now func() time.Time) Option {
	return func(m *Machine) {
		m.now = now
	}
}

// Machine maps (state, input) to the next state and a reply. It holds no
// per-session data and is safe for concurrent use by many sessions.
type Machine struct {
	now      func() time.Time
	validate *validator.Validate
}

func New(opts ...Option) *Machine {
	m := &Machine{
		now:      time.Now,
		validate: validator.New(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

type handler func(m *Machine, d entity.Draft, in Intent) (entity.Step, entity.Draft, Reply)

var handlers map[entity.Step]handler

func init() {
	handlers = map[entity.Step]handler{
		entity.StepIdle:                (*Machine).onIdle,
		entity.StepAccount:             (*Machine).onAccount,
		entity.StepLogin:               (*Machine).onLogin,
		entity.StepService:             (*Machine).onService,
		entity.StepPropertyType:        (*Machine).onPropertyType,
		entity.StepBedrooms:            (*Machine).onBedrooms,
		entity.StepBathrooms:           (*Machine).onBathrooms,
		entity.StepRooms:               (*Machine).onRooms,
		entity.StepRoomQuantities:      (*Machine).onRoomQuantities,
		entity.StepAddOns:              (*Machine).onAddOns,
		entity.StepDate:                (*Machine).onDate,
		entity.StepTime:                (*Machine).onTime,
		entity.StepFrequency:           (*Machine).onFrequency,
		entity.StepPets:                (*Machine).onPets,
		entity.StepPetSelection:        (*Machine).onPetSelection,
		entity.StepPetPresent:          (*Machine).onPetPresent,
		entity.StepSpecialInstructions: (*Machine).onSpecialInstructions,
		entity.StepPayment:             (*Machine).onPayment,
		entity.StepTip:                 (*Machine).onTip,
		entity.StepConfirm:             (*Machine).onConfirm,
	}
}

// Transition resolves one user turn. It never fails: unrecognized input
// yields a fallback or re-prompt reply and leaves the step unchanged.
func (m *Machine) Transition(state entity.ConversationState, raw string) Outcome {
	step := state.CurrentStep
	if !step.Valid() {
		step = entity.StepIdle
		state = entity.NewConversationState()
	}

	intent := Classify(step, raw)

	if step == entity.StepConfirm {
		return m.confirm(state, intent)
	}

	next, draft, reply := handlers[step](m, state.Draft, intent)

	return Outcome{
		State: entity.ConversationState{
			CurrentStep: next,
			Draft:       draft,
			UpdatedAt:   m.now(),
		},
		Intent: intent,
		Reply:  reply,
	}
}

func (m *Machine) confirm(state entity.ConversationState, intent Intent) Outcome {
	reset := entity.ConversationState{CurrentStep: entity.StepIdle, UpdatedAt: m.now()}

	switch intent.Kind {
	case IntentConfirm:
		draft := state.Draft.Clone()
		return Outcome{
			State:  reset,
			Intent: intent,
			Reply: Reply{
				Text:         confirmedText(draft),
				QuickReplies: topLevelReplies(),
			},
			Completed: &Completion{Draft: draft, Totals: pricing.ComputeTotal(draft)},
		}
	case IntentMakeChanges:
		return Outcome{
			State:  reset,
			Intent: intent,
			Reply: Reply{
				Text:         "No problem, I've cleared this booking so we can start fresh. What would you like to do?",
				QuickReplies: topLevelReplies(),
			},
		}
	}

	_, _, reply := m.onConfirm(state.Draft, intent)
	return Outcome{
		State:  entity.ConversationState{CurrentStep: entity.StepConfirm, Draft: state.Draft, UpdatedAt: m.now()},
		Intent: intent,
		Reply:  reply,
	}
}

// Greeting is the single assistant message that opens every transcript.
func Greeting() Reply {
	return Reply{
		Text:         "Hi there! I'm Ella, your cleaning assistant. I can book a cleaning for you or answer questions about our services. How can I help today?",
		QuickReplies: topLevelReplies(),
	}
}

// IsSecretInput reports whether the next input for state is a password and
// should be masked before it is shown in a transcript.
func IsSecretInput(state entity.ConversationState) bool {
	return state.CurrentStep == entity.StepLogin && nextLoginField(state.Draft) == fieldPassword
}

// Prompt returns the reply that asks for the input expected at state.
func Prompt(state entity.ConversationState) Reply {
	if state.CurrentStep == entity.StepIdle {
		return Greeting()
	}
	return promptFor(state.CurrentStep, state.Draft)
}
