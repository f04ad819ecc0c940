package dialogue

import (
	"EllaBooking/internal/entity"
	"EllaBooking/pkg/pricing"
	"fmt"
	"strings"
)

const notUnderstood = "Sorry, I didn't quite catch that."

func (m *Machine) onIdle(d entity.Draft, in Intent) (entity.Step, entity.Draft, Reply) {
	switch in.Kind {
	case IntentBook:
		return entity.StepAccount, entity.Draft{}, promptFor(entity.StepAccount, entity.Draft{})
	case IntentPricing:
		return entity.StepIdle, d, Reply{Text: pricingText(), QuickReplies: topLevelReplies()}
	case IntentAvailability:
		return entity.StepIdle, d, Reply{
			Text:         "We have openings most days of the week, including weekends. Morning (9:00 AM), afternoon (1:00 PM) and evening (5:00 PM) arrivals are available. Want me to book one for you?",
			QuickReplies: topLevelReplies(),
		}
	case IntentCancellationPolicy:
		return entity.StepIdle, d, Reply{
			Text:         "You can cancel or reschedule for free up to 24 hours before your appointment. Cancellations inside 24 hours are charged 50% of the service price.",
			QuickReplies: topLevelReplies(),
		}
	case IntentHours:
		return entity.StepIdle, d, Reply{
			Text:         "Our cleaners work Monday to Saturday, 8:00 AM to 7:00 PM. The chat is open around the clock.",
			QuickReplies: topLevelReplies(),
		}
	case IntentProducts:
		return entity.StepIdle, d, Reply{
			Text:         "We bring all supplies and equipment. Our products are eco-friendly, non-toxic and safe for kids and pets. Just let us know if you'd like us to use your own.",
			QuickReplies: topLevelReplies(),
		}
	case IntentQuestion:
		return entity.StepIdle, d, Reply{
			Text:         "Happy to help! You can ask me about pricing, availability, our cancellation policy, business hours or the products we use.",
			QuickReplies: topLevelReplies(),
		}
	}

	return entity.StepIdle, d, Reply{
		Text:         notUnderstood + " Here are some things I can help with:",
		QuickReplies: topLevelReplies(),
	}
}

func (m *Machine) onAccount(d entity.Draft, in Intent) (entity.Step, entity.Draft, Reply) {
	switch in.Kind {
	case IntentLogin:
		d = withAccountType(d, entity.AccountLogin)
		return entity.StepLogin, d, promptFor(entity.StepLogin, d)
	case IntentCreateAccount:
		d = withAccountType(d, entity.AccountCreate)
		return entity.StepLogin, d, promptFor(entity.StepLogin, d)
	case IntentGuest:
		d = withAccountType(d, entity.AccountGuest)
		reply := promptFor(entity.StepService, d)
		reply.Text = "No problem, let's continue as a guest. " + reply.Text
		return entity.StepService, d, reply
	}
	return reprompt(entity.StepAccount, d)
}

func (m *Machine) onLogin(d entity.Draft, in Intent) (entity.Step, entity.Draft, Reply) {
	if in.Kind != IntentFreeText {
		return reprompt(entity.StepLogin, d)
	}

	field := nextLoginField(d)
	if field == fieldEmail {
		if err := m.validate.Var(in.Value, "required,email"); err != nil {
			reply := promptFor(entity.StepLogin, d)
			reply.Text = "That doesn't look like a valid email address. " + reply.Text
			return entity.StepLogin, d, reply
		}
	}
	d = withCredential(d, field, in.Value)

	if nextLoginField(d) != fieldNone {
		return entity.StepLogin, d, promptFor(entity.StepLogin, d)
	}

	reply := promptFor(entity.StepService, d)
	if d.AccountType == entity.AccountCreate {
		reply.Text = fmt.Sprintf("Your account is all set, %s! %s", firstName(d.Name), reply.Text)
	} else {
		reply.Text = "Thanks, you're logged in! " + reply.Text
	}
	return entity.StepService, d, reply
}

func (m *Machine) onService(d entity.Draft, in Intent) (entity.Step, entity.Draft, Reply) {
	if in.Kind != IntentService {
		return reprompt(entity.StepService, d)
	}

	svc, ok := serviceByName(in.Value)
	if !ok {
		return reprompt(entity.StepService, d)
	}
	d = withService(d, svc)

	reply := promptFor(entity.StepPropertyType, d)
	reply.Text = fmt.Sprintf("Great choice! %s is $%.0f. %s", svc.Name, svc.Price, reply.Text)
	reply.Attachment = &entity.Attachment{
		Kind: entity.AttachmentServiceCard,
		Service: &entity.ServiceCard{
			Name:        svc.Name,
			Price:       svc.Price,
			Description: svc.Description,
		},
	}
	return entity.StepPropertyType, d, reply
}

func (m *Machine) onPropertyType(d entity.Draft, in Intent) (entity.Step, entity.Draft, Reply) {
	if in.Kind != IntentFreeText {
		return reprompt(entity.StepPropertyType, d)
	}
	d = withPropertyType(d, in.Value)
	return entity.StepBedrooms, d, promptFor(entity.StepBedrooms, d)
}

func (m *Machine) onBedrooms(d entity.Draft, in Intent) (entity.Step, entity.Draft, Reply) {
	if in.Kind != IntentNumber {
		return reprompt(entity.StepBedrooms, d)
	}
	d = withBedrooms(d, int(in.Number))
	return entity.StepBathrooms, d, promptFor(entity.StepBathrooms, d)
}

func (m *Machine) onBathrooms(d entity.Draft, in Intent) (entity.Step, entity.Draft, Reply) {
	if in.Kind != IntentNumber {
		return reprompt(entity.StepBathrooms, d)
	}
	d = withBathrooms(d, in.Number)
	return entity.StepRooms, d, promptFor(entity.StepRooms, d)
}

func (m *Machine) onRooms(d entity.Draft, in Intent) (entity.Step, entity.Draft, Reply) {
	switch in.Kind {
	case IntentDone:
		if len(pendingRoomQuantities(d)) > 0 {
			return entity.StepRoomQuantities, d, promptFor(entity.StepRoomQuantities, d)
		}
		return entity.StepAddOns, d, promptFor(entity.StepAddOns, d)
	case IntentOption, IntentFreeText:
		d = withRoom(d, in.Value)
		reply := promptFor(entity.StepRooms, d)
		reply.Text = fmt.Sprintf("Added %s. Rooms so far: %s. Anything else?", in.Value, strings.Join(d.Rooms, ", "))
		return entity.StepRooms, d, reply
	}
	return reprompt(entity.StepRooms, d)
}

func (m *Machine) onRoomQuantities(d entity.Draft, in Intent) (entity.Step, entity.Draft, Reply) {
	pending := pendingRoomQuantities(d)
	if len(pending) == 0 {
		return entity.StepAddOns, d, promptFor(entity.StepAddOns, d)
	}
	if in.Kind != IntentNumber {
		return reprompt(entity.StepRoomQuantities, d)
	}

	d = withRoomQuantity(d, pending[0], int(in.Number))
	if len(pendingRoomQuantities(d)) > 0 {
		return entity.StepRoomQuantities, d, promptFor(entity.StepRoomQuantities, d)
	}
	return entity.StepAddOns, d, promptFor(entity.StepAddOns, d)
}

func (m *Machine) onAddOns(d entity.Draft, in Intent) (entity.Step, entity.Draft, Reply) {
	switch in.Kind {
	case IntentDone:
		return entity.StepDate, d, promptFor(entity.StepDate, d)
	case IntentOption:
		addOn, ok := addOnByName(in.Value)
		if !ok {
			break
		}
		d = withAddOn(d, addOn)
		reply := promptFor(entity.StepAddOns, d)
		reply.Text = fmt.Sprintf("Added %s (+$%.0f). Would you like any other add-ons?", addOn.Name, addOn.Price)
		return entity.StepAddOns, d, reply
	}
	return reprompt(entity.StepAddOns, d)
}

func (m *Machine) onDate(d entity.Draft, in Intent) (entity.Step, entity.Draft, Reply) {
	switch in.Kind {
	case IntentDate:
		d = withDate(d, resolveDate(m.now(), in.Value))
	case IntentFreeText:
		d = withDate(d, in.Value)
	case IntentSpecificDate:
		return entity.StepDate, d, Reply{Text: "Sure! Please type the date you'd like, for example \"March 14\"."}
	default:
		return reprompt(entity.StepDate, d)
	}
	return entity.StepTime, d, promptFor(entity.StepTime, d)
}

func (m *Machine) onTime(d entity.Draft, in Intent) (entity.Step, entity.Draft, Reply) {
	switch in.Kind {
	case IntentTime, IntentFreeText:
		d = withTime(d, in.Value)
		return entity.StepFrequency, d, promptFor(entity.StepFrequency, d)
	}
	return reprompt(entity.StepTime, d)
}

func (m *Machine) onFrequency(d entity.Draft, in Intent) (entity.Step, entity.Draft, Reply) {
	if in.Kind != IntentFrequency {
		return reprompt(entity.StepFrequency, d)
	}
	d = withFrequency(d, in.Value)
	return entity.StepPets, d, promptFor(entity.StepPets, d)
}

func (m *Machine) onPets(d entity.Draft, in Intent) (entity.Step, entity.Draft, Reply) {
	switch in.Kind {
	case IntentYes:
		d = withHasPet(d, true)
		return entity.StepPetSelection, d, promptFor(entity.StepPetSelection, d)
	case IntentNo:
		d = withHasPet(d, false)
		return entity.StepSpecialInstructions, d, promptFor(entity.StepSpecialInstructions, d)
	}
	return reprompt(entity.StepPets, d)
}

func (m *Machine) onPetSelection(d entity.Draft, in Intent) (entity.Step, entity.Draft, Reply) {
	switch in.Kind {
	case IntentDone:
		return entity.StepPetPresent, d, promptFor(entity.StepPetPresent, d)
	case IntentOption, IntentFreeText:
		d = withPet(d, in.Value)
		reply := promptFor(entity.StepPetSelection, d)
		reply.Text = fmt.Sprintf("Got it: %s. Any other pets?", strings.Join(d.SelectedPets, ", "))
		return entity.StepPetSelection, d, reply
	}
	return reprompt(entity.StepPetSelection, d)
}

func (m *Machine) onPetPresent(d entity.Draft, in Intent) (entity.Step, entity.Draft, Reply) {
	switch in.Kind {
	case IntentYes:
		d = withPetPresent(d, true)
	case IntentNo:
		d = withPetPresent(d, false)
	default:
		return reprompt(entity.StepPetPresent, d)
	}
	return entity.StepSpecialInstructions, d, promptFor(entity.StepSpecialInstructions, d)
}

func (m *Machine) onSpecialInstructions(d entity.Draft, in Intent) (entity.Step, entity.Draft, Reply) {
	switch in.Kind {
	case IntentNo:
		d = withSpecialInstructions(d, "")
	case IntentFreeText:
		d = withSpecialInstructions(d, in.Value)
	default:
		return reprompt(entity.StepSpecialInstructions, d)
	}
	return entity.StepPayment, d, promptFor(entity.StepPayment, d)
}

func (m *Machine) onPayment(d entity.Draft, in Intent) (entity.Step, entity.Draft, Reply) {
	switch in.Kind {
	case IntentOption, IntentFreeText:
		d = withPaymentMethod(d, in.Value)
		return entity.StepTip, d, promptFor(entity.StepTip, d)
	}
	return reprompt(entity.StepPayment, d)
}

func (m *Machine) onTip(d entity.Draft, in Intent) (entity.Step, entity.Draft, Reply) {
	switch in.Kind {
	case IntentNoTip:
		d = withTip(d, 0)
	case IntentTip:
		d = withTip(d, pricing.TipFor(d.ServicePrice, in.Number))
	default:
		return reprompt(entity.StepTip, d)
	}
	return entity.StepConfirm, d, promptFor(entity.StepConfirm, d)
}

func (m *Machine) onConfirm(d entity.Draft, _ Intent) (entity.Step, entity.Draft, Reply) {
	return reprompt(entity.StepConfirm, d)
}

func reprompt(step entity.Step, d entity.Draft) (entity.Step, entity.Draft, Reply) {
	reply := promptFor(step, d)
	reply.Text = notUnderstood + " " + reply.Text
	reply.Attachment = nil
	return step, d, reply
}

func promptFor(step entity.Step, d entity.Draft) Reply {
	switch step {
	case entity.StepAccount:
		return Reply{
			Text:         "Let's get you booked! Would you like to log in, create an account, or continue as a guest?",
			QuickReplies: accountReplies(),
		}
	case entity.StepLogin:
		return Reply{Text: loginPrompt(d)}
	case entity.StepService:
		return Reply{Text: "Which cleaning service would you like?", QuickReplies: serviceReplies()}
	case entity.StepPropertyType:
		return Reply{Text: "What type of property is it?", QuickReplies: propertyReplies()}
	case entity.StepBedrooms:
		return Reply{Text: "How many bedrooms?", QuickReplies: bedroomReplies()}
	case entity.StepBathrooms:
		return Reply{Text: "And how many bathrooms?", QuickReplies: bathroomReplies()}
	case entity.StepRooms:
		return Reply{
			Text:         "Which other areas should we clean? Pick as many as you like, then tap \"Done with rooms\".",
			QuickReplies: roomReplies(d),
		}
	case entity.StepRoomQuantities:
		pending := pendingRoomQuantities(d)
		room := "room"
		if len(pending) > 0 {
			room = pending[0]
		}
		return Reply{Text: fmt.Sprintf("How many %ss do you have?", strings.ToLower(room)), QuickReplies: quantityReplies()}
	case entity.StepAddOns:
		return Reply{Text: "Would you like any add-ons?", QuickReplies: addOnReplies(d)}
	case entity.StepDate:
		return Reply{Text: "What day works best for you?", QuickReplies: dateReplies()}
	case entity.StepTime:
		return Reply{Text: "What time of day do you prefer?", QuickReplies: timeReplies()}
	case entity.StepFrequency:
		return Reply{Text: "How often would you like us to come? Recurring cleanings get a discount.", QuickReplies: frequencyReplies()}
	case entity.StepPets:
		return Reply{Text: "Do you have any pets?", QuickReplies: yesNoReplies()}
	case entity.StepPetSelection:
		return Reply{Text: "What kind of pets do you have?", QuickReplies: petReplies(d)}
	case entity.StepPetPresent:
		return Reply{Text: "Will your pets be home during the cleaning?", QuickReplies: yesNoReplies()}
	case entity.StepSpecialInstructions:
		return Reply{
			Text:         "Any special instructions for your cleaner? Entry codes, areas to skip, parking notes...",
			QuickReplies: instructionReplies(),
		}
	case entity.StepPayment:
		return Reply{Text: "How would you like to pay?", QuickReplies: paymentReplies()}
	case entity.StepTip:
		return Reply{Text: "Would you like to add a tip for your cleaner?", QuickReplies: tipReplies(d)}
	case entity.StepConfirm:
		totals := pricing.ComputeTotal(d)
		return Reply{
			Text:         summaryText(d, totals),
			QuickReplies: confirmReplies(),
			Attachment: &entity.Attachment{
				Kind:    entity.AttachmentBookingSummary,
				Summary: &entity.BookingSummary{Draft: d.Public(), Totals: totals},
			},
		}
	}
	return Greeting()
}

func loginPrompt(d entity.Draft) string {
	switch nextLoginField(d) {
	case fieldName:
		return "Great, let's create your account. What's your full name?"
	case fieldEmail:
		if d.AccountType == entity.AccountCreate {
			return fmt.Sprintf("Nice to meet you, %s! What's your email address?", firstName(d.Name))
		}
		return "Welcome back! What's your email address?"
	case fieldPhone:
		return "What's the best phone number to reach you?"
	case fieldPassword:
		if d.AccountType == entity.AccountCreate {
			return "Finally, choose a password for your account."
		}
		return "Please enter your password."
	}
	return "You're all set."
}

func serviceByName(name string) (Service, bool) {
	for _, s := range Services {
		if s.Name == name {
			return s, true
		}
	}
	return Service{}, false
}

func addOnByName(name string) (entity.AddOn, bool) {
	for _, a := range AddOns {
		if a.Name == name {
			return a.AddOn, true
		}
	}
	return entity.AddOn{}, false
}

func firstName(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return "there"
	}
	return fields[0]
}
