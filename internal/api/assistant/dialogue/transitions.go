package dialogue

import "EllaBooking/internal/entity"

// allowedNext is the declared step graph. Every step may also stay on itself
// (re-prompt or multi-select).
var allowedNext = map[entity.Step][]entity.Step{
	entity.StepIdle:                {entity.StepAccount},
	entity.StepAccount:             {entity.StepLogin, entity.StepService},
	entity.StepLogin:               {entity.StepService},
	entity.StepService:             {entity.StepPropertyType},
	entity.StepPropertyType:        {entity.StepBedrooms},
	entity.StepBedrooms:            {entity.StepBathrooms},
	entity.StepBathrooms:           {entity.StepRooms},
	entity.StepRooms:               {entity.StepRoomQuantities, entity.StepAddOns},
	entity.StepRoomQuantities:      {entity.StepAddOns},
	entity.StepAddOns:              {entity.StepDate},
	entity.StepDate:                {entity.StepTime},
	entity.StepTime:                {entity.StepFrequency},
	entity.StepFrequency:           {entity.StepPets},
	entity.StepPets:                {entity.StepPetSelection, entity.StepSpecialInstructions},
	entity.StepPetSelection:        {entity.StepPetPresent},
	entity.StepPetPresent:          {entity.StepSpecialInstructions},
	entity.StepSpecialInstructions: {entity.StepPayment},
	entity.StepPayment:             {entity.StepTip},
	entity.StepTip:                 {entity.StepConfirm},
	entity.StepConfirm:             {entity.StepIdle},
}

func AllowedNext(step entity.Step) []entity.Step {
	next := allowedNext[step]
	out := make([]entity.Step, 0, len(next)+1)
	out = append(out, step)
	return append(out, next...)
}

func CanTransition(from, to entity.Step) bool {
	for _, s := range AllowedNext(from) {
		if s == to {
			return true
		}
	}
	return false
}
