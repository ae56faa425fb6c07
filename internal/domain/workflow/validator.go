package workflow

// CanCompleteStage décide si l'étape peut être clôturée par l'appelant.
// Un rôle de contournement clôture toujours, quelles que soient les données.
// Étape inconnue ou données d'une autre étape : refus.
func CanCompleteStage(stage Stage, data CaptureData, acting ActingUser) bool {
	if CanBypassValidation(acting.Role) {
		return true
	}
	if !stage.IsValid() {
		return false
	}
	return MissingRequirement(stage, data) == nil
}

// MissingRequirement retourne le premier critère de sortie non satisfait de
// l'étape, ou nil si la saisie est complète. Sans saisie, un enregistrement
// vierge est évalué (tous les critères manquent).
func MissingRequirement(stage Stage, data CaptureData) error {
	if data == nil {
		rec, ok := NewCaptureData(stage)
		if !ok {
			return &MissingFieldError{AtStage: stage, Message: "étape inconnue"}
		}
		return rec.Validate()
	}
	if data.Stage() != stage {
		return &MissingFieldError{AtStage: stage, Message: "saisie d'une autre étape"}
	}
	return data.Validate()
}
