package workflow

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/oranauto/concession-api/internal/domain"
)

// StageSnapshot saisie d'une étape plus son horodatage de clôture.
// CompletedAt reste nil tant que l'étape n'est pas clôturée.
type StageSnapshot struct {
	CompletedAt *time.Time  `json:"completed_at,omitempty"`
	Data        CaptureData `json:"data,omitempty"`
}

// StageSnapshots instantanés par étape, persistés en JSONB sur la commande.
// Invariant : seules les étapes au niveau ou en amont du statut courant ont une entrée.
type StageSnapshots map[Stage]*StageSnapshot

// UnmarshalJSON décode chaque saisie vers l'enregistrement typé de son étape
// (l'union est discriminée par la clé de la map). Étape hors référentiel : refus.
func (s *StageSnapshots) UnmarshalJSON(b []byte) error {
	var raw map[Stage]struct {
		CompletedAt *time.Time      `json:"completed_at"`
		Data        json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	out := make(StageSnapshots, len(raw))
	for stage, entry := range raw {
		snap := &StageSnapshot{CompletedAt: entry.CompletedAt}
		if len(entry.Data) > 0 && string(entry.Data) != "null" {
			rec, ok := NewCaptureData(stage)
			if !ok {
				return fmt.Errorf("instantané pour l'étape %q: %w", stage, domain.ErrEtapeInconnue)
			}
			if err := json.Unmarshal(entry.Data, rec); err != nil {
				return fmt.Errorf("instantané %s: %w", stage, err)
			}
			snap.Data = rec
		}
		out[stage] = snap
	}
	*s = out
	return nil
}

// Ensure retourne l'instantané de l'étape, en le créant avec un enregistrement
// vierge si besoin. ok vaut false si l'étape est hors référentiel.
func (s *StageSnapshots) Ensure(stage Stage) (*StageSnapshot, bool) {
	if *s == nil {
		*s = make(StageSnapshots)
	}
	if snap, found := (*s)[stage]; found {
		if snap.Data == nil {
			rec, ok := NewCaptureData(stage)
			if !ok {
				return nil, false
			}
			snap.Data = rec
		}
		return snap, true
	}
	rec, ok := NewCaptureData(stage)
	if !ok {
		return nil, false
	}
	snap := &StageSnapshot{Data: rec}
	(*s)[stage] = snap
	return snap, true
}

// DataFor retourne la saisie de l'étape, ou nil si aucune.
func (s StageSnapshots) DataFor(stage Stage) CaptureData {
	if snap, ok := s[stage]; ok {
		return snap.Data
	}
	return nil
}
