package wizard

import (
	"strings"

	"github.com/svstupireburgh/FeelmeTown-sub000/internal/catalog"
)

// StepID identifies a wizard step
type StepID string

const (
	StepOverview StepID = "overview"
	StepOccasion StepID = "occasion"
	StepTerms    StepID = "terms"

	servicePrefix = "service:"
)

// ServiceStep returns the step of a catalog service
func ServiceStep(name string) StepID {
	return StepID(servicePrefix + name)
}

// Service returns the service name of a service step
func (s StepID) Service() (string, bool) {
	if !strings.HasPrefix(string(s), servicePrefix) {
		return "", false
	}
	return strings.TrimPrefix(string(s), servicePrefix), true
}

// VisibleSteps lists the steps of the draft in order: overview, occasion when
// applicable, one step per popup service answered Yes, terms.
func VisibleSteps(d *Draft, snap *catalog.Snapshot) []StepID {
	steps := []StepID{StepOverview}

	if !snap.DecorationOnlyOccasions() || d.Decoration() {
		steps = append(steps, StepOccasion)
	}

	for _, svc := range snap.PopupServices() {
		if d.ServiceEnabled(svc.Name) {
			steps = append(steps, ServiceStep(svc.Name))
		}
	}

	return append(steps, StepTerms)
}

func stepIndex(steps []StepID, step StepID) int {
	for i, s := range steps {
		if s == step {
			return i
		}
	}
	return -1
}
