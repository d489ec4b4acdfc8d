package deal

import (
	"fmt"
	"strings"
	"time"
)

// Kanban stages, in board order.
const (
	StageProspect      = "Prospect"
	StageQualified     = "Qualified"
	StageProposal      = "Proposal"
	StageLOI           = "LOI"
	StageUnderContract = "UnderContract"
	StageBooked        = "Booked"
	StageClosedPaid    = "ClosedPaid"
	StageLost          = "Lost"
)

var validStages = map[string]bool{
	StageProspect:      true,
	StageQualified:     true,
	StageProposal:      true,
	StageLOI:           true,
	StageUnderContract: true,
	StageBooked:        true,
	StageClosedPaid:    true,
	StageLost:          true,
}

// StageChange is a requested kanban move plus the fields certain target
// stages require.
type StageChange struct {
	Stage      string     `json:"stage"`
	LossReason string     `json:"lossReason"`
	BookedDate *time.Time `json:"bookedDate"`
	ClosedDate *time.Time `json:"closedDate"`
}

// GateError names the field a stage move is missing.
type GateError struct {
	Field   string
	Message string
}

func (e *GateError) Error() string { return e.Message }

// CheckGate enforces the moves that require extra data before a deal may
// enter the target stage. It does not mutate the deal.
func CheckGate(d *Deal, change StageChange) error {
	if !validStages[change.Stage] {
		return &GateError{Field: "stage", Message: fmt.Sprintf("unknown stage %q", change.Stage)}
	}

	switch change.Stage {
	case StageLost:
		if strings.TrimSpace(change.LossReason) == "" && strings.TrimSpace(d.LossReason) == "" {
			return &GateError{Field: "lossReason", Message: "moving a deal to Lost requires a loss reason"}
		}
	case StageBooked:
		if change.BookedDate == nil && d.BookedDate == nil {
			return &GateError{Field: "bookedDate", Message: "moving a deal to Booked requires a booked date"}
		}
	case StageClosedPaid:
		if change.ClosedDate == nil && d.ClosedDate == nil {
			return &GateError{Field: "closedDate", Message: "moving a deal to ClosedPaid requires a closed date"}
		}
	}
	return nil
}

// ApplyStageChange writes the move onto the deal after CheckGate passed.
func ApplyStageChange(d *Deal, change StageChange) {
	d.Stage = change.Stage
	if strings.TrimSpace(change.LossReason) != "" {
		d.LossReason = strings.TrimSpace(change.LossReason)
	}
	if change.BookedDate != nil {
		d.BookedDate = change.BookedDate
	}
	if change.ClosedDate != nil {
		d.ClosedDate = change.ClosedDate
	}
}
