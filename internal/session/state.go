package session

import "github.com/shgereadis-cpu/p2p-group-market-bot/internal/domain"

// Flow tags which conversation a user has open. Submission steps are only
// meaningful under FlowSubmit, so a slot can never be read as the wrong
// kind of flow.
type Flow int

const (
	FlowNone Flow = iota
	FlowSubmit
	FlowPayment
	FlowAdminDelete
	FlowAdminBroadcast
)

// SubmitStep is the field currently being collected in a submission.
type SubmitStep int

const (
	StepKind SubmitStep = iota
	StepName
	StepMembers
	StepDate
	StepPrice
	StepContact
)

// Draft accumulates listing fields as they arrive. Unset fields stay nil so
// completion is a presence check, not a zero-value guess.
type Draft struct {
	Kind        *domain.Kind
	GroupName   *string
	MemberCount *int
	Established *string
	Price       *float64
	Contact     *string
}

func (d Draft) Complete() bool {
	return d.Kind != nil && d.GroupName != nil && d.MemberCount != nil &&
		d.Established != nil && d.Price != nil && d.Contact != nil
}

// State is one user's open conversation.
type State struct {
	Flow  Flow
	Step  SubmitStep
	Draft Draft
}
