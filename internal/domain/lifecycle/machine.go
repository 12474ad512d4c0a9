package lifecycle

// Capability is a permission required to act on a document.
type Capability string

const (
	CapabilityRead    Capability = "read"
	CapabilityWrite   Capability = "write"
	CapabilityApprove Capability = "approve"
	CapabilityAdmin   Capability = "admin"
)

// Trigger is a requested lifecycle transition.
type Trigger string

const (
	TriggerSubmit        Trigger = "submit_for_approval"
	TriggerApprove       Trigger = "approve"
	TriggerReject        Trigger = "reject"
	TriggerReturnToDraft Trigger = "return_to_draft"
	TriggerPublish       Trigger = "publish"
	TriggerArchive       Trigger = "archive"
)

type transition struct {
	to         Status
	capability Capability
}

// transitions is the full guard table. Approve and reject are legal only
// from PendingApproval; a stale approve is a precondition failure, never
// coerced. Rejected documents must be explicitly returned to Draft before
// re-submission - there is no Rejected -> Approved path.
var transitions = map[Status]map[Trigger]transition{
	StatusDraft: {
		TriggerSubmit:  {StatusPendingApproval, CapabilityWrite},
		TriggerArchive: {StatusArchived, CapabilityAdmin},
	},
	StatusPendingApproval: {
		TriggerApprove: {StatusApproved, CapabilityApprove},
		TriggerReject:  {StatusRejected, CapabilityApprove},
	},
	StatusApproved: {
		TriggerPublish: {StatusPublished, CapabilityApprove},
		TriggerArchive: {StatusArchived, CapabilityAdmin},
	},
	StatusPublished: {
		TriggerArchive: {StatusArchived, CapabilityAdmin},
	},
	StatusRejected: {
		TriggerReturnToDraft: {StatusDraft, CapabilityWrite},
	},
}

// Next returns the resulting status and the capability required to apply
// trigger from the given status. ok is false when the transition is not
// legal from that status.
func Next(from Status, trigger Trigger) (to Status, capability Capability, ok bool) {
	t, found := transitions[from][trigger]
	if !found {
		return "", "", false
	}
	return t.to, t.capability, true
}

// SourceStatuses returns the statuses from which trigger is legal, for
// precondition-failure messages.
func SourceStatuses(trigger Trigger) []Status {
	var sources []Status
	for _, from := range []Status{StatusDraft, StatusPendingApproval, StatusApproved, StatusPublished, StatusRejected} {
		if _, ok := transitions[from][trigger]; ok {
			sources = append(sources, from)
		}
	}
	return sources
}

// CanExpire reports whether a document in this status crosses into Expired
// when its expiry date passes. Expiry is time-triggered and has no human
// guard; terminal documents are left alone.
func CanExpire(s Status) bool {
	return !s.Terminal()
}
