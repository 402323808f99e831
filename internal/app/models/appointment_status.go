package models

// statusTransitions is the lifecycle graph: every legal edge is listed, any
// pair not listed is invalid. Fulfilled, cancelled, noshow and
// entered-in-error are terminal and have no outgoing edges.
var statusTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentStatusProposed: {
		AppointmentStatusPending,
		AppointmentStatusCancelled,
		AppointmentStatusEnteredInError,
	},
	AppointmentStatusPending: {
		AppointmentStatusBooked,
		AppointmentStatusCancelled,
		AppointmentStatusEnteredInError,
	},
	AppointmentStatusBooked: {
		AppointmentStatusArrived,
		AppointmentStatusCheckedIn,
		AppointmentStatusCancelled,
		AppointmentStatusNoshow,
		AppointmentStatusEnteredInError,
	},
	AppointmentStatusArrived: {
		AppointmentStatusFulfilled,
		AppointmentStatusCancelled,
		AppointmentStatusNoshow,
		AppointmentStatusEnteredInError,
	},
	AppointmentStatusCheckedIn: {
		AppointmentStatusFulfilled,
		AppointmentStatusCancelled,
		AppointmentStatusNoshow,
		AppointmentStatusEnteredInError,
	},
	AppointmentStatusWaitlist: {
		AppointmentStatusPending,
		AppointmentStatusCancelled,
		AppointmentStatusEnteredInError,
	},
	AppointmentStatusFulfilled:      {},
	AppointmentStatusCancelled:      {},
	AppointmentStatusNoshow:         {},
	AppointmentStatusEnteredInError: {},
}

func IsValidStatusTransition(from, to AppointmentStatus) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func CanCancelAppointment(status AppointmentStatus) bool {
	switch status {
	case AppointmentStatusFulfilled,
		AppointmentStatusCancelled,
		AppointmentStatusNoshow,
		AppointmentStatusEnteredInError:
		return false
	default:
		return true
	}
}
