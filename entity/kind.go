package entity

// Kind selects which participation collection a report or mutation runs against.
type Kind string

const (
	KindRegistration Kind = "registration"
	KindVolunteer    Kind = "volunteer"
)

func (k Kind) Collection() string {
	switch k {
	case KindVolunteer:
		return "volunteers"
	default:
		return "registrations"
	}
}

// HasEvent reports whether records of this kind reference an event.
func (k Kind) HasEvent() bool {
	return k == KindRegistration
}

// HasCheckIn reports whether records of this kind can be checked in.
func (k Kind) HasCheckIn() bool {
	return k == KindRegistration
}
