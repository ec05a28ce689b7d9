package models

// LinkKind classifies an outbound professional-network link.
type LinkKind int

const (
	NoLink LinkKind = iota
	Personal
	Organizational
)

func (k LinkKind) String() string {
	switch k {
	case Personal:
		return "Personal"
	case Organizational:
		return "Organizational"
	default:
		return "None"
	}
}
