package domain

import "errors"

var ErrUnknownInstrument = errors.New("unknown instrument role")

// InstrumentRole is the part a member plays in the room.
type InstrumentRole string

const (
	Guitar InstrumentRole = "guitar"
	Piano  InstrumentRole = "piano"
	Drums  InstrumentRole = "drums"
	Vocal  InstrumentRole = "vocal"
)

func ParseInstrumentRole(s string) (InstrumentRole, error) {
	switch r := InstrumentRole(s); r {
	case Guitar, Piano, Drums, Vocal:
		return r, nil
	default:
		return "", ErrUnknownInstrument
	}
}

// Member is one participant's membership record within a room.
// Owned exclusively by its Room; no transport or lifecycle logic here.
type Member struct {
	ID         ClientID       `json:"id"`
	Instrument InstrumentRole `json:"instrumentRole"`
}

// NewMember avoids raw literals in adapters and keeps construction obvious.
func NewMember(id ClientID, instrument string) (*Member, error) {
	role, err := ParseInstrumentRole(instrument)
	if err != nil {
		return nil, err
	}
	return &Member{ID: id, Instrument: role}, nil
}
