package circularprogress

import (
	"encoding"
	"encoding/binary"
	"errors"
	"fmt"
)

// Serialized state layout: 4 byte magic, 1 byte version, 8 byte
// little-endian progress.
const (
	stateMagic   = "CPBS"
	stateVersion = 1
	stateSize    = len(stateMagic) + 1 + 8
)

// ErrEmptyState is returned when marshaling a zero-value State.
var ErrEmptyState = errors.New("circularprogress: empty state")

// StateFormatError indicates serialized state data that cannot be
// decoded. Hosts treat it as "no saved state" and keep current values.
type StateFormatError struct {
	Reason string
}

func (e *StateFormatError) Error() string {
	return "circularprogress: invalid state data: " + e.Reason
}

// State is an opaque snapshot of a Bar's saved state, produced by
// [Bar.SaveState] and applied with [Bar.RestoreState]. The zero value is
// an empty snapshot; restoring it is a no-op.
//
// State implements encoding.BinaryMarshaler and
// encoding.BinaryUnmarshaler for persistence across process restarts.
type State struct {
	progress int
	valid    bool
}

var (
	_ encoding.BinaryMarshaler   = State{}
	_ encoding.BinaryUnmarshaler = (*State)(nil)
)

// MarshalBinary encodes the snapshot into its versioned binary form.
// Marshaling the zero State returns ErrEmptyState.
func (s State) MarshalBinary() ([]byte, error) {
	if !s.valid {
		return nil, ErrEmptyState
	}
	buf := make([]byte, stateSize)
	copy(buf, stateMagic)
	buf[len(stateMagic)] = stateVersion
	binary.LittleEndian.PutUint64(buf[len(stateMagic)+1:], uint64(int64(s.progress)))
	return buf, nil
}

// UnmarshalBinary decodes data produced by MarshalBinary. Malformed data
// returns a *StateFormatError and leaves the receiver unchanged.
func (s *State) UnmarshalBinary(data []byte) error {
	if len(data) != stateSize {
		return &StateFormatError{Reason: fmt.Sprintf("length %d, want %d", len(data), stateSize)}
	}
	if string(data[:len(stateMagic)]) != stateMagic {
		return &StateFormatError{Reason: "bad magic"}
	}
	if data[len(stateMagic)] != stateVersion {
		return &StateFormatError{Reason: fmt.Sprintf("unsupported version %d", data[len(stateMagic)])}
	}
	s.progress = int(int64(binary.LittleEndian.Uint64(data[len(stateMagic)+1:])))
	s.valid = true
	return nil
}

// SaveState captures the bar's progress as a snapshot that survives the
// bar itself.
func (b *Bar) SaveState() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return State{progress: b.progress, valid: true}
}

// RestoreState applies a previously saved snapshot. The restored value
// runs through the same clamp and refresh path as SetProgress, so
// snapshots from a bar with a wider range are clamped to this bar's
// range. Restoring the zero State is a no-op.
func (b *Bar) RestoreState(st State) {
	if !st.valid {
		return
	}
	b.SetProgress(st.progress)
}
