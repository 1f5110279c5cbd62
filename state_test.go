package circularprogress

import (
	"errors"
	"testing"
)

func TestStateBinaryRoundTrip(t *testing.T) {
	b := New()
	b.SetProgress(42)

	data, err := b.SaveState().MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary() = %v", err)
	}
	if len(data) != stateSize {
		t.Fatalf("MarshalBinary() produced %d bytes, want %d", len(data), stateSize)
	}

	var st State
	if err := st.UnmarshalBinary(data); err != nil {
		t.Fatalf("UnmarshalBinary() = %v", err)
	}

	restored := New()
	restored.RestoreState(st)
	if got := restored.Progress(); got != 42 {
		t.Errorf("restored Progress() = %d, want 42", got)
	}
}

func TestStateMarshalEmpty(t *testing.T) {
	var st State
	if _, err := st.MarshalBinary(); !errors.Is(err, ErrEmptyState) {
		t.Errorf("MarshalBinary() on zero State = %v, want ErrEmptyState", err)
	}
}

func TestStateUnmarshalMalformed(t *testing.T) {
	valid, err := New(WithInitialProgress(7)).SaveState().MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary() = %v", err)
	}

	badMagic := append([]byte("XXXX"), valid[4:]...)
	badVersion := append([]byte(nil), valid...)
	badVersion[4] = 99

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"truncated", valid[:5]},
		{"oversized", append(append([]byte(nil), valid...), 0)},
		{"bad magic", badMagic},
		{"bad version", badVersion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var st State
			err := st.UnmarshalBinary(tt.data)
			var ferr *StateFormatError
			if !errors.As(err, &ferr) {
				t.Fatalf("UnmarshalBinary() = %v, want *StateFormatError", err)
			}
			if st.valid {
				t.Error("receiver marked valid after failed unmarshal")
			}
		})
	}
}

func TestStateFormatErrorMessage(t *testing.T) {
	err := &StateFormatError{Reason: "bad magic"}
	want := "circularprogress: invalid state data: bad magic"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
