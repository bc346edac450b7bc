package types_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/localnerve/novelsdb/internal/types"
)

func TestFlexUint64(t *testing.T) {
	tests := []struct {
		input   string
		want    uint64
		wantErr bool
	}{
		{`{"n": 7}`, 7, false},
		{`{"n": "12"}`, 12, false},
		{`{"n": " 3 "}`, 3, false},
		{`{"n": null}`, 0, false},
		{`{"n": 1.5}`, 0, true},
		{`{"n": -2}`, 0, true},
		{`{"n": "abc"}`, 0, true},
		{`{"n": true}`, 0, true},
		{`{"n": 9223372036854775807}`, 9223372036854775807, false},
		{`{"n": 9223372036854775808}`, 0, true},
		{`{"n": "18446744073709551615"}`, 0, true},
	}

	for _, tt := range tests {
		var body struct {
			N types.FlexUint64 `json:"n"`
		}
		err := json.Unmarshal([]byte(tt.input), &body)
		if tt.wantErr {
			if err == nil {
				t.Errorf("%s: expected an error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: unexpected error %v", tt.input, err)
			continue
		}
		if body.N.Uint64() != tt.want {
			t.Errorf("%s: expected %d, got %d", tt.input, tt.want, body.N)
		}
	}
}

func TestCustomErrorUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := types.NewInternalError(cause)

	if !errors.Is(err, cause) {
		t.Error("Expected internal error to wrap its cause")
	}
	if err.Code != http.StatusInternalServerError {
		t.Errorf("Expected 500, got %d", err.Code)
	}
	if err.Message == cause.Error() {
		t.Error("Internal error message must not leak the cause")
	}

	var ce *types.CustomError
	if !errors.As(error(types.NewConflictError("dup")), &ce) || ce.Code != http.StatusConflict {
		t.Error("Expected conflict error with code 409")
	}
}
