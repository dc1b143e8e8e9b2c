package types_test

import (
	"testing"

	"github.com/fulutas/cardaccess/internal/access/types"
)

func TestNextAction(t *testing.T) {
	tests := []struct {
		name  string
		last  types.Action
		found bool
		want  types.Action
	}{
		{name: "no prior log", last: "", found: false, want: types.ActionEntry},
		{name: "last was exit", last: types.ActionExit, found: true, want: types.ActionEntry},
		{name: "last was entry", last: types.ActionEntry, found: true, want: types.ActionExit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := types.NextAction(tt.last, tt.found); got != tt.want {
				t.Errorf("NextAction(%q, %v) = %q, want %q", tt.last, tt.found, got, tt.want)
			}
		})
	}
}
