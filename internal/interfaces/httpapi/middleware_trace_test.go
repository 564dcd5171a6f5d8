package httpapi

import "testing"

func TestShouldTraceRequest(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{path: "/healthz", want: false},
		{path: " /healthz ", want: false},
		{path: "/readyz", want: false},
		{path: "/metrics", want: false},
		{path: "/openapi.yaml", want: false},
		{path: "/docs", want: false},
		{path: "/docs/", want: false},
		{path: "/v1/games", want: true},
		{path: "/v1/games/1/crew", want: true},
		{path: "/v1/games/1/assignments/bulk", want: true},
		{path: "/v1/invitations/tok-1/redeem", want: true},
		{path: "/v1/availability", want: true},
		{path: "/", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := shouldTraceRequest(tt.path); got != tt.want {
				t.Fatalf("shouldTraceRequest(%q)=%v want=%v", tt.path, got, tt.want)
			}
		})
	}
}
