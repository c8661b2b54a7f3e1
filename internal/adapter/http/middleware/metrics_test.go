package middleware

import "testing"

func TestNormalizePath(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"/api/v1/wallet/balance", "/api/v1/wallet/balance"},
		{"/api/v1/withdrawals", "/api/v1/withdrawals"},
		{"/api/v1/withdrawals/wd-01ABC", "/api/v1/withdrawals/:id"},
		{"/api/v1/withdrawals/wd-01ABC/approve", "/api/v1/withdrawals/:id/approve"},
		{"/api/v1/withdrawals/wd-01ABC/fail", "/api/v1/withdrawals/:id/fail"},
		{"/api/v1/users/user-123", "/api/v1/users/:id"},
		{"/api/v1/users/user-123/balance-adjustments", "/api/v1/users/:id/balance-adjustments"},
		{"/health", "/health"},
	}

	for _, tc := range cases {
		if got := normalizePath(tc.in); got != tc.want {
			t.Errorf("normalizePath(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
