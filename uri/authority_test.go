/*
Copyright 2025 Trident Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

//nolint:testpackage // This is a white-box test file for an internal package. It needs to be in the same package to test unexported functions.
package uri

import "testing"

// TestSplitAuthority tests the stateless utility for deconstructing an authority string.
// This is based on the ABNF from RFC 3986, Section 3.2.
func TestSplitAuthority(t *testing.T) {
	tests := []struct {
		name            string
		authority       string
		wantUserinfo    string
		wantHasUserinfo bool
		wantHost        string
		wantPort        string
		wantHasPort     bool
	}{
		{name: "host only", authority: "example.com", wantHost: "example.com"},
		{name: "host and port", authority: "example.com:8080", wantHost: "example.com", wantPort: "8080", wantHasPort: true},
		{name: "empty port", authority: "example.com:", wantHost: "example.com", wantHasPort: true},
		{name: "userinfo and host", authority: "user@example.com", wantUserinfo: "user", wantHasUserinfo: true, wantHost: "example.com"},
		{name: "empty userinfo", authority: "@example.com", wantHasUserinfo: true, wantHost: "example.com"},
		{
			name: "full authority", authority: "user:pass@example.com:8080",
			wantUserinfo: "user:pass", wantHasUserinfo: true, wantHost: "example.com", wantPort: "8080", wantHasPort: true,
		},
		{name: "ipv6 with port", authority: "[::1]:443", wantHost: "[::1]", wantPort: "443", wantHasPort: true},
		{name: "ipv6 without port", authority: "[2001:db8::7]", wantHost: "[2001:db8::7]"},
		{name: "empty", authority: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userinfo, hasUserinfo, host, port, hasPort := splitAuthority(tt.authority)
			if userinfo != tt.wantUserinfo || hasUserinfo != tt.wantHasUserinfo {
				t.Errorf("userinfo = (%q, %v), want (%q, %v)", userinfo, hasUserinfo, tt.wantUserinfo, tt.wantHasUserinfo)
			}
			if host != tt.wantHost {
				t.Errorf("host = %q, want %q", host, tt.wantHost)
			}
			if port != tt.wantPort || hasPort != tt.wantHasPort {
				t.Errorf("port = (%q, %v), want (%q, %v)", port, hasPort, tt.wantPort, tt.wantHasPort)
			}
		})
	}
}

func TestIsIPv4Address(t *testing.T) {
	tests := map[string]bool{
		"192.0.2.16":      true,
		"0.0.0.0":         true,
		"255.255.255.255": true,
		"256.0.0.1":       false,
		"192.0.2":         false,
		"192.0.2.016":     false,
		"1.2.3.4.5":       false,
		"a.b.c.d":         false,
		"":                false,
	}
	for input, want := range tests {
		if got := isIPv4Address(input); got != want {
			t.Errorf("isIPv4Address(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestValidateIPLiteral(t *testing.T) {
	tests := []struct {
		literal  string
		wantKind HostKind
		wantErr  bool
	}{
		{"::1", HostIPv6, false},
		{"2001:db8::7", HostIPv6, false},
		{"::ffff:192.0.2.1", HostIPv6, false},
		{"::ffff:192.0.2.01", HostNone, true},
		{"v1.addr", HostIPvFuture, false},
		{"vz.addr", HostIPvFuture, true},
		{"v1.", HostIPvFuture, true},
		{"example.com", HostNone, true},
	}
	for _, tt := range tests {
		t.Run(tt.literal, func(t *testing.T) {
			kind, err := validateIPLiteral(tt.literal)
			if (err != nil) != tt.wantErr {
				t.Fatalf("validateIPLiteral(%q) error = %v, wantErr %v", tt.literal, err, tt.wantErr)
			}
			if kind != tt.wantKind {
				t.Errorf("validateIPLiteral(%q) kind = %v, want %v", tt.literal, kind, tt.wantKind)
			}
		})
	}
}

func TestNormalizeHostAndPort(t *testing.T) {
	tests := []struct {
		host, port, scheme string
		wantHost, wantPort string
	}{
		{"Example.COM", "80", "http", "example.com", ""},
		{"example.com", "8080", "http", "example.com", "8080"},
		{"example.com", "443", "https", "example.com", ""},
		{"example.com", "443", "http", "example.com", "443"},
		{"ldap.example.com", "389", "ldap", "ldap.example.com", ""},
		{"[2001:DB8::7]", "", "ldap", "[2001:db8::7]", ""},
	}
	for _, tt := range tests {
		host, port := normalizeHostAndPort(tt.host, tt.port, tt.scheme)
		if host != tt.wantHost || port != tt.wantPort {
			t.Errorf("normalizeHostAndPort(%q, %q, %q) = (%q, %q), want (%q, %q)",
				tt.host, tt.port, tt.scheme, host, port, tt.wantHost, tt.wantPort)
		}
	}
}
