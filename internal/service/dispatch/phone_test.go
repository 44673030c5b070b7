package dispatch

import (
	"reflect"
	"testing"
)

func TestCanonicalChatIDs(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		want  []string
	}{
		{
			name:  "br mobile with ninth digit",
			phone: "15991775589",
			want:  []string{"551591775589@c.us", "5515991775589@c.us"},
		},
		{
			name:  "br landline style without ninth digit",
			phone: "1591775589",
			want:  []string{"551591775589@c.us", "5515991775589@c.us"},
		},
		{
			name:  "full br number with country code and ninth digit",
			phone: "5515991775589",
			want:  []string{"551591775589@c.us", "5515991775589@c.us"},
		},
		{
			name:  "full br number already canonical",
			phone: "551591775589",
			want:  []string{"551591775589@c.us", "5515991775589@c.us"},
		},
		{
			name:  "formatted with punctuation",
			phone: "+55 (15) 99177-5589",
			want:  []string{"551591775589@c.us", "5515991775589@c.us"},
		},
		{
			name:  "chat id passthrough keeps ninth digit variant",
			phone: "5515991775589@c.us",
			want:  []string{"551591775589@c.us", "5515991775589@c.us"},
		},
		{
			name:  "non-brazilian number",
			phone: "442071838750",
			want:  []string{"442071838750@c.us"},
		},
		{
			name:  "unrecognized length",
			phone: "5511223",
			want:  []string{"5511223@c.us"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CanonicalChatIDs(tt.phone)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("CanonicalChatIDs(%q) = %v, want %v", tt.phone, got, tt.want)
			}
		})
	}
}
