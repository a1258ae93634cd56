package callbacks

import (
	"testing"

	tele "gopkg.in/telebot.v4"
)

func TestParseCallbackData(t *testing.T) {
	cases := []struct {
		name    string
		data    string
		unique  string
		payload string
	}{
		{"form feed prefix with payload", "\fdelete_partner|@channel", "delete_partner", "@channel"},
		{"form feed prefix without payload", "\fback_to_menu", "back_to_menu", ""},
		{"no prefix", "show_help", "show_help", ""},
		{"empty payload after separator", "\fadd_partner|", "add_partner", ""},
	}
	for _, tc := range cases {
		unique, payload := ParseCallbackData(&tele.Callback{Data: tc.data})
		if unique != tc.unique {
			t.Errorf("%s: unique = %q, want %q", tc.name, unique, tc.unique)
		}
		if payload != tc.payload {
			t.Errorf("%s: payload = %q, want %q", tc.name, payload, tc.payload)
		}
	}
}

func TestParseCallbackDataNil(t *testing.T) {
	unique, payload := ParseCallbackData(nil)
	if unique != "" || payload != "" {
		t.Errorf("nil callback: got %q/%q, want empty", unique, payload)
	}
}
