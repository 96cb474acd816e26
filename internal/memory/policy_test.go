package memory

import "testing"

func TestShouldStoreLocally(t *testing.T) {
	tests := []struct {
		typ  ItemType
		want bool
	}{
		{TypeBusinessProfile, true},
		{TypeConversationMessage, true},
		{TypeConversationSummary, false},
		{TypeEmail, true},
		{TypeDM, true},
		{TypeReview, true},
		{TypeDocument, true},
		{TypeCustom, true},
		{ItemType("unknown"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			if got := ShouldStoreLocally(tt.typ); got != tt.want {
				t.Errorf("ShouldStoreLocally(%q) = %v, want %v", tt.typ, got, tt.want)
			}
		})
	}
}

func TestShouldStoreInVector(t *testing.T) {
	tests := []struct {
		name string
		typ  ItemType
		meta Metadata
		want bool
	}{
		{"business profile", TypeBusinessProfile, nil, true},
		{"document", TypeDocument, Metadata{}, true},
		{"email", TypeEmail, nil, true},
		{"dm", TypeDM, nil, true},
		{"review", TypeReview, nil, true},
		{"conversation message", TypeConversationMessage, nil, false},
		{"conversation summary", TypeConversationSummary, nil, false},
		{"custom", TypeCustom, nil, false},
		{"no_vector flag wins", TypeDocument, Metadata{KeyFlags: Strings("pinned", FlagNoVector)}, false},
		{"other flags keep default", TypeDocument, Metadata{KeyFlags: Strings("pinned")}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldStoreInVector(tt.typ, tt.meta); got != tt.want {
				t.Errorf("ShouldStoreInVector(%q) = %v, want %v", tt.typ, got, tt.want)
			}
		})
	}
}

func TestDisabled(t *testing.T) {
	tests := []struct {
		mode string
		want bool
	}{
		{"", false},
		{ModeFull, false},
		{ModeOff, true},
		{ModeEphemeral, true},
	}

	for _, tt := range tests {
		t.Run("mode="+tt.mode, func(t *testing.T) {
			meta := Metadata{}
			if tt.mode != "" {
				meta[KeyMemoryMode] = String(tt.mode)
			}
			if got := Disabled(meta); got != tt.want {
				t.Errorf("Disabled() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to Status
		want     bool
	}{
		{StatusActive, StatusArchived, true},
		{StatusActive, StatusDeleted, true},
		{StatusActive, StatusSuppressed, true},
		{"", StatusDeleted, true},
		{StatusActive, StatusActive, true},
		{StatusDeleted, StatusDeleted, true},
		{StatusArchived, StatusDeleted, false},
		{StatusDeleted, StatusActive, false},
		{StatusSuppressed, StatusArchived, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			if got := CanTransition(tt.from, tt.to); got != tt.want {
				t.Errorf("CanTransition(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestItemType_Domain(t *testing.T) {
	tests := []struct {
		typ    ItemType
		want   Domain
		wantOK bool
	}{
		{TypeBusinessProfile, DomainBusinessProfile, true},
		{TypeDocument, DomainDocuments, true},
		{TypeEmail, DomainEmails, true},
		{TypeDM, DomainEmails, true},
		{TypeReview, DomainReviews, true},
		{TypeConversationMessage, DomainConversation, true},
		{TypeConversationSummary, DomainConversation, true},
		{TypeCustom, DomainGeneric, true},
		{ItemType("scratchpad"), "", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			got, ok := tt.typ.Domain()
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Domain() = %q, %v, want %q, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestDomain_Valid(t *testing.T) {
	if !DomainEmails.Valid() {
		t.Error("DomainEmails.Valid() = false, want true")
	}
	if Domain("invoices").Valid() {
		t.Error(`Domain("invoices").Valid() = true, want false`)
	}
}

func TestStatus_Hidden(t *testing.T) {
	for _, s := range []Status{StatusArchived, StatusDeleted, StatusSuppressed} {
		if !s.Hidden() {
			t.Errorf("%q.Hidden() = false, want true", s)
		}
	}
	for _, s := range []Status{"", StatusActive} {
		if s.Hidden() {
			t.Errorf("%q.Hidden() = true, want false", s)
		}
	}
}
