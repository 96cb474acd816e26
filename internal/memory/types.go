package memory

import "time"

// Domain is a semantic partition of the vector index. A search is always
// scoped to one domain (or an explicit list of domains).
type Domain string

const (
	DomainBusinessProfile Domain = "business_profile"
	DomainDocuments       Domain = "documents"
	DomainEmails          Domain = "emails"
	DomainReviews         Domain = "reviews"
	DomainSocialPosts     Domain = "social_posts"
	DomainConversation    Domain = "conversation"
	DomainGeneric         Domain = "generic"
)

var domains = map[Domain]struct{}{
	DomainBusinessProfile: {},
	DomainDocuments:       {},
	DomainEmails:          {},
	DomainReviews:         {},
	DomainSocialPosts:     {},
	DomainConversation:    {},
	DomainGeneric:         {},
}

// Valid reports whether d is one of the known domains.
func (d Domain) Valid() bool {
	_, ok := domains[d]
	return ok
}

// SourceType tells where a vector row came from.
type SourceType string

const (
	SourceMemory SourceType = "memory"
	SourceFile   SourceType = "file"
)

// Status is the lifecycle state of a memory record and its vector rows.
type Status string

const (
	StatusActive     Status = "active"
	StatusArchived   Status = "archived"
	StatusDeleted    Status = "deleted"
	StatusSuppressed Status = "suppressed"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusArchived, StatusDeleted, StatusSuppressed:
		return true
	}
	return false
}

// Hidden reports whether rows carrying this status are excluded from search.
// An empty status means the row was never transitioned and is active.
func (s Status) Hidden() bool {
	switch s {
	case StatusArchived, StatusDeleted, StatusSuppressed:
		return true
	}
	return false
}

// ItemType is the kind of a memory record written by an upstream agent.
type ItemType string

const (
	TypeBusinessProfile     ItemType = "business_profile"
	TypeConversationMessage ItemType = "conversation_message"
	TypeConversationSummary ItemType = "conversation_summary"
	TypeEmail               ItemType = "email"
	TypeDM                  ItemType = "dm"
	TypeReview              ItemType = "review"
	TypeDocument            ItemType = "document"
	TypeCustom              ItemType = "custom"
)

var typeDomains = map[ItemType]Domain{
	TypeBusinessProfile:     DomainBusinessProfile,
	TypeDocument:            DomainDocuments,
	TypeEmail:               DomainEmails,
	TypeDM:                  DomainEmails,
	TypeReview:              DomainReviews,
	TypeConversationMessage: DomainConversation,
	TypeConversationSummary: DomainConversation,
	TypeCustom:              DomainGeneric,
}

// Valid reports whether t is a known item type.
func (t ItemType) Valid() bool {
	_, ok := typeDomains[t]
	return ok
}

// Domain resolves the vector domain for an item type.
// The second return value is false for types that are never indexed.
func (t ItemType) Domain() (Domain, bool) {
	d, ok := typeDomains[t]
	return d, ok
}

// Record is the logical unit a caller writes. It is immutable once created
// except for its status.
type Record struct {
	ID             string
	TenantID       string
	Type           ItemType
	Content        string
	Metadata       Metadata
	Status         Status
	SourceID       string
	ConversationID string
	MessageID      string
	DocumentID     string
	CreatedAt      time.Time
}

// VectorRow is one embedded chunk of one record or file.
type VectorRow struct {
	ID         string
	TenantID   string
	Domain     Domain
	SourceType SourceType
	SourceID   string
	ChunkIndex int
	Content    string
	Embedding  []float32
	Metadata   Metadata
	CreatedAt  time.Time
}
