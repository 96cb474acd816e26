package memory

// Disabled reports whether a write must leave no durable trace at all.
// It is checked before either storage predicate.
func Disabled(meta Metadata) bool {
	switch meta.MemoryMode() {
	case ModeOff, ModeEphemeral:
		return true
	}
	return false
}

// ShouldStoreLocally reports whether a record of type t is persisted as a
// durable memory record.
func ShouldStoreLocally(t ItemType) bool {
	switch t {
	case TypeBusinessProfile, TypeConversationMessage, TypeEmail, TypeDM,
		TypeReview, TypeDocument, TypeCustom:
		return true
	}
	return false
}

// ShouldStoreInVector reports whether a record is chunked, embedded and
// indexed. The no_vector flag always wins over the type default.
func ShouldStoreInVector(t ItemType, meta Metadata) bool {
	if meta.HasFlag(FlagNoVector) {
		return false
	}
	switch t {
	case TypeBusinessProfile, TypeDocument, TypeEmail, TypeDM, TypeReview:
		return true
	}
	return false
}

// CanTransition reports whether a status change from -> to is allowed.
// Only active records move; archived, deleted and suppressed are terminal.
// Setting the current status again is a no-op and allowed.
func CanTransition(from, to Status) bool {
	if from == "" {
		from = StatusActive
	}
	if from == to {
		return true
	}
	return from == StatusActive && to.Hidden()
}
