package domain

// SourceType represents the source type of the event
type SourceType string

const (
	// SourceTypeUser - User source
	SourceTypeUser SourceType = "user"
	// SourceTypeGroup - Group source
	SourceTypeGroup SourceType = "group"
	// SourceTypeRoom - Room source
	SourceTypeRoom SourceType = "room"
)

// Source represents who triggered the event.
// UserID may be empty for group and room sources when the user has not consented.
type Source struct {
	Type    SourceType
	UserID  string
	GroupID string
	RoomID  string
}

// ID returns the identifier to push messages back to the source
func (s Source) ID() string {
	switch s.Type {
	case SourceTypeGroup:
		return s.GroupID
	case SourceTypeRoom:
		return s.RoomID
	default:
		return s.UserID
	}
}
