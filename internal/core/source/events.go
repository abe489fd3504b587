package source

// EventKind classifies a host lifecycle notification.
type EventKind string

const (
	EventDocumentCreated EventKind = "document.created"
	EventDocumentUpdated EventKind = "document.updated"
	EventDocumentDeleted EventKind = "document.deleted"
	EventPackCreated     EventKind = "pack.created"
	EventPackDeleted     EventKind = "pack.deleted"
)

// Event is one lifecycle notification. Document events carry the pack id
// and the document kind; pack events carry the pack id and the pack's
// collection type.
type Event struct {
	Kind           EventKind
	PackID         string
	DocumentKind   string
	CollectionType string
}

// TouchesIndex reports whether the event can affect the creature index:
// a recognized-kind document changed inside some pack, or an Actor pack
// appeared or disappeared.
func (e Event) TouchesIndex() bool {
	switch e.Kind {
	case EventDocumentCreated, EventDocumentUpdated, EventDocumentDeleted:
		return RecognizedKind(e.DocumentKind)
	case EventPackCreated, EventPackDeleted:
		return e.CollectionType == TypeActor
	default:
		return false
	}
}
