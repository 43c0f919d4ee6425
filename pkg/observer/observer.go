package observer

type EventType int

const (
	ArticleAcceptedEvent  EventType = 1
	ArticleDuplicateEvent EventType = 2
	EntryFailedEvent      EventType = 3
	PollFailedEvent       EventType = 4
	SinkDeliveredEvent    EventType = 5
	SinkFailedEvent       EventType = 6
	SinkDroppedEvent      EventType = 7
)

type Event struct {
	E           EventType
	SourceID    string
	Sink        string
	Fingerprint string
	URL         string
}

func NewArticleEvent(eventType EventType, sourceID, fingerprint, url string) Event {
	return Event{E: eventType, SourceID: sourceID, Fingerprint: fingerprint, URL: url}
}

func NewSinkEvent(eventType EventType, sink, fingerprint string) Event {
	return Event{E: eventType, Sink: sink, Fingerprint: fingerprint}
}

type Observer interface {
	OnNotify(Event)
}

type Notifier interface {
	Register(Observer)
	Notify(Event)
}
