package publish

type EventKind int

const (
	// EventFileParsed is sent after a table entry's source file is read.
	// Category, File and Count (functions found) are set.
	EventFileParsed EventKind = iota
	// EventWarning reports a non-fatal condition in Message.
	EventWarning
	// EventPagesPlanned carries the number of pages about to be written.
	EventPagesPlanned
	// EventPageWritten is sent for every page file written, or skipped in a
	// dry run.
	EventPageWritten
	// EventLedgerUpdated is sent once the versions page records the version.
	EventLedgerUpdated
)

// Event is delivered to Options.OnEvent. Page events arrive from concurrent
// writers, so handlers must be safe for concurrent use.
type Event struct {
	Kind     EventKind
	Category string
	File     string
	Count    int
	Message  string
	Err      error
}

func (o *Options) emit(e Event) {
	if o.OnEvent != nil {
		o.OnEvent(e)
	}
}

func (o *Options) warn(file string, message string) {
	o.emit(Event{Kind: EventWarning, File: file, Message: message})
}
