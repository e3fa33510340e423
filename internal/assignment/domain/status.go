package domain

// Status is a work item's pipeline stage. Transitions are not strictly
// ordered; any authorized actor may move an item to any known status, but
// every change appends a history entry.
type Status string

const (
	StatusNew           Status = "new"
	StatusContacted     Status = "contacted"
	StatusInterested    Status = "interested"
	StatusQuoted        Status = "quoted"
	StatusConverted     Status = "converted"
	StatusLost          Status = "lost"
	StatusNotInterested Status = "not_interested"
)

var knownStatuses = map[Status]struct{}{
	StatusNew:           {},
	StatusContacted:     {},
	StatusInterested:    {},
	StatusQuoted:        {},
	StatusConverted:     {},
	StatusLost:          {},
	StatusNotInterested: {},
}

// IsKnownStatus reports whether status is a valid pipeline stage.
func IsKnownStatus(status Status) bool {
	_, ok := knownStatuses[status]
	return ok
}

// openStatuses is the subset counted as an agent's live workload by the
// load-aware strategy. Fixed, pending product confirmation on whether it
// should become configurable.
var openStatuses = map[Status]struct{}{
	StatusNew:        {},
	StatusContacted:  {},
	StatusInterested: {},
	StatusQuoted:     {},
}

// IsOpenStatus reports whether the status counts toward an agent's open
// workload.
func IsOpenStatus(status Status) bool {
	_, ok := openStatuses[status]
	return ok
}

// OpenStatuses returns the open subset in a stable order, for use in
// repository queries.
func OpenStatuses() []Status {
	return []Status{StatusNew, StatusContacted, StatusInterested, StatusQuoted}
}
