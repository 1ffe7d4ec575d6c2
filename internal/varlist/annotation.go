package varlist

// Annotation is the reason a manifest line is commented out. The zero
// value means the variable is produced and its line is left uncommented.
type Annotation string

const (
	// None leaves the line active.
	None Annotation = ""
	// PriorityMedium marks a variable requested at medium priority.
	PriorityMedium Annotation = "priority=medium"
	// PriorityLow marks a variable requested at low priority.
	PriorityLow Annotation = "priority=low"
	// DoNotProduce marks a variable excluded from production. It takes
	// absolute precedence over the priority annotations.
	DoNotProduce Annotation = "do-not-produce"
)

// Weight orders annotations within a manifest: active lines first, then
// medium, low and do-not-produce.
func (a Annotation) Weight() int {
	switch a {
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	case DoNotProduce:
		return 3
	default:
		return 0
	}
}

// Entry pairs a variable key with its annotation. Entries keep the order
// they were produced in; the manifest writer relies on that order being
// deterministic.
type Entry struct {
	Key        string
	Annotation Annotation
}
