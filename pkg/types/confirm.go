package types

// Confirmer asks the user before a destructive replacement happens.
type Confirmer interface {
	// Confirm presents a yes/no question and reports the answer.
	Confirm(question string) bool
}

// AutoApprove answers yes to every question. Used for --force runs.
type AutoApprove struct{}

// Confirm implements Confirmer.
func (AutoApprove) Confirm(string) bool { return true }

// AutoDeny answers no to every question. Used in tests and dry runs where
// no replacement should ever be approved implicitly.
type AutoDeny struct{}

// Confirm implements Confirmer.
func (AutoDeny) Confirm(string) bool { return false }
