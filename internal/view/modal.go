package view

// Modal describes an open modal form. ID is the backdrop element id; a click whose
// target is exactly this id closes the modal.
type Modal struct {
	Name      string
	ID        string
	Title     string
	Action    string
	ClosePath string
	Submit    string
	Fields    []Field
}

type Field struct {
	Name     string
	Label    string
	Type     string
	Value    string
	Step     string
	ReadOnly bool
	Hidden   bool
	Required bool
}

// Confirm is a yes/no dialog guarding a destructive or irreversible action.
type Confirm struct {
	ID     string
	Prompt string
	Action string
}
