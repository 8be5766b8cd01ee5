package overlay

// Msg is an input to Update: a user action or a service result.
type Msg interface{ overlayMsg() }

// SelectIndicator changes the selection. Names outside the catalog clear it.
type SelectIndicator struct{ Name string }

// Add requests an overlay on the selected indicator.
type Add struct{}

// Remove requests removal of the selected indicator's overlay.
type Remove struct{}

// Refresh requests a listing at the current generation.
type Refresh struct{}

// AddResult reports the outcome of an AddCommand.
type AddResult struct {
	Name string
	Err  error
}

// RemoveResult reports the outcome of a RemoveCommand.
type RemoveResult struct {
	Name string
	Err  error
}

// ListResult reports the outcome of a ListCommand, echoing its generation.
type ListResult struct {
	Generation uint64
	Names      []string
	Err        error
}

func (SelectIndicator) overlayMsg() {}
func (Add) overlayMsg()             {}
func (Remove) overlayMsg()          {}
func (Refresh) overlayMsg()         {}
func (AddResult) overlayMsg()       {}
func (RemoveResult) overlayMsg()    {}
func (ListResult) overlayMsg()      {}
