package overlay

import (
	"context"
	"log"

	"github.com/dvrpc/tp-updater/internal/model"
)

// Command is a service call requested by Update.
type Command interface{ overlayCommand() }

// AddCommand marks Name as recently updated.
type AddCommand struct{ Name string }

// RemoveCommand clears Name's overlay.
type RemoveCommand struct{ Name string }

// ListCommand fetches the overlay listing, tagged with the generation it was
// issued at.
type ListCommand struct{ Generation uint64 }

func (AddCommand) overlayCommand()    {}
func (RemoveCommand) overlayCommand() {}
func (ListCommand) overlayCommand()   {}

// Run executes cmd against svc and returns the result message for Update.
func Run(ctx context.Context, svc model.OverlayService, cmd Command) Msg {
	switch c := cmd.(type) {
	case AddCommand:
		err := svc.Add(ctx, c.Name)
		logFailure("add", c.Name, err)
		return AddResult{Name: c.Name, Err: err}
	case RemoveCommand:
		err := svc.Remove(ctx, c.Name)
		logFailure("remove", c.Name, err)
		return RemoveResult{Name: c.Name, Err: err}
	case ListCommand:
		names, err := svc.List(ctx)
		logFailure("list", "", err)
		return ListResult{Generation: c.Generation, Names: names, Err: err}
	}
	return nil
}

func logFailure(op, name string, err error) {
	if err == nil {
		return
	}
	if name == "" {
		log.Printf("overlay: %s: %v", op, err)
		return
	}
	log.Printf("overlay: %s %q: %v", op, name, err)
}
