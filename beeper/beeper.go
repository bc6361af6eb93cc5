package beeper

import "github.com/pcbeep/go-beeper/beeper/speaker"

// Machine is the interface the command line front end drives.
type Machine interface {
	RunUnit() error
	Finished() bool
	Speaker() *speaker.Speaker
}

var _ Machine = (*Player)(nil)
