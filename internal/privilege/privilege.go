// Package privilege guards commands that need root.
package privilege

import "github.com/juju/errors"

const ErrNotRoot = errors.ConstError("you must run this command with sudo or be the root user")

// Check returns ErrNotRoot unless euid is 0.
func Check(euid int) error {
	if euid != 0 {
		return errors.Annotatef(ErrNotRoot, "effective uid %d", euid)
	}
	return nil
}
