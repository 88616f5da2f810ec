package archive

import "github.com/juju/errors"

const (
	ErrSourceNotFound = errors.ConstError("the specified file or folder does not exist")
	ErrWholeSystem    = errors.ConstError("you cannot back up the whole system, look into system backup tools like Timeshift")
	ErrSymlinkSource  = errors.ConstError("symbolic links cannot be archived")
	ErrArchiveExists  = errors.ConstError("an archive with this name already exists")
)
