package building

import "time"

// Building is a directory entry backing the building filter picker.
type Building struct {
	ID        string
	Name      string
	Address   *string
	CreatedAt time.Time
}
