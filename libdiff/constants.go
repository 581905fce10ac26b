package libdiff

// Op is the kind of a text edit.
type Op string

const (
	Delete  Op = "delete"
	Insert  Op = "insert"
	Replace Op = "replace"
)

func (o Op) String() string { return string(o) }
