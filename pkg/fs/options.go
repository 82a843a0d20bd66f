package fs

// OpenOptions configures how a file is opened.
//
// The recognized combinations are:
//
//	{Create, Truncate, Write}  create-or-truncate, equivalent to Create
//	{Read}                     read-only, equivalent to Open
//	{Write}                    write-only on an existing file, cursor at 0,
//	                           contents preserved
//	{CreateNew, Write}         create, failing AlreadyExists if present
//	{Truncate, Write}          truncate an existing file on open
//
// Any other combination fails with an InvalidInput error.
type OpenOptions struct {
	Read      bool
	Write     bool
	Append    bool
	Truncate  bool
	Create    bool
	CreateNew bool
}
