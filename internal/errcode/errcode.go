package errcode

// Codes carried in push notifications:
//   - 0: no error
//   - 4xxx: the request cannot be served as asked, nothing is broken
//   - 5xxx: system errors that aborted the operation
const (
	OK              = 0
	ThemeMissing    = 4004
	ExportBusy      = 4009
	InvalidSnapshot = 4022
	SystemError     = 5000
)
