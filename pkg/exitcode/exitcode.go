// Package exitcode holds the process statuses reported by rcc and rcc1.
// Values follow BSD sysexits(3).
package exitcode

type Code int

const (
	OK          Code = 0
	Usage       Code = 64 // command line usage error, help and version requests
	DataErr     Code = 65 // input data was malformed, e.g. lexical analysis failed
	Unavailable Code = 69 // a pipeline phase or external tool could not run
)

func (c Code) String() string {
	switch c {
	case OK:
		return "ok"
	case Usage:
		return "usage"
	case DataErr:
		return "data error"
	case Unavailable:
		return "unavailable"
	}
	return "unknown"
}
