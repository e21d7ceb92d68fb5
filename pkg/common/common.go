package common

import (
	"errors"

	"github.com/alecthomas/kingpin/v2"
)

// FlagHolder is implemented by *kingpin.Application and *kingpin.CmdClause.
// Every configuration section registers its flags through it.
type FlagHolder interface {
	Flag(name, help string) *kingpin.FlagClause
}

// AsError is errors.As returning the match.
func AsError[T error](err error) (T, bool) {
	var target T
	ok := err != nil && errors.As(err, &target)
	return target, ok
}
