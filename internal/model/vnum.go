// Package model holds the world's data types: rooms, exits, mobile and
// object templates/instances, zones, reset commands, and the character
// variants that occupy them.
package model

import "fmt"

// Vnum is a virtual number: a positive integer unique within its own
// namespace (room, mobile template, or object template). The three
// namespaces are distinct — a room vnum and a mobile vnum may collide
// without meaning anything.
type Vnum int

// NoVnum (-1) is the sentinel "no vnum" value used where a field is optional
// (e.g. an exit with no key).
const NoVnum Vnum = -1

func (v Vnum) String() string {
	return fmt.Sprintf("#%d", int(v))
}

// Zone computes the DikuMUD zone number a vnum belongs to: vnum / 100.
func (v Vnum) Zone() int {
	return int(v) / 100
}
