// Package msgs defines the messages exchanged between the watch kernel and
// its companion outside of the framed byte stream.
//
// Producer: watch kernel (events), companion (commands)
// Consumer: companion (events), watch kernel (commands)
package msgs
