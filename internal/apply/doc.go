// Package apply writes a resolved record into a media file: filesystem
// timestamps first, then embedded capture time and GPS for images that can
// carry them.
//
// The two steps fail independently. A timestamp failure is fatal for the
// file (Failed); an embedded failure keeps the timestamps and reports
// PartialSuccess. A dry run takes the same decisions against reversible
// stand-ins: the file's own mtime is written back onto it, and the
// embedded write runs on a scratch copy, so outcome kinds match a live run.
package apply
