// Package locate maps each media file to at most one metadata record.
//
// [NewIndex] walks the working tree once and keys every record by the media
// name it describes (see [CanonicalRecordName]). A [Locator] then evaluates
// an ordered table of rules against the index, first match wins:
//
//	exact           candidate name in the file's own directory
//	paired-sibling  the other half of a live-photo pair, same directory;
//	                for videos also a record named after the still
//	                (IMG_1234.MP4 → IMG_1234.HEIC.json)
//	elsewhere       candidate name anywhere else in the tree
//
// Candidates come from the naming package and are tried in its order.
// Within one candidate, the shortest record name wins, then the
// lexicographically smallest. The index is read-only after construction,
// so a Locator is safe for concurrent use.
package locate
