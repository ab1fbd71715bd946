// Package syncer applies generated artifacts to a destination tree by
// splicing marker-delimited regions. Content outside the markers belongs to
// the developer and is preserved byte-for-byte; corrupted markers make the
// file a conflict rather than a guess.
package syncer
