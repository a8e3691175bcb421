// Package recyclebin implements the soft-delete workflow of the gallery.
//
// Each media item moves through
//
//	ACTIVE --SoftDelete--> IN_BIN --Restore--> ACTIVE
//	IN_BIN --PermanentlyDelete / ResumeAfterConsent--> PURGED
//	IN_BIN --SweepExpired (ExpiresAt <= now)--> PURGED
//
// Every Engine operation is queued on a single serial worker and returns a
// taskq.Future, so operations on the same item apply in submission order and
// callers never block unless they Wait.
//
// Removing an underlying file is best-effort: a failed removal is logged and
// the bin record is dropped anyway, because an orphaned file is preferable to
// a record that can never be purged. The one exception is a removal that
// needs user consent, which leaves the record in place until
// ResumeAfterConsent.
package recyclebin
