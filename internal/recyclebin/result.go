package recyclebin

// PurgeStatus is the outcome of a permanent deletion.
type PurgeStatus int

const (
	// PurgeDeleted: file removed and record deleted.
	PurgeDeleted PurgeStatus = iota + 1
	// PurgeNeedsConsent: nothing changed; call ResumeAfterConsent with Token.
	PurgeNeedsConsent
	// PurgeFailed: the file could not be removed but the record was deleted.
	PurgeFailed
	// PurgeDeclined: the user declined consent; nothing changed.
	PurgeDeclined
)

func (s PurgeStatus) String() string {
	switch s {
	case PurgeDeleted:
		return "deleted"
	case PurgeNeedsConsent:
		return "needs consent"
	case PurgeFailed:
		return "failed"
	case PurgeDeclined:
		return "declined"
	default:
		return "unknown"
	}
}

// PurgeResult describes what PermanentlyDelete or ResumeAfterConsent did.
type PurgeResult struct {
	Status PurgeStatus

	// Token is set for PurgeNeedsConsent.
	Token string

	// Reason is set for PurgeFailed.
	Reason error
}
