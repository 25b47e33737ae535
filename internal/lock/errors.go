package lock

const (
	unableToCreatePrefix = "Failed to create lock file - "
	unableToReadPrefix   = "Failed to read lock file - "
	inUsePrefix          = "Another instance of the application is already running as PID "
)

type AcquireError struct {
	reason     string
	createFail bool
	readFail   bool
	inUse      bool
	pid        int
}

func (o *AcquireError) Error() string {
	return o.reason
}

func (o *AcquireError) FailedToCreate() bool {
	return o.createFail
}

func (o *AcquireError) ReadFailed() bool {
	return o.readFail
}

func (o *AcquireError) AnotherInstanceOwnsLock() bool {
	return o.inUse
}

// OwnerPID is the PID found in a lock owned by another instance.
func (o *AcquireError) OwnerPID() int {
	return o.pid
}
